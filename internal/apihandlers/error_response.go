package apihandlers

import (
	"errors"
	"net/http"

	"hush/internal/crisis"
	"hush/internal/models"
	"hush/internal/services"
	"hush/internal/uploader"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// APIError defines standard error response
// Example: { "error": { "code": "bad_request", "message": "Invalid vote type" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

type errorResponse struct {
	Error   APIError         `json:"error"`
	Support *crisis.Decision `json:"support,omitempty"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func Conflict(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusConflict, "conflict", msg)
}

// CrisisSupport answers a held submission with the support decision.
func CrisisSupport(ctx *gin.Context, d crisis.Decision) {
	ctx.JSON(http.StatusConflict, errorResponse{
		Error:   APIError{Code: "crisis_support", Message: d.Message},
		Support: &d,
	})
}

// UploadFailure reports an upload client error with its kind. Input errors
// are the caller's fault; everything else is ours.
func UploadFailure(ctx *gin.Context, kind uploader.Kind, msg string) {
	status, code := http.StatusInternalServerError, "upload_failed"
	if kind == uploader.KindInput {
		status, code = http.StatusBadRequest, "bad_request"
	}
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg, Kind: string(kind)}})
}

// ServiceError maps a confession service error onto a response.
func ServiceError(ctx *gin.Context, err error) {
	var (
		validation *services.ValidationError
		blocked    *services.CrisisBlockedError
	)
	switch {
	case errors.As(err, &validation):
		BadRequest(ctx, validation.Message)
	case errors.As(err, &blocked):
		CrisisSupport(ctx, blocked.Decision)
	case errors.Is(err, models.ErrNotFound):
		NotFound(ctx, "Confession not found")
	case errors.Is(err, models.ErrAlreadyVoted):
		Conflict(ctx, "User already voted")
	case uploader.KindOf(err) != "":
		UploadFailure(ctx, uploader.KindOf(err), err.Error())
	default:
		log.WithError(err).WithField("path", ctx.FullPath()).Error("Request failed")
		Internal(ctx, err.Error())
	}
}
