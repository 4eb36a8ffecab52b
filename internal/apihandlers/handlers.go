package apihandlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hush/internal/adapter"
	"hush/internal/app"
	"hush/internal/irys"
	"hush/internal/models"
	"hush/internal/services"

	"github.com/gin-gonic/gin"
)

// MaxPageSize caps the limit query parameter.
const MaxPageSize = 100

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(a *app.App) *APIHandler {
	return &APIHandler{App: a}
}

func (h *APIHandler) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Irys Confession Board API", "status": "running"})
}

func (h *APIHandler) HealthHandler(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.App.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "timestamp": now, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": now})
}

// --- Irys ---

func (h *APIHandler) NetworkInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, services.DevnetInfo(h.App.Config.Irys.GatewayURL))
}

type uploadRequest struct {
	Data json.RawMessage `json:"data"`
	Tags []irys.Tag      `json:"tags"`
}

func (h *APIHandler) IrysUploadHandler(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	resp := h.runAdapter(c, adapter.Request{Action: adapter.ActionUpload, Data: req.Data, Tags: req.Tags})
	if !resp.Success {
		UploadFailure(c, resp.Kind, resp.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tx_id":        resp.TxID,
		"gateway_url":  resp.GatewayURL,
		"explorer_url": resp.ExplorerURL,
		"timestamp":    resp.Timestamp,
		"verified":     true,
	})
}

func (h *APIHandler) IrysBalanceHandler(c *gin.Context) {
	h.respondAdapter(c, h.runAdapter(c, adapter.Request{Action: adapter.ActionBalance}))
}

func (h *APIHandler) IrysAddressHandler(c *gin.Context) {
	h.respondAdapter(c, h.runAdapter(c, adapter.Request{Action: adapter.ActionAddress}))
}

// runAdapter sends req through the same request/response protocol the
// `hush irys` command speaks, so both surfaces answer identically.
func (h *APIHandler) runAdapter(c *gin.Context, req adapter.Request) adapter.Response {
	input, err := json.Marshal(req)
	if err != nil {
		return adapter.Response{Error: err.Error()}
	}
	return adapter.Handle(c.Request.Context(), input, h.App.Uploader)
}

func (h *APIHandler) respondAdapter(c *gin.Context, resp adapter.Response) {
	if !resp.Success {
		UploadFailure(c, resp.Kind, resp.Error)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- Confessions ---

type createConfessionRequest struct {
	Content  string   `json:"content"`
	IsPublic *bool    `json:"is_public"`
	Author   string   `json:"author"`
	Mood     string   `json:"mood"`
	Tags     []string `json:"tags"`
	// ConfirmCrisis is sent after the author has seen the support screen.
	ConfirmCrisis bool `json:"confirm_crisis"`
}

func (h *APIHandler) CreateConfessionHandler(c *gin.Context) {
	var req createConfessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	res, err := h.App.ConfessionService.Create(c.Request.Context(), services.CreateParams{
		Content:         req.Content,
		IsPublic:        isPublic,
		Author:          req.Author,
		Mood:            req.Mood,
		Tags:            req.Tags,
		ConfirmedCrisis: req.ConfirmCrisis,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, struct {
		Status string `json:"status"`
		*services.CreateResult
	}{Status: "success", CreateResult: res})
}

func (h *APIHandler) ListPublicHandler(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultPublicLimit)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	list, err := h.App.ConfessionService.ListPublic(c.Request.Context(), limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	list = nonNil(list)
	c.JSON(http.StatusOK, gin.H{"confessions": list, "count": len(list), "offset": offset, "limit": limit})
}

func (h *APIHandler) GetConfessionHandler(c *gin.Context) {
	conf, err := h.App.ConfessionService.Get(c.Request.Context(), c.Param("tx_id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

type voteRequest struct {
	VoteType    string `json:"vote_type"`
	UserAddress string `json:"user_address"`
}

func (h *APIHandler) VoteHandler(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	tally, err := h.App.ConfessionService.Vote(c.Request.Context(), c.Param("tx_id"), req.VoteType, req.UserAddress)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   req.VoteType + " recorded",
		"upvotes":   tally.Upvotes,
		"downvotes": tally.Downvotes,
	})
}

func (h *APIHandler) TrendingHandler(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultTrendingLimit)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	list, err := h.App.ConfessionService.Trending(c.Request.Context(), limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	list = nonNil(list)
	c.JSON(http.StatusOK, gin.H{"confessions": list, "count": len(list)})
}

type analyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *APIHandler) AnalyzeHandler(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	ca, decision, err := h.App.ConfessionService.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": ca, "support": decision})
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s parameter: must be a non-negative integer", name)
	}
	if name == "limit" {
		if n == 0 {
			n = def
		}
		n = min(n, MaxPageSize)
	}
	return n, nil
}

func nonNil(list []*models.Confession) []*models.Confession {
	if list == nil {
		return []*models.Confession{}
	}
	return list
}
