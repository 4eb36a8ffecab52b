package uploader

import "errors"

// Kind classifies an upload failure for programmatic handling.
type Kind string

const (
	KindInput          Kind = "input"
	KindInitialization Kind = "initialization"
	KindUpload         Kind = "upload"
	KindQuery          Kind = "query"
)

// Error is the only error type returned by Client. Message is the
// human-readable text shown to users unchanged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// KindOf returns the kind of an uploader error, or the empty kind when err
// did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
