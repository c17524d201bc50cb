package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/stipple/pkg/errors"
)

// ErrorBody is the JSON error payload.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return 499 // client closed request
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func newErrorBody(err error) ErrorBody {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		code = "TOO_LARGE"
	}
	return ErrorBody{Code: code, Message: errors.UserMessage(err)}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), newErrorBody(err))
}
