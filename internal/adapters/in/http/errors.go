package http

import (
	"errors"
	"net/http"

	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"
)

// apiError is the JSON error body of every non-2xx response.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps application errors onto HTTP status codes. Unrecognized
// errors become 500 and the message is not echoed to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, order.ErrIllegalStatusTransition):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrOrderingClosed):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrDependencyFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) (int, apiError) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal error"
	}
	return code, apiError{Code: code, Message: message}
}
