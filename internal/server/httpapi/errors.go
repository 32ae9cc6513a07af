package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/controlpanel/internal/common"
)

// StatusClientClosedRequest is the non-standard code for a client that went away.
const StatusClientClosedRequest = 499

// APIError is the error body sent to clients. Details lists every
// violation of a rejected request.
type APIError struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// toHTTP maps a service error to a status and a body that leaks no internals.
// Validation and conflict failures share the 400 class; every authentication
// failure is a 401.
func toHTTP(err error) (int, APIError) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		msg := "invalid request"
		if len(ve.Violations) > 0 {
			msg = strings.Join(ve.Violations, "; ")
		}
		return http.StatusBadRequest, APIError{Code: ve.Code, Message: msg, Details: ve.Violations}
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, APIError{Code: "already_registered", Message: "email already registered"}
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, APIError{Code: "invalid_credentials", Message: "incorrect email or password"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, APIError{Code: "unauthenticated", Message: "invalid authentication credentials"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, APIError{Code: "deadline_exceeded", Message: "deadline exceeded"}
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, APIError{Code: "canceled", Message: "canceled"}
	default:
		return http.StatusInternalServerError, APIError{Code: "internal", Message: "internal error"}
	}
}
