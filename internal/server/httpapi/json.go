package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/controlpanel/internal/common"
	"github.com/dmitrijs2005/controlpanel/internal/logging"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as an ErrorResponse carrying the request id. 5xx
// causes are logged here so handlers can simply return.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := toHTTP(err)
	body.RequestID = r.Header.Get(RequestIDHeader)

	if status >= http.StatusInternalServerError {
		logging.From(r.Context(), a.logger).Error(r.Context(), "request failed", "error", err.Error())
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
		a.metrics.AuthFailures.WithLabelValues(body.Code).Inc()
	}
	writeJSON(w, status, ErrorResponse{Error: body})
}

// decodeJSON reads exactly one JSON object of at most maxBodyBytes with no
// unknown fields. Failures come back as *common.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return invalidBody(errors.New("empty body"))
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return invalidBody(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return invalidBody(errors.New("extra data after JSON object"))
	}
	return nil
}

func invalidBody(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return common.NewValidationError(common.CodeInvalidRequest, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
	}
	if errors.Is(err, io.EOF) {
		return common.NewValidationError(common.CodeInvalidRequest, "request body is empty")
	}
	return common.NewValidationError(common.CodeInvalidRequest, "malformed JSON body: "+err.Error())
}
