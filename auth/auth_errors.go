package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
)

// Error kinds surfaced by the Client. Match them with errors.Is.
var (
	NetworkErr        = apperrors.ErrNetwork
	AuthenticationErr = apperrors.ErrAuthentication
	ValidationErr     = apperrors.ErrValidation
	MalformedTokenErr = apperrors.ErrMalformedToken
	TimeoutErr        = apperrors.ErrTimeout
	NoSessionErr      = apperrors.ErrNoSession
)

// APIError is a non-2xx response from the remote API. It unwraps to the
// error kind the status code maps to.
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", e.kind, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// newAPIError maps a status code to an error kind:
// 401 and 403 reject credentials, any other 4xx rejects the payload and
// anything else is treated as a failure to reach a working API.
func newAPIError(statusCode int, body []byte) *APIError {
	kind := NetworkErr
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		kind = AuthenticationErr
	case statusCode >= 400 && statusCode < 500:
		kind = ValidationErr
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    apiErrorMessage(body),
		kind:       kind,
	}
}

// apiErrorMessage reads {"message": "..."} or {"message": ["...", "..."]}
// and falls back to the raw body.
func apiErrorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}

	var single string
	if err := json.Unmarshal(payload.Message, &single); err == nil && single != "" {
		return single
	}
	var many []string
	if err := json.Unmarshal(payload.Message, &many); err == nil && len(many) > 0 {
		return strings.Join(many, "; ")
	}
	return payload.Error
}
