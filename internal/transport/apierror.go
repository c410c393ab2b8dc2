package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a backend-reported failure: a non-2xx response with a JSON
// error body. It is distinct from a network failure, which surfaces as the
// underlying transport error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// IsIncorrectPassword reports whether the error is a rejected password
// challenge, which callers must surface distinctly from generic failure.
func (e *APIError) IsIncorrectPassword() bool {
	return e.Status == http.StatusForbidden
}

// IsUnavailable reports whether the backend feature is not configured
// (e.g. the AI chat without an API key).
func (e *APIError) IsUnavailable() bool {
	return e.Status == http.StatusServiceUnavailable
}

// AsAPIError unwraps an *APIError if the error carries one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// apiErrorFrom builds an APIError from a non-2xx response, pulling the
// message out of the standard error envelope when present.
func apiErrorFrom(resp *http.Response) *APIError {
	ae := &APIError{Status: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return ae
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &envelope) == nil {
		if envelope.Error != "" {
			ae.Message = envelope.Error
		} else {
			ae.Message = envelope.Message
		}
	}
	return ae
}
