package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Messages used for the statusCode 0 transport class.
const (
	MessageTimeout        = "Request timeout"
	MessageNetworkFailure = "Network request failed"
)

// APIError is the single failure shape returned by the client. StatusCode is 0
// for transport failures (timeout or network) and the HTTP status otherwise.
type APIError struct {
	Message    string
	StatusCode int
	Body       any
	URL        string

	cause error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.URL == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.URL)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// IsTransport reports a timeout or network failure.
func (e *APIError) IsTransport() bool { return e != nil && e.StatusCode == 0 }

// IsTimeout reports a request that exceeded its deadline.
func (e *APIError) IsTimeout() bool { return e.IsTransport() && e.Message == MessageTimeout }

// IsUnauthorized reports a 401 response.
func (e *APIError) IsUnauthorized() bool {
	return e != nil && e.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports a 403 response.
func (e *APIError) IsForbidden() bool { return e != nil && e.StatusCode == http.StatusForbidden }

// AsAPIError extracts an *APIError from err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the status carried by err, or -1 when err is not an APIError.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return -1
}

func newTransportError(url string, timedOut bool, cause error) *APIError {
	msg := MessageNetworkFailure
	if timedOut {
		msg = MessageTimeout
	}
	return &APIError{Message: msg, StatusCode: 0, URL: url, cause: cause}
}

func newStatusError(url string, status int, body any) *APIError {
	var msg string
	switch status {
	case http.StatusUnauthorized:
		msg = "Unauthorized"
	case http.StatusForbidden:
		msg = "Forbidden"
	default:
		msg = fmt.Sprintf("API Error (%d)", status)
	}
	return &APIError{Message: msg, StatusCode: status, Body: body, URL: url}
}
