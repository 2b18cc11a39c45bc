package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError is returned when the catalog API responds with a non-2xx
// status. It carries the parsed server error envelope.
type HTTPError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
	Messages   []string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "catalog api error"
	}
	return fmt.Sprintf("catalog api error: %s: %s", e.Status, e.Report())
}

// Report returns the server-provided failure text. The messages list, when
// populated, takes precedence over the single message and is joined as a
// multi-line report.
func (e *HTTPError) Report() string {
	if e == nil {
		return ""
	}
	if len(e.Messages) > 0 {
		return strings.Join(e.Messages, "\n")
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Status
}

// TransportError is returned for connectivity-level faults (DNS, refused
// connection, timeout) where no HTTP response was observed.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when the API answers with a success
// status but a body that cannot be decoded into the expected shape.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports whether the error represents a 401 or 403.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized ||
			httpErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsTransport reports whether the error is a connectivity failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsMalformed reports whether a success response failed to decode.
func IsMalformed(err error) bool {
	var malformedErr *MalformedResponseError
	return errors.As(err, &malformedErr)
}
