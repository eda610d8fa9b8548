package vpic

import (
	"fmt"
	"net/http"
)

// TransportError wraps failures below HTTP: DNS, refused connections,
// timeouts and cancelled contexts.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteServiceError is returned for any non-200 response. Status is the
// reason phrase without the code.
type RemoteServiceError struct {
	StatusCode int
	Status     string
}

func (e *RemoteServiceError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	if status == "" {
		return fmt.Sprintf("remote service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned %d %s", e.StatusCode, status)
}

// ParseError means the body was not the expected JSON document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
