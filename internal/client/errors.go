package client

import (
	"errors"
	"fmt"
)

// HTTPError is a transport-level failure: a non-2xx response or a network
// error. Detail carries the server-provided error message when one was
// present in the response body.
type HTTPError struct {
	// StatusCode is the HTTP status, or 0 when the request never got a
	// response (connection refused, DNS failure, ...).
	StatusCode int
	// Detail is the server's "detail" field, if the error body had one.
	Detail string
	// Err is the underlying transport error for status 0 failures.
	Err error
}

func (e *HTTPError) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("request failed: %v", e.Err)
	case e.Detail != "":
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NotFound reports whether the error is an HTTP 404.
func (e *HTTPError) NotFound() bool { return e.StatusCode == 404 }

// Conflict reports whether the server rejected the request because the
// resource already exists (duplicate tag name).
func (e *HTTPError) Conflict() bool { return e.StatusCode == 409 }

// ValidationError means the server response did not match the expected
// entity shape. This is a contract bug, not a user error: nothing from the
// offending response enters the cache.
type ValidationError struct {
	// Resource names what was being parsed ("bookmark", "collection list", ...).
	Resource string
	// Err is the underlying decode or schema failure.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s in server response: %v", e.Resource, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AsHTTPError unwraps err to an *HTTPError if there is one in its chain.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
