package service

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError is returned when a request never produced an HTTP response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "network error"
	}
	return fmt.Sprintf("network error: %s", e.Err.Error())
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamError is returned when the catalog API responds with a non-2xx status.
type UpstreamError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e == nil {
		return "catalog api error"
	}
	if e.Message == "" {
		return fmt.Sprintf("catalog api error: %s", e.Status)
	}
	return fmt.Sprintf("catalog api error: %s: %s", e.Status, e.Message)
}

// NotFoundError is returned when a movie detail lookup targets an unknown id.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "not found"
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AuthError is returned when the auth API rejects a request, typically for invalid credentials.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e == nil || e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

// InvalidArgumentError rejects a request before any I/O happens.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsNotFound reports whether the error represents a 404 from either API.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode == http.StatusNotFound
	}
	return false
}

// IsNetwork reports whether the error is a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
