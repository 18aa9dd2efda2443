package services

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrValidation    = errors.New("validation")
	ErrTransport     = errors.New("transport")
	ErrResponseShape = errors.New("response shape")
	ErrTracking      = errors.New("tracking")

	ErrEmptyResponse     = errors.New("empty response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrMissingMatches    = errors.New("missing matches")
	ErrMissingTracking   = errors.New("missing tracking identifiers")

	ErrMatchInFlight   = errors.New("a match request is already in progress")
	ErrSessionNotFound = errors.New("session not found")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ServiceError carries the message shown to the agent and wraps the error
// kind plus an optional cause, so errors.Is works against both.
type ServiceError struct {
	Kind    error
	Cause   error
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func (e *ServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func NewError(kind, cause error, message string) *ServiceError {
	return &ServiceError{Kind: kind, Cause: cause, Message: message}
}

func Validation(message string) *ServiceError {
	return NewError(ErrValidation, nil, message)
}

func OutOfRange(what string, index int) *ServiceError {
	return NewError(ErrValidation, ErrIndexOutOfRange, fmt.Sprintf("No %s at index %d", what, index))
}

func ResponseShape(cause error, message string) *ServiceError {
	return NewError(ErrResponseShape, cause, message)
}

func Transport(cause error, message string) *ServiceError {
	return NewError(ErrTransport, cause, message)
}

// UploadError is returned when the storage endpoint answers with a non-2xx status.
type UploadError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("Cloudflare upload failed: %d %s - %s", e.StatusCode, e.Status, e.Body)
}

func (e *UploadError) Unwrap() error { return ErrTransport }

// statusText mirrors the fetch API's statusText: the reason phrase without the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
