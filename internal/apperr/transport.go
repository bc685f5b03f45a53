package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// LoginPath is where an expired session sends the user.
const LoginPath = "/login"

// ErrUnauthorized is returned for any 401 from the backend.
var ErrUnauthorized = errors.New("session expired")

type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type HTTPStatusError struct {
	Code    int
	Message string
}

func (e *HTTPStatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Code, http.StatusText(e.Code))
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == http.StatusUnauthorized
}

// JobError carries the message a backend reported for a failed job.
type JobError struct {
	JobID   string
	Message string
}

const DefaultJobErrorMessage = "unknown error while processing"

func (e *JobError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultJobErrorMessage
	}
	return fmt.Sprintf("job %s: %s", e.JobID, msg)
}

type PollTimeoutError struct {
	JobID    string
	Attempts int
	Cause    error
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s: gave up after %d status checks", e.JobID, e.Attempts)
}

func (e *PollTimeoutError) Unwrap() error {
	return e.Cause
}

type Kind string

const (
	KindValidation   Kind = "validation"
	KindTransport    Kind = "transport"
	KindHTTPStatus   Kind = "http_status"
	KindJob          Kind = "job"
	KindUnauthorized Kind = "unauthorized"
	KindTimeout      Kind = "timeout"
	KindCanceled     Kind = "canceled"
	KindUnknown      Kind = "unknown"
)

// Classify maps an error chain onto the client error taxonomy.
func Classify(err error) Kind {
	var (
		ve *ValidationError
		te *TransportError
		he *HTTPStatusError
		je *JobError
		pe *PollTimeoutError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.As(err, &pe):
		return KindTimeout
	case errors.As(err, &je):
		return KindJob
	case errors.As(err, &he):
		return KindHTTPStatus
	case errors.As(err, &ve):
		return KindValidation
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &te):
		return KindTransport
	default:
		return KindUnknown
	}
}
