// Package errinfo classifies failures and turns them into the text a user
// sees. Raw errors never reach the screen; they go to the log instead.
package errinfo

import (
	"context"
	"errors"
	"fmt"

	"multitool/internal/backend"
	"multitool/internal/models"
)

// ValidationError is bad local input, caught before any network call.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

func Validation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Detail: fmt.Sprintf(format, args...)}
}

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNetwork
	KindHTTP
	KindLogical
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindLogical:
		return "logical"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Classify reports which of the error kinds err belongs to. Wrapping
// (including backend.UploadError) is looked through.
func Classify(err error) Kind {
	var (
		validation *ValidationError
		httpErr    *backend.HTTPError
		netErr     *backend.NetworkError
		logical    *backend.LogicalError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &logical):
		return KindLogical
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindUnknown
	}
}

const (
	chatBackendError = "Sorry, I encountered an error: %s"
	chatUnreachable  = "Sorry, I'm having trouble connecting to the AI backend. Please make sure the Python server is running."

	pdfFailed      = "Failed to process PDF: %s"
	pdfUnreachable = "could not reach the AI backend. Please make sure the Python server is running."
	unknownFailure = "Unknown error occurred"
)

// UserMessage renders err for the given tool's detail view.
func UserMessage(tool models.ToolID, err error) string {
	if err == nil {
		return ""
	}
	if tool == models.ToolAIChat {
		return chatMessage(err)
	}
	return pdfMessage(err)
}

func chatMessage(err error) string {
	switch Classify(err) {
	case KindValidation:
		var v *ValidationError
		errors.As(err, &v)
		return v.Detail
	case KindLogical:
		var l *backend.LogicalError
		errors.As(err, &l)
		msg := l.Message
		if msg == "" {
			msg = unknownFailure
		}
		return fmt.Sprintf(chatBackendError, msg)
	case KindHTTP:
		var h *backend.HTTPError
		errors.As(err, &h)
		return fmt.Sprintf(chatBackendError, httpSummary(h))
	default:
		return chatUnreachable
	}
}

func pdfMessage(err error) string {
	switch Classify(err) {
	case KindValidation:
		var v *ValidationError
		errors.As(err, &v)
		return v.Detail
	case KindLogical:
		// The backend's own wording is shown verbatim.
		var l *backend.LogicalError
		errors.As(err, &l)
		if l.Message == "" {
			return unknownFailure
		}
		return l.Message
	case KindHTTP:
		var h *backend.HTTPError
		errors.As(err, &h)
		return fmt.Sprintf(pdfFailed, httpSummary(h))
	case KindNetwork, KindCanceled:
		return fmt.Sprintf(pdfFailed, pdfUnreachable)
	default:
		return fmt.Sprintf(pdfFailed, unknownFailure)
	}
}

func httpSummary(h *backend.HTTPError) string {
	if h.Detail != "" {
		return fmt.Sprintf("%s (HTTP %d)", h.Detail, h.Status)
	}
	return fmt.Sprintf("the backend returned HTTP %d", h.Status)
}
