// Package apierr turns the ways a call to the inference service can fail
// into one category and one message a user can read.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryValidation Category = "validation"
	CategoryNetwork    Category = "network"
	CategoryHTTP       Category = "http"
	CategoryParse      Category = "parse"
	CategoryUnknown    Category = "unknown"
)

const (
	networkMessage = "Network error: Unable to connect to the API. Please check your internet connection or try again later."
	corsMessage    = "CORS error: Unable to connect to the API. This might be due to a cross-origin request issue."
	unknownMessage = "An unknown error occurred"
)

// Error is a classified failure. Status is 0 when no response was received.
type Error struct {
	Category Category
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether the failure is a transport or cross-origin one.
func (e *Error) IsNetwork() bool {
	return e.Category == CategoryNetwork
}

// Failure is a transport-independent description of what a call observed.
type Failure struct {
	// Err is set when no response arrived at all.
	Err error
	// Status is the HTTP status code, 0 if the response was opaque or missing.
	Status int
	// Opaque marks a response whose contents could not be inspected.
	Opaque bool
	// Body is the response text, read best-effort.
	Body string
	// BodyErr is set when reading the body failed.
	BodyErr error
}

// Classify maps a failure to its category and message. A network signal
// always beats an HTTP one.
func Classify(f Failure) *Error {
	switch {
	case f.Err != nil && f.Status == 0 && !f.Opaque:
		return &Error{Category: CategoryNetwork, Message: networkMessage, Err: f.Err}
	case f.Opaque || f.Status == 0:
		return &Error{Category: CategoryNetwork, Status: f.Status, Message: corsMessage, Err: f.Err}
	}

	msg := fmt.Sprintf("HTTP error! status: %d", f.Status)
	if f.BodyErr == nil && f.Body != "" {
		msg = fmt.Sprintf("%s - %s", msg, f.Body)
	}
	return &Error{Category: CategoryHTTP, Status: f.Status, Message: msg, Err: f.BodyErr}
}

func Validation(msg string) *Error {
	return &Error{Category: CategoryValidation, Message: msg}
}

// Parse wraps a failure to decode an otherwise successful response.
func Parse(err error) *Error {
	return &Error{
		Category: CategoryParse,
		Message:  fmt.Sprintf("failed to parse response: %v", err),
		Err:      err,
	}
}

// CategoryOf returns the category of err, CategoryUnknown for unclassified errors.
func CategoryOf(err error) Category {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Category
	}
	return CategoryUnknown
}

// UserMessage is the single string shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.IsNetwork() {
			return fmt.Sprintf("CORS Error: %s. Try refreshing the page or contact support if the issue persists.",
				strings.TrimSuffix(apiErr.Message, "."))
		}
		return apiErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownMessage
}

// Remediation lists what a user can try after a network failure.
func Remediation() []string {
	return []string{
		"Refresh the page and try again",
		"Check your internet connection",
		"Contact support if the issue persists",
	}
}
