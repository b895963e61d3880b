package services

import (
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindValidation   ErrorKind = "VALIDATION"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindConflict     ErrorKind = "CONFLICT"
)

// Error codes surfaced to clients. InvalidState codes name the lifecycle
// condition that blocked the mutation.
const (
	CodeRequestNotFound   = "REQUEST_NOT_FOUND"
	CodeRequestCompleted  = "REQUEST_COMPLETED"
	CodeRequestCancelled  = "REQUEST_CANCELLED"
	CodeInvestmentRemoved = "INVESTMENT_REMOVED"
	CodeNotAllowed        = "NOT_ALLOWED"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeConflictExhausted = "UPDATE_RETRIES_EXHAUSTED"
	CodeSchedulerError    = "SCHEDULER_UNAVAILABLE"
)

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CommandError is the terminal failure of a command. Every taxonomy
// kind maps to a distinct client-facing status; Violations is populated
// only for KindValidation and always carries the full list.
type CommandError struct {
	Kind       ErrorKind
	Code       string
	Message    string
	Violations []Violation
}

func (e *CommandError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("%s: %s", e.Code, strings.Join(parts, "; "))
}

func errNotFound() *CommandError {
	return &CommandError{
		Kind:    KindNotFound,
		Code:    CodeRequestNotFound,
		Message: "no request (or sub-resource) exists under the given reference",
	}
}

func errForbidden() *CommandError {
	return &CommandError{
		Kind:    KindForbidden,
		Code:    CodeNotAllowed,
		Message: "caller is neither the resource owner nor in a permitted role",
	}
}

func errInvalidState(code, message string) *CommandError {
	return &CommandError{Kind: KindInvalidState, Code: code, Message: message}
}

func errValidation(violations []Violation) *CommandError {
	return &CommandError{
		Kind:       KindValidation,
		Code:       CodeValidationError,
		Message:    "one or more input fields are invalid",
		Violations: violations,
	}
}

func errConflictExhausted() *CommandError {
	return &CommandError{
		Kind:    KindConflict,
		Code:    CodeConflictExhausted,
		Message: "update retry budget exceeded under sustained version conflicts",
	}
}
