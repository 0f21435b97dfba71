package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind represents the category of error
type Kind string

const (
	// KindValidation indicates a rejected transition or invalid input
	KindValidation Kind = "validation"
	// KindInvalidRange indicates a PRNG range with max < min
	KindInvalidRange Kind = "invalid_range"
	// KindEmptyInput indicates a PRNG pick from an empty sequence
	KindEmptyInput Kind = "empty_input"
	// KindSemanticIntegrity indicates a state that breaks league invariants
	KindSemanticIntegrity Kind = "semantic_integrity"
	// KindNotFound indicates a league or entity was not found
	KindNotFound Kind = "not_found"
	// KindConflict indicates a concurrent write lost the race
	KindConflict Kind = "conflict"
	// KindInternal indicates an unexpected failure
	KindInternal Kind = "internal"
)

// AppError is the base error type for league errors
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{Kind: KindValidation, Message: message}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...any) error {
	return &AppError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidRange creates an invalid range error
func InvalidRange(message string) error {
	return &AppError{Kind: KindInvalidRange, Message: message}
}

// EmptyInput creates an empty input error
func EmptyInput(message string) error {
	return &AppError{Kind: KindEmptyInput, Message: message}
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...any) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf creates a conflict error with formatting
func Conflictf(format string, args ...any) error {
	return &AppError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// Issue is one violated invariant.
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s (%s): %s", i.Code, i.Path, i.Message)
}

// SemanticIntegrityError aggregates every invariant violation found in a
// candidate state.
type SemanticIntegrityError struct {
	Issues []Issue
}

func (e *SemanticIntegrityError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("semantic integrity check failed with %d issue(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// GetKind returns the kind of an error
func GetKind(err error) Kind {
	var integrity *SemanticIntegrityError
	if errors.As(err, &integrity) {
		return KindSemanticIntegrity
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return GetKind(err) == KindValidation
}

// Message returns the user-facing message of err, without wrapping context.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
