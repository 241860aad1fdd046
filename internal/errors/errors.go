package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Raised while building components; never retried
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
	ErrorCategoryValidation    ErrorCategory = "VALIDATION"

	// Raised at the data boundary (loading, ordering)
	ErrorCategoryData ErrorCategory = "DATA"

	// Raised by output sinks (files, workbooks)
	ErrorCategoryReporting ErrorCategory = "REPORTING"
)

// EngineError represents a categorized error with context
type EngineError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *EngineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// NewEngineError creates a new categorized error
func NewEngineError(category ErrorCategory, component, operation, message string) *EngineError {
	return &EngineError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with engine error context
func WrapError(err error, category ErrorCategory, component, operation string) *EngineError {
	if err == nil {
		return nil
	}
	e := NewEngineError(category, component, operation, "operation failed")
	e.Underlying = err
	return e
}

// WithContext adds context information to the error
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewConfigurationError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryConfiguration, component, operation, message)
}

func NewValidationError(component, operation, message string) *EngineError {
	return NewEngineError(ErrorCategoryValidation, component, operation, message)
}

func NewDataError(component, operation string, err error) *EngineError {
	return WrapError(err, ErrorCategoryData, component, operation)
}

func NewReportingError(component, operation string, err error) *EngineError {
	return WrapError(err, ErrorCategoryReporting, component, operation)
}

// IsCategory reports whether err carries an EngineError of the given category
func IsCategory(err error, category ErrorCategory) bool {
	var e *EngineError
	if stderrors.As(err, &e) {
		return e.Category == category
	}
	return false
}

// IsConfigurationError reports whether err was raised while building a component
func IsConfigurationError(err error) bool {
	return IsCategory(err, ErrorCategoryConfiguration)
}
