package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the kinds of failure the evolver can report
type ErrorCategory string

const (
	// Precondition violations raised by the core; never retried
	ErrorCategoryConfiguration          ErrorCategory = "CONFIG"
	ErrorCategoryEvaluationPrecondition ErrorCategory = "EVALUATION_PRECONDITION"
	ErrorCategoryArithmeticOverflow     ErrorCategory = "ARITHMETIC_OVERFLOW"
	ErrorCategoryOutOfRange             ErrorCategory = "OUT_OF_RANGE"

	// Failures on the outer surfaces (sinks, files, servers)
	ErrorCategoryReporting ErrorCategory = "REPORTING"
	ErrorCategoryIO        ErrorCategory = "IO"
)

// EvolutionError represents a categorized error with context
type EvolutionError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *EvolutionError) Error() string {
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
func (e *EvolutionError) Unwrap() error {
	return e.Underlying
}

// IsFatal reports whether the error must stop a run.
// Only reporting failures are tolerated by the driver loop.
func (e *EvolutionError) IsFatal() bool {
	return e.Category != ErrorCategoryReporting
}

// NewEvolutionError creates a new categorized error
func NewEvolutionError(category ErrorCategory, component, operation, message string) *EvolutionError {
	return &EvolutionError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with evolution error context
func WrapError(err error, category ErrorCategory, component, operation string) *EvolutionError {
	if err == nil {
		return nil
	}

	return &EvolutionError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *EvolutionError) WithContext(key string, value interface{}) *EvolutionError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// CategoryOf returns the category of the first EvolutionError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var evErr *EvolutionError
	if stderrors.As(err, &evErr) {
		return evErr.Category, true
	}
	return "", false
}

// IsCategory reports whether err carries the given category anywhere in its chain
func IsCategory(err error, category ErrorCategory) bool {
	for err != nil {
		var evErr *EvolutionError
		if !stderrors.As(err, &evErr) {
			return false
		}
		if evErr.Category == category {
			return true
		}
		err = evErr.Underlying
	}
	return false
}

// IsFatal reports whether err should stop a run. Errors that are not
// EvolutionErrors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var evErr *EvolutionError
	if stderrors.As(err, &evErr) {
		return evErr.IsFatal()
	}
	return true
}

// Common error constructors
func NewConfigurationError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryConfiguration, component, operation, message)
}

func NewEvaluationPreconditionError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryEvaluationPrecondition, component, operation, message)
}

func NewArithmeticOverflowError(component, operation, message string) *EvolutionError {
	return NewEvolutionError(ErrorCategoryArithmeticOverflow, component, operation, message)
}

func NewOutOfRangeError(component, operation string, requested, available int) *EvolutionError {
	return NewEvolutionError(ErrorCategoryOutOfRange, component, operation,
		fmt.Sprintf("requested %d organisms but only %d available", requested, available)).
		WithContext("requested", requested).
		WithContext("available", available)
}

func NewReportingError(component, operation string, err error) *EvolutionError {
	return WrapError(err, ErrorCategoryReporting, component, operation)
}

func NewIOError(component, operation string, err error) *EvolutionError {
	return WrapError(err, ErrorCategoryIO, component, operation)
}

// ErrorStats tracks error statistics for a run
type ErrorStats struct {
	TotalErrors      int
	ErrorsByCategory map[ErrorCategory]int
	RecentErrors     []*EvolutionError
	MaxRecentErrors  int
}

// NewErrorStats creates a new error statistics tracker
func NewErrorStats(maxRecentErrors int) *ErrorStats {
	return &ErrorStats{
		ErrorsByCategory: make(map[ErrorCategory]int),
		RecentErrors:     make([]*EvolutionError, 0, maxRecentErrors),
		MaxRecentErrors:  maxRecentErrors,
	}
}

// RecordError records an error in the statistics
func (es *ErrorStats) RecordError(err *EvolutionError) {
	if err == nil {
		return
	}
	es.TotalErrors++
	es.ErrorsByCategory[err.Category]++

	es.RecentErrors = append(es.RecentErrors, err)
	if len(es.RecentErrors) > es.MaxRecentErrors {
		es.RecentErrors = es.RecentErrors[1:]
	}
}
