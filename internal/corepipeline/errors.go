// Package corepipeline defines the pipeline execution engine's domain
// types: the immutable Pipeline/Step graph, the mutable ExecutionContext
// threaded through a run, and the terminal StepResult/ExecutionResult
// records.
package corepipeline

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a well-known category of domain error.
type ErrorCode string

const (
	// ErrCodeAction means a step's invoke (or configure) call failed.
	ErrCodeAction ErrorCode = "ACTION_ERROR"
	// ErrCodeCanceled means the cancellation signal was observed.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeRouting means a fatal pipeline-definition error was observed
	// at runtime: an unknown step, an unresolvable action, or an empty
	// pipeline.
	ErrCodeRouting ErrorCode = "ROUTING_ERROR"
	// ErrCodeMapping means the input mapper failed to produce a value.
	ErrCodeMapping ErrorCode = "MAPPING_ERROR"
	// ErrCodeConfig means a pipeline definition failed to load or validate
	// before construction; it never reaches the engine.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeValidation means a domain value failed a structural invariant.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNotFound means a lookup by key or name found nothing.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal means an invariant the engine itself should have
	// prevented was violated.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DomainError is a typed error enriched with contextual data, free of any
// infrastructure dependency.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is allows errors.Is comparisons against other DomainError values by code
// and message.
func (e *DomainError) Is(target error) bool {
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	return e.Code == domainErr.Code && e.Message == domainErr.Message
}

// WithContext returns a copy of the error with additional contextual
// metadata merged in.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{Code: e.Code, Message: e.Message, Cause: e.Cause, Context: merged}
}

func newDomainError(code ErrorCode, message string, cause error, context map[string]interface{}) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause, Context: context}
}

// NewActionError wraps a step's invoke/configure failure.
func NewActionError(message string, cause error) *DomainError {
	return newDomainError(ErrCodeAction, message, cause, nil)
}

// NewCanceledError reports that the cancellation signal was observed.
func NewCanceledError(message string) *DomainError {
	return newDomainError(ErrCodeCanceled, message, nil, nil)
}

// NewRoutingError reports a fatal pipeline-definition error discovered at
// runtime.
func NewRoutingError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeRouting, message, nil, context)
}

// NewMappingError reports an input-mapping failure.
func NewMappingError(message string, cause error) *DomainError {
	return newDomainError(ErrCodeMapping, message, cause, nil)
}

// NewConfigError reports a pipeline-definition load/validate failure.
func NewConfigError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeConfig, message, nil, context)
}

func newValidationError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeValidation, message, nil, context)
}

func newMissingFieldError(field string) *DomainError {
	return newDomainError(ErrCodeValidation, "missing required field", nil, map[string]interface{}{"field": field})
}

func newDuplicateError(identifier string) *DomainError {
	return newDomainError(ErrCodeValidation, "duplicate step key", nil, map[string]interface{}{"key": identifier})
}

func newDanglingReferenceError(field, from, to string) *DomainError {
	return newDomainError(ErrCodeValidation, "step reference points to an undefined step", nil, map[string]interface{}{
		"field": field,
		"from":  from,
		"to":    to,
	})
}

// NewNotFoundError reports a lookup miss by key or name.
func NewNotFoundError(kind, key string) *DomainError {
	return newDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", kind), nil, map[string]interface{}{"key": key})
}
