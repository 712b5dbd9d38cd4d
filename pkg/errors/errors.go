package errors

import (
	"fmt"
)

// ParseError represents a failure to decode a configuration file or renderer output.
type ParseError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(source string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Source: source, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Source, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration issues. These are always fatal and
// are raised before any external side effect takes place.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a failed external command invocation.
type ExecutionError struct {
	Command string
	Err     error
}

// NewExecutionError constructs an ExecutionError for the named command.
func NewExecutionError(command string, err error) error {
	return &ExecutionError{Command: command, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("execution error running %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DependencyError indicates a required external binary is unavailable.
type DependencyError struct {
	Binary  string
	Message string
	Err     error
}

// NewDependencyError constructs a DependencyError for the given binary path.
func NewDependencyError(binary string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &DependencyError{Binary: binary, Message: message, Err: err}
}

func (e *DependencyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Binary != "" {
		return fmt.Sprintf("dependency error [%s]: %s", e.Binary, e.Message)
	}
	return fmt.Sprintf("dependency error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *DependencyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
