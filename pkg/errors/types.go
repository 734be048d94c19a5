package errors

import (
	"fmt"
	"strings"
)

// NotFoundError names a missing resource, usually a dataset file that
// `reelmap fetch` has not produced yet.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// SchemaError lists the required columns absent from an input table.
// Missing keeps the order in which the columns were declared.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	cols := strings.Join(e.Missing, ", ")
	if e.Table == "" {
		return "required columns absent: " + cols
	}
	return fmt.Sprintf("%s: required columns absent: %s", e.Table, cols)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func NewSchemaError(table string, missing []string) *SchemaError {
	return &SchemaError{Table: table, Missing: missing}
}

// ValidationError rejects a flag, config key or argument.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError is a failed response from a dataset host. The status code
// decides which sentinel it matches.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Source, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	sentinel := statusSentinel(e.StatusCode)
	return sentinel != nil && target == sentinel
}

func NewAPIError(source string, statusCode int, message string) *APIError {
	return &APIError{Source: source, StatusCode: statusCode, Message: message}
}

// ConfigError is a config file or environment problem found at startup.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "config: " + e.Message
	}
	return fmt.Sprintf("config %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError locates malformed input. Format is one of "csv", "tsv",
// "literal", "yaml" or "zip". Line and Column are 1-based for files;
// for a literal Column is the byte offset into the field text.
type ParseError struct {
	Format  string
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var where string
	switch {
	case e.File != "" && e.Line > 0:
		where = fmt.Sprintf(" at %s:%d:%d", e.File, e.Line, e.Column)
	case e.File != "":
		where = " in " + e.File
	case e.Column > 0:
		where = fmt.Sprintf(" at offset %d", e.Column)
	}
	return fmt.Sprintf("%s parse error%s: %s", e.Format, where, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// IOError is a filesystem failure while reading datasets or writing exports.
type IOError struct {
	Operation string
	Path      string
	Message   string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, e.Path, e.Message)
}

func (e *IOError) Unwrap() error { return e.Err }

func NewIOError(operation, path string, err error) *IOError {
	return &IOError{Operation: operation, Path: path, Message: message(err), Err: err}
}

// ResourceError ties a failure to a pipeline step and the dataset it was
// working on, e.g. Operation "load", Resource "links".
type ResourceError struct {
	Operation string
	Resource  string
	ID        string
	Message   string
	Err       error
}

func (e *ResourceError) Error() string {
	subject := e.Resource
	if e.ID != "" {
		subject += " " + e.ID
	}
	return fmt.Sprintf("%s %s: %s", e.Operation, subject, e.Message)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func NewResourceError(operation, resource, id string, err error) *ResourceError {
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Message: message(err), Err: err}
}

// AuthenticationError reports absent or rejected credentials for a source.
type AuthenticationError struct {
	Source  string
	Method  string
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s %s auth: %s", e.Source, e.Method, e.Message)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

func (e *AuthenticationError) Is(target error) bool { return target == ErrCredentialsMissing }

func NewAuthenticationError(source, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{Source: source, Method: method, Message: message, Err: err}
}

// TimeoutError reports a download or pipeline run that exceeded its deadline.
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

func (e *TimeoutError) Error() string {
	if e.Duration == "" {
		return fmt.Sprintf("%s timed out: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s timed out after %s: %s", e.Operation, e.Duration, e.Message)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{Operation: operation, Duration: duration, Message: message}
}
