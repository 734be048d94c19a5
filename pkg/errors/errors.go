// Package errors defines the typed failures of the reelmap pipeline.
//
// Only structural problems travel as errors: an input table without its
// required columns, a dataset that was never fetched, a remote host that
// rejects the request. Bad values inside a record are absorbed as nulls by
// the stage that reads them and never surface here.
//
// Every type maps onto one of the sentinels below, so callers test with
// errors.Is (or the Is* shorthands) and reach the details with errors.As.
package errors

import (
	"errors"
	"net/http"
)

// New is errors.New, re-exported so callers need a single import.
var New = errors.New

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSchema             = errors.New("schema mismatch")
	ErrCredentialsMissing = errors.New("credentials missing")
	ErrSourceUnavailable  = errors.New("source unavailable")
	ErrTimeout            = errors.New("timed out")
	ErrCanceled           = errors.New("canceled")
)

// IsNotFound reports whether a dataset, file or remote object is missing.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsSchemaError reports whether a table lacked required columns.
func IsSchemaError(err error) bool { return errors.Is(err, ErrSchema) }

// IsValidationError reports whether err stems from bad user input or config.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsCredentialsMissing reports whether a source needs credentials it did not get.
func IsCredentialsMissing(err error) bool { return errors.Is(err, ErrCredentialsMissing) }

// IsSourceUnavailable reports whether a dataset host failed on its side.
func IsSourceUnavailable(err error) bool { return errors.Is(err, ErrSourceUnavailable) }

func IsTimeout(err error) bool  { return errors.Is(err, ErrTimeout) }
func IsCanceled(err error) bool { return errors.Is(err, ErrCanceled) }

// statusSentinel classifies an HTTP status from a dataset host.
func statusSentinel(code int) error {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrCredentialsMissing
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= http.StatusInternalServerError:
		return ErrSourceUnavailable
	}
	return nil
}

// message returns err's text, or "" for nil.
func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// WrapValidation turns err into a ValidationError on field. Nil stays nil.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO records which filesystem operation on path produced err. Nil stays nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource records which dataset step produced err. Nil stays nil.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse records which file and format produced err. Nil stays nil.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI attaches a dataset host and status to err. Nil stays nil.
func WrapAPI(source string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Source: source, StatusCode: statusCode, Message: err.Error(), Err: err}
}
