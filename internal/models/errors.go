package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups that found no row. Wrapped errors should
// be checked with errors.Is.
var ErrNotFound = errors.New("not found")

// FieldError describes a single failed field during parameter or
// payload validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError carries per-field details when parsing fails
// outright. At the parameter-sanitization boundary it is caught and
// downgraded to defaults rather than propagated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Fields))
}

// SearchError wraps any failure during predicate execution or result
// assembly.
type SearchError struct {
	Cause error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed: %v", e.Cause)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// DatabaseError wraps any failure from the underlying data store.
type DatabaseError struct {
	Op    string
	Cause error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Cause)
}

func (e *DatabaseError) Unwrap() error {
	return e.Cause
}
