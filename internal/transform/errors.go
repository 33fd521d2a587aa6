// Package transform defines the catalog of dataset operations: each one a
// pure function from Table and parameters to a new Table or an explicit
// failure. Operations never mutate the stored snapshot; the dispatcher only
// commits a result on success.
package transform

import "fmt"

// ValidationError reports a missing or invalid parameter. It is raised
// before an operation touches the table, so the caller can distinguish bad
// input from a failed execution.
type ValidationError struct {
	Field   string // Parameter name
	Message string // Human-readable problem description
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError reports a referenced column that does not exist.
type NotFoundError struct {
	Column string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// TypeError reports an operation applied to a column of an incompatible
// type, such as a mean fill on a text column.
type TypeError struct {
	Column  string
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Message)
}

// ParseError reports malformed input data, such as an upload that is not
// valid CSV. Unparsable cells during type coercion degrade to null instead
// of raising this.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}
