package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTable marks a table that violates its structural invariants.
	ErrMalformedTable = errors.New("malformed table")
	// ErrEmptySeries is returned when statistics are requested for zero values.
	ErrEmptySeries = errors.New("empty series")
	// ErrRowIndex marks a row index set that does not fit the table.
	ErrRowIndex = errors.New("invalid row index set")
)

// Error carries the failing operation and column around a sentinel cause.
type Error struct {
	Op     string
	Column string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s on column '%s': %s", e.Op, e.Column, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }
