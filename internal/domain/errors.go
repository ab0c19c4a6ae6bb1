package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when something is not found
	ErrNotFound = errors.New("item not found")
	// ErrInvalidID is returned for identifiers that cannot belong to any record,
	// as opposed to well-formed identifiers with no record behind them.
	ErrInvalidID   = errors.New("invalid identifier")
	ErrInvalidDate = errors.New("invalid date, expected format YYYY-MM-DD")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
