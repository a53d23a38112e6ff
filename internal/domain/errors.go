package domain

import "errors"

var (
	// ErrInvalidTransaction marks a transaction rejected before aggregation.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrInvalidConfig marks a rejected weight, goal or settings table.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("not found")
)
