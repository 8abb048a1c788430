package domain

import "errors"

var (
	// ErrNotFound is returned when an update or lookup by id has no match.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument marks a malformed step or task argument bag.
	ErrInvalidArgument = errors.New("invalid argument")
)
