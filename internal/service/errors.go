package service

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires a signed-in
	// user and none is bound
	ErrNotAuthenticated = errors.New("no authenticated user")

	// ErrDuplicateTitle is returned when creating a habit whose title matches
	// an existing non-deleted habit
	ErrDuplicateTitle = errors.New("habit with this title already exists")

	// ErrEmptyTitle is returned when a habit title is blank
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidFrequency is returned when frequency is below 1
	ErrInvalidFrequency = errors.New("frequency must be at least 1")

	// ErrInvalidWeekOffset is returned for week offsets pointing at the future
	ErrInvalidWeekOffset = errors.New("week offset must not be positive")
)
