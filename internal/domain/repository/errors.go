package repository

import "errors"

// ErrNotFound is returned when a referenced habit or entry does not exist
// (or is filtered out by the deleted flag).
var ErrNotFound = errors.New("not found")
