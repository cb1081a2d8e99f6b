package entity

import (
	"time"

	"github.com/google/uuid"
)

// HabitEntry is an append-only snapshot of a habit's progress at the moment of
// a change. Entries are never updated; several may exist per habit per day and
// daily summaries must aggregate by taking the maximum progress per day.
type HabitEntry struct {
	ID      uuid.UUID
	HabitID uuid.UUID

	Date      time.Time
	Progress  int32 // absolute progress value at recording time, not a delta
	Completed bool
}
