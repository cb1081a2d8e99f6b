package entity

import (
	"time"

	"github.com/google/uuid"
)

// Habit represents a user's recurring daily goal
type Habit struct {
	ID     uuid.UUID
	UserID uuid.UUID

	// Basic info
	Title       string
	Description string

	// Daily target: number of completions required per day
	Frequency int32

	// Progress state for the current local day
	Progress  int32
	Completed bool

	// Streak state
	Streak            int32
	LastCompletedDate *time.Time // nil until the habit is completed for the first time

	// Metadata
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MeetsTarget returns true if the habit's progress has reached its daily target
func (h *Habit) MeetsTarget() bool {
	return h.Progress >= h.Frequency
}

// CompletedOn returns true if the habit was last completed on the calendar day
// containing t, evaluated in t's location.
func (h *Habit) CompletedOn(t time.Time) bool {
	if h.LastCompletedDate == nil {
		return false
	}
	last := h.LastCompletedDate.In(t.Location())
	y1, m1, d1 := last.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
