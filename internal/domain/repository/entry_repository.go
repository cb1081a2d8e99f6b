package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
)

// HabitEntryRepository defines the interface for habit entry persistence.
// Entries are append-only: there is no update operation and deletion happens
// only in bulk when a habit is removed.
type HabitEntryRepository interface {
	// Create appends a new entry
	Create(ctx context.Context, entry *entity.HabitEntry) error

	// GetByHabitIDInRange retrieves entries with start <= date <= end,
	// ordered by date ascending
	GetByHabitIDInRange(ctx context.Context, habitID uuid.UUID, start, end time.Time) ([]*entity.HabitEntry, error)

	// DeleteByHabitID removes all entries for a habit
	DeleteByHabitID(ctx context.Context, habitID uuid.UUID) error
}
