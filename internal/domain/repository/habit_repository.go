package repository

import (
	"context"

	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
)

// HabitRepository defines the interface for habit persistence
type HabitRepository interface {
	// Create creates a new habit
	Create(ctx context.Context, habit *entity.Habit) error

	// GetByID retrieves a habit by ID; deleted habits are only returned when
	// includeDeleted is true
	GetByID(ctx context.Context, habitID uuid.UUID, includeDeleted bool) (*entity.Habit, error)

	// GetByIDAndUserID retrieves a habit by ID scoped to its owner (for authorization)
	GetByIDAndUserID(ctx context.Context, habitID, userID uuid.UUID, includeDeleted bool) (*entity.Habit, error)

	// GetByUserID retrieves all habits for a user ordered by created_at descending
	GetByUserID(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*entity.Habit, error)

	// GetByUserIDAndTitle retrieves a habit by exact title match, including
	// soft-deleted ones (used by the duplicate-title guard)
	GetByUserIDAndTitle(ctx context.Context, userID uuid.UUID, title string) (*entity.Habit, error)

	// Update writes back the full habit record
	Update(ctx context.Context, habit *entity.Habit) error

	// UpdateProgress sets only the progress counter, leaving completion and
	// streak state untouched (midnight reset write path)
	UpdateProgress(ctx context.Context, habitID uuid.UUID, progress int32) error

	// SoftDelete marks a habit as deleted without removing its entries
	SoftDelete(ctx context.Context, habitID uuid.UUID) error

	// HardDelete removes the habit record entirely (account deletion path)
	HardDelete(ctx context.Context, habitID uuid.UUID) error
}
