package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
)

// HabitService defines the interface for habit business logic
type HabitService interface {
	// CreateHabit creates a new habit. A title matching an existing non-deleted
	// habit is rejected; a title matching a soft-deleted habit restores it.
	CreateHabit(ctx context.Context, userID uuid.UUID, title, description string, frequency int32) (*entity.Habit, error)

	// GetHabit retrieves a habit by ID
	GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)

	// ListHabits retrieves all habits for a user, deleted ones excluded by default
	ListHabits(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*entity.Habit, error)

	// UpdateHabit updates title, description and/or frequency
	UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, title, description *string, frequency *int32) (*entity.Habit, error)

	// DeleteHabit soft deletes a habit, keeping its entries
	DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error

	// PurgeHabit hard deletes a habit and all of its entries
	PurgeHabit(ctx context.Context, habitID, userID uuid.UUID) error

	// IncrementProgress advances today's progress by one (no-op at target)
	IncrementProgress(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)

	// ToggleCompletion flips the completed state
	ToggleCompletion(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)

	// ResetProgress manually clears today's progress and completion
	ResetProgress(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error)

	// EntriesInRange retrieves a habit's entries within [start, end]
	EntriesInRange(ctx context.Context, habitID, userID uuid.UUID, start, end time.Time) ([]*entity.HabitEntry, error)
}

// ResetOutcome tallies a midnight reset run
type ResetOutcome struct {
	Reset   int
	Skipped int
	Failed  int
}

// ResetService zeroes the daily progress of every non-deleted habit owned by
// the signed-in user, once per local day
type ResetService interface {
	// Run executes one reset pass. Safe to invoke repeatedly and at arbitrary
	// times; running twice in a day converges to the same state.
	Run(ctx context.Context) (*ResetOutcome, error)
}

// Recap summarizes the signed-in user's day
type Recap struct {
	Completed []*entity.Habit
	Pending   []*entity.Habit
}

// RecapService builds and delivers the daily recap notification
type RecapService interface {
	Run(ctx context.Context) (*Recap, error)
}

// DayProgress is one day's aggregated progress within a weekly report
type DayProgress struct {
	Label    string // short weekday label, e.g. "Sun"
	Date     time.Time
	Progress int32
}

// WeeklyReport aggregates a habit's entries over one Sunday-based week
type WeeklyReport struct {
	HabitID   uuid.UUID
	WeekStart time.Time
	WeekEnd   time.Time
	Days      []DayProgress
}

// InsightsService produces per-habit aggregates and AI analysis
type InsightsService interface {
	// WeeklyData aggregates entries for the week at the given offset
	// (0 = current week, -1 = previous week; positive offsets are invalid).
	// Each day's value is the maximum entry progress recorded that day.
	WeeklyData(ctx context.Context, habitID, userID uuid.UUID, weekOffset int) (*WeeklyReport, error)

	// CompletionRate returns the percentage of days over the trailing 30-day
	// window (capped at the habit's age) on which the habit met its target
	CompletionRate(ctx context.Context, habitID, userID uuid.UUID) (int, error)

	// AnalyzeHabit runs the text-generation API over a habit's weekly data
	AnalyzeHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitAnalysis, error)
}

// QuoteService serves the motivational quote of the day
type QuoteService interface {
	DailyQuote(ctx context.Context) (*entity.Quote, error)
}
