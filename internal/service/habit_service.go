package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/engine"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
	"habithero-service/internal/domain/service"
	"habithero-service/internal/metrics"
)

type habitService struct {
	habitRepo repository.HabitRepository
	entryRepo repository.HabitEntryRepository
	events    service.EventPublisher // optional
	clock     func() time.Time
	loc       *time.Location
}

// NewHabitService creates a new habit service. events may be nil when event
// publishing is disabled.
func NewHabitService(
	habitRepo repository.HabitRepository,
	entryRepo repository.HabitEntryRepository,
	events service.EventPublisher,
	loc *time.Location,
) service.HabitService {
	return &habitService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		events:    events,
		clock:     time.Now,
		loc:       loc,
	}
}

func (s *habitService) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *habitService) CreateHabit(ctx context.Context, userID uuid.UUID, title, description string, frequency int32) (*entity.Habit, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if frequency == 0 {
		frequency = 1
	}
	if frequency < 1 {
		return nil, ErrInvalidFrequency
	}

	// Duplicate-title guard: a live habit with the same title blocks creation,
	// a soft-deleted one is restored with its daily state cleared.
	existing, err := s.habitRepo.GetByUserIDAndTitle(ctx, userID, title)
	if err != nil && err != repository.ErrNotFound {
		return nil, fmt.Errorf("failed to check existing habits: %w", err)
	}
	if existing != nil {
		if !existing.Deleted {
			return nil, ErrDuplicateTitle
		}

		now := s.now()
		existing.Deleted = false
		existing.Description = description
		existing.Frequency = frequency
		existing.Progress = 0
		existing.Completed = false
		existing.Streak = 0
		existing.LastCompletedDate = nil
		existing.UpdatedAt = now

		if err := s.habitRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to restore habit: %w", err)
		}
		slog.Info("restored soft-deleted habit", "habit_id", existing.ID, "title", title)
		return existing, nil
	}

	now := s.now()
	habit := &entity.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Frequency:   frequency,
		Progress:    0,
		Completed:   false,
		Streak:      0,
		Deleted:     false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.habitRepo.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}

	return habit, nil
}

func (s *habitService) GetHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	return s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
}

func (s *habitService) ListHabits(ctx context.Context, userID uuid.UUID, includeDeleted bool) ([]*entity.Habit, error) {
	return s.habitRepo.GetByUserID(ctx, userID, includeDeleted)
}

func (s *habitService) UpdateHabit(ctx context.Context, habitID, userID uuid.UUID, title, description *string, frequency *int32) (*entity.Habit, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return nil, err
	}

	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return nil, ErrEmptyTitle
		}
		habit.Title = trimmed
	}
	if description != nil {
		habit.Description = *description
	}
	if frequency != nil {
		if *frequency < 1 {
			return nil, ErrInvalidFrequency
		}
		habit.Frequency = *frequency
		// Keep the derived flag consistent with the new target
		habit.Completed = habit.Progress >= habit.Frequency
	}
	habit.UpdatedAt = s.now()

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	return habit, nil
}

func (s *habitService) DeleteHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false); err != nil {
		return err
	}
	return s.habitRepo.SoftDelete(ctx, habitID)
}

func (s *habitService) PurgeHabit(ctx context.Context, habitID, userID uuid.UUID) error {
	if _, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, true); err != nil {
		return err
	}

	// Entries have no cascading delete; remove them explicitly first so a
	// failure leaves the habit visible rather than orphaning its history.
	if err := s.entryRepo.DeleteByHabitID(ctx, habitID); err != nil {
		return fmt.Errorf("failed to delete habit entries: %w", err)
	}
	return s.habitRepo.HardDelete(ctx, habitID)
}

func (s *habitService) IncrementProgress(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return nil, err
	}

	wasCompleted := habit.Completed
	updated, entry := engine.IncrementProgress(*habit, s.now())
	if entry == nil {
		// Already at target: nothing to persist.
		metrics.ProgressOps.WithLabelValues("increment", "noop").Inc()
		return habit, nil
	}

	if err := s.persistProgress(ctx, &updated, entry); err != nil {
		metrics.ProgressOps.WithLabelValues("increment", "error").Inc()
		return nil, err
	}
	metrics.ProgressOps.WithLabelValues("increment", "ok").Inc()

	if updated.Completed && !wasCompleted {
		s.publishCompleted(ctx, &updated)
	}

	return &updated, nil
}

func (s *habitService) ToggleCompletion(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return nil, err
	}

	wasCompleted := habit.Completed
	updated, entry := engine.ToggleCompletion(*habit, s.now())

	if err := s.persistProgress(ctx, &updated, entry); err != nil {
		metrics.ProgressOps.WithLabelValues("toggle", "error").Inc()
		return nil, err
	}
	metrics.ProgressOps.WithLabelValues("toggle", "ok").Inc()

	if updated.Completed && !wasCompleted {
		s.publishCompleted(ctx, &updated)
	}

	return &updated, nil
}

func (s *habitService) ResetProgress(ctx context.Context, habitID, userID uuid.UUID) (*entity.Habit, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return nil, err
	}

	updated := engine.ResetProgress(*habit)
	updated.UpdatedAt = s.now()

	if err := s.habitRepo.Update(ctx, &updated); err != nil {
		metrics.ProgressOps.WithLabelValues("reset", "error").Inc()
		return nil, fmt.Errorf("failed to reset habit progress: %w", err)
	}
	metrics.ProgressOps.WithLabelValues("reset", "ok").Inc()

	return &updated, nil
}

func (s *habitService) EntriesInRange(ctx context.Context, habitID, userID uuid.UUID, start, end time.Time) ([]*entity.HabitEntry, error) {
	if _, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByHabitIDInRange(ctx, habitID, start, end)
}

// persistProgress writes the habit first and the entry second: a lost entry
// degrades analytics, a lost habit write loses user state.
func (s *habitService) persistProgress(ctx context.Context, habit *entity.Habit, entry *entity.HabitEntry) error {
	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if entry == nil {
		return nil
	}
	entry.ID = uuid.New()
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record habit entry: %w", err)
	}
	return nil
}

func (s *habitService) publishCompleted(ctx context.Context, habit *entity.Habit) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishHabitCompleted(ctx, habit); err != nil {
		// Event delivery is best-effort; the habit write already succeeded.
		slog.Warn("failed to publish habit completed event", "habit_id", habit.ID, "error", err)
	}
}
