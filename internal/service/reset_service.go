package service

import (
	"context"
	"fmt"
	"log/slog"

	"habithero-service/internal/domain/repository"
	"habithero-service/internal/domain/service"
	"habithero-service/internal/metrics"
)

type resetService struct {
	habitRepo repository.HabitRepository
	identity  service.Identity
}

// NewResetService creates the midnight reset batch process
func NewResetService(habitRepo repository.HabitRepository, identity service.Identity) service.ResetService {
	return &resetService{
		habitRepo: habitRepo,
		identity:  identity,
	}
}

// Run zeroes the progress of every non-deleted habit owned by the signed-in
// user. Completion flag, streak and lastCompletedDate are left untouched so a
// streak earned today survives into the new day and the recap can still see
// today's completion state. Per-habit failures are counted and skipped; only
// a missing user or a failed listing aborts the batch. Running twice in a row
// converges to the same state, so the scheduler may fire it at arbitrary
// times.
func (s *resetService) Run(ctx context.Context) (*service.ResetOutcome, error) {
	metrics.ResetRuns.Inc()

	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		slog.Warn("midnight reset skipped: no signed-in user")
		return nil, ErrNotAuthenticated
	}

	slog.Info("starting midnight habit reset", "user_id", userID)

	habits, err := s.habitRepo.GetByUserID(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits for reset: %w", err)
	}
	if len(habits) == 0 {
		slog.Info("no habits to reset")
		return &service.ResetOutcome{}, nil
	}

	outcome := &service.ResetOutcome{}
	for _, habit := range habits {
		if habit.Progress == 0 {
			outcome.Skipped++
			metrics.ResetHabits.WithLabelValues("skipped").Inc()
			continue
		}

		if err := s.habitRepo.UpdateProgress(ctx, habit.ID, 0); err != nil {
			slog.Error("failed to reset habit progress",
				"habit_id", habit.ID, "title", habit.Title, "error", err)
			outcome.Failed++
			metrics.ResetHabits.WithLabelValues("failed").Inc()
			continue
		}

		slog.Debug("reset habit progress",
			"habit_id", habit.ID, "title", habit.Title, "previous_progress", habit.Progress)
		outcome.Reset++
		metrics.ResetHabits.WithLabelValues("reset").Inc()
	}

	slog.Info("midnight reset completed",
		"reset", outcome.Reset, "skipped", outcome.Skipped, "failed", outcome.Failed)

	return outcome, nil
}
