package service

import (
	"context"
	"fmt"
	"log/slog"

	"habithero-service/internal/domain/repository"
	"habithero-service/internal/domain/service"
)

type recapService struct {
	habitRepo repository.HabitRepository
	identity  service.Identity
	notifier  service.RecapNotifier // optional
}

// NewRecapService creates the daily recap process. notifier may be nil, in
// which case the recap is computed and logged but not delivered.
func NewRecapService(habitRepo repository.HabitRepository, identity service.Identity, notifier service.RecapNotifier) service.RecapService {
	return &recapService{
		habitRepo: habitRepo,
		identity:  identity,
		notifier:  notifier,
	}
}

// Run builds the end-of-day summary from the completed flags as they stand,
// so it must fire before (or independently of) the midnight reset.
func (s *recapService) Run(ctx context.Context) (*service.Recap, error) {
	userID, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		slog.Warn("daily recap skipped: no signed-in user")
		return nil, ErrNotAuthenticated
	}

	habits, err := s.habitRepo.GetByUserID(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits for recap: %w", err)
	}

	recap := &service.Recap{}
	for _, habit := range habits {
		if habit.Completed {
			recap.Completed = append(recap.Completed, habit)
		} else {
			recap.Pending = append(recap.Pending, habit)
		}
	}

	slog.Info("daily recap built",
		"user_id", userID, "completed", len(recap.Completed), "pending", len(recap.Pending))

	if s.notifier != nil {
		if err := s.notifier.SendDailyRecap(ctx, recap.Completed, recap.Pending); err != nil {
			return nil, fmt.Errorf("failed to send daily recap: %w", err)
		}
	}

	return recap, nil
}
