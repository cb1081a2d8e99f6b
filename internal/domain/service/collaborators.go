package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
)

// Identity supplies the signed-in user. Batch processes (midnight reset, daily
// recap) abort without writes when no user is bound.
type Identity interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// TextGenerator is the remote text-generation API consumed for quotes and
// habit analysis
type TextGenerator interface {
	MotivationalQuote(ctx context.Context) (*entity.Quote, error)
	AnalyzeHabit(ctx context.Context, habit *entity.Habit, weekly *WeeklyReport, completionRate int) (*entity.HabitAnalysis, error)
}

// RecapNotifier delivers the daily recap to the user
type RecapNotifier interface {
	SendDailyRecap(ctx context.Context, completed, pending []*entity.Habit) error
}

// EventPublisher emits domain events for downstream consumers
type EventPublisher interface {
	PublishHabitCompleted(ctx context.Context, habit *entity.Habit) error
}

// QuoteCache caches the quote of the day
type QuoteCache interface {
	Get(ctx context.Context, key string) (*entity.Quote, error)
	Set(ctx context.Context, key string, quote *entity.Quote, ttl time.Duration) error
}
