package service

import (
	"context"
	"log/slog"
	"time"

	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/service"
)

// fallbackQuote is shown when the text-generation API is unavailable
var fallbackQuote = entity.Quote{
	Text:   "We are what we repeatedly do. Excellence, then, is not an act, but a habit.",
	Author: "Aristotle",
}

type quoteService struct {
	generator service.TextGenerator
	cache     service.QuoteCache // optional
	clock     func() time.Time
	loc       *time.Location
}

// NewQuoteService creates the quote-of-the-day service. cache may be nil.
func NewQuoteService(generator service.TextGenerator, cache service.QuoteCache, loc *time.Location) service.QuoteService {
	return &quoteService{
		generator: generator,
		cache:     cache,
		clock:     time.Now,
		loc:       loc,
	}
}

func (s *quoteService) DailyQuote(ctx context.Context) (*entity.Quote, error) {
	key := "quote:" + s.clock().In(s.loc).Format("2006-01-02")

	if s.cache != nil {
		if quote, err := s.cache.Get(ctx, key); err == nil && quote != nil {
			return quote, nil
		}
	}

	quote, err := s.generator.MotivationalQuote(ctx)
	if err != nil {
		slog.Warn("quote generation failed, serving fallback", "error", err)
		q := fallbackQuote
		return &q, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, quote, 24*time.Hour); err != nil {
			slog.Debug("failed to cache quote", "error", err)
		}
	}

	return quote, nil
}
