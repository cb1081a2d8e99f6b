package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/engine"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
	"habithero-service/internal/domain/service"
)

const completionRateWindowDays = 30

type insightsService struct {
	habitRepo repository.HabitRepository
	entryRepo repository.HabitEntryRepository
	generator service.TextGenerator
	clock     func() time.Time
	loc       *time.Location
}

// NewInsightsService creates the weekly aggregation and analysis service
func NewInsightsService(
	habitRepo repository.HabitRepository,
	entryRepo repository.HabitEntryRepository,
	generator service.TextGenerator,
	loc *time.Location,
) service.InsightsService {
	return &insightsService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		generator: generator,
		clock:     time.Now,
		loc:       loc,
	}
}

func (s *insightsService) now() time.Time {
	return s.clock().In(s.loc)
}

// weekWindow returns the Sunday-based [start, end] span for the given offset
// (0 = current week, -1 = previous week).
func weekWindow(now time.Time, weekOffset int) (time.Time, time.Time) {
	day := engine.StartOfDay(now.AddDate(0, 0, 7*weekOffset))
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

func (s *insightsService) WeeklyData(ctx context.Context, habitID, userID uuid.UUID, weekOffset int) (*service.WeeklyReport, error) {
	if weekOffset > 0 {
		return nil, ErrInvalidWeekOffset
	}
	if _, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false); err != nil {
		return nil, err
	}

	start, end := weekWindow(s.now(), weekOffset)
	entries, err := s.entryRepo.GetByHabitIDInRange(ctx, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly entries: %w", err)
	}

	report := &service.WeeklyReport{
		HabitID:   habitID,
		WeekStart: start,
		WeekEnd:   end,
		Days:      make([]service.DayProgress, 7),
	}
	for i := range report.Days {
		d := start.AddDate(0, 0, i)
		report.Days[i] = service.DayProgress{Label: d.Format("Mon"), Date: d}
	}

	// Several entries may exist per day; the daily value is the maximum
	// progress recorded that day, since each entry stores an absolute count.
	for _, entry := range entries {
		idx := int(engine.StartOfDay(entry.Date.In(s.loc)).Sub(start).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		if entry.Progress > report.Days[idx].Progress {
			report.Days[idx].Progress = entry.Progress
		}
	}

	return report, nil
}

func (s *insightsService) CompletionRate(ctx context.Context, habitID, userID uuid.UUID) (int, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return 0, err
	}

	now := s.now()
	windowDays := completionRateWindowDays
	if age := int(engine.StartOfDay(now).Sub(engine.StartOfDay(habit.CreatedAt.In(s.loc))).Hours()/24) + 1; age < windowDays {
		windowDays = age
	}
	if windowDays < 1 {
		windowDays = 1
	}

	start := engine.StartOfDay(now).AddDate(0, 0, -(windowDays - 1))
	entries, err := s.entryRepo.GetByHabitIDInRange(ctx, habitID, start, now)
	if err != nil {
		return 0, fmt.Errorf("failed to load entries for completion rate: %w", err)
	}

	maxPerDay := map[time.Time]int32{}
	for _, entry := range entries {
		day := engine.StartOfDay(entry.Date.In(s.loc))
		if entry.Progress > maxPerDay[day] {
			maxPerDay[day] = entry.Progress
		}
	}

	completedDays := 0
	for _, progress := range maxPerDay {
		if progress >= habit.Frequency {
			completedDays++
		}
	}

	return completedDays * 100 / windowDays, nil
}

func (s *insightsService) AnalyzeHabit(ctx context.Context, habitID, userID uuid.UUID) (*entity.HabitAnalysis, error) {
	habit, err := s.habitRepo.GetByIDAndUserID(ctx, habitID, userID, false)
	if err != nil {
		return nil, err
	}

	weekly, err := s.WeeklyData(ctx, habitID, userID, 0)
	if err != nil {
		return nil, err
	}
	rate, err := s.CompletionRate(ctx, habitID, userID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.generator.AnalyzeHabit(ctx, habit, weekly, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze habit: %w", err)
	}
	return analysis, nil
}
