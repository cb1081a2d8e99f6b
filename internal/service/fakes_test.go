package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
	"habithero-service/internal/domain/service"
)

// In-memory fakes for the repository and collaborator interfaces. Reads and
// writes copy values so tests observe persisted state, not shared pointers.

type fakeHabitRepo struct {
	habits       map[uuid.UUID]entity.Habit
	failProgress map[uuid.UUID]error // habit id -> error for UpdateProgress
	listErr      error
}

func newFakeHabitRepo() *fakeHabitRepo {
	return &fakeHabitRepo{
		habits:       make(map[uuid.UUID]entity.Habit),
		failProgress: make(map[uuid.UUID]error),
	}
}

func (r *fakeHabitRepo) put(h entity.Habit) { r.habits[h.ID] = h }

func (r *fakeHabitRepo) Create(_ context.Context, habit *entity.Habit) error {
	r.habits[habit.ID] = *habit
	return nil
}

func (r *fakeHabitRepo) GetByID(_ context.Context, habitID uuid.UUID, includeDeleted bool) (*entity.Habit, error) {
	h, ok := r.habits[habitID]
	if !ok || (h.Deleted && !includeDeleted) {
		return nil, repository.ErrNotFound
	}
	copied := h
	return &copied, nil
}

func (r *fakeHabitRepo) GetByIDAndUserID(ctx context.Context, habitID, userID uuid.UUID, includeDeleted bool) (*entity.Habit, error) {
	h, err := r.GetByID(ctx, habitID, includeDeleted)
	if err != nil {
		return nil, err
	}
	if h.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (r *fakeHabitRepo) GetByUserID(_ context.Context, userID uuid.UUID, includeDeleted bool) ([]*entity.Habit, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var habits []*entity.Habit
	for _, h := range r.habits {
		if h.UserID != userID || (h.Deleted && !includeDeleted) {
			continue
		}
		copied := h
		habits = append(habits, &copied)
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].CreatedAt.After(habits[j].CreatedAt) })
	return habits, nil
}

func (r *fakeHabitRepo) GetByUserIDAndTitle(_ context.Context, userID uuid.UUID, title string) (*entity.Habit, error) {
	for _, h := range r.habits {
		if h.UserID == userID && h.Title == title {
			copied := h
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeHabitRepo) Update(_ context.Context, habit *entity.Habit) error {
	if _, ok := r.habits[habit.ID]; !ok {
		return repository.ErrNotFound
	}
	r.habits[habit.ID] = *habit
	return nil
}

func (r *fakeHabitRepo) UpdateProgress(_ context.Context, habitID uuid.UUID, progress int32) error {
	if err, ok := r.failProgress[habitID]; ok {
		return err
	}
	h, ok := r.habits[habitID]
	if !ok {
		return repository.ErrNotFound
	}
	h.Progress = progress
	r.habits[habitID] = h
	return nil
}

func (r *fakeHabitRepo) SoftDelete(_ context.Context, habitID uuid.UUID) error {
	h, ok := r.habits[habitID]
	if !ok {
		return repository.ErrNotFound
	}
	h.Deleted = true
	r.habits[habitID] = h
	return nil
}

func (r *fakeHabitRepo) HardDelete(_ context.Context, habitID uuid.UUID) error {
	if _, ok := r.habits[habitID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.habits, habitID)
	return nil
}

type fakeEntryRepo struct {
	entries []entity.HabitEntry
}

func (r *fakeEntryRepo) Create(_ context.Context, entry *entity.HabitEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeEntryRepo) GetByHabitIDInRange(_ context.Context, habitID uuid.UUID, start, end time.Time) ([]*entity.HabitEntry, error) {
	var out []*entity.HabitEntry
	for i := range r.entries {
		e := r.entries[i]
		if e.HabitID != habitID || e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeEntryRepo) DeleteByHabitID(_ context.Context, habitID uuid.UUID) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.HabitID != habitID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

type fakeIdentity struct {
	userID uuid.UUID
	err    error
}

func (i *fakeIdentity) CurrentUserID(context.Context) (uuid.UUID, error) {
	if i.err != nil {
		return uuid.Nil, i.err
	}
	return i.userID, nil
}

type fakeGenerator struct {
	quote    *entity.Quote
	analysis *entity.HabitAnalysis
	err      error
}

func (g *fakeGenerator) MotivationalQuote(context.Context) (*entity.Quote, error) {
	return g.quote, g.err
}

func (g *fakeGenerator) AnalyzeHabit(context.Context, *entity.Habit, *service.WeeklyReport, int) (*entity.HabitAnalysis, error) {
	return g.analysis, g.err
}

type fakePublisher struct {
	published []uuid.UUID
}

func (p *fakePublisher) PublishHabitCompleted(_ context.Context, habit *entity.Habit) error {
	p.published = append(p.published, habit.ID)
	return nil
}

var errStoreDown = errors.New("store unavailable")
