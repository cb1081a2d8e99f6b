// Package engine holds the pure progress/streak state machine for habits.
// Functions here never touch storage: they take a freshly-read habit snapshot
// and return the next state plus, where applicable, the entry snapshot the
// caller should persist alongside it.
package engine

import (
	"time"

	"habithero-service/internal/domain/entity"
)

// IncrementProgress advances a habit's daily progress by one. If the habit has
// already reached its target the call is a no-op: the habit is returned
// unchanged and no entry is produced.
func IncrementProgress(h entity.Habit, now time.Time) (entity.Habit, *entity.HabitEntry) {
	if h.Progress >= h.Frequency {
		return h, nil
	}

	h.Progress++
	h.Completed = h.Progress >= h.Frequency

	if h.Completed {
		h.Streak, h.LastCompletedDate = nextStreak(h, now)
	}
	h.UpdatedAt = now

	entry := &entity.HabitEntry{
		HabitID:   h.ID,
		Date:      now,
		Progress:  h.Progress,
		Completed: h.Completed,
	}

	return h, entry
}

// ToggleCompletion flips a habit's completed state. Completing recomputes the
// streak and records an entry; un-completing leaves streak and
// lastCompletedDate untouched and records nothing. Progress is clamped so that
// completed == (progress >= frequency) holds either way.
func ToggleCompletion(h entity.Habit, now time.Time) (entity.Habit, *entity.HabitEntry) {
	h.Completed = !h.Completed
	h.UpdatedAt = now

	if !h.Completed {
		if h.Progress >= h.Frequency {
			h.Progress = h.Frequency - 1
		}
		return h, nil
	}

	if h.Progress < h.Frequency {
		h.Progress = h.Frequency
	}
	h.Streak, h.LastCompletedDate = nextStreak(h, now)

	entry := &entity.HabitEntry{
		HabitID:   h.ID,
		Date:      now,
		Progress:  h.Progress,
		Completed: true,
	}

	return h, entry
}

// ResetProgress clears a habit's daily progress and completion. Streak and
// lastCompletedDate survive; no entry is recorded. This is the manual reset,
// distinct from the midnight reset batch which preserves the completed flag.
func ResetProgress(h entity.Habit) entity.Habit {
	h.Progress = 0
	h.Completed = false
	return h
}

// nextStreak computes the streak value for a completion happening at now.
//
// Rules, in priority order:
//  1. never completed before          -> 1
//  2. last completed yesterday        -> streak + 1
//  3. last completed today            -> streak unchanged
//  4. gap of two or more days, or a
//     last completion in the future   -> 1
//
// Both day boundaries are computed in now's location so that the comparison
// never mixes timezone bases.
func nextStreak(h entity.Habit, now time.Time) (int32, *time.Time) {
	completedAt := now

	if h.LastCompletedDate == nil {
		return 1, &completedAt
	}

	todayStart := StartOfDay(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	lastDayStart := StartOfDay(h.LastCompletedDate.In(now.Location()))

	switch {
	case lastDayStart.Equal(yesterdayStart):
		return h.Streak + 1, &completedAt
	case lastDayStart.Equal(todayStart):
		return h.Streak, &completedAt
	default:
		return 1, &completedAt
	}
}

// StartOfDay truncates t to midnight in t's own location. Every day-boundary
// comparison in the service goes through this single helper.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
