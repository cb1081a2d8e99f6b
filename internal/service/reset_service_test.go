package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetService_ZeroesProgressOnly(t *testing.T) {
	repo := newFakeHabitRepo()
	userID := uuid.New()
	identity := &fakeIdentity{userID: userID}
	svc := NewResetService(repo, identity)

	// progress [0, 2, 5] per spec scenario; completion/streak state varies
	a := seedHabit(repo, userID, "A", 1, 0, 3)
	b := seedHabit(repo, userID, "B", 3, 2, 1)
	c := seedHabit(repo, userID, "C", 5, 5, 7)
	last := svcNow()
	c.LastCompletedDate = &last
	repo.put(c)

	outcome, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Reset)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Equal(t, 0, outcome.Failed)

	for _, h := range []uuid.UUID{a.ID, b.ID, c.ID} {
		stored, err := repo.GetByID(context.Background(), h, false)
		require.NoError(t, err)
		assert.Equal(t, int32(0), stored.Progress)
	}

	// completed, streak and lastCompletedDate are untouched
	storedC, _ := repo.GetByID(context.Background(), c.ID, false)
	assert.True(t, storedC.Completed)
	assert.Equal(t, int32(7), storedC.Streak)
	require.NotNil(t, storedC.LastCompletedDate)
	assert.Equal(t, last, *storedC.LastCompletedDate)
}

func TestResetService_Idempotent(t *testing.T) {
	repo := newFakeHabitRepo()
	userID := uuid.New()
	svc := NewResetService(repo, &fakeIdentity{userID: userID})

	seedHabit(repo, userID, "A", 2, 2, 1)
	seedHabit(repo, userID, "B", 1, 1, 1)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Reset)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Reset)
	assert.Equal(t, 2, second.Skipped)

	habits, _ := repo.GetByUserID(context.Background(), userID, false)
	for _, h := range habits {
		assert.Equal(t, int32(0), h.Progress)
	}
}

func TestResetService_IsolatesPerHabitFailures(t *testing.T) {
	repo := newFakeHabitRepo()
	userID := uuid.New()
	svc := NewResetService(repo, &fakeIdentity{userID: userID})

	bad := seedHabit(repo, userID, "Bad", 1, 1, 0)
	good := seedHabit(repo, userID, "Good", 1, 1, 0)
	repo.failProgress[bad.ID] = errStoreDown

	outcome, err := svc.Run(context.Background())
	require.NoError(t, err, "a per-habit failure does not fail the batch")
	assert.Equal(t, 1, outcome.Reset)
	assert.Equal(t, 1, outcome.Failed)

	storedGood, _ := repo.GetByID(context.Background(), good.ID, false)
	assert.Equal(t, int32(0), storedGood.Progress)
	storedBad, _ := repo.GetByID(context.Background(), bad.ID, false)
	assert.Equal(t, int32(1), storedBad.Progress)
}

func TestResetService_RequiresUser(t *testing.T) {
	repo := newFakeHabitRepo()
	svc := NewResetService(repo, &fakeIdentity{err: ErrNotAuthenticated})

	seedHabit(repo, uuid.New(), "A", 1, 1, 0)

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	// no writes happened
	for _, h := range repo.habits {
		assert.Equal(t, int32(1), h.Progress)
	}
}

func TestResetService_ListFailureAbortsBatch(t *testing.T) {
	repo := newFakeHabitRepo()
	repo.listErr = errStoreDown
	svc := NewResetService(repo, &fakeIdentity{userID: uuid.New()})

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
}

func TestResetService_SkipsDeletedHabits(t *testing.T) {
	repo := newFakeHabitRepo()
	userID := uuid.New()
	svc := NewResetService(repo, &fakeIdentity{userID: userID})

	gone := seedHabit(repo, userID, "Gone", 1, 1, 0)
	gone.Deleted = true
	repo.put(gone)

	outcome, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Reset)

	stored, _ := repo.GetByID(context.Background(), gone.ID, true)
	assert.Equal(t, int32(1), stored.Progress, "deleted habits are not touched")
}
