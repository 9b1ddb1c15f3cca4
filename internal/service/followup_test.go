package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/insight"
	"github.com/yourname/wellnesstracker/internal/storage"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func newFollowUp(t *testing.T, store storage.Store, insights storage.InsightRepository, cfg FollowUpConfig) *FollowUp {
	t.Helper()
	engine, err := insight.NewEngine(insight.DefaultRules())
	require.NoError(t, err)
	f := NewFollowUp(store, insights, store, engine, cfg, internal.NewNopLogger())
	f.now = func() time.Time { return fixedNow }
	return f
}

// saveLowSleepLogs stores n logs that only trip the low sleep rule.
func saveLowSleepLogs(t *testing.T, store storage.HealthLogRepository, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		log := &internal.HealthLog{
			ID:       userID + "-log-" + string(rune('a'+i)),
			UserID:   userID,
			Date:     fixedNow.Add(-time.Duration(i+1) * time.Hour),
			Sleep:    internal.Sleep{Hours: hours(5)},
			Mood:     "good",
			Water:    internal.Water{Glasses: 8},
			Exercise: internal.Exercise{DidExercise: true, Minutes: 30},
		}
		log.CalculatedScore = 60 + i*10
		require.NoError(t, store.SaveHealthLog(context.Background(), log))
	}
}

func TestFollowUp_ProcessRefreshesScoreAndGeneratesInsights(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)
	f := newFollowUp(t, store, store, FollowUpConfig{})

	require.NoError(t, f.Process(ctx, alice.ID))

	user, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, user.HealthScore)

	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	assert.Equal(t, "low_sleep", insights[0].Rule)
	assert.Equal(t, internal.InsightPattern, insights[0].InsightType)
	assert.NotEmpty(t, insights[0].ID)
	assert.False(t, insights[0].IsRead)
	assert.Contains(t, insights[0].Description, "5.0 hours")
}

func TestFollowUp_TooFewLogsProducesNoInsights(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 2)
	f := newFollowUp(t, store, store, FollowUpConfig{})

	require.NoError(t, f.Process(ctx, alice.ID))
	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Empty(t, insights)

	user, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 65, user.HealthScore)
}

func TestFollowUp_RepeatsWithoutSuppression(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)
	f := newFollowUp(t, store, store, FollowUpConfig{})

	require.NoError(t, f.Process(ctx, alice.ID))
	require.NoError(t, f.Process(ctx, alice.ID))
	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, insights, 2)
}

func TestFollowUp_SuppressionDropsRepeats(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)
	f := newFollowUp(t, store, store, FollowUpConfig{Suppression: insight.Suppressor{Window: 24 * time.Hour}})

	require.NoError(t, f.Process(ctx, alice.ID))
	require.NoError(t, f.Process(ctx, alice.ID))
	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, insights, 1)
}

type failingInsights struct {
	storage.InsightRepository
}

func (failingInsights) InsertInsights(context.Context, []internal.HealthInsight) error {
	return errors.New("disk full")
}

func TestFollowUp_InsightFailureDoesNotBlockScore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)
	f := newFollowUp(t, store, failingInsights{store}, FollowUpConfig{})

	err := f.Process(ctx, alice.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "generate insights")

	user, err := store.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 70, user.HealthScore)

	logs, err := store.ListHealthLogs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Empty(t, insights)
}

func TestFollowUp_EnqueueProcessesOnStop(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)
	f := newFollowUp(t, store, store, FollowUpConfig{})

	f.Start()
	assert.True(t, f.Enqueue(alice.ID))
	f.Stop()

	insights, err := store.ListInsights(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Len(t, insights, 1)
	assert.False(t, f.Enqueue(alice.ID), "stopped worker rejects tasks")
}

func TestFollowUp_EnqueueDropsWhenFull(t *testing.T) {
	store := setupStore(t)
	f := newFollowUp(t, store, store, FollowUpConfig{QueueSize: 1})

	assert.True(t, f.Enqueue(alice.ID))
	assert.False(t, f.Enqueue(alice.ID))
	f.Stop()
}

type failingUsers struct {
	storage.UserRepository
}

func (failingUsers) UpdateHealthScore(context.Context, string, int) error {
	return errors.New("users offline")
}

func TestFollowUp_ReportsEveryFailedStep(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	saveLowSleepLogs(t, store, alice.ID, 3)

	engine, err := insight.NewEngine(insight.DefaultRules())
	require.NoError(t, err)
	f := NewFollowUp(store, failingInsights{store}, failingUsers{store}, engine, FollowUpConfig{}, internal.NewNopLogger())
	f.now = func() time.Time { return fixedNow }

	err = f.Process(ctx, alice.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "refresh health score: users offline")
	assert.ErrorContains(t, err, "generate insights: disk full")
}
