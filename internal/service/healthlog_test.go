package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
)

func TestCreateHealthLog_ComputesScore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	req := &HealthLogRequest{
		Sleep:     SleepRequest{Hours: hours(8), Quality: "good"},
		Mood:      "good",
		Energy:    "very high",
		Water:     WaterRequest{Glasses: 8},
		Exercise:  ExerciseRequest{DidExercise: true, Minutes: 45, Type: "run"},
		Nutrition: &NutritionRequest{Meals: 3, Fruits: 2, Vegetables: 3},
		Symptoms:  []SymptomRequest{{Name: "sneezing", Severity: "mild"}},
	}
	log, err := CreateHealthLog(ctx, store, alice, req)
	require.NoError(t, err)
	assert.NotEmpty(t, log.ID)
	assert.Equal(t, "u1", log.UserID)
	assert.Equal(t, 100, log.CalculatedScore)
	assert.False(t, log.Date.IsZero())

	stored, err := store.GetHealthLog(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, log.CalculatedScore, stored.CalculatedScore)
}

func TestCreateHealthLog_EmptyRequestScoresBaseline(t *testing.T) {
	store := setupStore(t)
	log, err := CreateHealthLog(context.Background(), store, alice, &HealthLogRequest{})
	require.NoError(t, err)
	assert.Equal(t, 50, log.CalculatedScore)
}

func TestCreateHealthLog_UsesSuppliedDate(t *testing.T) {
	store := setupStore(t)
	date := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	log, err := CreateHealthLog(context.Background(), store, alice, &HealthLogRequest{Date: &date})
	require.NoError(t, err)
	assert.True(t, date.Equal(log.Date))
}

func TestCreateHealthLog_ValidationRejectsAndStoresNothing(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	bad := []*HealthLogRequest{
		{Sleep: SleepRequest{Hours: hours(25)}},
		{Sleep: SleepRequest{Hours: hours(-1)}},
		{Sleep: SleepRequest{Quality: "amazing"}},
		{Mood: "ecstatic"},
		{Energy: "medium"},
		{Water: WaterRequest{Glasses: -2}},
		{Exercise: ExerciseRequest{Minutes: -5}},
		{Nutrition: &NutritionRequest{JunkFood: -1}},
		{Symptoms: []SymptomRequest{{Name: "", Severity: "mild"}}},
		{Symptoms: []SymptomRequest{{Name: "cough", Severity: "extreme"}}},
	}
	for i, req := range bad {
		_, err := CreateHealthLog(ctx, store, alice, req)
		require.Error(t, err, "case %d", i)
		assert.ErrorIs(t, err, internal.ErrValidation, "case %d", i)
	}

	logs, err := store.ListHealthLogs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestGetHealthLog_Ownership(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	log, err := CreateHealthLog(ctx, store, alice, &HealthLogRequest{Mood: "neutral"})
	require.NoError(t, err)

	got, err := GetHealthLog(ctx, store, alice, log.ID)
	require.NoError(t, err)
	assert.Equal(t, "neutral", got.Mood)

	_, err = GetHealthLog(ctx, store, bob, log.ID)
	assert.ErrorIs(t, err, internal.ErrUnauthorized)

	_, err = GetHealthLog(ctx, store, alice, "missing")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestUpdateHealthLog_RecomputesScore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	log, err := CreateHealthLog(ctx, store, alice, &HealthLogRequest{})
	require.NoError(t, err)
	require.Equal(t, 50, log.CalculatedScore)

	updated, err := UpdateHealthLog(ctx, store, alice, log.ID, &HealthLogRequest{Sleep: SleepRequest{Hours: hours(7)}})
	require.NoError(t, err)
	assert.Equal(t, 75, updated.CalculatedScore)
	assert.Equal(t, log.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "u1", updated.UserID)

	stored, err := store.GetHealthLog(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, stored.CalculatedScore)

	_, err = UpdateHealthLog(ctx, store, bob, log.ID, &HealthLogRequest{})
	assert.ErrorIs(t, err, internal.ErrUnauthorized)

	_, err = UpdateHealthLog(ctx, store, alice, log.ID, &HealthLogRequest{Mood: "awful"})
	assert.ErrorIs(t, err, internal.ErrValidation)
	stored, err = store.GetHealthLog(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, stored.CalculatedScore, "rejected update leaves the log untouched")
}

func TestSummarize_ReturnsLatestAndTrends(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	for _, h := range []float64{6, 7, 8} {
		_, err := CreateHealthLog(ctx, store, alice, &HealthLogRequest{Sleep: SleepRequest{Hours: hours(h)}})
		require.NoError(t, err)
	}
	summary, err := Summarize(ctx, store, alice, 7)
	require.NoError(t, err)
	require.NotNil(t, summary.LatestLog)
	assert.Len(t, summary.Trends.Sleep, 3)
	assert.Len(t, summary.Trends.Scores, 3)
}
