package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
)

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func hours(h float64) *float64 { return &h }

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func TestWindow_FiltersAndSortsAscending(t *testing.T) {
	logs := []internal.HealthLog{
		{ID: "b", Date: daysAgo(1)},
		{ID: "old", Date: daysAgo(9)},
		{ID: "a", Date: daysAgo(3)},
		{ID: "c", Date: now},
	}
	got := Window(logs, now, 7)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "b", logs[0].ID, "input must not be reordered")
}

func TestAggregate_SkipsAbsentValues(t *testing.T) {
	logs := []internal.HealthLog{
		{Sleep: internal.Sleep{Hours: hours(6)}, Mood: "good", Water: internal.Water{Glasses: 4}, CalculatedScore: 70},
		{Mood: "", Water: internal.Water{Glasses: 0}, Exercise: internal.Exercise{DidExercise: true, Minutes: 20}, CalculatedScore: 60},
		{Sleep: internal.Sleep{Hours: hours(8)}, Mood: "terrible", CalculatedScore: 80},
	}
	s := Aggregate(logs)
	assert.Equal(t, []float64{6, 8}, s.SleepHours)
	assert.Equal(t, []float64{4, 0, 0}, s.WaterGlasses)
	assert.Equal(t, []float64{4, 1}, s.MoodScores)
	assert.Equal(t, []float64{70, 60, 80}, s.Scores)
	assert.Len(t, s.Exercise, 3)
	assert.Equal(t, 1, s.ExerciseDays())
}

func TestMoodValue(t *testing.T) {
	v, ok := MoodValue("neutral")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = MoodValue("ecstatic")
	assert.False(t, ok)
}

func TestMean(t *testing.T) {
	_, ok := Mean(nil)
	assert.False(t, ok)

	avg, ok := Mean([]float64{5, 6, 4})
	assert.True(t, ok)
	assert.InDelta(t, 5.0, avg, 0.0001)
}

func TestRollingAverage(t *testing.T) {
	logs := []internal.HealthLog{
		{Date: daysAgo(1), CalculatedScore: 80},
		{Date: daysAgo(2), CalculatedScore: 65},
		{Date: daysAgo(10), CalculatedScore: 20}, // outside 7 days
	}
	avg, ok := RollingAverage(logs, now, 7)
	assert.True(t, ok)
	assert.Equal(t, 73, avg) // 72.5 rounds half away from zero

	_, ok = RollingAverage(nil, now, 7)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	logs := []internal.HealthLog{
		{ID: "latest", Date: daysAgo(0), Sleep: internal.Sleep{Hours: hours(7.5)}, Mood: "great", CalculatedScore: 90},
		{ID: "mid", Date: daysAgo(2), Water: internal.Water{Glasses: 6}, Exercise: internal.Exercise{DidExercise: true, Minutes: 30}, CalculatedScore: 75},
		{ID: "old", Date: daysAgo(20), Mood: "bad", CalculatedScore: 40},
	}
	s := Summarize(logs, now, 7)
	require.NotNil(t, s.LatestLog)
	assert.Equal(t, "latest", s.LatestLog.ID)

	assert.Equal(t, []Point{{Date: "2024-05-20", Value: 7.5}}, s.Trends.Sleep)
	assert.Equal(t, []Point{{Date: "2024-05-20", Value: 5}}, s.Trends.Mood)
	assert.Equal(t, []Point{{Date: "2024-05-18", Value: 6}}, s.Trends.Water)
	assert.Equal(t, []Point{{Date: "2024-05-18", Value: 30}}, s.Trends.Exercise)
	assert.Equal(t, []Point{{Date: "2024-05-18", Value: 75}, {Date: "2024-05-20", Value: 90}}, s.Trends.Scores)
}

func TestSummarize_NoLogs(t *testing.T) {
	s := Summarize(nil, now, 7)
	assert.Nil(t, s.LatestLog)
	assert.Empty(t, s.Trends.Sleep)
	assert.NotNil(t, s.Trends.Scores)
}

func TestSummarize_ZeroScoreLeftOutOfScoreTrend(t *testing.T) {
	logs := []internal.HealthLog{
		{ID: "a", Date: daysAgo(1), CalculatedScore: 0, Symptoms: []internal.Symptom{{Name: "flu", Severity: "severe"}}},
		{ID: "b", Date: daysAgo(0), CalculatedScore: 55},
	}
	s := Summarize(logs, now, 7)
	assert.Equal(t, []Point{{Date: "2024-05-20", Value: 55}}, s.Trends.Scores)
}
