package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wellnesstracker/internal"
)

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func hours(h float64) *float64 { return &h }

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultRules())
	require.NoError(t, err)
	return e
}

// healthyLog triggers no rule on its own.
func healthyLog(daysAgo int) internal.HealthLog {
	return internal.HealthLog{
		UserID:   "u1",
		Date:     now.AddDate(0, 0, -daysAgo),
		Sleep:    internal.Sleep{Hours: hours(8)},
		Mood:     "good",
		Water:    internal.Water{Glasses: 8},
		Exercise: internal.Exercise{DidExercise: true, Minutes: 30},
	}
}

func TestGenerate_InsufficientDataIsEmpty(t *testing.T) {
	e := newEngine(t)
	logs := []internal.HealthLog{
		{Sleep: internal.Sleep{Hours: hours(3)}, Mood: "terrible"},
		{Sleep: internal.Sleep{Hours: hours(3)}, Mood: "terrible"},
	}
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = e.Generate("u1", nil, now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerate_LowSleepOnly(t *testing.T) {
	e := newEngine(t)
	var logs []internal.HealthLog
	for i, h := range []float64{5, 4.5, 5.5} {
		l := healthyLog(i)
		l.Sleep.Hours = hours(h)
		logs = append(logs, l)
	}

	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	require.Len(t, got, 1)

	in := got[0]
	assert.Equal(t, internal.InsightPattern, in.InsightType)
	assert.Equal(t, internal.SeverityMedium, in.Severity)
	assert.Equal(t, []internal.Metric{internal.MetricSleep}, in.Metrics)
	assert.Equal(t, "low_sleep", in.Rule)
	assert.Equal(t, "Low Sleep Detected", in.Title)
	assert.Equal(t, "You've been averaging 5.0 hours of sleep, which is below the recommended 7-9 hours.", in.Description)
	assert.Len(t, in.SuggestedActions, 3)
	assert.False(t, in.IsRead)
	assert.False(t, in.ActionTaken)
	assert.Equal(t, "u1", in.UserID)
	assert.Equal(t, now, in.Date)
}

func TestGenerate_SleepNeedsThreeSamples(t *testing.T) {
	e := newEngine(t)
	logs := []internal.HealthLog{healthyLog(0), healthyLog(1), healthyLog(2)}
	logs[0].Sleep.Hours = hours(4)
	logs[1].Sleep.Hours = hours(4)
	logs[2].Sleep.Hours = nil

	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerate_LowHydration(t *testing.T) {
	e := newEngine(t)
	logs := []internal.HealthLog{healthyLog(0), healthyLog(1), healthyLog(2)}
	for i := range logs {
		logs[i].Water.Glasses = 3
	}
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, internal.InsightSuggestion, got[0].InsightType)
	assert.Equal(t, internal.SeverityLow, got[0].Severity)
	assert.Contains(t, got[0].Description, "an average of 3.0 glasses")
}

func TestGenerate_LowMood(t *testing.T) {
	e := newEngine(t)
	logs := []internal.HealthLog{healthyLog(0), healthyLog(1), healthyLog(2)}
	logs[0].Mood = "terrible"
	logs[1].Mood = "bad"
	logs[2].Mood = "bad"
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, internal.InsightAlert, got[0].InsightType)
	assert.Equal(t, internal.SeverityHigh, got[0].Severity)
	assert.Len(t, got[0].SuggestedActions, 4)
}

func TestGenerate_SedentaryNeedsFiveLogs(t *testing.T) {
	e := newEngine(t)
	var logs []internal.HealthLog
	for i := 0; i < 4; i++ {
		l := healthyLog(i)
		l.Exercise = internal.Exercise{}
		logs = append(logs, l)
	}
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	assert.Empty(t, got)

	l := healthyLog(4)
	logs = append(logs, l) // 1 of 5 days = 0.2
	got, err = e.Generate("u1", logs, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sedentary", got[0].Rule)
	assert.Equal(t, "You've only exercised on 1 of the last 5 days. Regular physical activity can boost your mood and energy.", got[0].Description)
}

func TestGenerate_MultipleRulesFire(t *testing.T) {
	e := newEngine(t)
	var logs []internal.HealthLog
	for i := 0; i < 5; i++ {
		logs = append(logs, internal.HealthLog{
			Date:  now.AddDate(0, 0, -i),
			Sleep: internal.Sleep{Hours: hours(4)},
			Mood:  "bad",
		})
	}
	got, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	rules := make([]string, 0, len(got))
	for _, in := range got {
		rules = append(rules, in.Rule)
	}
	assert.Equal(t, []string{"low_sleep", "low_hydration", "low_mood", "sedentary"}, rules)
}

func TestGenerate_IsNotIdempotentWithoutSuppression(t *testing.T) {
	// Re-running on an unchanged window fires the same rules again; the engine
	// keeps no memory of previous runs.
	e := newEngine(t)
	logs := []internal.HealthLog{healthyLog(0), healthyLog(1), healthyLog(2)}
	for i := range logs {
		logs[i].Sleep.Hours = hours(5)
	}
	first, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	second, err := e.Generate("u1", logs, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	kept := Suppressor{}.Filter(second, first, now)
	assert.Len(t, kept, 1, "duplicates pass through when suppression is disabled")
}

func TestNewEngine_RejectsBadRules(t *testing.T) {
	rules := DefaultRules()
	rules[0].Signal = "heart_rate"
	_, err := NewEngine(rules)
	assert.Error(t, err)

	rules = DefaultRules()
	rules[1].Description = "{{.Value"
	_, err = NewEngine(rules)
	assert.Error(t, err)
}

func TestEngineRules_ReturnsDefaultedCopy(t *testing.T) {
	rules := DefaultRules()
	rules[0].Severity = ""
	e, err := NewEngine(rules)
	require.NoError(t, err)

	got := e.Rules()
	require.Len(t, got, len(rules))
	assert.Equal(t, internal.SeverityLow, got[0].Severity)
	assert.Equal(t, internal.Severity(""), rules[0].Severity, "caller's table is not modified")

	got[0].Title = "changed"
	assert.Equal(t, "Low Sleep Detected", e.Rules()[0].Title)
}
