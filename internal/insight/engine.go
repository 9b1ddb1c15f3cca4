// Package insight evaluates a table of threshold rules over a window of
// health logs and produces insight drafts.
package insight

import (
	"time"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/trend"
)

// MinWindowLogs is the number of logs a window needs before any rule is evaluated.
const MinWindowLogs = 3

type Engine struct {
	rules []Rule
}

// NewEngine validates the rule table and compiles its description templates.
func NewEngine(rules []Rule) (*Engine, error) {
	compiled := make([]Rule, len(rules))
	copy(compiled, rules)
	for i := range compiled {
		if err := compiled[i].validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the validated table, with defaults such as severity filled in.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

type measurement struct {
	Value   float64
	Samples int
	Count   int
	Total   int
}

func measure(signal Signal, series trend.Series) (measurement, bool) {
	var values []float64
	switch signal {
	case SignalAvgSleepHours:
		values = series.SleepHours
	case SignalAvgWaterGlasses:
		values = series.WaterGlasses
	case SignalAvgMood:
		values = series.MoodScores
	case SignalExerciseRate:
		total := len(series.Exercise)
		if total == 0 {
			return measurement{}, false
		}
		days := series.ExerciseDays()
		return measurement{
			Value:   float64(days) / float64(total),
			Samples: total,
			Count:   days,
			Total:   total,
		}, true
	default:
		return measurement{}, false
	}

	avg, ok := trend.Mean(values)
	if !ok {
		return measurement{}, false
	}
	return measurement{Value: avg, Samples: len(values), Count: len(values), Total: len(values)}, true
}

// Generate evaluates every rule against the window. Fewer than MinWindowLogs
// logs is not an error: the result is simply empty. On error no drafts are
// returned, so callers never persist a partial run.
func (e *Engine) Generate(userID string, window []internal.HealthLog, now time.Time) ([]internal.HealthInsight, error) {
	if len(window) < MinWindowLogs {
		return nil, nil
	}

	series := trend.Aggregate(window)
	var drafts []internal.HealthInsight
	for i := range e.rules {
		r := &e.rules[i]
		m, ok := measure(r.Signal, series)
		if !ok || m.Samples < r.MinSamples || !r.Comparator.holds(m.Value, r.Threshold) {
			continue
		}
		desc, err := r.describe(m)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, internal.HealthInsight{
			UserID:           userID,
			Date:             now,
			Rule:             r.Name,
			InsightType:      r.Type,
			Title:            r.Title,
			Description:      desc,
			Metrics:          []internal.Metric{r.Metric},
			Severity:         r.Severity,
			SuggestedActions: append([]string(nil), r.Actions...),
		})
	}
	return drafts, nil
}
