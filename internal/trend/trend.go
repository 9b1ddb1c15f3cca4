// Package trend turns a user's recent health logs into per-metric series.
package trend

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/yourname/wellnesstracker/internal"
)

const dateLayout = "2006-01-02"

var moodScale = map[string]int{
	"terrible": 1,
	"bad":      2,
	"neutral":  3,
	"good":     4,
	"great":    5,
}

// MoodValue maps a mood onto the 1–5 ordinal scale. Unknown or empty moods report false.
func MoodValue(mood string) (int, bool) {
	v, ok := moodScale[mood]
	return v, ok
}

type ExerciseDay struct {
	DidExercise bool `json:"did_exercise"`
	Minutes     int  `json:"minutes"`
}

// Series holds the numeric signals of a window of logs, oldest first.
type Series struct {
	SleepHours   []float64     `json:"sleep_hours"`
	WaterGlasses []float64     `json:"water_glasses"`
	MoodScores   []float64     `json:"mood_scores"`
	Exercise     []ExerciseDay `json:"exercise"`
	Scores       []float64     `json:"scores"`
}

// ExerciseDays counts the logs that recorded any exercise.
func (s Series) ExerciseDays() int {
	return lo.CountBy(s.Exercise, func(d ExerciseDay) bool { return d.DidExercise })
}

// Window returns the logs dated within the trailing number of days before now,
// sorted ascending by date. The input slice is not modified.
func Window(logs []internal.HealthLog, now time.Time, days int) []internal.HealthLog {
	cutoff := now.AddDate(0, 0, -days)
	in := lo.Filter(logs, func(l internal.HealthLog, _ int) bool {
		return !l.Date.Before(cutoff) && !l.Date.After(now)
	})
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].Date.Before(in[j].Date)
	})
	return in
}

// Aggregate derives the series from logs already ordered by date. Absent
// values are skipped rather than zero-filled.
func Aggregate(logs []internal.HealthLog) Series {
	return Series{
		SleepHours: lo.FilterMap(logs, func(l internal.HealthLog, _ int) (float64, bool) {
			if l.Sleep.Hours == nil || *l.Sleep.Hours == 0 {
				return 0, false
			}
			return *l.Sleep.Hours, true
		}),
		// glasses defaults to 0 and is therefore always present
		WaterGlasses: lo.Map(logs, func(l internal.HealthLog, _ int) float64 {
			return float64(l.Water.Glasses)
		}),
		MoodScores: lo.FilterMap(logs, func(l internal.HealthLog, _ int) (float64, bool) {
			v, ok := MoodValue(l.Mood)
			return float64(v), ok
		}),
		Exercise: lo.Map(logs, func(l internal.HealthLog, _ int) ExerciseDay {
			return ExerciseDay{DidExercise: l.Exercise.DidExercise, Minutes: l.Exercise.Minutes}
		}),
		Scores: lo.Map(logs, func(l internal.HealthLog, _ int) float64 {
			return float64(l.CalculatedScore)
		}),
	}
}

// Mean returns the arithmetic mean, or false for an empty series.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return lo.Sum(values) / float64(len(values)), true
}

// RollingAverage is the rounded mean calculated score over the trailing window.
// It is the value the profile's current health score is set to; callers own the write.
func RollingAverage(logs []internal.HealthLog, now time.Time, days int) (int, bool) {
	avg, ok := Mean(Aggregate(Window(logs, now, days)).Scores)
	if !ok {
		return 0, false
	}
	return int(math.Round(avg)), true
}

type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type Trends struct {
	Sleep    []Point `json:"sleep"`
	Mood     []Point `json:"mood"`
	Water    []Point `json:"water"`
	Exercise []Point `json:"exercise"`
	Scores   []Point `json:"scores"`
}

type Summary struct {
	LatestLog *internal.HealthLog `json:"latest_log"`
	Trends    Trends              `json:"trends"`
}

// Summarize builds the dated trend series for the trailing window together with
// the most recent log overall.
func Summarize(logs []internal.HealthLog, now time.Time, days int) Summary {
	var summary Summary
	if len(logs) > 0 {
		latest := lo.MaxBy(logs, func(a, b internal.HealthLog) bool {
			return a.Date.After(b.Date)
		})
		summary.LatestLog = &latest
	}

	t := Trends{
		Sleep:    []Point{},
		Mood:     []Point{},
		Water:    []Point{},
		Exercise: []Point{},
		Scores:   []Point{},
	}
	for _, l := range Window(logs, now, days) {
		date := l.Date.UTC().Format(dateLayout)
		if l.Sleep.Hours != nil && *l.Sleep.Hours > 0 {
			t.Sleep = append(t.Sleep, Point{Date: date, Value: *l.Sleep.Hours})
		}
		if l.Water.Glasses > 0 {
			t.Water = append(t.Water, Point{Date: date, Value: float64(l.Water.Glasses)})
		}
		if v, ok := MoodValue(l.Mood); ok {
			t.Mood = append(t.Mood, Point{Date: date, Value: float64(v)})
		}
		if l.Exercise.Minutes > 0 {
			t.Exercise = append(t.Exercise, Point{Date: date, Value: float64(l.Exercise.Minutes)})
		}
		if l.CalculatedScore > 0 {
			t.Scores = append(t.Scores, Point{Date: date, Value: float64(l.CalculatedScore)})
		}
	}
	summary.Trends = t
	return summary
}
