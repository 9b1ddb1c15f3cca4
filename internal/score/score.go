// Package score computes the 0–100 wellness score of a single health log.
package score

import "github.com/yourname/wellnesstracker/internal"

const (
	Baseline     = 50
	MaxDeduction = 20
)

var symptomPenalty = map[string]int{
	"severe":   10,
	"moderate": 5,
	"mild":     2,
}

// Compute is pure: absent optional fields contribute nothing.
func Compute(log *internal.HealthLog) int {
	score := Baseline
	score += sleepPoints(log.Sleep)
	score += waterPoints(log.Water)
	score += exercisePoints(log.Exercise)
	score += nutritionPoints(log.Nutrition)

	if len(log.Symptoms) > 0 {
		score = max(0, score-symptomDeduction(log.Symptoms))
	}

	return min(100, max(0, score))
}

func sleepPoints(s internal.Sleep) int {
	if s.Hours == nil || *s.Hours == 0 {
		return 0
	}
	h := *s.Hours
	switch {
	case h >= 7 && h <= 9:
		return 25
	case h >= 6 && h < 7:
		return 15
	case h > 9 && h <= 10:
		return 15
	default:
		return 5
	}
}

func waterPoints(w internal.Water) int {
	switch {
	case w.Glasses >= 8:
		return 15
	case w.Glasses >= 5:
		return 10
	case w.Glasses >= 3:
		return 5
	default:
		return 0
	}
}

func exercisePoints(e internal.Exercise) int {
	if !e.DidExercise {
		return 0
	}
	switch {
	case e.Minutes >= 30:
		return 20
	case e.Minutes >= 15:
		return 10
	default:
		return 5
	}
}

// nutritionPoints scores only a submitted nutrition block; its counts are taken literally.
func nutritionPoints(n *internal.Nutrition) int {
	if n == nil {
		return 0
	}
	points := 0
	if n.Fruits >= 2 {
		points += 5
	}
	if n.Vegetables >= 3 {
		points += 5
	}
	switch n.JunkFood {
	case 0:
		points += 10
	case 1:
		points += 5
	}
	return points
}

func symptomDeduction(symptoms []internal.Symptom) int {
	total := 0
	for _, s := range symptoms {
		total += symptomPenalty[s.Severity]
	}
	return min(MaxDeduction, total)
}
