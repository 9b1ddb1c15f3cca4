// Package biometric classifies measured vitals. Readings are built from raw
// measurements first; Derive then fills every status field from them.
package biometric

import "github.com/yourname/wellnesstracker/internal"

const (
	StatusLow      = "Low"
	StatusModerate = "Moderate"
	StatusHigh     = "High"
	StatusNormal   = "Normal"
)

var generalAdvice = []string{
	"Stay hydrated by drinking at least 8 glasses of water daily.",
	"Aim for 7-9 hours of quality sleep each night for optimal health.",
	"Include at least 30 minutes of moderate physical activity in your daily routine.",
}

// Derive returns a copy of r with statuses and recommendations computed from
// its measurements. Previously derived values on r are ignored.
func Derive(r internal.BiometricReading) internal.BiometricReading {
	r.StressLevelStatus = stressStatus(r.StressLevel)
	r.Mood, r.RelaxationLevel = moodAndRelaxation(r.StressLevel)
	r.HeartRateStatus = rangeStatus(r.HeartRate, 60, 100)
	r.RespiratoryRateStatus = rangeStatus(r.RespiratoryRate, 12, 20)
	r.OxygenStatus = StatusNormal
	if r.OxygenSaturation < 95 {
		r.OxygenStatus = StatusLow
	}
	r.Recommendations = recommendations(r)
	return r
}

func stressStatus(level int) string {
	switch {
	case level <= 3:
		return StatusLow
	case level <= 7:
		return StatusModerate
	default:
		return StatusHigh
	}
}

func moodAndRelaxation(stress int) (string, string) {
	switch {
	case stress <= 3:
		return "Happy", StatusHigh
	case stress <= 7:
		return "Neutral", StatusModerate
	default:
		return "Sad", StatusLow
	}
}

func rangeStatus(v, low, high int) string {
	switch {
	case v < low:
		return StatusLow
	case v > high:
		return StatusHigh
	default:
		return StatusNormal
	}
}

func recommendations(r internal.BiometricReading) []string {
	var out []string
	switch r.HeartRateStatus {
	case StatusHigh:
		out = append(out, "Your heart rate is elevated. Try deep breathing exercises and reduce caffeine intake.")
	case StatusLow:
		out = append(out, "Your heart rate is lower than typical resting rate. Consider light activity to improve circulation.")
	}
	switch r.RespiratoryRateStatus {
	case StatusHigh:
		out = append(out, "Your breathing rate is elevated. Practice regular deep breathing exercises.")
	case StatusLow:
		out = append(out, "Your breathing rate is low. Try to be more conscious of your breathing patterns.")
	}
	if r.OxygenStatus == StatusLow {
		out = append(out, "Your oxygen saturation is slightly lower than optimal. Consider improving ventilation and air quality in your surroundings.")
	}
	if r.StressLevelStatus == StatusHigh {
		out = append(out, "Your stress indicators are elevated. Consider mindfulness practices, adequate sleep, and regular physical activity.")
	}
	return append(out, generalAdvice...)
}
