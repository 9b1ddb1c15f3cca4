package internal

import "time"

type User struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	Name        string `json:"name"`
	HealthScore int    `json:"health_score"` // rolling 7-day average of log scores
}

type Sleep struct {
	Hours   *float64 `json:"hours,omitempty"`
	Quality string   `json:"quality,omitempty"` // poor, fair, good, excellent
}

type Water struct {
	Glasses int `json:"glasses"`
}

type Exercise struct {
	DidExercise bool   `json:"did_exercise"`
	Minutes     int    `json:"minutes"`
	Type        string `json:"type,omitempty"`
}

type Nutrition struct {
	Meals      int `json:"meals"`
	JunkFood   int `json:"junk_food"`
	Fruits     int `json:"fruits"`
	Vegetables int `json:"vegetables"`
}

type Symptom struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // mild, moderate, severe
	Notes    string `json:"notes,omitempty"`
}

type HealthLog struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Date            time.Time  `json:"date"`
	Sleep           Sleep      `json:"sleep"`
	Mood            string     `json:"mood,omitempty"`
	Energy          string     `json:"energy,omitempty"`
	Water           Water      `json:"water"`
	Exercise        Exercise   `json:"exercise"`
	Nutrition       *Nutrition `json:"nutrition,omitempty"`
	Symptoms        []Symptom  `json:"symptoms,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CalculatedScore int        `json:"calculated_score"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type InsightType string

const (
	InsightPattern     InsightType = "pattern"
	InsightSuggestion  InsightType = "suggestion"
	InsightAlert       InsightType = "alert"
	InsightAchievement InsightType = "achievement"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Metric names the log signal an insight was derived from.
type Metric string

const (
	MetricSleep     Metric = "sleep"
	MetricMood      Metric = "mood"
	MetricEnergy    Metric = "energy"
	MetricWater     Metric = "water"
	MetricExercise  Metric = "exercise"
	MetricNutrition Metric = "nutrition"
	MetricSymptoms  Metric = "symptoms"
)

type HealthInsight struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	Date             time.Time   `json:"date"`
	Rule             string      `json:"rule,omitempty"`
	InsightType      InsightType `json:"insight_type"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Metrics          []Metric    `json:"metrics"`
	Severity         Severity    `json:"severity"`
	IsRead           bool        `json:"is_read"`
	ActionTaken      bool        `json:"action_taken"`
	SuggestedActions []string    `json:"suggested_actions"`
}

// BiometricReading holds measured vitals plus the statuses derived from them.
type BiometricReading struct {
	ID                    string    `json:"id"`
	UserID                string    `json:"user_id"`
	Timestamp             time.Time `json:"timestamp"`
	StressLevel           int       `json:"stress_level"` // 1–10 scale
	FatigueLevel          int       `json:"fatigue_level"`
	HeartRate             int       `json:"heart_rate"`
	RespiratoryRate       int       `json:"respiratory_rate"`
	OxygenSaturation      int       `json:"oxygen_saturation"`
	StressLevelStatus     string    `json:"stress_level_status"`
	Mood                  string    `json:"mood"`
	RelaxationLevel       string    `json:"relaxation_level"`
	HeartRateStatus       string    `json:"heart_rate_status"`
	RespiratoryRateStatus string    `json:"respiratory_rate_status"`
	OxygenStatus          string    `json:"oxygen_saturation_status"`
	Recommendations       []string  `json:"recommendations"`
}
