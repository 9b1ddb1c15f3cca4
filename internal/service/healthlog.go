package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/score"
	"github.com/yourname/wellnesstracker/internal/storage"
	"github.com/yourname/wellnesstracker/internal/trend"
)

type SleepRequest struct {
	Hours   *float64 `json:"hours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Quality string   `json:"quality,omitempty" validate:"omitempty,oneof=poor fair good excellent"`
}

type WaterRequest struct {
	Glasses int `json:"glasses" validate:"gte=0"`
}

type ExerciseRequest struct {
	DidExercise bool   `json:"did_exercise"`
	Minutes     int    `json:"minutes" validate:"gte=0,lte=1440"`
	Type        string `json:"type,omitempty" validate:"max=100"`
}

type NutritionRequest struct {
	Meals      int `json:"meals" validate:"gte=0"`
	JunkFood   int `json:"junk_food" validate:"gte=0"`
	Fruits     int `json:"fruits" validate:"gte=0"`
	Vegetables int `json:"vegetables" validate:"gte=0"`
}

type SymptomRequest struct {
	Name     string `json:"name" validate:"required"`
	Severity string `json:"severity" validate:"required,oneof=mild moderate severe"`
	Notes    string `json:"notes,omitempty"`
}

// HealthLogRequest is the user-supplied part of a log. The score is never accepted from callers.
type HealthLogRequest struct {
	Date      *time.Time        `json:"date,omitempty"`
	Sleep     SleepRequest      `json:"sleep"`
	Mood      string            `json:"mood,omitempty" validate:"omitempty,oneof=terrible bad neutral good great"`
	Energy    string            `json:"energy,omitempty" validate:"omitempty,energy"`
	Water     WaterRequest      `json:"water"`
	Exercise  ExerciseRequest   `json:"exercise"`
	Nutrition *NutritionRequest `json:"nutrition,omitempty"`
	Symptoms  []SymptomRequest  `json:"symptoms,omitempty" validate:"dive"`
	Notes     string            `json:"notes,omitempty" validate:"max=2000"`
}

func ValidateHealthLogRequest(req *HealthLogRequest) error {
	return validateStruct(req)
}

// applyRequest copies the measured fields of req onto log and re-derives the score.
func applyRequest(log *internal.HealthLog, req *HealthLogRequest) {
	log.Sleep = internal.Sleep{Quality: req.Sleep.Quality}
	if req.Sleep.Hours != nil {
		h := *req.Sleep.Hours
		log.Sleep.Hours = &h
	}
	log.Mood = req.Mood
	log.Energy = req.Energy
	log.Water = internal.Water{Glasses: req.Water.Glasses}
	log.Exercise = internal.Exercise{
		DidExercise: req.Exercise.DidExercise,
		Minutes:     req.Exercise.Minutes,
		Type:        req.Exercise.Type,
	}
	log.Nutrition = nil
	if n := req.Nutrition; n != nil {
		log.Nutrition = &internal.Nutrition{Meals: n.Meals, JunkFood: n.JunkFood, Fruits: n.Fruits, Vegetables: n.Vegetables}
	}
	log.Symptoms = make([]internal.Symptom, 0, len(req.Symptoms))
	for _, s := range req.Symptoms {
		log.Symptoms = append(log.Symptoms, internal.Symptom{Name: s.Name, Severity: s.Severity, Notes: s.Notes})
	}
	log.Notes = req.Notes
	log.CalculatedScore = score.Compute(log)
}

// CreateHealthLog validates, scores and persists a new log. Nothing is stored
// and no score is computed when validation fails.
func CreateHealthLog(ctx context.Context, logRepo storage.HealthLogRepository, user *internal.User, req *HealthLogRequest) (*internal.HealthLog, error) {
	if err := ValidateHealthLogRequest(req); err != nil {
		return nil, err
	}
	now := time.Now()
	log := &internal.HealthLog{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Date != nil && !req.Date.IsZero() {
		log.Date = *req.Date
	}
	applyRequest(log, req)

	if err := logRepo.SaveHealthLog(ctx, log); err != nil {
		return nil, fmt.Errorf("save health log: %w", err)
	}
	return log, nil
}

// GetHealthLog returns a log owned by user.
func GetHealthLog(ctx context.Context, logRepo storage.HealthLogRepository, user *internal.User, id string) (*internal.HealthLog, error) {
	log, err := logRepo.GetHealthLog(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.UserID != user.ID {
		return nil, fmt.Errorf("health log %s: %w", id, internal.ErrUnauthorized)
	}
	return log, nil
}

// UpdateHealthLog replaces the measured fields of an owned log and recomputes its score.
// The owner and creation time never change.
func UpdateHealthLog(ctx context.Context, logRepo storage.HealthLogRepository, user *internal.User, id string, req *HealthLogRequest) (*internal.HealthLog, error) {
	if err := ValidateHealthLogRequest(req); err != nil {
		return nil, err
	}
	log, err := GetHealthLog(ctx, logRepo, user, id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil && !req.Date.IsZero() {
		log.Date = *req.Date
	}
	applyRequest(log, req)
	log.UpdatedAt = time.Now()

	if err := logRepo.UpdateHealthLog(ctx, log); err != nil {
		return nil, fmt.Errorf("update health log: %w", err)
	}
	return log, nil
}

// Summarize returns the latest log and the dated trend series of the trailing window.
func Summarize(ctx context.Context, logRepo storage.HealthLogRepository, user *internal.User, days int) (trend.Summary, error) {
	logs, err := logRepo.ListHealthLogs(ctx, user.ID)
	if err != nil {
		return trend.Summary{}, err
	}
	return trend.Summarize(logs, time.Now(), days), nil
}
