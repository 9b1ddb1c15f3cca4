package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/biometric"
	"github.com/yourname/wellnesstracker/internal/storage"
)

const biometricHistoryLimit = 30

// BiometricRequest carries raw measurements only; statuses are derived server side.
type BiometricRequest struct {
	StressLevel      int `json:"stress_level" validate:"required,gte=1,lte=10"`
	FatigueLevel     int `json:"fatigue_level" validate:"required,gte=1,lte=10"`
	HeartRate        int `json:"heart_rate" validate:"required,gte=20,lte=250"`
	RespiratoryRate  int `json:"respiratory_rate" validate:"required,gte=4,lte=60"`
	OxygenSaturation int `json:"oxygen_saturation" validate:"required,gte=50,lte=100"`
}

func CreateBiometricReading(ctx context.Context, repo storage.BiometricRepository, user *internal.User, req *BiometricRequest) (*internal.BiometricReading, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	reading := biometric.Derive(internal.BiometricReading{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Timestamp:        time.Now(),
		StressLevel:      req.StressLevel,
		FatigueLevel:     req.FatigueLevel,
		HeartRate:        req.HeartRate,
		RespiratoryRate:  req.RespiratoryRate,
		OxygenSaturation: req.OxygenSaturation,
	})
	if err := repo.SaveBiometric(ctx, &reading); err != nil {
		return nil, fmt.Errorf("save biometric reading: %w", err)
	}
	return &reading, nil
}

func ListBiometricReadings(ctx context.Context, repo storage.BiometricRepository, user *internal.User) ([]internal.BiometricReading, error) {
	return repo.ListBiometrics(ctx, user.ID, biometricHistoryLimit)
}
