package storage

import (
	"context"
	"time"

	"github.com/yourname/wellnesstracker/internal"
)

type HealthLogRepository interface {
	SaveHealthLog(ctx context.Context, log *internal.HealthLog) error
	// UpdateHealthLog replaces a stored log; internal.ErrNotFound if it does not exist.
	UpdateHealthLog(ctx context.Context, log *internal.HealthLog) error
	GetHealthLog(ctx context.Context, id string) (*internal.HealthLog, error)
	// ListHealthLogs returns a user's logs newest first.
	ListHealthLogs(ctx context.Context, userID string) ([]internal.HealthLog, error)
	// ListHealthLogsSince returns logs dated at or after since, oldest first.
	ListHealthLogsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthLog, error)
}

type InsightRepository interface {
	// InsertInsights stores the whole batch or none of it.
	InsertInsights(ctx context.Context, insights []internal.HealthInsight) error
	GetInsight(ctx context.Context, id string) (*internal.HealthInsight, error)
	// SetInsightFlags only ever turns flags on; false leaves a flag unchanged.
	SetInsightFlags(ctx context.Context, id string, read, actionTaken bool) (*internal.HealthInsight, error)
	// ListInsights returns a user's insights newest first.
	ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.HealthInsight, error)
	ListInsightsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthInsight, error)
}

type UserRepository interface {
	GetUserByToken(ctx context.Context, token string) (*internal.User, error)
	GetUser(ctx context.Context, id string) (*internal.User, error)
	UpdateHealthScore(ctx context.Context, userID string, score int) error
	// UpsertUser creates the user or refreshes its token and name, keeping the health score.
	UpsertUser(ctx context.Context, u *internal.User) error
}

type BiometricRepository interface {
	SaveBiometric(ctx context.Context, reading *internal.BiometricReading) error
	// ListBiometrics returns at most limit readings, newest first.
	ListBiometrics(ctx context.Context, userID string, limit int) ([]internal.BiometricReading, error)
}

// Store bundles every repository a backend provides.
type Store interface {
	HealthLogRepository
	InsightRepository
	UserRepository
	BiometricRepository
	Close() error
}
