package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/wellnesstracker/internal"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id           TEXT PRIMARY KEY,
	token        TEXT UNIQUE NOT NULL,
	name         TEXT NOT NULL,
	health_score INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS health_logs (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	date             TIMESTAMPTZ NOT NULL,
	sleep_hours      DOUBLE PRECISION,
	sleep_quality    TEXT NOT NULL DEFAULT '',
	mood             TEXT NOT NULL DEFAULT '',
	energy           TEXT NOT NULL DEFAULT '',
	water_glasses    INTEGER NOT NULL DEFAULT 0,
	did_exercise     BOOLEAN NOT NULL DEFAULT FALSE,
	exercise_minutes INTEGER NOT NULL DEFAULT 0,
	exercise_type    TEXT NOT NULL DEFAULT '',
	nutrition        JSONB,
	symptoms         JSONB NOT NULL DEFAULT '[]',
	notes            TEXT NOT NULL DEFAULT '',
	calculated_score INTEGER NOT NULL CHECK (calculated_score BETWEEN 0 AND 100),
	created_at       TIMESTAMPTZ NOT NULL,
	updated_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS health_logs_user_date ON health_logs (user_id, date);
CREATE TABLE IF NOT EXISTS health_insights (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	date              TIMESTAMPTZ NOT NULL,
	rule              TEXT NOT NULL DEFAULT '',
	insight_type      TEXT NOT NULL,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL,
	metrics           TEXT[] NOT NULL,
	severity          TEXT NOT NULL DEFAULT 'low',
	is_read           BOOLEAN NOT NULL DEFAULT FALSE,
	action_taken      BOOLEAN NOT NULL DEFAULT FALSE,
	suggested_actions TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS health_insights_user_date ON health_insights (user_id, date);
CREATE TABLE IF NOT EXISTS biometric_readings (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	ts                 TIMESTAMPTZ NOT NULL,
	stress_level       INTEGER NOT NULL,
	fatigue_level      INTEGER NOT NULL,
	heart_rate         INTEGER NOT NULL,
	respiratory_rate   INTEGER NOT NULL,
	oxygen_saturation  INTEGER NOT NULL,
	derived            JSONB NOT NULL
);`

const (
	logColumns = `id, user_id, date, sleep_hours, sleep_quality, mood, energy, water_glasses,
	did_exercise, exercise_minutes, exercise_type, nutrition, symptoms, notes, calculated_score,
	created_at, updated_at`

	insightColumns = `id, user_id, date, rule, insight_type, title, description, metrics, severity,
	is_read, action_taken, suggested_actions`
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		logger.Errorf("failed to apply schema: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("storage: %s %s: %w", what, id, internal.ErrNotFound)
	}
	return err
}

// --- UserRepository ---
func (p *PostgresStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, name, health_score FROM users WHERE token = $1`, token)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name, &u.HealthScore); err != nil {
		p.logger.Warnf("user lookup by token failed: %v", err)
		return nil, notFound(err, "user", "by token")
	}
	return &u, nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, token, name, health_score FROM users WHERE id = $1`, id)
	var u internal.User
	if err := row.Scan(&u.ID, &u.Token, &u.Name, &u.HealthScore); err != nil {
		return nil, notFound(err, "user", id)
	}
	return &u, nil
}

func (p *PostgresStorage) UpdateHealthScore(ctx context.Context, userID string, score int) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET health_score = $2 WHERE id = $1`, userID, score)
	if err != nil {
		p.logger.Errorf("failed to update health score: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	return nil
}

func (p *PostgresStorage) UpsertUser(ctx context.Context, u *internal.User) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, token, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET token = EXCLUDED.token, name = EXCLUDED.name`,
		u.ID, u.Token, u.Name)
	if err != nil {
		p.logger.Errorf("failed to upsert user: %v", err)
		return err
	}
	return nil
}

// --- HealthLogRepository ---
func logArgs(l *internal.HealthLog) ([]any, error) {
	var nutrition []byte
	if l.Nutrition != nil {
		b, err := json.Marshal(l.Nutrition)
		if err != nil {
			return nil, err
		}
		nutrition = b
	}
	symptoms := l.Symptoms
	if symptoms == nil {
		symptoms = []internal.Symptom{}
	}
	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return nil, err
	}
	return []any{
		l.ID, l.UserID, l.Date, l.Sleep.Hours, l.Sleep.Quality, l.Mood, l.Energy, l.Water.Glasses,
		l.Exercise.DidExercise, l.Exercise.Minutes, l.Exercise.Type, nutrition, symptomsJSON, l.Notes,
		l.CalculatedScore, l.CreatedAt, l.UpdatedAt,
	}, nil
}

func (p *PostgresStorage) SaveHealthLog(ctx context.Context, log *internal.HealthLog) error {
	args, err := logArgs(log)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO health_logs (`+logColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`, args...)
	if err != nil {
		p.logger.Errorf("failed to insert health log: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) UpdateHealthLog(ctx context.Context, log *internal.HealthLog) error {
	args, err := logArgs(log)
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, `UPDATE health_logs SET
		user_id = $2, date = $3, sleep_hours = $4, sleep_quality = $5, mood = $6, energy = $7,
		water_glasses = $8, did_exercise = $9, exercise_minutes = $10, exercise_type = $11,
		nutrition = $12, symptoms = $13, notes = $14, calculated_score = $15,
		created_at = $16, updated_at = $17
		WHERE id = $1`, args...)
	if err != nil {
		p.logger.Errorf("failed to update health log: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("storage: health log %s: %w", log.ID, internal.ErrNotFound)
	}
	return nil
}

func scanLog(row pgx.Row) (internal.HealthLog, error) {
	var (
		l         internal.HealthLog
		nutrition []byte
		symptoms  []byte
	)
	err := row.Scan(&l.ID, &l.UserID, &l.Date, &l.Sleep.Hours, &l.Sleep.Quality, &l.Mood, &l.Energy,
		&l.Water.Glasses, &l.Exercise.DidExercise, &l.Exercise.Minutes, &l.Exercise.Type,
		&nutrition, &symptoms, &l.Notes, &l.CalculatedScore, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	if len(nutrition) > 0 {
		l.Nutrition = &internal.Nutrition{}
		if err := json.Unmarshal(nutrition, l.Nutrition); err != nil {
			return l, fmt.Errorf("decode nutrition: %w", err)
		}
	}
	if len(symptoms) > 0 {
		if err := json.Unmarshal(symptoms, &l.Symptoms); err != nil {
			return l, fmt.Errorf("decode symptoms: %w", err)
		}
	}
	return l, nil
}

func (p *PostgresStorage) GetHealthLog(ctx context.Context, id string) (*internal.HealthLog, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+logColumns+` FROM health_logs WHERE id = $1`, id)
	l, err := scanLog(row)
	if err != nil {
		return nil, notFound(err, "health log", id)
	}
	return &l, nil
}

func (p *PostgresStorage) queryLogs(ctx context.Context, sql string, args ...any) ([]internal.HealthLog, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query health logs: %v", err)
		return nil, err
	}
	defer rows.Close()

	logs := []internal.HealthLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			p.logger.Errorf("failed to scan health log: %v", err)
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (p *PostgresStorage) ListHealthLogs(ctx context.Context, userID string) ([]internal.HealthLog, error) {
	return p.queryLogs(ctx, `SELECT `+logColumns+` FROM health_logs WHERE user_id = $1 ORDER BY date DESC`, userID)
}

func (p *PostgresStorage) ListHealthLogsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthLog, error) {
	return p.queryLogs(ctx, `SELECT `+logColumns+` FROM health_logs WHERE user_id = $1 AND date >= $2 ORDER BY date ASC`, userID, since)
}

// --- InsightRepository ---
func metricStrings(ms []internal.Metric) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}

func (p *PostgresStorage) InsertInsights(ctx context.Context, insights []internal.HealthInsight) error {
	if len(insights) == 0 {
		return nil
	}
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, in := range insights {
			actions := in.SuggestedActions
			if actions == nil {
				actions = []string{}
			}
			batch.Queue(`INSERT INTO health_insights (`+insightColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				in.ID, in.UserID, in.Date, in.Rule, string(in.InsightType), in.Title, in.Description,
				metricStrings(in.Metrics), string(in.Severity), in.IsRead, in.ActionTaken, actions)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		p.logger.Errorf("failed to insert insights: %v", err)
		return err
	}
	return nil
}

func scanInsight(row pgx.Row) (internal.HealthInsight, error) {
	var (
		in       internal.HealthInsight
		metrics  []string
		kind     string
		severity string
	)
	err := row.Scan(&in.ID, &in.UserID, &in.Date, &in.Rule, &kind, &in.Title, &in.Description,
		&metrics, &severity, &in.IsRead, &in.ActionTaken, &in.SuggestedActions)
	if err != nil {
		return in, err
	}
	in.InsightType = internal.InsightType(kind)
	in.Severity = internal.Severity(severity)
	in.Metrics = make([]internal.Metric, len(metrics))
	for i, m := range metrics {
		in.Metrics[i] = internal.Metric(m)
	}
	return in, nil
}

func (p *PostgresStorage) GetInsight(ctx context.Context, id string) (*internal.HealthInsight, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+insightColumns+` FROM health_insights WHERE id = $1`, id)
	in, err := scanInsight(row)
	if err != nil {
		return nil, notFound(err, "insight", id)
	}
	return &in, nil
}

func (p *PostgresStorage) SetInsightFlags(ctx context.Context, id string, read, actionTaken bool) (*internal.HealthInsight, error) {
	row := p.pool.QueryRow(ctx, `UPDATE health_insights
		SET is_read = is_read OR $2, action_taken = action_taken OR $3
		WHERE id = $1
		RETURNING `+insightColumns, id, read, actionTaken)
	in, err := scanInsight(row)
	if err != nil {
		return nil, notFound(err, "insight", id)
	}
	return &in, nil
}

func (p *PostgresStorage) queryInsights(ctx context.Context, sql string, args ...any) ([]internal.HealthInsight, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query insights: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []internal.HealthInsight{}
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (p *PostgresStorage) ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.HealthInsight, error) {
	return p.queryInsights(ctx, `SELECT `+insightColumns+` FROM health_insights
		WHERE user_id = $1 AND (NOT $2 OR NOT is_read) ORDER BY date DESC`, userID, unreadOnly)
}

func (p *PostgresStorage) ListInsightsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthInsight, error) {
	return p.queryInsights(ctx, `SELECT `+insightColumns+` FROM health_insights
		WHERE user_id = $1 AND date >= $2 ORDER BY date DESC`, userID, since)
}

// --- BiometricRepository ---
type derivedFields struct {
	StressLevelStatus     string   `json:"stress_level_status"`
	Mood                  string   `json:"mood"`
	RelaxationLevel       string   `json:"relaxation_level"`
	HeartRateStatus       string   `json:"heart_rate_status"`
	RespiratoryRateStatus string   `json:"respiratory_rate_status"`
	OxygenStatus          string   `json:"oxygen_saturation_status"`
	Recommendations       []string `json:"recommendations"`
}

func (p *PostgresStorage) SaveBiometric(ctx context.Context, r *internal.BiometricReading) error {
	derived, err := json.Marshal(derivedFields{
		StressLevelStatus:     r.StressLevelStatus,
		Mood:                  r.Mood,
		RelaxationLevel:       r.RelaxationLevel,
		HeartRateStatus:       r.HeartRateStatus,
		RespiratoryRateStatus: r.RespiratoryRateStatus,
		OxygenStatus:          r.OxygenStatus,
		Recommendations:       r.Recommendations,
	})
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx, `INSERT INTO biometric_readings
		(id, user_id, ts, stress_level, fatigue_level, heart_rate, respiratory_rate, oxygen_saturation, derived)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.UserID, r.Timestamp, r.StressLevel, r.FatigueLevel, r.HeartRate, r.RespiratoryRate,
		r.OxygenSaturation, derived)
	if err != nil {
		p.logger.Errorf("failed to insert biometric reading: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) ListBiometrics(ctx context.Context, userID string, limit int) ([]internal.BiometricReading, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, ts, stress_level, fatigue_level, heart_rate,
		respiratory_rate, oxygen_saturation, derived
		FROM biometric_readings WHERE user_id = $1 ORDER BY ts DESC LIMIT NULLIF($2::int, 0)`, userID, limit)
	if err != nil {
		p.logger.Errorf("failed to query biometric readings: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []internal.BiometricReading{}
	for rows.Next() {
		var (
			r   internal.BiometricReading
			raw []byte
			d   derivedFields
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Timestamp, &r.StressLevel, &r.FatigueLevel,
			&r.HeartRate, &r.RespiratoryRate, &r.OxygenSaturation, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode biometric reading: %w", err)
		}
		r.StressLevelStatus = d.StressLevelStatus
		r.Mood = d.Mood
		r.RelaxationLevel = d.RelaxationLevel
		r.HeartRateStatus = d.HeartRateStatus
		r.RespiratoryRateStatus = d.RespiratoryRateStatus
		r.OxygenStatus = d.OxygenStatus
		r.Recommendations = d.Recommendations
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStorage)(nil)
