package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/insight"
	"github.com/yourname/wellnesstracker/internal/storage"
	"github.com/yourname/wellnesstracker/internal/trend"
)

type FollowUpConfig struct {
	ScoreWindowDays   int
	InsightWindowDays int
	Suppression       insight.Suppressor
	QueueSize         int
	TaskTimeout       time.Duration
}

// FollowUp runs the work that follows a saved log: refreshing the profile's
// rolling score and generating insights. It is fed through a buffered queue;
// its failures are logged and never affect the log that triggered it.
type FollowUp struct {
	logs     storage.HealthLogRepository
	insights storage.InsightRepository
	users    storage.UserRepository
	engine   *insight.Engine
	cfg      FollowUpConfig
	logger   internal.Logger
	now      func() time.Time

	tasks   chan string
	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
}

func NewFollowUp(logs storage.HealthLogRepository, insights storage.InsightRepository, users storage.UserRepository,
	engine *insight.Engine, cfg FollowUpConfig, logger internal.Logger) *FollowUp {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.ScoreWindowDays <= 0 {
		cfg.ScoreWindowDays = 7
	}
	if cfg.InsightWindowDays <= 0 {
		cfg.InsightWindowDays = 7
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 10 * time.Second
	}
	return &FollowUp{
		logs:     logs,
		insights: insights,
		users:    users,
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		tasks:    make(chan string, cfg.QueueSize),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. It exits once Stop has drained the queue.
func (f *FollowUp) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started || f.stopped {
		return
	}
	f.started = true
	go func() {
		defer close(f.done)
		for userID := range f.tasks {
			ctx, cancel := context.WithTimeout(context.Background(), f.cfg.TaskTimeout)
			if err := f.Process(ctx, userID); err != nil {
				f.logger.Errorf("followup: user %s: %v", userID, err)
			}
			cancel()
		}
	}()
}

// Enqueue hands a user's follow-up to the worker without blocking. It reports
// false when the queue is full or stopped; the task is then dropped.
func (f *FollowUp) Enqueue(userID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.stopped {
		f.logger.Warnf("followup: stopped, dropping task for user %s", userID)
		return false
	}
	select {
	case f.tasks <- userID:
		return true
	default:
		f.logger.Warnf("followup: queue full, dropping task for user %s", userID)
		return false
	}
}

// Stop closes the queue and waits for queued tasks to finish.
func (f *FollowUp) Stop() {
	f.mu.Lock()
	if !f.stopped {
		f.stopped = true
		close(f.tasks)
	}
	started := f.started
	f.mu.Unlock()
	if started {
		<-f.done
	}
}

// Process runs both follow-up steps for one user. The group has no shared
// context, so one step failing does not cancel the other; every step error is
// returned.
func (f *FollowUp) Process(ctx context.Context, userID string) error {
	steps := []struct {
		name string
		run  func(context.Context, string) error
	}{
		{"refresh health score", func(ctx context.Context, id string) error {
			_, err := f.RefreshHealthScore(ctx, id)
			return err
		}},
		{"generate insights", func(ctx context.Context, id string) error {
			_, err := f.GenerateInsights(ctx, id)
			return err
		}},
	}

	var g errgroup.Group
	errs := make([]error, len(steps))
	for i, step := range steps {
		g.Go(func() error {
			if err := step.run(ctx, userID); err != nil {
				errs[i] = fmt.Errorf("%s: %w", step.name, err)
			}
			return errs[i]
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}

// RefreshHealthScore writes the rolling average score onto the user's profile.
// Concurrent refreshes for one user are last-write-wins.
func (f *FollowUp) RefreshHealthScore(ctx context.Context, userID string) (int, error) {
	now := f.now()
	logs, err := f.logs.ListHealthLogsSince(ctx, userID, now.AddDate(0, 0, -f.cfg.ScoreWindowDays))
	if err != nil {
		return 0, err
	}
	avg, ok := trend.RollingAverage(logs, now, f.cfg.ScoreWindowDays)
	if !ok {
		return 0, nil
	}
	if err := f.users.UpdateHealthScore(ctx, userID, avg); err != nil {
		return 0, err
	}
	f.logger.Debugf("followup: user %s health score %d", userID, avg)
	return avg, nil
}

// GenerateInsights evaluates the rule table over the insight window and stores
// what fired, after suppression, as one batch.
func (f *FollowUp) GenerateInsights(ctx context.Context, userID string) ([]internal.HealthInsight, error) {
	now := f.now()
	logs, err := f.logs.ListHealthLogsSince(ctx, userID, now.AddDate(0, 0, -f.cfg.InsightWindowDays))
	if err != nil {
		return nil, err
	}
	window := trend.Window(logs, now, f.cfg.InsightWindowDays)
	drafts, err := f.engine.Generate(userID, window, now)
	if err != nil || len(drafts) == 0 {
		return nil, err
	}

	if f.cfg.Suppression.Enabled() {
		recent, err := f.insights.ListInsightsSince(ctx, userID, f.cfg.Suppression.Since(now))
		if err != nil {
			return nil, err
		}
		drafts = f.cfg.Suppression.Filter(drafts, recent, now)
		if len(drafts) == 0 {
			return nil, nil
		}
	}

	for i := range drafts {
		drafts[i].ID = uuid.NewString()
	}
	if err := f.insights.InsertInsights(ctx, drafts); err != nil {
		return nil, err
	}
	f.logger.Infof("followup: user %s: %d new insights", userID, len(drafts))
	return drafts, nil
}
