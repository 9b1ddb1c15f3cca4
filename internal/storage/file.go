package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yourname/wellnesstracker/internal"
)

const (
	usersFileName      = "users.json"
	logsFileName       = "health_logs.json"
	insightsFileName   = "insights.json"
	biometricsFileName = "biometrics.json"
)

type FileStorage struct {
	users        map[string]*internal.User               // id -> User
	tokens       map[string]string                       // token -> user id
	logs         map[string]*internal.HealthLog          // id -> HealthLog
	userLogIndex map[string][]*internal.HealthLog        // userID -> logs (sorted descending by date)
	insights     map[string]*internal.HealthInsight      // id -> HealthInsight
	userInsights map[string][]*internal.HealthInsight    // userID -> insights (sorted descending by date)
	biometrics   map[string][]*internal.BiometricReading // userID -> readings (sorted descending)
	mu           sync.RWMutex
	dir          string
	saveUsers    chan struct{}
	saveLogs     chan struct{}
	saveInsights chan struct{}
	saveBio      chan struct{}
	shutdownChan chan struct{}
	workers      sync.WaitGroup
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(dir string, logger internal.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	s := &FileStorage{
		users:        make(map[string]*internal.User),
		tokens:       make(map[string]string),
		logs:         make(map[string]*internal.HealthLog),
		userLogIndex: make(map[string][]*internal.HealthLog),
		insights:     make(map[string]*internal.HealthInsight),
		userInsights: make(map[string][]*internal.HealthInsight),
		biometrics:   make(map[string][]*internal.BiometricReading),
		dir:          dir,
		saveUsers:    make(chan struct{}, 1),
		saveLogs:     make(chan struct{}, 1),
		saveInsights: make(chan struct{}, 1),
		saveBio:      make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load data: %v", err)
		return nil, err
	}

	s.startWorker("users", s.saveUsers, s.writeUsers)
	s.startWorker("health logs", s.saveLogs, s.writeLogs)
	s.startWorker("insights", s.saveInsights, s.writeInsights)
	s.startWorker("biometrics", s.saveBio, s.writeBiometrics)

	return s, nil
}

func (s *FileStorage) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON decodes a file into v; a missing or empty file leaves v untouched.
func readJSON(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStorage) load() error {
	var users []*internal.User
	if err := readJSON(s.path(usersFileName), &users); err != nil {
		return err
	}
	var logs []*internal.HealthLog
	if err := readJSON(s.path(logsFileName), &logs); err != nil {
		return err
	}
	var insights []*internal.HealthInsight
	if err := readJSON(s.path(insightsFileName), &insights); err != nil {
		return err
	}
	var readings []*internal.BiometricReading
	if err := readJSON(s.path(biometricsFileName), &readings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.tokens[u.Token] = u.ID
	}
	for _, l := range logs {
		s.logs[l.ID] = l
		s.userLogIndex[l.UserID] = append(s.userLogIndex[l.UserID], l)
	}
	for _, in := range insights {
		s.insights[in.ID] = in
		s.userInsights[in.UserID] = append(s.userInsights[in.UserID], in)
	}
	for _, r := range readings {
		s.biometrics[r.UserID] = append(s.biometrics[r.UserID], r)
	}

	// Sort each user's records descending by date
	for userID, l := range s.userLogIndex {
		sort.SliceStable(l, func(i, j int) bool { return l[i].Date.After(l[j].Date) })
		s.userLogIndex[userID] = l
	}
	for userID, in := range s.userInsights {
		sort.SliceStable(in, func(i, j int) bool { return in[i].Date.After(in[j].Date) })
		s.userInsights[userID] = in
	}
	for userID, r := range s.biometrics {
		sort.SliceStable(r, func(i, j int) bool { return r[i].Timestamp.After(r[j].Timestamp) })
		s.biometrics[userID] = r
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

// The write functions snapshot records by value under the read lock so
// encoding never observes an in-place update.

func (s *FileStorage) writeUsers() error {
	s.mu.RLock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	s.mu.RUnlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return atomicWriteFileJSON(s.path(usersFileName), users)
}

func (s *FileStorage) writeLogs() error {
	s.mu.RLock()
	logs := make([]internal.HealthLog, 0, len(s.logs))
	for _, l := range s.logs {
		logs = append(logs, *cloneLog(l))
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.path(logsFileName), logs)
}

func (s *FileStorage) writeInsights() error {
	s.mu.RLock()
	insights := make([]internal.HealthInsight, 0, len(s.insights))
	for _, in := range s.insights {
		insights = append(insights, *cloneInsight(in))
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.path(insightsFileName), insights)
}

func (s *FileStorage) writeBiometrics() error {
	s.mu.RLock()
	readings := make([]internal.BiometricReading, 0)
	for _, list := range s.biometrics {
		for _, r := range list {
			cp := *r
			cp.Recommendations = append([]string(nil), r.Recommendations...)
			readings = append(readings, cp)
		}
	}
	s.mu.RUnlock()
	return atomicWriteFileJSON(s.path(biometricsFileName), readings)
}

// startWorker batches save operations to avoid frequent disk writes.
func (s *FileStorage) startWorker(name string, signal <-chan struct{}, save func() error) {
	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		timer := time.NewTimer(s.saveDelay)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-signal:
				timer.Reset(s.saveDelay)
			case <-timer.C:
				if err := save(); err != nil {
					s.logger.Errorf("storage: error saving %s: %v", name, err)
				}
			case <-s.shutdownChan:
				return
			}
		}
	}()
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the save workers and writes everything synchronously.
func (s *FileStorage) Close() error {
	close(s.shutdownChan)
	s.workers.Wait()

	return errors.Join(s.writeUsers(), s.writeLogs(), s.writeInsights(), s.writeBiometrics())
}

// --- UserRepository ---

// UpsertUser creates the user or refreshes its token and name. An existing
// health score is kept.
func (s *FileStorage) UpsertUser(ctx context.Context, u *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	if existing, ok := s.users[u.ID]; ok {
		if existing.Token != u.Token {
			delete(s.tokens, existing.Token)
		}
		cp.HealthScore = existing.HealthScore
	}
	s.users[u.ID] = &cp
	if cp.Token != "" {
		s.tokens[cp.Token] = cp.ID
	}
	notify(s.saveUsers)
	return nil
}

func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, fmt.Errorf("storage: user: %w", internal.ErrNotFound)
	}
	u := *s.users[id]
	return &u, nil
}

func (s *FileStorage) GetUser(ctx context.Context, id string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", id, internal.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *FileStorage) UpdateHealthScore(ctx context.Context, userID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	u.HealthScore = score
	notify(s.saveUsers)
	return nil
}

// --- HealthLogRepository ---

func (s *FileStorage) SaveHealthLog(ctx context.Context, log *internal.HealthLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneLog(log)
	s.logs[cp.ID] = cp
	s.insertLog(cp)
	notify(s.saveLogs)
	return nil
}

// insertLog keeps the user index in descending date order. Caller holds mu.
func (s *FileStorage) insertLog(log *internal.HealthLog) {
	logs := s.userLogIndex[log.UserID]
	i := sort.Search(len(logs), func(i int) bool { return !logs[i].Date.After(log.Date) })
	logs = append(logs, nil)
	copy(logs[i+1:], logs[i:])
	logs[i] = log
	s.userLogIndex[log.UserID] = logs
}

func (s *FileStorage) UpdateHealthLog(ctx context.Context, log *internal.HealthLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.logs[log.ID]
	if !ok {
		return fmt.Errorf("storage: health log %s: %w", log.ID, internal.ErrNotFound)
	}
	idx := s.userLogIndex[old.UserID]
	for i, l := range idx {
		if l.ID == log.ID {
			s.userLogIndex[old.UserID] = append(idx[:i], idx[i+1:]...)
			break
		}
	}
	cp := cloneLog(log)
	s.logs[cp.ID] = cp
	s.insertLog(cp)
	notify(s.saveLogs)
	return nil
}

func (s *FileStorage) GetHealthLog(ctx context.Context, id string) (*internal.HealthLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[id]
	if !ok {
		return nil, fmt.Errorf("storage: health log %s: %w", id, internal.ErrNotFound)
	}
	return cloneLog(l), nil
}

func (s *FileStorage) ListHealthLogs(ctx context.Context, userID string) ([]internal.HealthLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logsPtr := s.userLogIndex[userID]
	logs := make([]internal.HealthLog, len(logsPtr))
	for i, l := range logsPtr {
		logs[i] = *cloneLog(l)
	}
	return logs, nil
}

func (s *FileStorage) ListHealthLogsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	logsPtr := s.userLogIndex[userID]
	logs := []internal.HealthLog{}
	for i := len(logsPtr) - 1; i >= 0; i-- {
		if logsPtr[i].Date.Before(since) {
			continue
		}
		logs = append(logs, *cloneLog(logsPtr[i]))
	}
	return logs, nil
}

func cloneLog(l *internal.HealthLog) *internal.HealthLog {
	cp := *l
	if l.Sleep.Hours != nil {
		h := *l.Sleep.Hours
		cp.Sleep.Hours = &h
	}
	if l.Nutrition != nil {
		n := *l.Nutrition
		cp.Nutrition = &n
	}
	cp.Symptoms = append([]internal.Symptom(nil), l.Symptoms...)
	return &cp
}

// --- InsightRepository ---

func (s *FileStorage) InsertInsights(ctx context.Context, insights []internal.HealthInsight) error {
	if len(insights) == 0 {
		return nil
	}
	for _, in := range insights {
		if in.ID == "" {
			return errors.New("storage: insight without id")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range insights {
		if _, exists := s.insights[insights[i].ID]; exists {
			return fmt.Errorf("storage: duplicate insight id %s", insights[i].ID)
		}
	}
	for i := range insights {
		cp := cloneInsight(&insights[i])
		s.insights[cp.ID] = cp
		list := s.userInsights[cp.UserID]
		j := sort.Search(len(list), func(k int) bool { return !list[k].Date.After(cp.Date) })
		list = append(list, nil)
		copy(list[j+1:], list[j:])
		list[j] = cp
		s.userInsights[cp.UserID] = list
	}
	notify(s.saveInsights)
	return nil
}

func (s *FileStorage) GetInsight(ctx context.Context, id string) (*internal.HealthInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	in, ok := s.insights[id]
	if !ok {
		return nil, fmt.Errorf("storage: insight %s: %w", id, internal.ErrNotFound)
	}
	return cloneInsight(in), nil
}

func (s *FileStorage) SetInsightFlags(ctx context.Context, id string, read, actionTaken bool) (*internal.HealthInsight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.insights[id]
	if !ok {
		return nil, fmt.Errorf("storage: insight %s: %w", id, internal.ErrNotFound)
	}
	in.IsRead = in.IsRead || read
	in.ActionTaken = in.ActionTaken || actionTaken
	notify(s.saveInsights)
	return cloneInsight(in), nil
}

func (s *FileStorage) ListInsights(ctx context.Context, userID string, unreadOnly bool) ([]internal.HealthInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.HealthInsight{}
	for _, in := range s.userInsights[userID] {
		if unreadOnly && in.IsRead {
			continue
		}
		out = append(out, *cloneInsight(in))
	}
	return out, nil
}

func (s *FileStorage) ListInsightsSince(ctx context.Context, userID string, since time.Time) ([]internal.HealthInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.HealthInsight{}
	for _, in := range s.userInsights[userID] {
		if in.Date.Before(since) {
			break
		}
		out = append(out, *cloneInsight(in))
	}
	return out, nil
}

func cloneInsight(in *internal.HealthInsight) *internal.HealthInsight {
	cp := *in
	cp.Metrics = append([]internal.Metric(nil), in.Metrics...)
	cp.SuggestedActions = append([]string(nil), in.SuggestedActions...)
	return &cp
}

// --- BiometricRepository ---

func (s *FileStorage) SaveBiometric(ctx context.Context, reading *internal.BiometricReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *reading
	cp.Recommendations = append([]string(nil), reading.Recommendations...)
	list := s.biometrics[cp.UserID]
	i := sort.Search(len(list), func(k int) bool { return !list[k].Timestamp.After(cp.Timestamp) })
	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = &cp
	s.biometrics[cp.UserID] = list
	notify(s.saveBio)
	return nil
}

func (s *FileStorage) ListBiometrics(ctx context.Context, userID string, limit int) ([]internal.BiometricReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.biometrics[userID]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]internal.BiometricReading, len(list))
	for i, r := range list {
		out[i] = *r
	}
	return out, nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
