package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from WELLNESS_-prefixed environment variables,
// e.g. WELLNESS_STORAGE_BACKEND=postgres.
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8088"`
	DBType    string `envconfig:"STORAGE_BACKEND" default:"file"`
	DBDSN     string `envconfig:"POSTGRES_DSN" default:""`
	DataDir   string `envconfig:"DATA_DIR" default:"data"`
	AuthMode  string `envconfig:"AUTH_MODE" default:"local"`
	AuthURL   string `envconfig:"AUTH_URL" default:""`
	RulesFile string `envconfig:"RULES_FILE" default:""`

	ScoreWindowDays     int           `envconfig:"SCORE_WINDOW_DAYS" default:"7"`
	InsightWindowDays   int           `envconfig:"INSIGHT_WINDOW_DAYS" default:"7"`
	SuppressionWindow   time.Duration `envconfig:"INSIGHT_SUPPRESSION_WINDOW" default:"0s"`
	FollowUpQueueSize   int           `envconfig:"FOLLOWUP_QUEUE_SIZE" default:"64"`
	FollowUpTaskTimeout time.Duration `envconfig:"FOLLOWUP_TASK_TIMEOUT" default:"10s"`
}

const envPrefix = "WELLNESS"

var (
	cfg  *Config
	once sync.Once
)

// Load reads the configuration once per process and panics if it is invalid.
func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv(".env")
		c, err := New()
		if err != nil {
			panic("Invalid config: " + err.Error())
		}
		cfg = c
	})
	return cfg
}

// New parses the environment without caching; tests use it directly.
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.DBType != "file" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: file, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && c.DataDir == "" {
		return errors.New("File storage requires DATA_DIR to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.AuthMode != "local" && c.AuthMode != "remote" {
		return errors.New("AUTH_MODE must be one of: local, remote")
	}
	if c.AuthMode == "remote" && c.AuthURL == "" {
		return errors.New("AUTH_URL is required when AUTH_MODE=remote")
	}
	if c.ScoreWindowDays < 1 || c.InsightWindowDays < 1 {
		return errors.New("SCORE_WINDOW_DAYS and INSIGHT_WINDOW_DAYS must be positive")
	}
	if c.SuppressionWindow < 0 {
		return errors.New("INSIGHT_SUPPRESSION_WINDOW must not be negative")
	}
	if c.FollowUpQueueSize < 1 {
		return errors.New("FOLLOWUP_QUEUE_SIZE must be positive")
	}
	return nil
}

// loadDotEnv sets KEY=VALUE pairs from path without overriding variables
// already present in the environment.
func loadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		os.Setenv(key, strings.Trim(strings.TrimSpace(value), `"`))
	}
	return sc.Err()
}
