package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/api"
	"github.com/yourname/wellnesstracker/internal/auth"
	"github.com/yourname/wellnesstracker/internal/config"
	"github.com/yourname/wellnesstracker/internal/insight"
	"github.com/yourname/wellnesstracker/internal/service"
	"github.com/yourname/wellnesstracker/internal/storage"
)

const (
	demoUserID    = "u1"
	demoUserToken = "MOCK-TOKEN"
)

var rulesFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:   "wellness",
		Short: "Health log scoring and insight service",
	}
	rootCmd.PersistentFlags().StringVar(&rulesFlag, "rules", "", "YAML rule table (overrides WELLNESS_RULES_FILE)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "rules",
		Short: "Print the active insight rule table",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := insight.LoadRules(rulesPath(config.Load()))
			if err != nil {
				return err
			}
			engine, err := insight.NewEngine(rules)
			if err != nil {
				return err
			}
			out, err := insight.MarshalRules(engine.Rules())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rulesPath(cfg *config.Config) string {
	if rulesFlag != "" {
		return rulesFlag
	}
	return cfg.RulesFile
}

func serve() error {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	store, err := storage.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Errorf("close storage: %v", err)
		}
	}()
	if cfg.AuthMode == "local" {
		if err := seedDemoUser(store); err != nil {
			return fmt.Errorf("seed demo user: %w", err)
		}
	}

	rules, err := insight.LoadRules(rulesPath(cfg))
	if err != nil {
		return err
	}
	engine, err := insight.NewEngine(rules)
	if err != nil {
		return err
	}

	followUp := service.NewFollowUp(store, store, store, engine, service.FollowUpConfig{
		ScoreWindowDays:   cfg.ScoreWindowDays,
		InsightWindowDays: cfg.InsightWindowDays,
		Suppression:       insight.Suppressor{Window: cfg.SuppressionWindow},
		QueueSize:         cfg.FollowUpQueueSize,
		TaskTimeout:       cfg.FollowUpTaskTimeout,
	}, logger)
	followUp.Start()
	defer followUp.Stop()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	provider := auth.NewProvider(cfg.AuthMode, cfg.AuthURL, store, logger)
	app := api.NewApplication(store, provider, followUp, logger, cfg.ScoreWindowDays)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.NewRouter(app),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server running on %s (storage=%s, rules=%d)", cfg.HTTPAddr, cfg.DBType, len(rules))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// seedDemoUser makes a fresh store usable with the demo token.
func seedDemoUser(users storage.UserRepository) error {
	ctx := context.Background()
	if _, err := users.GetUser(ctx, demoUserID); err == nil {
		return nil
	} else if !errors.Is(err, internal.ErrNotFound) {
		return err
	}
	return users.UpsertUser(ctx, &internal.User{ID: demoUserID, Token: demoUserToken, Name: "Demo User"})
}
