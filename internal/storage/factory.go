package storage

import (
	"fmt"

	"github.com/yourname/wellnesstracker/internal"
	"github.com/yourname/wellnesstracker/internal/config"
)

func NewFileRepositories(dataDir string, logger internal.Logger) (Store, error) {
	storage, err := NewFileStorage(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (Store, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, err
	}
	return storage, nil
}

// New opens the backend selected by cfg.DBType.
func New(cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.DBType {
	case "file":
		return NewFileRepositories(cfg.DataDir, logger)
	case "postgres":
		return NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.DBType)
	}
}
