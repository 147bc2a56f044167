// Package app assembles the long-lived dependencies shared by the HTTP
// server and the operator CLI.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pocket-ledger/internal/config"
	"pocket-ledger/internal/database"
	"pocket-ledger/internal/logger"
	"pocket-ledger/internal/recurring"
	"pocket-ledger/internal/repository"
	"pocket-ledger/internal/service"
)

type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	DB        *gorm.DB
	Store     *repository.GormStore
	Services  *service.Services
	Processor *recurring.Processor

	logCloser io.Closer
}

// New loads the config, opens and migrates the database and builds the
// services. Call Close when done.
func New(configPath string, debug bool) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
		cfg.Database.LogMode = true
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: log, logCloser: closer}

	if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
		a.Close()
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	if a.DB, err = database.Init(cfg.Database); err != nil {
		a.Close()
		return nil, err
	}
	if err := database.AutoMigrate(a.DB); err != nil {
		a.Close()
		return nil, err
	}

	a.Store = repository.New(a.DB)
	if a.Services, err = service.New(a.Store, cfg); err != nil {
		a.Close()
		return nil, err
	}

	opts, err := recurring.OptionsFromConfig(cfg.Recurring, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Processor = recurring.NewProcessor(a.Store, a.Services.Transactions, opts)
	return a, nil
}

// Close releases the database and the log file.
func (a *App) Close() {
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			a.Log.Warn().Err(err).Msg("close database")
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
