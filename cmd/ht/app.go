package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/daviddao/halftime/pkg/config"
	"github.com/daviddao/halftime/pkg/logging"
	"github.com/daviddao/halftime/pkg/model"
	"github.com/daviddao/halftime/pkg/schedule"
	"github.com/daviddao/halftime/pkg/store"
)

const defaultDir = ".halftime"

var defaultDB = filepath.Join(defaultDir, "halftime.db")

// app holds shared state for all CLI subcommands.
type app struct {
	store   store.StoreInterface
	svc     *schedule.Service
	cfg     config.Config
	presets config.Presets
	logger  zerolog.Logger
}

// newApp reads the environment and presets, then opens the database.
// Creates the .halftime/ directory if using the default DB path.
func newApp() (*app, error) {
	cfg, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(cfg.LogLevel)

	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDB
		if err := os.MkdirAll(defaultDir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create %s: %w", defaultDir, err)
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", dbPath, err)
	}
	logger.Debug().Str("db", dbPath).Msg("store opened")

	return &app{
		store:   s,
		svc:     schedule.New(schedule.WithLogger(logger)),
		cfg:     cfg,
		presets: presets,
		logger:  logger,
	}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// participantIndex turns a 1-based CLI position into a store position.
func participantIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("participant number must be 1 or more, got %q", arg)
	}
	return n - 1, nil
}

// loadSchedule rebuilds the schedule for token, or for the latest draw when
// token is empty.
func (a *app) loadSchedule(token string) (*model.Schedule, error) {
	if token == "" {
		d, err := a.store.LatestDraw()
		if err != nil {
			return nil, fmt.Errorf("no schedule drawn yet: %w", err)
		}
		token = d.Token
	}
	return a.svc.ReconstructSchedule(token)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
