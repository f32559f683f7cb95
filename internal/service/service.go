// Package service wires configuration, logging and the mark store for one
// working directory. Every front end (CLI, Neovim host, MCP server) starts
// here.
package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ports/bufmark/internal/config"
	"github.com/go-ports/bufmark/internal/logger"
	"github.com/go-ports/bufmark/internal/markstore"
	"github.com/go-ports/bufmark/internal/statusline"
)

// Service holds everything a front end needs for one scope.
type Service struct {
	DataDir string
	Cwd     string
	Config  *config.Config
	Store   *markstore.Store
	Log     *logger.Logger

	watcher *markstore.Watcher
}

// Options tweak service construction.
type Options struct {
	// DataDir overrides data directory resolution when non-empty.
	DataDir string
	// Cwd selects the scope; empty means the process working directory.
	Cwd string
	// LenientConfig falls back to defaults when config.yaml is malformed
	// instead of failing.
	LenientConfig bool
}

// New initialises a Service. Only an unreadable or malformed config file
// (without LenientConfig) or an unknown working directory is an error;
// storage problems degrade to an empty, best-effort store.
func New(opts Options) (*Service, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = config.GetDataDir()
	}

	cwd, err := ResolveCwd(opts.Cwd)
	if err != nil {
		return nil, fmt.Errorf("service.New: resolve cwd: %w", err)
	}

	cfg, cfgErr := config.Load(filepath.Join(dataDir, config.FileName))
	if cfgErr != nil {
		if !opts.LenientConfig {
			return nil, fmt.Errorf("service.New: load config: %w", cfgErr)
		}
		cfg = config.Default()
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, File: cfg.LogFile(dataDir)})
	if err != nil {
		// The data dir may be unwritable; keep going with stderr logging.
		log, _ = logger.New(logger.Config{Level: cfg.Log.Level, Console: true})
		log.Warn().Err(err).Msg("file logging unavailable")
	}
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("using default configuration")
	}

	store := markstore.Open(dataDir, cwd, markstore.Options{
		Persist: cfg.Persist,
		Logger:  log.Logger,
	})

	return &Service{
		DataDir: dataDir,
		Cwd:     cwd,
		Config:  cfg,
		Store:   store,
		Log:     log,
	}, nil
}

// ResolveCwd returns dir cleaned and made absolute, defaulting to the
// process working directory.
func ResolveCwd(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// StartWatch begins reloading the store on external changes when the
// configuration asks for it and persistence is on. It is a no-op otherwise.
func (s *Service) StartWatch() error {
	if !s.Config.Watch || !s.Config.Persist || s.watcher != nil {
		return nil
	}
	w, err := s.Store.Watch(s.Log.Logger, markstore.DefaultDebounce)
	if err != nil {
		return fmt.Errorf("service.StartWatch: %w", err)
	}
	s.watcher = w
	return nil
}

// StatusStyle converts the configured statusline settings.
func (s *Service) StatusStyle() statusline.Style {
	return statusline.Style{
		Current:  s.Config.Statusline.Current,
		Other:    s.Config.Statusline.Other,
		Unmarked: s.Config.Statusline.Unmarked,
	}
}

// Close stops the watcher and closes the log.
func (s *Service) Close() error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.Log.Warn().Err(err).Msg("stop watcher")
		}
		s.watcher = nil
	}
	return s.Log.Close()
}
