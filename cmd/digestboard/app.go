package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/mohammad-safakhou/digestboard/config"
	"github.com/mohammad-safakhou/digestboard/internal/status"
	"github.com/mohammad-safakhou/digestboard/internal/synthos"
	"github.com/mohammad-safakhou/digestboard/repository"
)

// app bundles what the one-shot commands need.
type app struct {
	cfg    *config.Config
	remote *synthos.Client
	flags  status.Pair
	closer io.Closer
	logger *log.Logger
}

func loadApp(cfgPath string) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.General.Debug || strings.EqualFold(cfg.General.LogLevel, config.LogLevelDebug) {
		logger = log.New(os.Stderr, "[CLI] ", log.LstdFlags)
	}
	backend, err := repository.NewFlagRepository(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		remote: synthos.New(cfg.Remote, logger),
		flags:  status.NewPair(backend, logger),
		closer: backend,
		logger: logger,
	}, nil
}

func (a *app) Close() error { return a.closer.Close() }
