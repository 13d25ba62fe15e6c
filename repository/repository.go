package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/mohammad-safakhou/digestboard/config"
	"github.com/mohammad-safakhou/digestboard/repository/file_repository"
	"github.com/mohammad-safakhou/digestboard/repository/memory_repository"
	"github.com/mohammad-safakhou/digestboard/repository/postgres_repository"
	"github.com/mohammad-safakhou/digestboard/repository/redis_repository"
)

// FlagRepository stores boolean topic flags grouped into named stores.
// Open must be idempotent and is the first call made for a store.
type FlagRepository interface {
	Open(ctx context.Context, store string) error
	All(ctx context.Context, store string) (map[string]bool, error)
	// Get returns the flag and whether it was present.
	Get(ctx context.Context, store, topicID string) (bool, bool, error)
	Put(ctx context.Context, store string, topicIDs []string, flag bool) error
	Delete(ctx context.Context, store, topicID string) error
	Close() error
}

type RepoType string

const (
	RepoTypeMemory   RepoType = config.BackendMemory
	RepoTypeFile     RepoType = config.BackendFile
	RepoTypeRedis    RepoType = config.BackendRedis
	RepoTypePostgres RepoType = config.BackendPostgres
)

// NewFlagRepository builds the configured backend without connecting to it.
// Connection problems surface from Open.
func NewFlagRepository(cfg config.StorageConfig) (FlagRepository, error) {
	switch RepoType(cfg.Backend) {
	case RepoTypeMemory:
		return memory_repository.New(), nil
	case RepoTypeFile:
		return file_repository.New(cfg.File.DataDir), nil
	case RepoTypeRedis:
		c := redis_repository.Conn(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Timeout)
		return redis_repository.NewRedisFlagRepository(c), nil
	case RepoTypePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return postgres_repository.NewPostgresFlagRepository(db), nil
	}
	return nil, fmt.Errorf("invalid repository type: %s", cfg.Backend)
}
