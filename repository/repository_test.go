package repository

import (
	"context"
	"testing"

	"github.com/mohammad-safakhou/digestboard/config"
)

func TestNewFlagRepository(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.StorageConfig
		bad  bool
	}{
		{name: "memory", cfg: config.StorageConfig{Backend: config.BackendMemory}},
		{name: "file", cfg: config.StorageConfig{Backend: config.BackendFile, File: config.FileConfig{DataDir: t.TempDir()}}},
		{name: "redis", cfg: config.StorageConfig{Backend: config.BackendRedis, Redis: config.RedisConfig{Host: "localhost", Port: "6379"}}},
		{name: "postgres", cfg: config.StorageConfig{Backend: config.BackendPostgres, Postgres: config.PostgresConfig{URL: "postgres://u:p@localhost:5432/db?sslmode=disable"}}},
		{name: "unknown", cfg: config.StorageConfig{Backend: "indexeddb"}, bad: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, err := NewFlagRepository(tc.cfg)
			if tc.bad {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewFlagRepository: %v", err)
			}
			_ = repo.Close()
		})
	}
}

func TestMemoryRepositoryViaFactory(t *testing.T) {
	ctx := context.Background()
	repo, err := NewFlagRepository(config.StorageConfig{Backend: config.BackendMemory})
	if err != nil {
		t.Fatalf("NewFlagRepository: %v", err)
	}
	if err := repo.Open(ctx, "read_topics"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := repo.Put(ctx, "read_topics", []string{"t1"}, true); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := repo.Get(ctx, "read_topics", "t1")
	if err != nil || !ok || !v {
		t.Fatalf("Get: %v %v %v", v, ok, err)
	}
}
