package redis_repository

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) (*redisFlagRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFlagRepository(client), mr
}

func TestRedisFlagRepository(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepo(t)
	if err := repo.Open(ctx, "read_topics"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := repo.Put(ctx, "read_topics", []string{"t1", "t2"}, true); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := mr.HGet("digestboard:read_topics", "t1"); got != "1" {
		t.Fatalf("expected hash field t1=1, got %q", got)
	}
	v, ok, err := repo.Get(ctx, "read_topics", "t2")
	if err != nil || !ok || !v {
		t.Fatalf("Get t2: %v %v %v", v, ok, err)
	}
	_, ok, err = repo.Get(ctx, "read_topics", "missing")
	if err != nil || ok {
		t.Fatalf("expected missing field, got ok=%v err=%v", ok, err)
	}
	if err := repo.Delete(ctx, "read_topics", "t1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := repo.All(ctx, "read_topics")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 || !all["t2"] {
		t.Fatalf("unexpected flags %v", all)
	}
	other, _ := repo.All(ctx, "favorite_topics")
	if len(other) != 0 {
		t.Fatalf("stores should not share keys, got %v", other)
	}
}

func TestRedisOpenFailsWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	host, port, _ := net.SplitHostPort(mr.Addr())
	mr.Close()
	repo := NewRedisFlagRepository(Conn(host, port, "", 0, time.Second))
	defer repo.Close()
	if err := repo.Open(context.Background(), "read_topics"); err == nil {
		t.Fatalf("expected ping failure")
	}
}
