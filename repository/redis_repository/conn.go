package redis_repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn builds a client. It does not dial; call Ping to check reachability.
func Conn(host, port, pass string, db int, timeout time.Duration) *redis.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		Password:    pass,
		DB:          db,
	})
}

// Ping verifies the server answers PONG.
func Ping(ctx context.Context, client *redis.Client) error {
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		return err
	}
	if pong != "PONG" {
		return fmt.Errorf("expected PONG, got %s", pong)
	}
	return nil
}
