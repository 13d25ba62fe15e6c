package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/mohammad-safakhou/digestboard/internal/pipeline"
	"github.com/mohammad-safakhou/digestboard/models"
	"github.com/redis/go-redis/v9"
)

const schedLockKey = "digestboard:sched:lock"

// Refresher is satisfied by *pipeline.Loader.
type Refresher interface {
	Load(ctx context.Context, w models.Window) (pipeline.Result, error)
}

// Scheduler refreshes the board on a cron spec with a rolling window.
type Scheduler struct {
	Loader Refresher
	Rdb    *redis.Client
	Spec   string
	Span   time.Duration
	Every  time.Duration
	Stop   chan struct{}
	Logger *log.Logger

	last *time.Time
	now  func() time.Time
}

func (s *Scheduler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Scheduler) Start() {
	if s.Logger == nil {
		s.Logger = log.New(log.Writer(), "[SCHED] ", log.LstdFlags)
	}
	every := s.Every
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	go func() {
		s.tick()
		for {
			select {
			case <-s.Stop:
				ticker.Stop()
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Scheduler) tick() {
	now := s.clock()
	if !isDue(s.Spec, s.last, now) {
		return
	}
	ctx := context.Background()
	// distributed lock so only one replica refreshes per tick
	if s.Rdb != nil {
		okLock, err := s.Rdb.SetNX(ctx, schedLockKey, "1", 50*time.Second).Result()
		if err != nil || !okLock {
			return
		}
		defer s.Rdb.Del(ctx, schedLockKey)
	}
	s.last = &now

	span := s.Span
	if span <= 0 {
		span = 24 * time.Hour
	}
	res, err := s.Loader.Load(ctx, pipeline.DefaultWindow(now, span))
	switch {
	case errors.Is(err, pipeline.ErrThrottled), errors.Is(err, pipeline.ErrStale):
		s.Logger.Printf("scheduled refresh skipped: %v", err)
	case err != nil:
		s.Logger.Printf("scheduled refresh failed: %v", err)
	default:
		s.Logger.Printf("scheduled refresh %s loaded %d topics", res.RunID, len(res.Topics))
	}
}

// isDue determines if a refresh with cronSpec should run now based on the last run.
// Supports "@daily", "@hourly", and standard 5-field cron expressions.
func isDue(cronSpec string, last *time.Time, now time.Time) bool {
	if last == nil {
		return true
	}
	switch cronSpec {
	case "@daily":
		return now.Sub(*last) >= 24*time.Hour
	case "@hourly":
		return now.Sub(*last) >= time.Hour
	default:
		expr, err := cronexpr.Parse(cronSpec)
		if err != nil {
			// treat an invalid spec as @daily
			return now.Sub(*last) >= 24*time.Hour
		}
		next := expr.Next(*last)
		return !next.After(now)
	}
}

// ValidCron reports whether spec parses as a schedule.
func ValidCron(spec string) bool {
	if spec == "@daily" || spec == "@hourly" {
		return true
	}
	_, err := cronexpr.Parse(spec)
	return err == nil
}
