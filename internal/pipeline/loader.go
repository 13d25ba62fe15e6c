package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/mohammad-safakhou/digestboard/models"
	"golang.org/x/time/rate"
)

var (
	// ErrThrottled is returned for a refresh inside the throttle interval. The call is dropped.
	ErrThrottled = errors.New("refresh throttled")
	// ErrStale is returned by a run that finished after a newer one had started.
	ErrStale = errors.New("refresh superseded")
)

// Runner produces a result for a window. *Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, w models.Window) (Result, error)
}

// Loader throttles refreshes and only lets the newest generation publish to the board.
type Loader struct {
	runner  Runner
	board   *Board
	limiter *rate.Limiter
	gen     atomic.Uint64
	logger  *log.Logger
}

// NewLoader allows at most one run per throttle interval. A non-positive interval disables throttling.
func NewLoader(runner Runner, board *Board, throttle time.Duration, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(log.Writer(), "[PIPE] ", log.LstdFlags)
	}
	limit := rate.Inf
	if throttle > 0 {
		limit = rate.Every(throttle)
	}
	return &Loader{runner: runner, board: board, limiter: rate.NewLimiter(limit, 1), logger: logger}
}

// Board returns the board this loader publishes to.
func (l *Loader) Board() *Board { return l.board }

// Load runs the pipeline for w and publishes the result when it is still the newest.
func (l *Loader) Load(ctx context.Context, w models.Window) (Result, error) {
	if !w.Valid() {
		return Result{}, fmt.Errorf("%w: start %d after end %d", ErrInvalidWindow, w.Start, w.End)
	}
	if !l.limiter.Allow() {
		pipelineRuns.WithLabelValues("throttled").Inc()
		return Result{}, ErrThrottled
	}
	gen := l.gen.Add(1)
	l.board.begin(gen)

	start := time.Now()
	res, err := l.runner.Run(ctx, w)
	pipelineDuration.Observe(time.Since(start).Seconds())
	res.Generation = gen

	if !l.board.publish(gen, res, err) {
		pipelineRuns.WithLabelValues("stale").Inc()
		l.logger.Printf("generation %d discarded, newer run started", gen)
		return Result{}, ErrStale
	}
	if err != nil {
		pipelineRuns.WithLabelValues("error").Inc()
		l.logger.Printf("generation %d failed: %v", gen, err)
		return Result{}, err
	}
	pipelineRuns.WithLabelValues("ok").Inc()
	return res, nil
}
