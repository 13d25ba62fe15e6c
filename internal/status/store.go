// Package status persists per-topic boolean flags (read, favorite).
package status

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/mohammad-safakhou/digestboard/repository"
	"golang.org/x/sync/singleflight"
)

// Backend persists flags for any number of named stores.
type Backend = repository.FlagRepository

// Store names double as the backend namespace.
const (
	ReadStore     = "read_topics"
	FavoriteStore = "favorite_topics"
)

var (
	// ErrStorageUnavailable means the backing store could not be opened.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorage means an operation against an open store failed.
	ErrStorage = errors.New("storage error")
	// ErrEmptyTopicID rejects flags without a key.
	ErrEmptyTopicID = errors.New("topic id required")
)

// Store is one flag kind. Build it once at startup and share it.
type Store struct {
	name    string
	backend Backend
	logger  *log.Logger

	open  singleflight.Group
	ready atomic.Bool
}

// New wraps backend under the given store name. The backend is opened on first use.
func New(name string, backend Backend, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(log.Writer(), "[STATUS] ", log.LstdFlags)
	}
	return &Store{name: name, backend: backend, logger: logger}
}

// Name returns the store's namespace.
func (s *Store) Name() string { return s.name }

// init opens the backend once. Concurrent first callers share one attempt and a
// failed attempt is not remembered, so the next call tries again. The open ignores
// the first caller's cancellation since the others wait on the same attempt.
func (s *Store) init(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	_, err, _ := s.open.Do("open", func() (any, error) {
		if s.ready.Load() {
			return nil, nil
		}
		if err := s.backend.Open(context.WithoutCancel(ctx), s.name); err != nil {
			return nil, err
		}
		s.ready.Store(true)
		return nil, nil
	})
	if err != nil {
		s.logger.Printf("open %s: %v", s.name, err)
		observe(s.name, "open", err)
		return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, s.name, err)
	}
	return nil
}

func (s *Store) wrap(op string, err error) error {
	observe(s.name, op, err)
	if err == nil {
		return nil
	}
	s.logger.Printf("%s %s: %v", op, s.name, err)
	return fmt.Errorf("%w: %s %s: %w", ErrStorage, op, s.name, err)
}

// All returns every stored flag keyed by topic id.
func (s *Store) All(ctx context.Context) (map[string]bool, error) {
	if err := s.init(ctx); err != nil {
		return map[string]bool{}, err
	}
	flags, err := s.backend.All(ctx, s.name)
	if err != nil {
		return map[string]bool{}, s.wrap("all", err)
	}
	if flags == nil {
		flags = map[string]bool{}
	}
	_ = s.wrap("all", nil)
	return flags, nil
}

// Get returns the flag for topicID, false when absent.
func (s *Store) Get(ctx context.Context, topicID string) (bool, error) {
	if topicID == "" {
		return false, ErrEmptyTopicID
	}
	if err := s.init(ctx); err != nil {
		return false, err
	}
	v, _, err := s.backend.Get(ctx, s.name, topicID)
	if err != nil {
		return false, s.wrap("get", err)
	}
	return v, s.wrap("get", nil)
}

// Set marks topicID. Setting an already-set flag is a no-op.
func (s *Store) Set(ctx context.Context, topicID string) error {
	return s.SetMany(ctx, []string{topicID})
}

// SetMany marks every id in one backend call.
func (s *Store) SetMany(ctx context.Context, topicIDs []string) error {
	ids := make([]string, 0, len(topicIDs))
	seen := make(map[string]struct{}, len(topicIDs))
	for _, id := range topicIDs {
		if id == "" {
			return ErrEmptyTopicID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.init(ctx); err != nil {
		return err
	}
	return s.wrap("set", s.backend.Put(ctx, s.name, ids, true))
}

// Unset removes the flag. Removing an absent flag is a no-op.
func (s *Store) Unset(ctx context.Context, topicID string) error {
	if topicID == "" {
		return ErrEmptyTopicID
	}
	if err := s.init(ctx); err != nil {
		return err
	}
	return s.wrap("unset", s.backend.Delete(ctx, s.name, topicID))
}

// Toggle flips the flag and returns the new value.
func (s *Store) Toggle(ctx context.Context, topicID string) (bool, error) {
	cur, err := s.Get(ctx, topicID)
	if err != nil {
		return false, err
	}
	if cur {
		return false, s.Unset(ctx, topicID)
	}
	return true, s.Set(ctx, topicID)
}

// Pair bundles the two flag stores the dashboard uses.
type Pair struct {
	Read     *Store
	Favorite *Store
}

// NewPair builds the read and favorite stores over one backend.
func NewPair(backend Backend, logger *log.Logger) Pair {
	return Pair{
		Read:     New(ReadStore, backend, logger),
		Favorite: New(FavoriteStore, backend, logger),
	}
}
