package file_repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// fileFlagRepository keeps one JSON object per store under dir and rewrites it
// atomically on every change.
type fileFlagRepository struct {
	dir    string
	mu     sync.Mutex
	stores map[string]map[string]bool
}

func New(dir string) *fileFlagRepository {
	return &fileFlagRepository{dir: dir, stores: map[string]map[string]bool{}}
}

func (f *fileFlagRepository) path(store string) string {
	return filepath.Join(f.dir, store+".json")
}

func (f *fileFlagRepository) Open(_ context.Context, store string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.stores[store]; ok {
		return nil
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	flags := map[string]bool{}
	b, err := os.ReadFile(f.path(store))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	case len(bytes.TrimSpace(b)) > 0:
		if err := json.Unmarshal(b, &flags); err != nil {
			return fmt.Errorf("decode %s: %w", f.path(store), err)
		}
	}
	f.stores[store] = flags
	return nil
}

func (f *fileFlagRepository) loaded(store string) (map[string]bool, error) {
	s, ok := f.stores[store]
	if !ok {
		return nil, fmt.Errorf("store %s not opened", store)
	}
	return s, nil
}

// flush must be called with mu held.
func (f *fileFlagRepository) flush(store string, flags map[string]bool) error {
	b, err := json.MarshalIndent(flags, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(f.path(store), bytes.NewReader(b))
}

func (f *fileFlagRepository) All(_ context.Context, store string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.loaded(store)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out, nil
}

func (f *fileFlagRepository) Get(_ context.Context, store, topicID string) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.loaded(store)
	if err != nil {
		return false, false, err
	}
	v, ok := s[topicID]
	return v, ok, nil
}

func (f *fileFlagRepository) Put(_ context.Context, store string, topicIDs []string, flag bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.loaded(store)
	if err != nil {
		return err
	}
	next := make(map[string]bool, len(s)+len(topicIDs))
	for k, v := range s {
		next[k] = v
	}
	for _, id := range topicIDs {
		next[id] = flag
	}
	if err := f.flush(store, next); err != nil {
		return err
	}
	f.stores[store] = next
	return nil
}

func (f *fileFlagRepository) Delete(_ context.Context, store, topicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := f.loaded(store)
	if err != nil {
		return err
	}
	if _, ok := s[topicID]; !ok {
		return nil
	}
	next := make(map[string]bool, len(s))
	for k, v := range s {
		if k != topicID {
			next[k] = v
		}
	}
	if err := f.flush(store, next); err != nil {
		return err
	}
	f.stores[store] = next
	return nil
}

func (f *fileFlagRepository) Close() error { return nil }
