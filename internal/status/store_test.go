package status

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mohammad-safakhou/digestboard/repository/memory_repository"
)

var quiet = log.New(io.Discard, "", 0)

type flakyBackend struct {
	Backend
	opens    atomic.Int32
	failOpen atomic.Bool
	failPut  bool
}

func (f *flakyBackend) Open(ctx context.Context, store string) error {
	f.opens.Add(1)
	if f.failOpen.Load() {
		return errors.New("disk gone")
	}
	return f.Backend.Open(ctx, store)
}

func (f *flakyBackend) Put(ctx context.Context, store string, ids []string, flag bool) error {
	if f.failPut {
		return errors.New("quota exceeded")
	}
	return f.Backend.Put(ctx, store, ids, flag)
}

func TestStoreSetUnsetIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(ReadStore, memory_repository.New(), quiet)

	for i := 0; i < 2; i++ {
		if err := s.Set(ctx, "t1"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 || !all["t1"] {
		t.Fatalf("expected only t1 set, got %v", all)
	}
	for i := 0; i < 2; i++ {
		if err := s.Unset(ctx, "t1"); err != nil {
			t.Fatalf("Unset: %v", err)
		}
	}
	all, _ = s.All(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty store, got %v", all)
	}
}

func TestStoreSetThenGet(t *testing.T) {
	ctx := context.Background()
	s := New(FavoriteStore, memory_repository.New(), quiet)
	if v, err := s.Get(ctx, "t9"); err != nil || v {
		t.Fatalf("expected absent flag, got %v %v", v, err)
	}
	if err := s.Set(ctx, "t9"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := s.Get(ctx, "t9"); err != nil || !v {
		t.Fatalf("expected set flag, got %v %v", v, err)
	}
}

func TestStoreSetManyAndToggle(t *testing.T) {
	ctx := context.Background()
	s := New(ReadStore, memory_repository.New(), quiet)
	if err := s.SetMany(ctx, []string{"a", "b", "a", "c"}); err != nil {
		t.Fatalf("SetMany: %v", err)
	}
	all, _ := s.All(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 flags, got %v", all)
	}
	v, err := s.Toggle(ctx, "a")
	if err != nil || v {
		t.Fatalf("expected toggle to clear a, got %v %v", v, err)
	}
	v, err = s.Toggle(ctx, "a")
	if err != nil || !v {
		t.Fatalf("expected toggle to set a, got %v %v", v, err)
	}
	if err := s.SetMany(ctx, []string{"ok", ""}); !errors.Is(err, ErrEmptyTopicID) {
		t.Fatalf("expected ErrEmptyTopicID, got %v", err)
	}
}

func TestStoresAreIndependent(t *testing.T) {
	ctx := context.Background()
	p := NewPair(memory_repository.New(), quiet)
	if err := p.Read.Set(ctx, "t1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	fav, _ := p.Favorite.All(ctx)
	if len(fav) != 0 {
		t.Fatalf("favorite store should be untouched, got %v", fav)
	}
}

func TestStoreOpenFailureRetries(t *testing.T) {
	ctx := context.Background()
	b := &flakyBackend{Backend: memory_repository.New()}
	b.failOpen.Store(true)
	s := New(ReadStore, b, quiet)

	all, err := s.All(ctx)
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty map on failure, got %v", all)
	}

	b.failOpen.Store(false)
	if err := s.Set(ctx, "t1"); err != nil {
		t.Fatalf("expected open to be retried, got %v", err)
	}
	if got := b.opens.Load(); got != 2 {
		t.Fatalf("expected 2 open attempts, got %d", got)
	}
}

func TestStoreConcurrentFirstUseOpensOnce(t *testing.T) {
	ctx := context.Background()
	b := &flakyBackend{Backend: memory_repository.New()}
	s := New(ReadStore, b, quiet)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.All(ctx); err != nil {
				t.Errorf("All: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := b.opens.Load(); got < 1 || got > 16 {
		t.Fatalf("unexpected open count %d", got)
	}
	before := b.opens.Load()
	_, _ = s.All(ctx)
	if b.opens.Load() != before {
		t.Fatalf("open should not run again once ready")
	}
}

func TestStoreWriteFailureIsStorageError(t *testing.T) {
	ctx := context.Background()
	b := &flakyBackend{Backend: memory_repository.New(), failPut: true}
	s := New(ReadStore, b, quiet)
	err := s.Set(ctx, "t1")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("write failure should not read as unavailable")
	}
}

type gatedOpenBackend struct {
	Backend
	opens   atomic.Int32
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedOpenBackend) Open(ctx context.Context, store string) error {
	g.opens.Add(1)
	g.once.Do(func() { close(g.entered) })
	<-g.release
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.Backend.Open(ctx, store)
}

func TestStoreOpenSurvivesFirstCallerCancel(t *testing.T) {
	backend := &gatedOpenBackend{
		Backend: memory_repository.New(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := New(ReadStore, backend, quiet)

	first, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 2)
	go func() {
		_, err := s.All(first)
		errs <- err
	}()
	<-backend.entered
	go func() {
		_, err := s.All(context.Background())
		errs <- err
	}()
	cancel()
	close(backend.release)

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("cancelling one caller must not fail the shared open: %v", err)
		}
	}
	if n := backend.opens.Load(); n != 1 {
		t.Fatalf("expected a single open, got %d", n)
	}
}
