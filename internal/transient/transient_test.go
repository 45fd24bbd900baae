package transient_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-masthead/internal/transient"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/pkg/testsupport"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func exerciseStore(t *testing.T, store interfaces.CacheProvider, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.Get(ctx, "mainsite_nav_json"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss on empty store, got %v", err)
	}

	if err := store.Set(ctx, "mainsite_nav_json", `{"items":[]}`, time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, err := store.Get(ctx, "mainsite_nav_json")
	if err != nil || value != `{"items":[]}` {
		t.Fatalf("expected stored document, got %v (%v)", value, err)
	}

	if err := store.Set(ctx, "mainsite_nav_json", `{"items":[{"title":"A"}]}`, time.Hour); err != nil {
		t.Fatalf("overwrite returned error: %v", err)
	}
	if value, _ := store.Get(ctx, "mainsite_nav_json"); value != `{"items":[{"title":"A"}]}` {
		t.Fatalf("expected overwritten document, got %v", value)
	}

	advance(2 * time.Hour)
	if _, err := store.Get(ctx, "mainsite_nav_json"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss after expiry, got %v", err)
	}

	if err := store.Set(ctx, "a", "1", 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "b", "2", 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.Get(ctx, "a"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss after delete, got %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, interfaces.ErrCacheMiss) {
		t.Fatalf("expected miss after clear, got %v", err)
	}
	if err := store.Set(ctx, " ", "x", 0); !errors.Is(err, transient.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := transient.NewMemoryStore(transient.WithClock(c.Now))
	exerciseStore(t, store, func(d time.Duration) { c.now = c.now.Add(d) })
}

func TestBunStore(t *testing.T) {
	db, err := testsupport.NewBunSQLiteDB("transient_bun_store")
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := transient.CreateTable(context.Background(), db); err != nil {
		t.Fatalf("create table: %v", err)
	}

	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	store := transient.NewBunStore(db, transient.WithBunClock(c.Now))
	exerciseStore(t, store, func(d time.Duration) { c.now = c.now.Add(d) })
}
