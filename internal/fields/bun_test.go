package fields_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-masthead/internal/fields"
	"github.com/goliatone/go-masthead/pkg/testsupport"
	"github.com/goliatone/go-masthead/query"
)

func newFieldsDB(t *testing.T, name string) *bun.DB {
	t.Helper()
	db, err := testsupport.NewBunSQLiteDB(name)
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := fields.CreateTable(context.Background(), db); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func TestBunStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := fields.NewBunStore(newFieldsDB(t, "fields_bun_round_trip"))
	ref := query.FieldRef{Kind: "post", ID: "42"}

	if value, err := store.Field(ctx, ref, fields.KeyTitle); err != nil || value != nil {
		t.Fatalf("expected missing field, got %v (%v)", value, err)
	}

	if err := store.Set(ctx, ref, fields.KeyTitle, "Admissions"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := store.Set(ctx, ref, fields.KeyImage, 31); err != nil {
		t.Fatalf("set image: %v", err)
	}

	title, err := store.Field(ctx, ref, fields.KeyTitle)
	if err != nil || title != "Admissions" {
		t.Fatalf("expected Admissions, got %v (%v)", title, err)
	}
	image, err := store.Field(ctx, ref, fields.KeyImage)
	if err != nil || fields.String(image) != "31" {
		t.Fatalf("expected image 31, got %#v (%v)", image, err)
	}

	if err := store.Set(ctx, ref, fields.KeyTitle, "Admissions Office"); err != nil {
		t.Fatalf("update title: %v", err)
	}
	if title, _ := store.Field(ctx, ref, fields.KeyTitle); title != "Admissions Office" {
		t.Fatalf("expected updated title, got %v", title)
	}

	if err := store.Set(ctx, ref, fields.KeyTitle, nil); err != nil {
		t.Fatalf("delete title: %v", err)
	}
	if title, _ := store.Field(ctx, ref, fields.KeyTitle); title != nil {
		t.Fatalf("expected title removed, got %v", title)
	}
}

func TestBunStoreWithCache(t *testing.T) {
	ctx := context.Background()
	db := newFieldsDB(t, "fields_bun_cached")

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	store := fields.NewBunStoreWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
	ref := query.FieldRef{Kind: "term", ID: "9"}

	if err := store.Set(ctx, ref, fields.KeySubtitle, "College of Sciences"); err != nil {
		t.Fatalf("set subtitle: %v", err)
	}
	for i := 0; i < 2; i++ {
		subtitle, err := store.Field(ctx, ref, fields.KeySubtitle)
		if err != nil || subtitle != "College of Sciences" {
			t.Fatalf("read %d: expected subtitle, got %v (%v)", i, subtitle, err)
		}
	}
}
