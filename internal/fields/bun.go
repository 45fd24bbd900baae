package fields

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-masthead/internal/identity"
	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

// ErrInvalidRef is returned when writing a field without an object.
var ErrInvalidRef = errors.New("fields: object reference is required")

// Record is one custom field value row.
type Record struct {
	bun.BaseModel `bun:"table:header_fields,alias:hf"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ObjectKind string    `bun:"object_kind,notnull" json:"object_kind"`
	ObjectID   string    `bun:"object_id,notnull" json:"object_id"`
	Key        string    `bun:"key,notnull" json:"key"`
	// Value holds the JSON encoding of the field value.
	Value     string    `bun:"value,notnull" json:"value"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// NewRecordRepository creates a repository for field records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.ID.String()
		},
	})
}

// BunStore reads and writes field values through go-repository-bun.
type BunStore struct {
	repo         repository.Repository[*Record]
	cacheService cache.CacheService
	cachePrefix  string
}

var _ interfaces.FieldStore = (*BunStore)(nil)

const fieldNamespace = "header_field"

func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache wraps the repository with go-repository-cache when
// both cacheService and serializer are given.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStore {
	base := NewRecordRepository(db)
	store := &BunStore{repo: base}
	if cacheService != nil && serializer != nil {
		store.repo = repositorycache.New(base, cacheService, serializer)
		store.cacheService = cacheService
		store.cachePrefix = fieldNamespace + cache.KeySeparator
	}
	return store
}

// CreateTable creates the header_fields table when missing.
func CreateTable(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Field(ctx context.Context, ref query.FieldRef, key string) (any, error) {
	if ref.IsZero() {
		return nil, nil
	}
	id := identity.FieldUUID(ref.Kind, ref.ID, key)
	record, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fields: read %s %s: %w", ref, key, err)
	}
	if record == nil || strings.TrimSpace(record.Value) == "" {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal([]byte(record.Value), &value); err != nil {
		return nil, fmt.Errorf("fields: decode %s %s: %w", ref, key, err)
	}
	return value, nil
}

// Set writes value for key, creating or updating the row. A nil value
// deletes it.
func (s *BunStore) Set(ctx context.Context, ref query.FieldRef, key string, value any) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	id := identity.FieldUUID(ref.Kind, ref.ID, key)
	defer s.invalidate(ctx)

	existing, err := s.repo.GetByID(ctx, id.String())
	found := err == nil && existing != nil
	if err != nil && !goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return fmt.Errorf("fields: read %s %s: %w", ref, key, err)
	}

	if value == nil {
		if !found {
			return nil
		}
		return s.repo.Delete(ctx, &Record{ID: id})
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("fields: encode %s %s: %w", ref, key, err)
	}
	record := &Record{
		ID:         id,
		ObjectKind: ref.Kind,
		ObjectID:   ref.ID,
		Key:        key,
		Value:      string(encoded),
		UpdatedAt:  time.Now().UTC(),
	}
	if found {
		_, err = s.repo.Update(ctx, record)
	} else {
		_, err = s.repo.Create(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("fields: write %s %s: %w", ref, key, err)
	}
	return nil
}

func (s *BunStore) invalidate(ctx context.Context) {
	if s.cacheService == nil || s.cachePrefix == "" {
		return
	}
	_ = s.cacheService.DeleteByPrefix(ctx, s.cachePrefix)
}
