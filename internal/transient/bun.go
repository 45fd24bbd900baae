package transient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-masthead/internal/identity"
	"github.com/goliatone/go-masthead/pkg/interfaces"
)

// ErrKeyRequired is returned when storing under a blank key.
var ErrKeyRequired = errors.New("transient: key is required")

// Record is one persisted transient.
type Record struct {
	bun.BaseModel `bun:"table:transients,alias:tr"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Key       string     `bun:"key,notnull" json:"key"`
	Value     string     `bun:"value,notnull" json:"value"`
	ExpiresAt *time.Time `bun:"expires_at" json:"expires_at,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// NewRecordRepository creates a repository for transient records.
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
			return "key"
		},
		GetIdentifierValue: func(r *Record) string {
			return r.Key
		},
	})
}

// BunStore persists transients as JSON rows. Expired rows read as misses and
// are removed on access.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Record]
	now  func() time.Time
}

var _ interfaces.CacheProvider = (*BunStore)(nil)

// BunOption customises a BunStore.
type BunOption func(*BunStore)

// WithBunClock replaces time.Now, for tests.
func WithBunClock(now func() time.Time) BunOption {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewBunStore(db *bun.DB, opts ...BunOption) *BunStore {
	store := &BunStore{db: db, repo: NewRecordRepository(db), now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// CreateTable creates the transients table when missing.
func CreateTable(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *BunStore) Get(ctx context.Context, key string) (any, error) {
	record, err := s.find(ctx, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.ExpiresAt != nil && !s.now().Before(*record.ExpiresAt) {
		_ = s.repo.Delete(ctx, &Record{ID: record.ID})
		return nil, interfaces.ErrCacheMiss
	}
	var value any
	if err := json.Unmarshal([]byte(record.Value), &value); err != nil {
		return nil, fmt.Errorf("transient: decode %s: %w", key, err)
	}
	return value, nil
}

func (s *BunStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	key = normalizeKey(key)
	if key == "" {
		return ErrKeyRequired
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("transient: encode %s: %w", key, err)
	}
	record := &Record{
		ID:        identity.TransientUUID(key),
		Key:       key,
		Value:     string(encoded),
		CreatedAt: s.now().UTC(),
	}
	if ttl > 0 {
		expires := s.now().Add(ttl).UTC()
		record.ExpiresAt = &expires
	}

	existing, err := s.find(ctx, key)
	switch {
	case err == nil && existing != nil:
		_, err = s.repo.Update(ctx, record)
	case errors.Is(err, interfaces.ErrCacheMiss):
		_, err = s.repo.Create(ctx, record)
	}
	if err != nil {
		return fmt.Errorf("transient: store %s: %w", key, err)
	}
	return nil
}

func (s *BunStore) Delete(ctx context.Context, key string) error {
	key = normalizeKey(key)
	if key == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, &Record{ID: identity.TransientUUID(key)}); err != nil && !isNotFound(err) {
		return fmt.Errorf("transient: delete %s: %w", key, err)
	}
	return nil
}

func (s *BunStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().Model((*Record)(nil)).Where("1 = 1").Exec(ctx)
	return err
}

func (s *BunStore) find(ctx context.Context, key string) (*Record, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, interfaces.ErrCacheMiss
	}
	record, err := s.repo.GetByID(ctx, identity.TransientUUID(key).String())
	if err != nil {
		if isNotFound(err) {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, fmt.Errorf("transient: read %s: %w", key, err)
	}
	return record, nil
}

func isNotFound(err error) bool {
	return goerrors.IsCategory(err, repository.CategoryDatabaseNotFound)
}
