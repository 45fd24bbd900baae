package navigation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-masthead/internal/identity"
)

// MenuRecord is a menu row in nav_menus. Location is unique.
type MenuRecord struct {
	bun.BaseModel `bun:"table:nav_menus,alias:nm"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Location  string    `bun:"location,notnull,unique" json:"location"`
	Name      string    `bun:"name" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// MenuItemRecord is an item row in nav_menu_items.
type MenuItemRecord struct {
	bun.BaseModel `bun:"table:nav_menu_items,alias:nmi"`

	ID       uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	MenuID   uuid.UUID  `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	ParentID *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Key      string     `bun:"key,notnull" json:"key"`
	Title    string     `bun:"title,notnull" json:"title"`
	URL      string     `bun:"url,notnull" json:"url"`
	Target   string     `bun:"target" json:"target"`
	// Classes is a space separated class list.
	Classes   string    `bun:"classes" json:"classes"`
	Position  int       `bun:"position,notnull,default:0" json:"position"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

func NewMenuRecordRepository(db *bun.DB) repository.Repository[*MenuRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MenuRecord]{
		NewRecord: func() *MenuRecord { return &MenuRecord{} },
		GetID: func(r *MenuRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *MenuRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "location"
		},
		GetIdentifierValue: func(r *MenuRecord) string {
			return r.Location
		},
	})
}

func NewMenuItemRecordRepository(db *bun.DB) repository.Repository[*MenuItemRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MenuItemRecord]{
		NewRecord: func() *MenuItemRecord { return &MenuItemRecord{} },
		GetID: func(r *MenuItemRecord) uuid.UUID {
			return r.ID
		},
		SetID: func(r *MenuItemRecord, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *MenuItemRecord) string {
			return r.ID.String()
		},
	})
}

// BunLocator reads location assignments from nav_menus and nav_menu_items.
type BunLocator struct {
	menus        repository.Repository[*MenuRecord]
	items        repository.Repository[*MenuItemRecord]
	cacheService cache.CacheService
}

var _ MenuLocator = (*BunLocator)(nil)

const (
	menuNamespace     = "nav_menu"
	menuItemNamespace = "nav_menu_item"
)

func NewBunLocator(db *bun.DB) *BunLocator {
	return NewBunLocatorWithCache(db, nil, nil)
}

// NewBunLocatorWithCache wraps both repositories with go-repository-cache
// when cacheService and serializer are given.
func NewBunLocatorWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunLocator {
	locator := &BunLocator{
		menus: NewMenuRecordRepository(db),
		items: NewMenuItemRecordRepository(db),
	}
	if cacheService != nil && serializer != nil {
		locator.menus = repositorycache.New(locator.menus, cacheService, serializer)
		locator.items = repositorycache.New(locator.items, cacheService, serializer)
		locator.cacheService = cacheService
	}
	return locator
}

// CreateTables creates the menu tables when missing.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{(*MenuRecord)(nil), (*MenuItemRecord)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *BunLocator) MenuAt(ctx context.Context, location string) (*Menu, error) {
	key, err := NormalizeLocation(location)
	if err != nil {
		return nil, err
	}
	records, _, err := l.menus.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.location = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("navigation: lookup menu %s: %w", key, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	record := records[0]

	itemRecords, _, err := l.items.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.menu_id = ?", record.ID).
				OrderExpr("?TableAlias.position ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("navigation: list menu items %s: %w", key, err)
	}

	menu := &Menu{ID: record.ID, Location: record.Location, Name: record.Name}
	for _, item := range itemRecords {
		menu.Items = append(menu.Items, &MenuItem{
			ID:       item.ID,
			ParentID: item.ParentID,
			Key:      item.Key,
			Title:    item.Title,
			URL:      item.URL,
			Target:   item.Target,
			Classes:  strings.Fields(item.Classes),
			Position: item.Position,
		})
	}
	sort.SliceStable(menu.Items, func(i, j int) bool {
		return menu.Items[i].Position < menu.Items[j].Position
	})
	return menu, nil
}

// Assign stores menu at location, replacing the items of any menu already
// there. Item IDs derive from the menu and each item's Key (or position when
// Key is blank); ParentID may reference items by those derived IDs.
func (l *BunLocator) Assign(ctx context.Context, location string, menu *Menu) error {
	key, err := NormalizeLocation(location)
	if err != nil {
		return err
	}
	defer l.invalidate(ctx)

	if err := l.Unassign(ctx, key); err != nil {
		return err
	}
	if menu == nil {
		return nil
	}

	menuID := identity.MenuUUID(key)
	now := time.Now().UTC()
	if _, err := l.menus.Create(ctx, &MenuRecord{
		ID:        menuID,
		Location:  key,
		Name:      strings.TrimSpace(menu.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("navigation: create menu %s: %w", key, err)
	}

	for idx, item := range menu.Items {
		if item == nil {
			continue
		}
		record := &MenuItemRecord{
			ID:        ItemID(menuID, item, idx),
			MenuID:    menuID,
			ParentID:  item.ParentID,
			Key:       itemKey(item, idx),
			Title:     item.Title,
			URL:       strings.TrimSpace(item.URL),
			Target:    strings.TrimSpace(item.Target),
			Classes:   strings.Join(item.Classes, " "),
			Position:  item.Position,
			CreatedAt: now,
		}
		if _, err := l.items.Create(ctx, record); err != nil {
			return fmt.Errorf("navigation: create menu item %s/%s: %w", key, record.Key, err)
		}
	}
	return nil
}

// Unassign removes the menu at location and its items.
func (l *BunLocator) Unassign(ctx context.Context, location string) error {
	key, err := NormalizeLocation(location)
	if err != nil {
		return err
	}
	defer l.invalidate(ctx)

	existing, err := l.MenuAt(ctx, key)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	for _, item := range existing.Items {
		if err := l.items.Delete(ctx, &MenuItemRecord{ID: item.ID}); err != nil {
			return fmt.Errorf("navigation: delete menu item %s: %w", item.ID, err)
		}
	}
	if err := l.menus.Delete(ctx, &MenuRecord{ID: existing.ID}); err != nil {
		return fmt.Errorf("navigation: delete menu %s: %w", key, err)
	}
	return nil
}

// ItemID is the stored ID of item at index idx of a menu.
func ItemID(menuID uuid.UUID, item *MenuItem, idx int) uuid.UUID {
	return identity.MenuItemUUID(menuID, itemKey(item, idx))
}

func itemKey(item *MenuItem, idx int) string {
	if key := strings.TrimSpace(item.Key); key != "" {
		return key
	}
	return fmt.Sprintf("item-%d", idx)
}

func (l *BunLocator) invalidate(ctx context.Context) {
	if l.cacheService == nil {
		return
	}
	_ = l.cacheService.DeleteByPrefix(ctx, menuNamespace+cache.KeySeparator)
	_ = l.cacheService.DeleteByPrefix(ctx, menuItemNamespace+cache.KeySeparator)
}
