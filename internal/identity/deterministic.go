package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from key with go-hashid. Keys are
// prefixed per record family so different tables never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// FieldUUID identifies one custom field value of one object.
func FieldUUID(objectKind, objectID, key string) uuid.UUID {
	return UUID("masthead:field:" + strings.ToLower(strings.TrimSpace(objectKind)) + ":" + strings.TrimSpace(objectID) + ":" + strings.TrimSpace(key))
}

func MenuUUID(location string) uuid.UUID {
	return UUID("masthead:menu:" + strings.ToLower(strings.TrimSpace(location)))
}

func MenuItemUUID(menuID uuid.UUID, key string) uuid.UUID {
	return UUID("masthead:menu_item:" + menuID.String() + ":" + strings.TrimSpace(key))
}

func TransientUUID(key string) uuid.UUID {
	return UUID("masthead:transient:" + strings.TrimSpace(key))
}
