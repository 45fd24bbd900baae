package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsStableAndNilForBlankKeys(t *testing.T) {
	if UUID("  ") != uuid.Nil {
		t.Fatal("expected nil uuid for blank key")
	}
	first := FieldUUID("post", "42", "page_header_title")
	second := FieldUUID(" POST ", "42", "page_header_title")
	if first != second {
		t.Fatalf("expected normalised kinds to match, got %s and %s", first, second)
	}
	if first == FieldUUID("post", "42", "page_header_subtitle") {
		t.Fatal("expected different keys to produce different ids")
	}
	if MenuUUID("header-menu") == TransientUUID("header-menu") {
		t.Fatal("expected record families not to collide")
	}
}
