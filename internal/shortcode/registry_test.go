package shortcode

import (
	"errors"
	"testing"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

type acceptAll struct{}

func (acceptAll) ValidateDefinition(interfaces.ShortcodeDefinition) error { return nil }

type rejectAll struct{}

func (rejectAll) ValidateDefinition(interfaces.ShortcodeDefinition) error {
	return ErrInvalidDefinition
}

func TestRegistryNormalisesTagNames(t *testing.T) {
	registry := NewRegistry(acceptAll{})

	if err := registry.Register(interfaces.ShortcodeDefinition{Name: " Section-Menu "}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	def, ok := registry.Get("SECTION-MENU")
	if !ok || def.Name != SectionMenuName {
		t.Fatalf("expected normalised section-menu, got %#v (found=%v)", def, ok)
	}

	registry.Remove("Section-Menu")
	if registry.Has(SectionMenuName) {
		t.Fatal("expected definition to be removed")
	}
}

func TestRegistryRejectsDuplicatesAndBlankNames(t *testing.T) {
	registry := NewRegistry(nil)

	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "menu"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "MENU"}); !errors.Is(err, ErrDuplicateDefinition) {
		t.Fatalf("expected ErrDuplicateDefinition, got %v", err)
	}
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "  "}); !errors.Is(err, ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestRegistryReplaceOverridesExistingTag(t *testing.T) {
	registry := NewRegistry(nil)
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "menu", Template: "old"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := registry.Replace(interfaces.ShortcodeDefinition{Name: "menu", Template: "new"}); err != nil {
		t.Fatalf("Replace returned error: %v", err)
	}
	if def, _ := registry.Get("menu"); def.Template != "new" {
		t.Fatalf("expected replaced template, got %q", def.Template)
	}
}

func TestRegistryValidatorGuardsEveryWrite(t *testing.T) {
	registry := NewRegistry(rejectAll{})
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "menu"}); err == nil {
		t.Fatal("expected Register to fail validation")
	}
	if err := registry.Replace(interfaces.ShortcodeDefinition{Name: "menu"}); err == nil {
		t.Fatal("expected Replace to fail validation")
	}
	if registry.Has("menu") {
		t.Fatal("rejected definition was stored")
	}
}

func TestRegistryListIsSortedByName(t *testing.T) {
	registry := NewRegistry(acceptAll{})
	for _, name := range []string{"subnav", "breadcrumbs", "section-menu"} {
		if err := registry.Register(interfaces.ShortcodeDefinition{Name: name}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := registry.List()
	for i, want := range []string{"breadcrumbs", "section-menu", "subnav"} {
		if got[i].Name != want {
			t.Fatalf("List()[%d] = %s, want %s", i, got[i].Name, want)
		}
	}
}
