package shortcode

import (
	"errors"
	"html/template"
	"testing"

	"github.com/goliatone/go-masthead/pkg/interfaces"
)

func TestValidator_CoerceParams(t *testing.T) {
	v := NewValidator()
	def := interfaces.ShortcodeDefinition{
		Name:     "test",
		Template: "{{ .id }}",
		Params: []interfaces.ShortcodeParam{
			{Name: "id", Type: interfaces.ShortcodeParamString, Required: true},
			{Name: "count", Type: interfaces.ShortcodeParamInt, Default: 1},
			{Name: "enabled", Type: interfaces.ShortcodeParamBool, Default: false},
		},
	}

	got, err := v.CoerceParams(def, map[string]any{
		"id":      "abc",
		"count":   "42",
		"enabled": "true",
		"extra":   "dropped",
	}, nil)
	if err != nil {
		t.Fatalf("CoerceParams() unexpected error: %v", err)
	}
	if got["id"] != "abc" || got["count"] != 42 || got["enabled"] != true {
		t.Fatalf("unexpected params: %#v", got)
	}
	if _, ok := got["extra"]; ok {
		t.Fatal("expected undeclared attribute to be dropped")
	}

	got, err = v.CoerceParams(def, map[string]any{"id": "x"}, nil)
	if err != nil || got["count"] != 1 {
		t.Fatalf("expected default count, got %#v (%v)", got, err)
	}
}

func TestValidator_Errors(t *testing.T) {
	v := NewValidator()
	def := interfaces.ShortcodeDefinition{
		Name:     "test",
		Template: "x",
		Params: []interfaces.ShortcodeParam{
			{Name: "id", Type: interfaces.ShortcodeParamString, Required: true},
			{Name: "count", Type: interfaces.ShortcodeParamInt},
			{Name: "link", Type: interfaces.ShortcodeParamURL},
		},
	}

	if _, err := v.CoerceParams(def, map[string]any{}, nil); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter, got %v", err)
	}
	if _, err := v.CoerceParams(def, map[string]any{"id": "a", "count": "many"}, nil); !errors.Is(err, ErrParameterType) {
		t.Fatalf("expected ErrParameterType, got %v", err)
	}
	if _, err := v.CoerceParams(def, map[string]any{"id": "a", "link": "javascript:alert(1)"}, NewSanitizer()); !errors.Is(err, ErrUnsafeOutput) {
		t.Fatalf("expected unsafe url rejection, got %v", err)
	}
}

func TestValidator_ValidateDefinition(t *testing.T) {
	v := NewValidator()
	handler := func(interfaces.ShortcodeContext, map[string]any, string) (template.HTML, error) { return "", nil }

	cases := []struct {
		name string
		def  interfaces.ShortcodeDefinition
		ok   bool
	}{
		{"handler", interfaces.ShortcodeDefinition{Name: "a", Handler: handler}, true},
		{"template", interfaces.ShortcodeDefinition{Name: "a", Template: "<b>{{ .Inner }}</b>"}, true},
		{"no body", interfaces.ShortcodeDefinition{Name: "a"}, false},
		{"bad template", interfaces.ShortcodeDefinition{Name: "a", Template: "{{ .x "}, false},
		{"bad type", interfaces.ShortcodeDefinition{Name: "a", Handler: handler, Params: []interfaces.ShortcodeParam{{Name: "p", Type: "array"}}}, false},
		{"duplicate param", interfaces.ShortcodeDefinition{Name: "a", Handler: handler, Params: []interfaces.ShortcodeParam{{Name: "p"}, {Name: "p"}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.ValidateDefinition(tc.def)
			if tc.ok && err != nil {
				t.Fatalf("expected valid definition, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidDefinition) {
				t.Fatalf("expected ErrInvalidDefinition, got %v", err)
			}
		})
	}
}
