package shortcode

import (
	"context"
	"errors"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-masthead/pkg/interfaces"
	"github.com/goliatone/go-masthead/query"
)

type stubSectionMenu struct {
	calls []*query.Object
	html  template.HTML
	err   error
}

func (s *stubSectionMenu) SectionMenu(_ context.Context, obj *query.Object) (template.HTML, error) {
	s.calls = append(s.calls, obj)
	return s.html, s.err
}

func newTestService(t *testing.T, defs ...interfaces.ShortcodeDefinition) *Service {
	t.Helper()
	registry := NewRegistry(NewValidator())
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.Name, err)
		}
	}
	return NewService(registry)
}

func TestServiceProcessTemplateAndHandler(t *testing.T) {
	service := newTestService(t,
		interfaces.ShortcodeDefinition{
			Name:       "highlight",
			AllowInner: true,
			Params:     []interfaces.ShortcodeParam{{Name: "color", Default: "gold"}},
			Template:   `<span class="text-{{ .color }}">{{ .Inner }}</span>`,
		},
		interfaces.ShortcodeDefinition{
			Name: "object-id",
			Handler: func(ctx interfaces.ShortcodeContext, _ map[string]any, _ string) (template.HTML, error) {
				return template.HTML(ctx.Object.ID), nil
			},
		},
	)

	obj := &query.Object{Kind: query.KindPost, ID: "12"}
	out, err := service.Process(context.Background(), `Go [highlight color="black"]Knights[/highlight] #[object-id /]`, interfaces.ShortcodeProcessOptions{Object: obj})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := `Go <span class="text-black">Knights</span> #12`
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestServiceProcessLeavesUnknownShortcodes(t *testing.T) {
	service := newTestService(t, interfaces.ShortcodeDefinition{Name: "known", Template: "K"})

	in := `[unknown a="1"]x[/unknown] [known] [[known]] [ not a tag ]`
	out, err := service.Process(context.Background(), in, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := `[unknown a="1"]x[/unknown] K [known] [ not a tag ]`
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestServiceProcessRejectsScripts(t *testing.T) {
	service := newTestService(t, interfaces.ShortcodeDefinition{
		Name: "evil",
		Handler: func(interfaces.ShortcodeContext, map[string]any, string) (template.HTML, error) {
			return "<script>alert(1)</script>", nil
		},
	})

	logger := &warnLogger{}
	service.logger = logger

	out, err := service.Process(context.Background(), "[evil]", interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if out != "[evil]" {
		t.Fatalf("expected rejected shortcode to stay as written, got %q", out)
	}
	if len(logger.warnings) != 1 || logger.warnings[0]["unsafe"] != true {
		t.Fatalf("expected one unsafe render warning, got %#v", logger.warnings)
	}
}

func TestServiceProcessKeepsExpandingAfterFailure(t *testing.T) {
	service := newTestService(t,
		interfaces.ShortcodeDefinition{Name: "campus", Template: "Orlando"},
		interfaces.ShortcodeDefinition{
			Name: "broken",
			Handler: func(interfaces.ShortcodeContext, map[string]any, string) (template.HTML, error) {
				return "", errors.New("boom")
			},
		},
	)

	out, err := service.Process(context.Background(), `[campus] news [broken id="3"] from [campus]`, interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	want := `Orlando news [broken id="3"] from Orlando`
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

type warnLogger struct {
	fields   map[string]any
	warnings []map[string]any
	parent   *warnLogger
}

func (l *warnLogger) root() *warnLogger {
	if l.parent != nil {
		return l.parent.root()
	}
	return l
}

func (l *warnLogger) Trace(string, ...any) {}
func (l *warnLogger) Debug(string, ...any) {}
func (l *warnLogger) Info(string, ...any)  {}
func (l *warnLogger) Warn(string, ...any) {
	r := l.root()
	r.warnings = append(r.warnings, l.fields)
}
func (l *warnLogger) Error(string, ...any) {}
func (l *warnLogger) Fatal(string, ...any) {}

func (l *warnLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *warnLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &warnLogger{fields: merged, parent: l}
}

func TestSectionMenuShortcode(t *testing.T) {
	provider := &stubSectionMenu{html: `<ul class="section-menu"><li>About</li></ul>`}
	registry := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(registry, provider); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	service := NewService(registry)
	obj := &query.Object{Kind: query.KindPost, ID: "5"}

	out, err := service.Process(context.Background(), "[section-menu]", interfaces.ShortcodeProcessOptions{Object: obj})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if out != string(provider.html) {
		t.Fatalf("unexpected output %q", out)
	}
	if len(provider.calls) != 1 || provider.calls[0] != obj {
		t.Fatalf("expected provider to receive object, got %v", provider.calls)
	}

	out, _ = service.Process(context.Background(), `[section-menu class="sticky"]`, interfaces.ShortcodeProcessOptions{Object: obj})
	if !strings.HasPrefix(out, `<div class="sticky">`) {
		t.Fatalf("expected wrapper div, got %q", out)
	}

	provider.err = errors.New("boom")
	out, err = service.Process(context.Background(), "[section-menu]", interfaces.ShortcodeProcessOptions{Object: obj})
	if err != nil || out != "[section-menu]" {
		t.Fatalf("expected provider failure to leave the tag, got %q (%v)", out, err)
	}
}

func TestRegisterBuiltInsWithoutProvider(t *testing.T) {
	registry := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(registry, nil); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	if registry.Has(SectionMenuName) {
		t.Fatal("expected section-menu to be skipped without provider")
	}
}

func TestNoOpService(t *testing.T) {
	out, err := NewNoOpService().Process(context.Background(), "[x]", interfaces.ShortcodeProcessOptions{})
	if err != nil || out != "[x]" {
		t.Fatalf("expected passthrough, got %q (%v)", out, err)
	}
}
