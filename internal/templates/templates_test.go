package templates

import (
	"context"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"
)

type headerView struct {
	Nav           template.HTML
	Title         template.HTML
	Subtitle      template.HTML
	H1            string
	ContentType   string
	CustomContent template.HTML
}

type navItem struct {
	ID       string
	Title    string
	URL      string
	Target   string
	Classes  string
	Active   bool
	Children []navItem
}

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestCandidates(t *testing.T) {
	got := Candidates(" header ", "media")
	if len(got) != 2 || got[0] != "header-media" || got[1] != "header" {
		t.Fatalf("unexpected candidates %v", got)
	}
	got = Candidates("header", "  ")
	if len(got) != 1 || got[0] != "header" {
		t.Fatalf("unexpected candidates %v", got)
	}
}

func TestRenderPartFallsBackToSlug(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderPart(context.Background(), "header", "unknown", headerView{
		Title: "Hello",
		H1:    "title",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<h1 class="h1 d-block`) || !strings.Contains(string(out), "Hello") {
		t.Fatalf("expected default header content, got %s", out)
	}
}

func TestRenderPartSubtitleAsH1(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderPart(context.Background(), "header", "", headerView{
		Title:    "Title",
		Subtitle: "Sub",
		H1:       "subtitle",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<span class="h1 d-block`) {
		t.Fatalf("expected title span, got %s", html)
	}
	if !strings.Contains(html, `<h1 class="lead mb-4 mb-md-5">Sub</h1>`) {
		t.Fatalf("expected subtitle h1, got %s", html)
	}
}

func TestRenderPartNestedContentType(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderPart(context.Background(), "header", "", headerView{
		ContentType:   "custom",
		Title:         "ignored",
		CustomContent: template.HTML(`<div class="custom">Custom</div>`),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<div class="custom">Custom</div>`) {
		t.Fatalf("expected custom content, got %s", out)
	}
}

func TestRenderPartMissingIsEmpty(t *testing.T) {
	r := newRenderer(t)
	out, err := r.RenderPart(context.Background(), "sidebar", "", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty markup, got %q", out)
	}
	if _, err := r.RenderPart(context.Background(), " ", "", nil); err != ErrSlugRequired {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
}

func TestNavItemsRendersDropdowns(t *testing.T) {
	r := newRenderer(t)
	items := []navItem{
		{ID: "1", Title: "Home", URL: "/", Classes: "menu-item active"},
		{ID: "2", Title: "About", URL: "/about", Classes: "menu-item", Children: []navItem{
			{ID: "3", Title: "Team", URL: "/about/team", Target: "_blank"},
		}},
	}
	out, err := r.RenderPart(context.Background(), "nav", "items", items)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<li class="menu-item active nav-item"><a class="nav-link" href="/">Home</a></li>`) {
		t.Fatalf("expected plain item, got %s", html)
	}
	if !strings.Contains(html, `id="navbar-dropdown-2"`) || !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected dropdown markup, got %s", html)
	}
}

func TestNavMainsiteEscapesItems(t *testing.T) {
	r := newRenderer(t)
	data := struct {
		Image bool
		Items []navItem
	}{
		Items: []navItem{{Title: "<b>UCF</b>", URL: "https://www.ucf.edu/"}},
	}
	out, err := r.RenderPart(context.Background(), "nav", "mainsite", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "<b>UCF</b>") || !strings.Contains(html, "&lt;b&gt;UCF&lt;/b&gt;") {
		t.Fatalf("expected escaped title, got %s", html)
	}
	if !strings.Contains(html, "bg-inverse-t-3") {
		t.Fatalf("expected imageless navbar classes, got %s", html)
	}
}

func TestThemeConventionalOverride(t *testing.T) {
	fsys := fstest.MapFS{
		"template-parts/header_content.html": {Data: []byte(`<p class="themed">{{ .Title }}</p>`)},
	}
	r := newRenderer(t, WithTheme(NewTheme(fsys, nil)))
	if !r.Has("header_content") {
		t.Fatalf("expected override to resolve")
	}

	out, err := r.RenderPart(context.Background(), "header", "", headerView{Title: "Themed"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `<p class="themed">Themed</p>`) {
		t.Fatalf("expected theme override, got %s", out)
	}
}

func TestThemeOverrideParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"template-parts/header.html": {Data: []byte(`{{ .Broken `)},
	}
	r := newRenderer(t, WithTheme(NewTheme(fsys, nil)))
	if _, err := r.RenderPart(context.Background(), "header", "", headerView{}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadThemeRequiresName(t *testing.T) {
	if _, err := LoadTheme(ThemeConfig{BasePath: t.TempDir()}); err != ErrThemeNameRequired {
		t.Fatalf("expected ErrThemeNameRequired, got %v", err)
	}
}
