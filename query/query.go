package query

import (
	"net/url"
	"strings"
	"time"
)

// ObjectKind names the family a queried object belongs to.
type ObjectKind string

const (
	KindPost     ObjectKind = "post"
	KindTerm     ObjectKind = "term"
	KindAuthor   ObjectKind = "author"
	KindPostType ObjectKind = "post_type"
)

// Object is the queried object a header is resolved for: a post or page, a
// taxonomy term, an author, or a post type archive.
type Object struct {
	Kind ObjectKind `json:"kind"`
	ID   string     `json:"id"`
	// Type carries the post type for posts and the taxonomy for terms.
	Type        string    `json:"type,omitempty"`
	Slug        string    `json:"slug,omitempty"`
	Title       string    `json:"title,omitempty"`
	Name        string    `json:"name,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Label       string    `json:"label,omitempty"`
	Date        time.Time `json:"date,omitempty"`
}

// FieldRef identifies the object a custom field belongs to.
type FieldRef struct {
	Kind string
	ID   string
}

// IsZero reports whether the ref points at no object.
func (r FieldRef) IsZero() bool {
	return r.Kind == "" || r.ID == ""
}

// String renders the ref as kind:id.
func (r FieldRef) String() string {
	return r.Kind + ":" + r.ID
}

// Ref returns the field storage key for the object. A nil object yields the
// zero ref, which stores never match.
func (o *Object) Ref() FieldRef {
	if o == nil {
		return FieldRef{}
	}
	return FieldRef{
		Kind: string(o.Kind),
		ID:   strings.TrimSpace(o.ID),
	}
}

// Flags classifies the current request the way a theme's conditional tags do.
type Flags struct {
	Search          bool `json:"search,omitempty"`
	FrontPage       bool `json:"front_page,omitempty"`
	Home            bool `json:"home,omitempty"`
	PostTypeArchive bool `json:"post_type_archive,omitempty"`
	Tax             bool `json:"tax,omitempty"`
	Singular        bool `json:"singular,omitempty"`
	Category        bool `json:"category,omitempty"`
	Tag             bool `json:"tag,omitempty"`
	Author          bool `json:"author,omitempty"`
	Year            bool `json:"year,omitempty"`
	Month           bool `json:"month,omitempty"`
	Day             bool `json:"day,omitempty"`
	NotFound        bool `json:"not_found,omitempty"`
}

// Context bundles the queried object with the request classification.
type Context struct {
	Object      *Object `json:"object,omitempty"`
	Flags       Flags   `json:"flags"`
	SearchQuery string  `json:"search_query,omitempty"`
	// Customizing is set while the site is rendered inside a live preview.
	Customizing bool `json:"customizing,omitempty"`
	// CurrentURL is the address of the page being rendered. Menus mark the
	// matching item active.
	CurrentURL string `json:"current_url,omitempty"`
}

// IsHomeOrFront reports whether the request is the blog index or the front page.
func (c Context) IsHomeOrFront() bool {
	return c.Flags.Home || c.Flags.FrontPage
}

// ParseValues builds a Context from request parameters. Recognised keys:
// kind, id, type, slug, title, name, display_name, label, date (RFC3339 or
// 2006-01-02), view (comma separated flag names), s, customize, current_url.
func ParseValues(values url.Values) Context {
	ctx := Context{
		SearchQuery: strings.TrimSpace(values.Get("s")),
		Customizing: truthy(values.Get("customize")),
		CurrentURL:  strings.TrimSpace(values.Get("current_url")),
	}

	if kind := strings.TrimSpace(values.Get("kind")); kind != "" {
		obj := &Object{
			Kind:        ObjectKind(strings.ToLower(kind)),
			ID:          strings.TrimSpace(values.Get("id")),
			Type:        strings.TrimSpace(values.Get("type")),
			Slug:        strings.TrimSpace(values.Get("slug")),
			Title:       values.Get("title"),
			Name:        values.Get("name"),
			DisplayName: values.Get("display_name"),
			Label:       values.Get("label"),
		}
		if raw := strings.TrimSpace(values.Get("date")); raw != "" {
			obj.Date = parseDate(raw)
		}
		ctx.Object = obj
	}

	for _, view := range strings.Split(values.Get("view"), ",") {
		applyView(&ctx.Flags, strings.ToLower(strings.TrimSpace(view)))
	}
	if ctx.SearchQuery != "" {
		ctx.Flags.Search = true
	}
	return ctx
}

func applyView(flags *Flags, view string) {
	switch view {
	case "search":
		flags.Search = true
	case "front_page", "front":
		flags.FrontPage = true
	case "home":
		flags.Home = true
	case "post_type_archive", "archive":
		flags.PostTypeArchive = true
	case "tax", "taxonomy":
		flags.Tax = true
	case "singular", "single", "page":
		flags.Singular = true
	case "category":
		flags.Category = true
	case "tag":
		flags.Tag = true
	case "author":
		flags.Author = true
	case "year":
		flags.Year = true
	case "month":
		flags.Month = true
	case "day":
		flags.Day = true
	case "404", "not_found":
		flags.NotFound = true
	}
}

func parseDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
