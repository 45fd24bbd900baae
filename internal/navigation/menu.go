package navigation

import (
	"errors"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

var (
	ErrLocationRequired = errors.New("navigation: menu location is required")
	ErrFetchFailed      = errors.New("navigation: mainsite menu fetch failed")
	ErrDocumentInvalid  = errors.New("navigation: mainsite menu document invalid")
)

// Menu is a menu assigned to a theme location.
type Menu struct {
	ID       uuid.UUID   `json:"id"`
	Location string      `json:"location"`
	Name     string      `json:"name,omitempty"`
	Items    []*MenuItem `json:"items,omitempty"`
}

// MenuItem is one flat menu entry. Items nest through ParentID.
type MenuItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Key      string     `json:"key,omitempty"`
	Title    string     `json:"title"`
	URL      string     `json:"url"`
	Target   string     `json:"target,omitempty"`
	Classes  []string   `json:"classes,omitempty"`
	Position int        `json:"position"`
}

// Document is the remote mainsite menu: a flat list of top level links.
type Document struct {
	Items []DocumentItem `json:"items"`
}

// DocumentItem is one mainsite link.
type DocumentItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Target string `json:"target,omitempty"`
}

// NormalizeLocation turns a location label into its registered slug, so
// "Header Menu" and "header-menu" name the same location.
func NormalizeLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", ErrLocationRequired
	}
	normalized, err := slug.Normalize(location)
	if err != nil || normalized == "" {
		return strings.ToLower(location), nil
	}
	return normalized, nil
}
