package navigation

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MaxWalkerDepth is the deepest level a bootstrap navbar can show: top level
// links and one level of dropdown items.
const MaxWalkerDepth = 2

// WalkerItem is a menu entry shaped for the nav-items part.
type WalkerItem struct {
	ID       string
	Title    string
	URL      string
	Target   string
	Classes  string
	Active   bool
	Children []*WalkerItem
}

// Walker builds the navbar item tree from a flat menu.
type Walker struct {
	// Depth limits nesting. Zero, and anything above MaxWalkerDepth, means
	// MaxWalkerDepth.
	Depth int
	// CurrentURL marks the matching item, and its parent, active.
	CurrentURL string
}

// Walk returns the top level items with their dropdown children. Items whose
// parent is missing are dropped.
func (w Walker) Walk(items []*MenuItem) []*WalkerItem {
	depth := w.Depth
	if depth <= 0 || depth > MaxWalkerDepth {
		depth = MaxWalkerDepth
	}

	ordered := make([]*MenuItem, 0, len(items))
	known := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		ordered = append(ordered, item)
		known[item.ID] = true
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	children := map[uuid.UUID][]*MenuItem{}
	var roots []*MenuItem
	for _, item := range ordered {
		if item.ParentID == nil || *item.ParentID == uuid.Nil {
			roots = append(roots, item)
			continue
		}
		if known[*item.ParentID] {
			children[*item.ParentID] = append(children[*item.ParentID], item)
		}
	}

	current := normalizeURL(w.CurrentURL)
	out := make([]*WalkerItem, 0, len(roots))
	for _, root := range roots {
		node := w.node(root, current)
		if depth > 1 {
			for _, child := range children[root.ID] {
				childNode := w.node(child, current)
				node.Children = append(node.Children, childNode)
				if childNode.Active {
					node.Active = true
				}
			}
		}
		node.Classes = classList(root, len(node.Children) > 0, node.Active)
		out = append(out, node)
	}
	return out
}

func (w Walker) node(item *MenuItem, current string) *WalkerItem {
	active := current != "" && normalizeURL(item.URL) == current
	return &WalkerItem{
		ID:      item.ID.String(),
		Title:   item.Title,
		URL:     item.URL,
		Target:  strings.TrimSpace(item.Target),
		Classes: classList(item, false, active),
		Active:  active,
	}
}

func classList(item *MenuItem, hasChildren, active bool) string {
	classes := []string{"menu-item", "menu-item-" + item.ID.String()}
	for _, class := range item.Classes {
		if class = strings.TrimSpace(class); class != "" {
			classes = append(classes, class)
		}
	}
	if hasChildren {
		classes = append(classes, "menu-item-has-children")
	}
	if active {
		classes = append(classes, "active")
	}
	return strings.Join(classes, " ")
}

func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if trimmed := strings.TrimRight(raw, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}
