package navigation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func menuItems() (parent, child, orphan *MenuItem, items []*MenuItem) {
	parentID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	missing := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	home := &MenuItem{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Title: "Home", URL: "/", Position: 0}
	parent = &MenuItem{ID: parentID, Title: "About", URL: "/about/", Position: 1, Classes: []string{"featured"}}
	child = &MenuItem{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), ParentID: &parentID, Title: "Team", URL: "/about/team", Position: 2}
	orphan = &MenuItem{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), ParentID: &missing, Title: "Lost", URL: "/lost", Position: 3}
	return parent, child, orphan, []*MenuItem{orphan, child, parent, home}
}

func TestWalkerBuildsDropdowns(t *testing.T) {
	_, _, _, items := menuItems()
	tree := Walker{Depth: 2}.Walk(items)

	if len(tree) != 2 {
		t.Fatalf("expected 2 top level items, got %d", len(tree))
	}
	if tree[0].Title != "Home" || tree[1].Title != "About" {
		t.Fatalf("unexpected order: %s, %s", tree[0].Title, tree[1].Title)
	}
	about := tree[1]
	if len(about.Children) != 1 || about.Children[0].Title != "Team" {
		t.Fatalf("expected Team dropdown, got %+v", about.Children)
	}
	if !strings.Contains(about.Classes, "menu-item-has-children") || !strings.Contains(about.Classes, "featured") {
		t.Fatalf("unexpected classes %q", about.Classes)
	}
}

func TestWalkerDepthOneDropsChildren(t *testing.T) {
	_, _, _, items := menuItems()
	tree := Walker{Depth: 1}.Walk(items)
	for _, item := range tree {
		if len(item.Children) != 0 {
			t.Fatalf("expected no children at depth 1, got %+v", item.Children)
		}
		if strings.Contains(item.Classes, "menu-item-has-children") {
			t.Fatalf("unexpected has-children class on %s", item.Title)
		}
	}
}

func TestWalkerMarksActiveAncestor(t *testing.T) {
	_, _, _, items := menuItems()
	tree := Walker{CurrentURL: "/about/team/"}.Walk(items)
	about := tree[1]
	if !about.Active || !strings.HasSuffix(about.Classes, " active") {
		t.Fatalf("expected active parent, got %+v", about)
	}
	if !about.Children[0].Active {
		t.Fatalf("expected active child")
	}
	if tree[0].Active {
		t.Fatalf("home should not be active")
	}
}
