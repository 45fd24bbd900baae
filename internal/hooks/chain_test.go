package hooks

import (
	"context"
	"testing"

	"github.com/goliatone/go-masthead/internal/media"
	"github.com/goliatone/go-masthead/query"
)

func appendFilter(suffix string) Filter[string] {
	return func(_ context.Context, value string, _ *query.Object) string {
		return value + suffix
	}
}

func TestChainOrdersByPriorityThenInsertion(t *testing.T) {
	var chain Chain[string]
	chain.Add(20, appendFilter("c"))
	chain.Add(DefaultPriority, appendFilter("a"))
	chain.Add(DefaultPriority, appendFilter("b"))
	chain.Add(1, appendFilter(">"))

	if got := chain.Apply(context.Background(), "", nil); got != ">abc" {
		t.Fatalf("expected >abc, got %q", got)
	}
}

func TestChainRemove(t *testing.T) {
	var chain Chain[string]
	remove := chain.Add(DefaultPriority, appendFilter("x"))
	chain.Add(DefaultPriority, appendFilter("y"))

	remove()
	remove()

	if chain.Len() != 1 {
		t.Fatalf("expected one filter left, got %d", chain.Len())
	}
	if got := chain.Apply(context.Background(), "", nil); got != "y" {
		t.Fatalf("expected y, got %q", got)
	}
}

func TestChainReceivesObject(t *testing.T) {
	reg := NewRegistry()
	reg.ImagesBefore.Add(DefaultPriority, func(_ context.Context, images media.Images, obj *query.Object) media.Images {
		if obj != nil && obj.ID == "7" {
			images.Full = "hero.jpg"
		}
		return images
	})

	got := reg.ImagesBefore.Apply(context.Background(), media.Images{}, &query.Object{Kind: query.KindPost, ID: "7"})
	if got.Full != "hero.jpg" {
		t.Fatalf("expected filter to see object, got %+v", got)
	}

	var nilChain *Chain[string]
	if nilChain.Apply(context.Background(), "same", nil) != "same" {
		t.Fatal("expected nil chain to return input")
	}
}
