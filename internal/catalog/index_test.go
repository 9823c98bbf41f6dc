package catalog

import (
	"reflect"
	"testing"

	"lookbook/internal"
)

func TestAddKeepsPagesSortedAndUnique(t *testing.T) {
	idx := NewIndex()
	item := internal.ClothingItem{Name: "Loro Piana sandal", Category: "Footwear"}
	idx.Add(item, "page_10")
	idx.Add(item, "page_2")
	idx.Add(item, "page_2")

	got := idx.PagesFor(item.Key())
	want := []internal.PageKey{"page_2", "page_10"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages=%v", got)
	}
}

func TestPagesForUnknownKey(t *testing.T) {
	idx := NewIndex()
	got := idx.PagesFor(internal.ItemKey{Name: "ghost", Category: "Tops"})
	if got == nil || len(got) != 0 {
		t.Fatalf("pages=%v", got)
	}
}

func TestRebuildFoldsAllPages(t *testing.T) {
	pageItems := map[internal.PageKey][]internal.ClothingItem{
		"page_3": {{Name: "Kiton polo", Category: "Tops"}},
		"page_1": {
			{Name: "Kiton polo", Category: "Tops"},
			{Name: "Zegna loafer", Category: "Footwear"},
		},
	}
	idx := Rebuild(pageItems)

	if len(idx) != 2 {
		t.Fatalf("keys=%d", len(idx))
	}
	got := idx.PagesFor(internal.ItemKey{Name: "Kiton polo", Category: "Tops"})
	if !reflect.DeepEqual(got, []internal.PageKey{"page_1", "page_3"}) {
		t.Fatalf("pages=%v", got)
	}

	// Every page item is reachable through the rebuilt index.
	for page, items := range pageItems {
		for _, item := range items {
			found := false
			for _, p := range idx.PagesFor(item.Key()) {
				if p == page {
					found = true
				}
			}
			if !found {
				t.Fatalf("item %s not indexed for %s", item.Key(), page)
			}
		}
	}
}

func TestRebuildIdempotent(t *testing.T) {
	pageItems := map[internal.PageKey][]internal.ClothingItem{
		"page_2": {{Name: "Brioni blazer", Category: "Outerwear"}},
		"page_9": {{Name: "Brioni blazer", Category: "Outerwear"}},
	}
	first := Rebuild(pageItems)
	second := Rebuild(pageItems)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("first=%v second=%v", first, second)
	}
}

func TestSortedKeysStable(t *testing.T) {
	idx := Index{
		{Name: "b", Category: "Tops"}:    {"page_1"},
		{Name: "a", Category: "Tops"}:    {"page_1"},
		{Name: "a", Category: "Bottoms"}: {"page_2"},
	}
	got := idx.SortedKeys()
	want := []internal.ItemKey{
		{Name: "a", Category: "Bottoms"},
		{Name: "a", Category: "Tops"},
		{Name: "b", Category: "Tops"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keys=%v", got)
	}
}
