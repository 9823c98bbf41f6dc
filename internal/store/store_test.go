package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"lookbook/internal"
	"lookbook/internal/catalog"
	"lookbook/internal/vocab"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	voc := vocab.Summer()

	c := &Collection{
		Name: "summer",
		PageItems: map[internal.PageKey][]internal.ClothingItem{
			"page_1": {{Name: "Loro Piana sandal", Category: "Footwear"}},
			"page_3": {
				{Name: "Loro Piana sandal", Category: "Footwear"},
				{Name: "Kiton polo", Category: "Tops"},
			},
		},
		Seasons: map[internal.PageKey]string{"page_1": "summer"},
	}
	c.Index = catalog.Rebuild(c.PageItems)

	if err := s.Save(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := s.Load(voc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(loaded.PageItems, c.PageItems) {
		t.Fatalf("page items=%v", loaded.PageItems)
	}
	if !reflect.DeepEqual(loaded.Index, c.Index) {
		t.Fatalf("index=%v", loaded.Index)
	}
	if loaded.Seasons["page_1"] != "summer" {
		t.Fatalf("seasons=%v", loaded.Seasons)
	}
}

func TestLoadMissingFilesMeansEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	c, err := s.Load(vocab.Summer())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.PageItems) != 0 || len(c.Index) != 0 {
		t.Fatalf("collection=%+v", c)
	}
	if c.NextPageNum() != 1 {
		t.Fatalf("next=%d", c.NextPageNum())
	}
}

func TestLoadUpgradesLegacyStringItems(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	legacy := `{"1": ["Loro Piana sandal", "Kiton polo"], "page_2": ["Zegna linen shirt"]}`
	if err := os.WriteFile(s.PageItemsPath("summer"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := s.Load(vocab.Summer())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := c.PageItems["page_1"]
	if len(got) != 2 || got[0].Category != "Footwear" || got[1].Category != "Tops" {
		t.Fatalf("page_1=%v", got)
	}
	if _, old := c.PageItems["1"]; old {
		t.Fatal("digit page key survived upgrade")
	}
	// Index is rebuilt from the upgraded items.
	pages := c.Index.PagesFor(internal.ItemKey{Name: "Zegna linen shirt", Category: "Tops"})
	if !reflect.DeepEqual(pages, []internal.PageKey{"page_2"}) {
		t.Fatalf("pages=%v", pages)
	}
}

func TestLoadRebuildsLegacyIndexKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	items := `{"page_1": [{"name": "Kiton polo", "category": "Tops"}]}`
	if err := os.WriteFile(s.PageItemsPath("summer"), []byte(items), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	oldIndex := `{"Kiton polo": ["page_1"]}`
	if err := os.WriteFile(s.IndexPath("summer"), []byte(oldIndex), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := s.Load(vocab.Summer())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pages := c.Index.PagesFor(internal.ItemKey{Name: "Kiton polo", Category: "Tops"})
	if !reflect.DeepEqual(pages, []internal.PageKey{"page_1"}) {
		t.Fatalf("pages=%v", pages)
	}
	if _, bare := c.Index[internal.ItemKey{Name: "Kiton polo"}]; bare {
		t.Fatal("category-less key survived")
	}
}

func TestLoadRejectsMismatchedRecords(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	bad := `{"page_1": [42]}`
	if err := os.WriteFile(s.PageItemsPath("summer"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(vocab.Summer()); err == nil {
		t.Fatal("no error for mismatched record")
	}
}

func TestFallAndWinterShareDataset(t *testing.T) {
	s := NewStore(t.TempDir())
	if s.PageItemsPath("fall") != s.PageItemsPath("winter") {
		t.Fatal("fall and winter paths differ")
	}
	if filepath.Base(s.PageItemsPath("fall")) != "page_items_fw.json" {
		t.Fatalf("path=%s", s.PageItemsPath("fall"))
	}
}

func TestSaveWritesCategoryStats(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	c := &Collection{
		Name: "summer",
		PageItems: map[internal.PageKey][]internal.ClothingItem{
			"page_1": {
				{Name: "Loro Piana sandal", Category: "Footwear"},
				{Name: "Kiton polo", Category: "Tops"},
			},
			"page_2": {{Name: "Loro Piana sandal", Category: "Footwear"}},
		},
	}
	c.Index = catalog.Rebuild(c.PageItems)
	if err := s.Save(c); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(s.StatsPath("summer"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	counts := map[string]int{}
	if err := json.Unmarshal(data, &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts["Footwear"] != 2 || counts["Tops"] != 1 {
		t.Fatalf("counts=%v", counts)
	}
}

func TestNextPageNum(t *testing.T) {
	c := &Collection{
		PageItems: map[internal.PageKey][]internal.ClothingItem{
			"page_2":  nil,
			"page_17": nil,
		},
	}
	if got := c.NextPageNum(); got != 18 {
		t.Fatalf("next=%d", got)
	}
}
