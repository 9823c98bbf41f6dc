package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"lookbook/internal"
	"lookbook/internal/catalog"
	"lookbook/internal/vocab"
)

// Collection is one season's complete dataset. PageItems is the
// authoritative record; Index is derived and rebuildable from it.
type Collection struct {
	Name      string
	PageItems map[internal.PageKey][]internal.ClothingItem
	Index     catalog.Index
	Seasons   map[internal.PageKey]string
}

func (c *Collection) NextPageNum() int {
	max := 0
	for page := range c.PageItems {
		if n := page.Num(); n > max {
			max = n
		}
	}
	return max + 1
}

type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// baseName folds the fall and winter aliases onto the shared fw
// dataset; those two seasons live in one catalog split by page tags.
func baseName(collection string) string {
	switch collection {
	case "fall", "winter":
		return "fw"
	}
	return collection
}

func (s *Store) PageItemsPath(collection string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("page_items_%s.json", baseName(collection)))
}

func (s *Store) IndexPath(collection string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("clothing_index_%s.json", baseName(collection)))
}

func (s *Store) StatsPath(collection string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("category_stats_%s.json", baseName(collection)))
}

func (s *Store) SeasonsPath(collection string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("page_seasons_%s.json", baseName(collection)))
}

func (s *Store) Paths(collection string) []string {
	return []string{
		s.PageItemsPath(collection),
		s.IndexPath(collection),
		s.StatsPath(collection),
		s.SeasonsPath(collection),
	}
}

// Load reads the collection named by the vocabulary. Missing files mean
// an empty dataset, never an error. Older dataset shapes (bare string
// items, digit page keys, category-less index keys) are upgraded in
// memory and the index rebuilt; a later Save writes the current shape.
func (s *Store) Load(voc *vocab.Vocabulary) (*Collection, error) {
	c := &Collection{
		Name:      voc.Collection,
		PageItems: map[internal.PageKey][]internal.ClothingItem{},
		Seasons:   map[internal.PageKey]string{},
	}

	upgraded := false
	data, err := os.ReadFile(s.PageItemsPath(c.Name))
	switch {
	case err == nil:
		items, up, derr := decodePageItems(data, voc)
		if derr != nil {
			return nil, fmt.Errorf("%s: %w", s.PageItemsPath(c.Name), derr)
		}
		c.PageItems = items
		upgraded = up
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	idxData, err := os.ReadFile(s.IndexPath(c.Name))
	switch {
	case err == nil:
		idx, legacy, derr := decodeIndex(idxData)
		if derr != nil {
			return nil, fmt.Errorf("%s: %w", s.IndexPath(c.Name), derr)
		}
		if legacy || upgraded {
			c.Index = catalog.Rebuild(c.PageItems)
		} else {
			c.Index = idx
		}
	case os.IsNotExist(err):
		c.Index = catalog.Rebuild(c.PageItems)
	default:
		return nil, err
	}

	seasonsData, err := os.ReadFile(s.SeasonsPath(c.Name))
	switch {
	case err == nil:
		raw := map[string]string{}
		if derr := json.Unmarshal(seasonsData, &raw); derr != nil {
			return nil, fmt.Errorf("%s: %w", s.SeasonsPath(c.Name), derr)
		}
		for page, season := range raw {
			c.Seasons[internal.NormalizePageKey(page)] = season
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	return c, nil
}

// Save persists the collection. Page items go first so a failure
// mid-save leaves the authoritative file at most ahead of the derived
// ones; the index is written last.
func (s *Store) Save(c *Collection) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}
	if err := writeJSON(s.PageItemsPath(c.Name), c.PageItems); err != nil {
		return err
	}
	if err := writeJSON(s.StatsPath(c.Name), categoryCounts(c.PageItems)); err != nil {
		return err
	}
	if len(c.Seasons) > 0 {
		if err := writeJSON(s.SeasonsPath(c.Name), c.Seasons); err != nil {
			return err
		}
	}
	return writeJSON(s.IndexPath(c.Name), c.Index)
}

func categoryCounts(pageItems map[internal.PageKey][]internal.ClothingItem) map[string]int {
	counts := map[string]int{}
	for _, items := range pageItems {
		for _, item := range items {
			counts[item.Category]++
		}
	}
	return counts
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func decodePageItems(data []byte, voc *vocab.Vocabulary) (map[internal.PageKey][]internal.ClothingItem, bool, error) {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, err
	}

	upgraded := false
	out := make(map[internal.PageKey][]internal.ClothingItem, len(raw))
	for rawPage, entries := range raw {
		page := internal.NormalizePageKey(rawPage)
		if string(page) != rawPage {
			upgraded = true
		}
		items := make([]internal.ClothingItem, 0, len(entries))
		for _, entry := range entries {
			var item internal.ClothingItem
			if err := json.Unmarshal(entry, &item); err == nil && item.Name != "" {
				if item.Category == "" {
					item.Category = voc.Categorize(item.Name)
					upgraded = true
				}
				items = append(items, item)
				continue
			}
			var name string
			if err := json.Unmarshal(entry, &name); err == nil && name != "" {
				items = append(items, internal.ClothingItem{Name: name, Category: voc.Categorize(name)})
				upgraded = true
				continue
			}
			return nil, false, fmt.Errorf("page %s: unrecognized item record %s", rawPage, string(entry))
		}
		out[page] = items
	}
	return out, upgraded, nil
}

func decodeIndex(data []byte) (catalog.Index, bool, error) {
	var idx catalog.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, false, err
	}
	for key := range idx {
		if key.Category == "" {
			return nil, true, nil
		}
	}
	return idx, false, nil
}
