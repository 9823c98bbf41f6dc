package catalog

import (
	"sort"

	"lookbook/internal"
)

// Index maps each catalog item to the ordinal-sorted pages it appears
// on. It is derived state: page items stay authoritative and the index
// can always be rebuilt from them.
type Index map[internal.ItemKey][]internal.PageKey

func NewIndex() Index {
	return Index{}
}

func (idx Index) Add(item internal.ClothingItem, page internal.PageKey) {
	key := item.Key()
	pages := idx[key]
	for _, p := range pages {
		if p == page {
			return
		}
	}
	pages = append(pages, page)
	internal.SortPages(pages)
	idx[key] = pages
}

// PagesFor returns a sorted copy of the pages for key. Unknown keys
// yield an empty slice.
func (idx Index) PagesFor(key internal.ItemKey) []internal.PageKey {
	pages, ok := idx[key]
	if !ok {
		return []internal.PageKey{}
	}
	out := make([]internal.PageKey, len(pages))
	copy(out, pages)
	internal.SortPages(out)
	return out
}

func (idx Index) SortedKeys() []internal.ItemKey {
	keys := make([]internal.ItemKey, 0, len(idx))
	for key := range idx {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		return keys[i].Category < keys[j].Category
	})
	return keys
}

func Rebuild(pageItems map[internal.PageKey][]internal.ClothingItem) Index {
	pages := make([]internal.PageKey, 0, len(pageItems))
	for page := range pageItems {
		pages = append(pages, page)
	}
	internal.SortPages(pages)

	idx := Index{}
	for _, page := range pages {
		for _, item := range pageItems[page] {
			idx.Add(item, page)
		}
	}
	return idx
}
