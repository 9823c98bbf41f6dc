package catalog

import (
	"fmt"
	"strings"

	"lookbook/internal"
	"lookbook/internal/util"
	"lookbook/internal/vocab"
)

// Resolver finds likely-duplicate catalog entries and folds confirmed
// groups into a canonical key. It never merges on its own; candidate
// pairs are suggestions for an operator to confirm.
type Resolver struct {
	vocab *vocab.Vocabulary
}

func NewResolver(v *vocab.Vocabulary) *Resolver {
	return &Resolver{vocab: v}
}

// FindCandidates compares every unordered pair of index keys and
// returns the pairs flagged by one of the similarity heuristics, in
// sorted key order.
func (r *Resolver) FindCandidates(idx Index) []internal.CandidatePair {
	keys := idx.SortedKeys()
	pairs := []internal.CandidatePair{}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if pair, ok := r.similar(keys[i], keys[j]); ok {
				pairs = append(pairs, pair)
			}
		}
	}
	return pairs
}

func (r *Resolver) similar(a, b internal.ItemKey) (internal.CandidatePair, bool) {
	shared := util.SharedTokens(a.Name, b.Name)

	if brand, ok := r.vocab.SharedBrand(a.Name, b.Name); ok {
		brandTokens := map[string]struct{}{}
		for _, t := range util.Tokenize(brand) {
			brandTokens[t] = struct{}{}
		}
		extra := 0
		for _, t := range shared {
			if _, isBrand := brandTokens[t]; !isBrand {
				extra++
			}
		}
		if extra >= 1 {
			return internal.CandidatePair{A: a, B: b, Reason: internal.ReasonSharedBrand, Shared: shared}, true
		}
	}

	if len(shared) >= 3 {
		return internal.CandidatePair{A: a, B: b, Reason: internal.ReasonTokenOverlap, Shared: shared}, true
	}

	la, lb := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return internal.CandidatePair{A: a, B: b, Reason: internal.ReasonSubstring, Shared: shared}, true
	}

	return internal.CandidatePair{}, false
}

// Merge folds every key in group into canonical. It returns fresh index
// and page-item values; the inputs are left untouched so the caller can
// persist both artifacts together or discard the result on error.
//
// The canonical key keeps the union of the group's pages, ordinal
// sorted. If canonical already exists in the index it joins the group
// implicitly, so its pages survive the fold.
func (r *Resolver) Merge(idx Index, pageItems map[internal.PageKey][]internal.ClothingItem, group []internal.ItemKey, canonical internal.ItemKey) (Index, map[internal.PageKey][]internal.ClothingItem, error) {
	if canonical.Name == "" || canonical.Category == "" {
		return nil, nil, fmt.Errorf("canonical key must carry a name and category, got %q", canonical)
	}
	if len(group) == 0 {
		return nil, nil, fmt.Errorf("merge group is empty")
	}

	members := map[internal.ItemKey]struct{}{}
	categoryOK := r.vocab.HasCategory(canonical.Category)
	for _, key := range group {
		if _, ok := idx[key]; !ok {
			return nil, nil, fmt.Errorf("merge group key not in index: %s", key)
		}
		members[key] = struct{}{}
		if key.Category == canonical.Category {
			categoryOK = true
		}
	}
	if !categoryOK {
		return nil, nil, fmt.Errorf("canonical category %q is not declared and matches no group member", canonical.Category)
	}
	if _, ok := idx[canonical]; ok {
		members[canonical] = struct{}{}
	}

	union := []internal.PageKey{}
	seen := map[internal.PageKey]struct{}{}
	merged := Index{}
	for key, pages := range idx {
		if _, isMember := members[key]; isMember {
			for _, p := range pages {
				if _, dup := seen[p]; !dup {
					seen[p] = struct{}{}
					union = append(union, p)
				}
			}
			continue
		}
		kept := make([]internal.PageKey, len(pages))
		copy(kept, pages)
		merged[key] = kept
	}
	internal.SortPages(union)
	merged[canonical] = union

	rewritten := make(map[internal.PageKey][]internal.ClothingItem, len(pageItems))
	for page, items := range pageItems {
		out := make([]internal.ClothingItem, 0, len(items))
		for _, item := range items {
			if _, isMember := members[item.Key()]; isMember {
				item = internal.ClothingItem{Name: canonical.Name, Category: canonical.Category}
			}
			out = append(out, item)
		}
		rewritten[page] = internal.DedupeItems(out, 0)
	}

	return merged, rewritten, nil
}

// Rename is a merge with a group of one: the old key's pages move to
// the new key through the exact same fold.
func (r *Resolver) Rename(idx Index, pageItems map[internal.PageKey][]internal.ClothingItem, from, to internal.ItemKey) (Index, map[internal.PageKey][]internal.ClothingItem, error) {
	return r.Merge(idx, pageItems, []internal.ItemKey{from}, to)
}
