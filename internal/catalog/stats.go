package catalog

import (
	"sort"
	"strings"

	"lookbook/internal"
	"lookbook/internal/util"
	"lookbook/internal/vocab"
)

type CategoryCount struct {
	Category string
	Count    int
}

type BrandCount struct {
	Brand string
	Count int
}

type ItemPages struct {
	Key   internal.ItemKey
	Pages int
}

// Stats summarizes one collection's catalog for review: volume, the
// spread across categories and brands, and the usual data-quality
// suspects (single-sighting items, run-together names, shared-prefix
// groups that usually hide duplicates).
type Stats struct {
	Items      int
	Pages      int
	Categories []CategoryCount
	Brands     []BrandCount
	Top        []ItemPages
	SinglePage []internal.ItemKey
	Overlong   []internal.ItemKey
	Repeated   []internal.ItemKey
	PrefixDupe [][]internal.ItemKey
}

func BuildStats(idx Index, v *vocab.Vocabulary, topN int) Stats {
	keys := idx.SortedKeys()

	pages := map[internal.PageKey]struct{}{}
	byCategory := map[string]int{}
	byBrand := map[string]int{}
	var top []ItemPages
	var single, overlong, repeated []internal.ItemKey
	prefixes := map[string][]internal.ItemKey{}

	for _, key := range keys {
		refs := idx.PagesFor(key)
		for _, p := range refs {
			pages[p] = struct{}{}
		}
		byCategory[key.Category]++
		top = append(top, ItemPages{Key: key, Pages: len(refs)})
		if len(refs) == 1 {
			single = append(single, key)
		}

		tokens := util.Tokenize(key.Name)
		if len(tokens) > 6 && hasInteriorKeyword(v, tokens) {
			overlong = append(overlong, key)
		}
		if hasRepeatedToken(tokens) {
			repeated = append(repeated, key)
		}
		if len(tokens) >= 3 {
			prefix := strings.Join(tokens[:3], " ")
			prefixes[prefix] = append(prefixes[prefix], key)
		}

		lower := strings.ToLower(key.Name)
		for _, brand := range v.Brands {
			if strings.Contains(lower, strings.ToLower(brand)) {
				byBrand[brand]++
				break
			}
		}
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Pages != top[j].Pages {
			return top[i].Pages > top[j].Pages
		}
		return top[i].Key.String() < top[j].Key.String()
	})
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	stats := Stats{
		Items:      len(keys),
		Pages:      len(pages),
		Top:        top,
		SinglePage: single,
		Overlong:   overlong,
		Repeated:   repeated,
	}

	for category, count := range byCategory {
		stats.Categories = append(stats.Categories, CategoryCount{Category: category, Count: count})
	}
	displayRank := map[string]int{}
	for i, name := range vocab.CategoryOrder[v.Collection] {
		displayRank[name] = i
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		ri, iKnown := displayRank[stats.Categories[i].Category]
		rj, jKnown := displayRank[stats.Categories[j].Category]
		if iKnown && jKnown {
			return ri < rj
		}
		if iKnown != jKnown {
			return iKnown
		}
		if stats.Categories[i].Count != stats.Categories[j].Count {
			return stats.Categories[i].Count > stats.Categories[j].Count
		}
		return stats.Categories[i].Category < stats.Categories[j].Category
	})

	for brand, count := range byBrand {
		stats.Brands = append(stats.Brands, BrandCount{Brand: brand, Count: count})
	}
	sort.Slice(stats.Brands, func(i, j int) bool {
		if stats.Brands[i].Count != stats.Brands[j].Count {
			return stats.Brands[i].Count > stats.Brands[j].Count
		}
		return stats.Brands[i].Brand < stats.Brands[j].Brand
	})

	groupKeys := make([]string, 0, len(prefixes))
	for prefix, group := range prefixes {
		if len(group) > 1 {
			groupKeys = append(groupKeys, prefix)
		}
	}
	sort.Strings(groupKeys)
	for _, prefix := range groupKeys {
		stats.PrefixDupe = append(stats.PrefixDupe, prefixes[prefix])
	}

	return stats
}

func hasInteriorKeyword(v *vocab.Vocabulary, tokens []string) bool {
	for i := 1; i < len(tokens)-1; i++ {
		if v.HasKeyword(tokens[i]) {
			return true
		}
	}
	return false
}

func hasRepeatedToken(tokens []string) bool {
	seen := map[string]struct{}{}
	for _, t := range tokens {
		if _, dup := seen[t]; dup {
			return true
		}
		seen[t] = struct{}{}
	}
	return false
}
