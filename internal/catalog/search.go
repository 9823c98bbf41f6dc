package catalog

import (
	"sort"
	"strings"

	"lookbook/internal"
	"lookbook/internal/util"
)

type SearchResult struct {
	Key   internal.ItemKey
	Pages []internal.PageKey
	Score float64
}

// Search matches query against item keys, case insensitive. Substring
// hits win outright; only when none exist does it fall back to bigram
// similarity against item names at or above fuzzyThreshold.
func Search(idx Index, query string, fuzzyThreshold float64) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []SearchResult{}
	}

	keys := idx.SortedKeys()
	results := []SearchResult{}
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key.String()), q) {
			results = append(results, SearchResult{Key: key, Pages: idx.PagesFor(key), Score: 1})
		}
	}
	if len(results) > 0 {
		return results
	}

	for _, key := range keys {
		score := util.DiceCoefficient(q, strings.ToLower(key.Name))
		if score >= fuzzyThreshold {
			results = append(results, SearchResult{Key: key, Pages: idx.PagesFor(key), Score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Key.String() < results[j].Key.String()
	})
	return results
}
