package catalog

import (
	"lookbook/internal"
)

type AuditIssue struct {
	Key  internal.ItemKey
	Page internal.PageKey
}

// AuditReport lists the two ways page items and index can disagree:
// an item sitting on a page the index does not know about, and an index
// reference with no backing page item.
type AuditReport struct {
	MissingFromIndex []AuditIssue
	StaleInIndex     []AuditIssue
	Items            int
	Pages            int
}

func (r AuditReport) Clean() bool {
	return len(r.MissingFromIndex) == 0 && len(r.StaleInIndex) == 0
}

func Audit(idx Index, pageItems map[internal.PageKey][]internal.ClothingItem) AuditReport {
	report := AuditReport{
		MissingFromIndex: []AuditIssue{},
		StaleInIndex:     []AuditIssue{},
		Pages:            len(pageItems),
	}

	onPage := map[internal.ItemKey]map[internal.PageKey]struct{}{}
	pages := make([]internal.PageKey, 0, len(pageItems))
	for page := range pageItems {
		pages = append(pages, page)
	}
	internal.SortPages(pages)

	for _, page := range pages {
		for _, item := range pageItems[page] {
			key := item.Key()
			if onPage[key] == nil {
				onPage[key] = map[internal.PageKey]struct{}{}
			}
			onPage[key][page] = struct{}{}
		}
	}
	report.Items = len(onPage)

	indexed := map[internal.ItemKey]map[internal.PageKey]struct{}{}
	for key, refs := range idx {
		indexed[key] = map[internal.PageKey]struct{}{}
		for _, page := range refs {
			indexed[key][page] = struct{}{}
		}
	}

	for _, page := range pages {
		seen := map[internal.ItemKey]struct{}{}
		for _, item := range pageItems[page] {
			key := item.Key()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := indexed[key][page]; !ok {
				report.MissingFromIndex = append(report.MissingFromIndex, AuditIssue{Key: key, Page: page})
			}
		}
	}

	for _, key := range idx.SortedKeys() {
		for _, page := range idx.PagesFor(key) {
			if _, ok := onPage[key][page]; !ok {
				report.StaleInIndex = append(report.StaleInIndex, AuditIssue{Key: key, Page: page})
			}
		}
	}

	return report
}
