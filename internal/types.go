package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type ClothingItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (c ClothingItem) Key() ItemKey {
	return ItemKey{Name: c.Name, Category: c.Category}
}

type ItemKey struct {
	Name     string
	Category string
}

func (k ItemKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Category)
}

func (k ItemKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ItemKey) UnmarshalText(b []byte) error {
	parsed, ok := ParseItemKey(string(b))
	if !ok {
		*k = ItemKey{Name: strings.TrimSpace(string(b))}
		return nil
	}
	*k = parsed
	return nil
}

func ParseItemKey(s string) (ItemKey, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return ItemKey{}, false
	}
	i := strings.LastIndex(s, " (")
	if i < 0 {
		return ItemKey{}, false
	}
	name := strings.TrimSpace(s[:i])
	category := strings.TrimSpace(s[i+2 : len(s)-1])
	if name == "" || category == "" {
		return ItemKey{}, false
	}
	return ItemKey{Name: name, Category: category}, true
}

type PageKey string

func PageKeyFor(n int) PageKey {
	return PageKey(fmt.Sprintf("page_%d", n))
}

func (p PageKey) Num() int {
	i := strings.LastIndex(string(p), "_")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(string(p)[i+1:])
	if err != nil {
		return -1
	}
	return n
}

func SortPages(pages []PageKey) {
	sort.Slice(pages, func(i, j int) bool {
		a, b := pages[i].Num(), pages[j].Num()
		if a != b {
			return a < b
		}
		return pages[i] < pages[j]
	})
}

type CandidateReason string

const (
	ReasonSharedBrand  CandidateReason = "SHARED_BRAND"
	ReasonTokenOverlap CandidateReason = "TOKEN_OVERLAP"
	ReasonSubstring    CandidateReason = "SUBSTRING"
)

type CandidatePair struct {
	A      ItemKey
	B      ItemKey
	Reason CandidateReason
	Shared []string
}

type PageTextKind string

const (
	TextFromFile     PageTextKind = "text_file"
	TextFromPDF      PageTextKind = "pdf_text"
	TextFromHTML     PageTextKind = "html"
	TextFromMailBody PageTextKind = "mail_body"
	TextFromRemote   PageTextKind = "remote"
)

type PageText struct {
	Page PageKey
	Kind PageTextKind
	Text string
}

type ScanRow struct {
	ID         int
	Provider   string
	MessageID  string
	Subject    string
	Sender     string
	ReceivedAt string
	Hash       string
	Status     string
	RawRef     string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

type MergeRecord struct {
	Collection string
	Canonical  string
	Merged     []string
	Pages      []string
	Source     string
}

// DedupeItems keeps the first occurrence per (lowercased name, category),
// preserving order. Names are whitespace-collapsed; names at or below
// minLen runes are dropped.
func DedupeItems(items []ClothingItem, minLen int) []ClothingItem {
	seen := map[ItemKey]struct{}{}
	out := make([]ClothingItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.Join(strings.Fields(item.Name), " ")
		key := ItemKey{Name: strings.ToLower(item.Name), Category: item.Category}
		if _, dup := seen[key]; dup {
			continue
		}
		if len([]rune(item.Name)) <= minLen {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func NormalizePageKey(s string) PageKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	allDigits := true
	for _, r := range s {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	if allDigits {
		return PageKey("page_" + s)
	}
	return PageKey(s)
}
