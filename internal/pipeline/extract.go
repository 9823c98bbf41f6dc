package pipeline

import (
	"strings"

	"lookbook/internal"
	"lookbook/internal/vocab"
)

type Extractor struct {
	vocab *vocab.Vocabulary
}

func NewExtractor(v *vocab.Vocabulary) *Extractor {
	return &Extractor{vocab: v}
}

// ParseItems segments one page of OCR text into catalog items. Lines
// accumulate into a running fragment; a brand line or a fresh keyword
// line closes the fragment, and a fragment only becomes an item once it
// names a clothing keyword.
func (e *Extractor) ParseItems(text string) []internal.ClothingItem {
	v := e.vocab
	items := []internal.ClothingItem{}
	current := ""

	flush := func() {
		if current == "" || !v.HasKeyword(current) {
			return
		}
		items = append(items, e.finalize(current)...)
	}

	for _, raw := range strings.Split(text, "\n") {
		line := CleanLine(v, raw)
		if line == "" || isAllDigits(line) || len([]rune(line)) < v.MinItemLen {
			continue
		}
		switch {
		case v.HasBrand(line):
			flush()
			current = line
		case v.HasKeyword(line):
			if current != "" && !v.HasKeyword(current) {
				current = current + " " + line
			} else {
				flush()
				current = line
			}
		default:
			if current != "" && len([]rune(current)) < v.MaxItemLen {
				current = current + " " + line
			}
		}
	}
	flush()
	return internal.DedupeItems(items, v.MinItemLen)
}

func (e *Extractor) finalize(fragment string) []internal.ClothingItem {
	out := []internal.ClothingItem{}
	for _, piece := range e.SplitCombined(fragment) {
		piece = strings.TrimSpace(piece)
		if !e.vocab.HasKeyword(piece) || len([]rune(piece)) <= e.vocab.MinItemLen {
			continue
		}
		out = append(out, internal.ClothingItem{Name: piece, Category: e.vocab.Categorize(piece)})
	}
	return out
}

// SplitCombined breaks a fragment holding several run-together items. A
// boundary is a point where the buffered words already name a keyword
// and the remainder of the fragment leads with a brand.
func (e *Extractor) SplitCombined(fragment string) []string {
	words := strings.Fields(fragment)
	var pieces []string
	var current []string
	for i, word := range words {
		current = append(current, word)
		if i+1 >= len(words) {
			continue
		}
		buffered := strings.Join(current, " ")
		rest := strings.Join(words[i+1:], " ")
		if e.vocab.HasKeyword(buffered) && e.vocab.BrandLeads(rest) {
			pieces = append(pieces, buffered)
			current = nil
		}
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, " "))
	}
	if len(pieces) <= 1 {
		return []string{fragment}
	}
	return pieces
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
