package vocab

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	DefaultMinItemLen = 3
	DefaultMaxItemLen = 50
)

type Category struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

type Vocabulary struct {
	Collection string     `json:"collection"`
	Categories []Category `json:"categories"`
	Brands     []string   `json:"brands"`
	Noise      []string   `json:"noise"`
	MinItemLen int        `json:"minItemLen"`
	MaxItemLen int        `json:"maxItemLen"`

	brandsLower []string
	noiseRe     []*regexp.Regexp
}

func (v *Vocabulary) Compile() error {
	if v.Collection == "" {
		return fmt.Errorf("vocabulary: collection name is empty")
	}
	if len(v.Brands) == 0 {
		return fmt.Errorf("vocabulary %s: no brands configured", v.Collection)
	}
	if len(v.Categories) == 0 {
		return fmt.Errorf("vocabulary %s: no categories configured", v.Collection)
	}
	for _, c := range v.Categories {
		if c.Name == "" {
			return fmt.Errorf("vocabulary %s: category with empty name", v.Collection)
		}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("vocabulary %s: category %s has no keywords", v.Collection, c.Name)
		}
	}
	if v.MinItemLen <= 0 {
		v.MinItemLen = DefaultMinItemLen
	}
	if v.MaxItemLen <= 0 {
		v.MaxItemLen = DefaultMaxItemLen
	}

	v.brandsLower = make([]string, len(v.Brands))
	for i, b := range v.Brands {
		v.brandsLower[i] = strings.ToLower(b)
	}
	for i := range v.Categories {
		for j, kw := range v.Categories[i].Keywords {
			v.Categories[i].Keywords[j] = strings.ToLower(kw)
		}
	}

	v.noiseRe = make([]*regexp.Regexp, 0, len(v.Noise))
	for _, pattern := range v.Noise {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("vocabulary %s: noise pattern %q: %w", v.Collection, pattern, err)
		}
		v.noiseRe = append(v.noiseRe, re)
	}
	return nil
}

func (v *Vocabulary) NoisePatterns() []*regexp.Regexp {
	return v.noiseRe
}

func (v *Vocabulary) HasBrand(s string) bool {
	lower := strings.ToLower(s)
	for _, b := range v.brandsLower {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

func (v *Vocabulary) HasKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, c := range v.Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func (v *Vocabulary) Categorize(s string) string {
	lower := strings.ToLower(s)
	for _, c := range v.Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return "Other"
}

// HasCategory reports whether name is a declared category. "Other" is
// always legal since uncategorized items fall back to it.
func (v *Vocabulary) HasCategory(name string) bool {
	if name == "Other" {
		return true
	}
	for _, c := range v.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// BrandLeads reports whether phrase begins with a recognized brand name,
// matching whole words only ("Loro Piana sandal" leads with Loro Piana,
// "Pradaxx" does not lead with Prada).
func (v *Vocabulary) BrandLeads(phrase string) bool {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	for _, b := range v.brandsLower {
		if !strings.HasPrefix(lower, b) {
			continue
		}
		if len(lower) == len(b) || !isWordByte(lower[len(b)]) {
			return true
		}
	}
	return false
}

// SharedBrand returns the first configured brand contained in both strings.
func (v *Vocabulary) SharedBrand(a, b string) (string, bool) {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	for i, brand := range v.brandsLower {
		if strings.Contains(la, brand) && strings.Contains(lb, brand) {
			return v.Brands[i], true
		}
	}
	return "", false
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v := &Vocabulary{}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("vocabulary %s: %w", path, err)
	}
	if v.Collection == "" {
		v.Collection = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if err := v.Compile(); err != nil {
		return nil, err
	}
	return v, nil
}

// ForCollection resolves a builtin profile by name, falling back to
// <vocabDir>/<name>.json for custom collections.
func ForCollection(name, vocabDir string) (*Vocabulary, error) {
	switch name {
	case "summer":
		return Summer(), nil
	case "spring":
		return Spring(), nil
	case "fw", "fall", "winter":
		return FallWinter(), nil
	}
	if vocabDir == "" {
		return nil, fmt.Errorf("unknown collection %q and no vocab dir configured", name)
	}
	return LoadFile(filepath.Join(vocabDir, name+".json"))
}
