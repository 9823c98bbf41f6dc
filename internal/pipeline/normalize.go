package pipeline

import (
	"strings"

	"lookbook/internal/util"
	"lookbook/internal/vocab"
)

// Literal junk the phone OCR injects. Curly double quotes drop, curly
// single quotes become straight apostrophes so brand names like Drake's
// survive.
var literalNoise = strings.NewReplacer(
	"_", "",
	"|", "",
	"“", "",
	"”", "",
	"‘", "'",
	"’", "'",
)

// CleanLine strips OCR artifacts from one line. Noise patterns run to a
// fixpoint, so stacked prefixes ("12 7 polo shirt") strip fully and a
// second pass over the output is a no-op.
func CleanLine(v *vocab.Vocabulary, line string) string {
	s := util.CollapseSpaces(literalNoise.Replace(line))
	for {
		prev := s
		for _, re := range v.NoisePatterns() {
			s = re.ReplaceAllString(s, "")
		}
		s = util.CollapseSpaces(s)
		if s == prev {
			return s
		}
	}
}
