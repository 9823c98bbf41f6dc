package source

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var brRe = regexp.MustCompile(`(?i)<br\s*/?>`)

// HTMLText flattens an HTML page export into line-oriented text. Leaf
// block elements become lines so the segmenter sees the same structure
// the OCR app rendered.
func HTMLText(content []byte) (string, error) {
	content = brRe.ReplaceAll(content, []byte("\n"))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	doc.Find("script,style").Remove()

	lines := []string{}
	doc.Find("p, li, h1, h2, h3, td, div, span").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return
		}
		if t := strings.TrimSpace(sel.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		if t := strings.TrimSpace(doc.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n"), nil
}
