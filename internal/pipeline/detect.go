package pipeline

import (
	"regexp"
	"strings"
)

type DetectResult struct {
	IsScan     bool
	Score      float64
	Reason     string
	Collection string
}

var detectKeywords = []string{"lookbook", "outfit", "scan", "ocr", "page", "wardrobe", "catalog"}

var pageTokenRe = regexp.MustCompile(`(?i)\bpage[_\- ]?\d+`)

// collectionTags map season words in a mail onto catalog names. Fall
// and winter share the fw catalog.
var collectionTags = []struct {
	tag        string
	collection string
}{
	{"summer", "summer"},
	{"spring", "spring"},
	{"fall/winter", "fw"},
	{"f/w", "fw"},
	{"fall", "fw"},
	{"winter", "fw"},
	{"autumn", "fw"},
}

// DetectScanMail scores whether a mail is an OCR page export rather
// than ordinary correspondence. Rule-based on purpose so a skipped mail
// can always be explained.
func DetectScanMail(subject, text string, attachmentNames []string) DetectResult {
	subject = strings.ToLower(subject)
	text = strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(subject, kw) {
			score += 0.2
		}
		if strings.Contains(text, kw) {
			score += 0.1
		}
	}

	pageHits := len(pageTokenRe.FindAllString(text, -1))
	if pageHits >= 2 {
		score += 0.4
	} else if pageHits == 1 {
		score += 0.2
	}

	for _, name := range attachmentNames {
		ln := strings.ToLower(name)
		if strings.HasSuffix(ln, ".txt") || strings.HasSuffix(ln, ".pdf") || strings.HasSuffix(ln, ".html") || strings.HasSuffix(ln, ".htm") {
			score += 0.25
			break
		}
	}

	collection := ""
	for _, ct := range collectionTags {
		if strings.Contains(subject, ct.tag) || strings.Contains(text, ct.tag) {
			collection = ct.collection
			score += 0.15
			break
		}
	}

	if score > 1 {
		score = 1
	}

	isScan := score >= 0.45
	reason := "rules_negative"
	if isScan {
		reason = "rules_positive"
	}

	return DetectResult{IsScan: isScan, Score: score, Reason: reason, Collection: collection}
}
