package source

import (
	"bytes"
	"context"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"lookbook/internal"
)

// PDFPageTexts extracts per-page plain text from a PDF. Pages whose
// text layer is empty or unreadable are skipped rather than failing the
// whole document.
func PDFPageTexts(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, text)
	}
	return out, nil
}

// PDFSource treats each PDF page as one unnumbered outfit page.
type PDFSource struct {
	Path string
}

func (s PDFSource) Pages(ctx context.Context) ([]internal.PageText, error) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	texts, err := PDFPageTexts(content)
	if err != nil {
		return nil, err
	}

	out := make([]internal.PageText, 0, len(texts))
	for _, text := range texts {
		out = append(out, internal.PageText{Kind: internal.TextFromPDF, Text: text})
	}
	return out, nil
}
