package source

import (
	"context"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"

	"lookbook/internal"
)

// XLSXSource reads a manual transcription workbook: one row per OCR
// line with a page column and a text column. Rows for the same page
// collapse into one page text in sheet order.
type XLSXSource struct {
	Path string
}

func (s XLSXSource) Pages(ctx context.Context) ([]internal.PageText, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []internal.PageText{}, nil
	}

	pageCol, textCol, start := inferColumns(rows[0])

	order := []internal.PageKey{}
	texts := map[internal.PageKey][]string{}
	for _, row := range rows[start:] {
		page := internal.NormalizePageKey(pickCell(row, pageCol))
		line := pickCell(row, textCol)
		if page == "" || line == "" {
			continue
		}
		if _, ok := texts[page]; !ok {
			order = append(order, page)
		}
		texts[page] = append(texts[page], line)
	}

	out := make([]internal.PageText, 0, len(order))
	for _, page := range order {
		out = append(out, internal.PageText{
			Page: page,
			Kind: internal.TextFromFile,
			Text: strings.Join(texts[page], "\n"),
		})
	}
	return out, nil
}

func inferColumns(header []string) (pageCol, textCol, start int) {
	pageCol, textCol = 0, 1
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "page", "page_key", "spread":
			pageCol = i
			start = 1
		case "text", "line", "ocr", "ocr_text":
			textCol = i
			start = 1
		}
	}
	return pageCol, textCol, start
}

func pickCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
