package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"lookbook/internal"
	"lookbook/internal/catalog"
)

// ExportCatalogXLSX writes the resolved catalog as a review workbook,
// one row per item with the pages it appears on.
func ExportCatalogXLSX(idx catalog.Index, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"item", "category", "pages_count", "pages"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, key := range idx.SortedKeys() {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		pages := idx.PagesFor(key)
		set(1, key.Name)
		set(2, key.Category)
		set(3, len(pages))
		set(4, joinPages(pages))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// ExportCandidatesXLSX writes duplicate candidates for an operator to
// review before confirming merges.
func ExportCandidatesXLSX(pairs []internal.CandidatePair, idx catalog.Index, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"item_a", "item_b", "reason", "shared_tokens", "pages_a", "pages_b"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, pair := range pairs {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, pair.A.String())
		set(2, pair.B.String())
		set(3, string(pair.Reason))
		set(4, strings.Join(pair.Shared, " "))
		set(5, joinPages(idx.PagesFor(pair.A)))
		set(6, joinPages(idx.PagesFor(pair.B)))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func joinPages(pages []internal.PageKey) string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, string(p))
	}
	return strings.Join(out, ", ")
}
