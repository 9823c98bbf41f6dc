package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"lookbook/internal"
	"lookbook/internal/config"
)

func TestPageFromName(t *testing.T) {
	cases := []struct {
		name string
		want internal.PageKey
	}{
		{"page_12.txt", "page_12"},
		{"Page 3.pdf", "page_3"},
		{"summer-page-7.html", "page_7"},
		{"PAGE004.txt", "page_4"},
		{"cover.txt", ""},
		{"notes.pdf", ""},
	}
	for _, tc := range cases {
		if got := PageFromName(tc.name); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestTextDirSourceOrdersByPage(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"page_10.txt": "Loro Piana blazer",
		"page_2.txt":  "Zegna loafer",
		"notes.md":    "ignored",
	}
	for name, text := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	pages, err := TextDirSource{Dir: dir}.Pages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("len=%d", len(pages))
	}
	if pages[0].Page != "page_2" || pages[1].Page != "page_10" {
		t.Fatalf("order: %s, %s", pages[0].Page, pages[1].Page)
	}
	if pages[0].Kind != internal.TextFromFile {
		t.Fatalf("kind=%s", pages[0].Kind)
	}
	if pages[1].Text != "Loro Piana blazer" {
		t.Fatalf("text=%q", pages[1].Text)
	}
}

func TestHTMLText(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
<h2>Page 4</h2>
<p>Loro Piana blazer</p>
<p>Zegna loafer<br>Kiton polo</p>
<script>alert(1)</script>
</body></html>`

	text, err := HTMLText([]byte(html))
	if err != nil {
		t.Fatal(err)
	}
	want := "Page 4\nLoro Piana blazer\nZegna loafer\nKiton polo"
	if text != want {
		t.Fatalf("text=%q", text)
	}
}

func TestHTMLTextFallsBackToBodyText(t *testing.T) {
	text, err := HTMLText([]byte(`<html><body><article>Loro Piana blazer</article></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if text != "Loro Piana blazer" {
		t.Fatalf("text=%q", text)
	}
}

func mkXLSX(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	if _, err := f.WriteTo(buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "pages.xlsx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXLSXSourceGroupsRowsByPage(t *testing.T) {
	path := mkXLSX(t, [][]any{
		{"page", "text"},
		{"3", "Loro Piana blazer"},
		{"3", "Zegna loafer"},
		{"page_5", "Kiton polo"},
		{"", "dangling line"},
	})

	pages, err := XLSXSource{Path: path}.Pages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("len=%d", len(pages))
	}
	if pages[0].Page != "page_3" {
		t.Fatalf("page=%s", pages[0].Page)
	}
	if pages[0].Text != "Loro Piana blazer\nZegna loafer" {
		t.Fatalf("text=%q", pages[0].Text)
	}
	if pages[1].Page != "page_5" || pages[1].Text != "Kiton polo" {
		t.Fatalf("second page: %s %q", pages[1].Page, pages[1].Text)
	}
}

func TestXLSXSourceHeaderless(t *testing.T) {
	path := mkXLSX(t, [][]any{
		{"1", "Loro Piana blazer"},
		{"2", "Zegna loafer"},
	})

	pages, err := XLSXSource{Path: path}.Pages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("len=%d", len(pages))
	}
	if pages[0].Page != "page_1" || pages[1].Page != "page_2" {
		t.Fatalf("pages: %s, %s", pages[0].Page, pages[1].Page)
	}
}

func TestForInputUnknownKind(t *testing.T) {
	cfg, _ := config.Load()
	if _, err := ForInput(cfg, "carrier-pigeon", "x", "summer"); err == nil {
		t.Fatal("expected error")
	}
}
