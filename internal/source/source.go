package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lookbook/internal"
	"lookbook/internal/config"
)

// PageSource yields the OCR text of outfit pages from some input:
// a directory of transcribed files, a PDF, an HTML export or the phone
// app's remote export API.
type PageSource interface {
	Pages(ctx context.Context) ([]internal.PageText, error)
}

func ForInput(cfg config.Config, kind, input, collection string) (PageSource, error) {
	switch kind {
	case "textdir":
		return TextDirSource{Dir: input}, nil
	case "pdf":
		return PDFSource{Path: input}, nil
	case "htmldir":
		return HTMLDirSource{Dir: input}, nil
	case "xlsx":
		return XLSXSource{Path: input}, nil
	case "remote":
		return NewRemoteSource(cfg, collection), nil
	default:
		return nil, fmt.Errorf("unsupported input kind: %s", kind)
	}
}

var pageNameRe = regexp.MustCompile(`(?i)page[_\- ]?(\d+)`)

// PageFromName pulls a page key out of a file or attachment name, e.g.
// "page_12.txt" or "Spring Page 3.pdf". Empty when the name carries no
// page number.
func PageFromName(name string) internal.PageKey {
	m := pageNameRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return internal.PageKeyFor(n)
}

// TextDirSource reads a directory of per-page .txt transcriptions.
type TextDirSource struct {
	Dir string
}

func (s TextDirSource) Pages(ctx context.Context) ([]internal.PageText, error) {
	names, err := listFiles(s.Dir, ".txt")
	if err != nil {
		return nil, err
	}

	out := make([]internal.PageText, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, internal.PageText{
			Page: PageFromName(name),
			Kind: internal.TextFromFile,
			Text: string(data),
		})
	}
	return out, nil
}

// HTMLDirSource reads a directory of per-page HTML exports.
type HTMLDirSource struct {
	Dir string
}

func (s HTMLDirSource) Pages(ctx context.Context) ([]internal.PageText, error) {
	names, err := listFiles(s.Dir, ".html", ".htm")
	if err != nil {
		return nil, err
	}

	out := make([]internal.PageText, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		text, err := HTMLText(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, internal.PageText{
			Page: PageFromName(name),
			Kind: internal.TextFromHTML,
			Text: text,
		})
	}
	return out, nil
}

// listFiles returns matching file names ordered by their page number,
// unnumbered names first, ties alphabetical.
func listFiles(dir string, extensions ...string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		for _, ext := range extensions {
			if strings.HasSuffix(lower, ext) {
				names = append(names, entry.Name())
				break
			}
		}
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := PageFromName(names[i]).Num(), PageFromName(names[j]).Num()
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
	return names, nil
}
