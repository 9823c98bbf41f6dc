package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lookbook/internal"
	"lookbook/internal/catalog"
	"lookbook/internal/config"
	"lookbook/internal/storage"
	"lookbook/internal/store"
	"lookbook/internal/vocab"
)

// Migration is one recorded catalog fix. Renames map full item keys,
// "Name (Category)" on both sides, so a fix can recategorize as well as
// rename. CleanArtifacts additionally sweeps OCR junk prefixes off
// every item name in the collection.
type Migration struct {
	Name           string
	Description    string
	Collection     string
	Renames        map[string]string
	CleanArtifacts bool
}

// Registry lists every recorded fix in the order it was applied to the
// production catalogs. Entries stay here after running; reapplying is
// a no-op since the old keys are gone.
var Registry = []Migration{
	{
		Name:        "merge_loro_piana_blazers",
		Description: "Fold Loro Piana blazer into Loro Piana precious blazer",
		Collection:  "fw",
		Renames: map[string]string{
			"Loro Piana blazer (Outerwear)": "Loro Piana precious blazer (Outerwear)",
		},
	},
	{
		Name:        "merge_woolly_trousers",
		Description: "Collapse the woolly trouser variants and recategorize them as Bottoms",
		Collection:  "fw",
		Renames: map[string]string{
			"The Row woolly trouser (Knitwear)":      "The Row woolly trouser (Bottoms)",
			"The Row grey woolly trouser (Knitwear)": "The Row woolly trouser (Bottoms)",
			"The Row woolly grey trouser (Knitwear)": "The Row woolly trouser (Bottoms)",
		},
	},
	{
		Name:        "fix_mislabeled_blazer",
		Description: "Reattribute the mislabeled brown blazer to The Row",
		Collection:  "fw",
		Renames: map[string]string{
			"Loro Piana brown blazer (Outerwear)": "The Row blazer (Outerwear)",
		},
	},
	{
		Name:        "update_coat_to_trench",
		Description: "Saint Laurent coat is a trench",
		Collection:  "fw",
		Renames: map[string]string{
			"Saint Laurent coat (Outerwear)": "Saint Laurent trench (Outerwear)",
		},
	},
	{
		Name:        "update_loro_piana_coat",
		Description: "Distinguish the Loro Piana navy coat from the capitalized OCR reading",
		Collection:  "fw",
		Renames: map[string]string{
			"Loro Piana Coat (Outerwear)": "Loro Piana Navy coat (Outerwear)",
		},
	},
	{
		Name:           "clean_summer_ocr",
		Description:    "Strip OCR artifact prefixes from summer item names",
		Collection:     "summer",
		CleanArtifacts: true,
	},
	{
		Name:           "clean_spring_ocr",
		Description:    "Strip OCR artifact prefixes from spring item names",
		Collection:     "spring",
		CleanArtifacts: true,
	},
	{
		Name:           "clean_fw_ocr",
		Description:    "Strip OCR artifact prefixes from fall/winter item names",
		Collection:     "fw",
		CleanArtifacts: true,
	},
}

func Find(name string) (Migration, bool) {
	for _, m := range Registry {
		if m.Name == name {
			return m, true
		}
	}
	return Migration{}, false
}

// artifactPrefixes are checked in order against the evolving name, so
// "i of polo" loses both prefixes in one pass.
var artifactPrefixes = []string{"i ", "of ", "1 ", "| "}

func CleanName(name string) string {
	cleaned := name
	for _, prefix := range artifactPrefixes {
		if strings.HasPrefix(strings.ToLower(cleaned), prefix) {
			cleaned = cleaned[len(prefix):]
		}
	}
	return strings.TrimSpace(cleaned)
}

type Runner struct {
	db    *storage.DB
	store *store.Store
	cfg   config.Config
	live  bool
}

func NewRunner(db *storage.DB, st *store.Store, cfg config.Config, live bool) *Runner {
	return &Runner{db: db, store: st, cfg: cfg, live: live}
}

type Result struct {
	Migration string
	Applied   int
	Skipped   int
}

// Run applies one migration. Every rename goes through the resolver so
// page items and index move together. Dry runs (the default) log the
// renames and write nothing.
func (r *Runner) Run(m Migration) (Result, error) {
	voc, err := vocab.ForCollection(m.Collection, r.cfg.VocabDir)
	if err != nil {
		return Result{}, err
	}
	col, err := r.store.Load(voc)
	if err != nil {
		return Result{}, err
	}
	resolver := catalog.NewResolver(voc)

	renames := map[internal.ItemKey]internal.ItemKey{}
	for old, canonical := range m.Renames {
		from, ok := internal.ParseItemKey(old)
		if !ok {
			return Result{}, fmt.Errorf("migration %s: bad key %q", m.Name, old)
		}
		to, ok := internal.ParseItemKey(canonical)
		if !ok {
			return Result{}, fmt.Errorf("migration %s: bad key %q", m.Name, canonical)
		}
		renames[from] = to
	}
	if m.CleanArtifacts {
		for _, key := range col.Index.SortedKeys() {
			cleaned := CleanName(key.Name)
			if cleaned == "" || cleaned == key.Name {
				continue
			}
			renames[key] = internal.ItemKey{Name: cleaned, Category: key.Category}
		}
	}

	olds := make([]internal.ItemKey, 0, len(renames))
	for key := range renames {
		olds = append(olds, key)
	}
	sort.Slice(olds, func(i, j int) bool { return olds[i].String() < olds[j].String() })

	idx, pageItems := col.Index, col.PageItems
	applied := 0
	skipped := 0
	records := []internal.MergeRecord{}
	for _, old := range olds {
		to := renames[old]
		if _, ok := idx[old]; !ok {
			r.logf("skip '%s': not in index", old)
			skipped++
			continue
		}
		pages := idx.PagesFor(old)
		nextIdx, nextPages, err := resolver.Rename(idx, pageItems, old, to)
		if err != nil {
			return Result{}, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		idx, pageItems = nextIdx, nextPages
		r.logf("merge '%s' -> '%s'", old, to)
		applied++

		rec := internal.MergeRecord{
			Collection: m.Collection,
			Canonical:  to.String(),
			Merged:     []string{old.String()},
			Source:     "migration:" + m.Name,
		}
		for _, p := range pages {
			rec.Pages = append(rec.Pages, string(p))
		}
		records = append(records, rec)
	}

	result := Result{Migration: m.Name, Applied: applied, Skipped: skipped}
	if applied == 0 || !r.live {
		return result, nil
	}

	if err := r.backup(m.Name, m.Collection); err != nil {
		return Result{}, err
	}
	col.Index = idx
	col.PageItems = pageItems
	if err := r.store.Save(col); err != nil {
		return Result{}, err
	}
	for _, rec := range records {
		if err := r.db.InsertMerge(rec); err != nil {
			return Result{}, err
		}
	}
	return result, nil
}

// backup copies the collection's data files aside before a live run.
func (r *Runner) backup(name, collection string) error {
	stamp := time.Now().Format("20060102_150405")
	dir := filepath.Join(r.cfg.BackupDir, fmt.Sprintf("%s_%s", name, stamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, path := range r.store.Paths(collection) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, filepath.Base(path)), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	prefix := ""
	if !r.live {
		prefix = "[DRY RUN] "
	}
	fmt.Printf(prefix+format+"\n", args...)
}
