package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"lookbook/internal"
	"lookbook/internal/catalog"
	"lookbook/internal/config"
	"lookbook/internal/connectors"
	gmailconnector "lookbook/internal/connectors/gmail"
	imapconnector "lookbook/internal/connectors/imap"
	"lookbook/internal/listener"
	"lookbook/internal/migrate"
	"lookbook/internal/pipeline"
	"lookbook/internal/source"
	"lookbook/internal/storage"
	"lookbook/internal/store"
	"lookbook/internal/vocab"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	st := store.NewStore(cfg.DataDir)

	cmd := os.Args[1]
	switch cmd {
	case "extract":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "summer|spring|fw|custom")
		inType := fs.String("type", "", "textdir|pdf|htmldir|xlsx|eml|remote")
		input := fs.String("input", "", "input path (unused for remote)")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*inType) == "" {
			must(fmt.Errorf("--type is required"))
		}
		if *inType != "remote" && strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required for type %s", *inType))
		}

		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)

		var pages []internal.PageText
		if *inType == "eml" {
			raw, err := os.ReadFile(*input)
			must(err)
			mail, err := pipeline.ExtractPagesFromScanMail(raw)
			must(err)
			pages = mail.Pages
		} else {
			src, err := source.ForInput(cfg, *inType, *input, *collection)
			must(err)
			pages, err = src.Pages(context.Background())
			must(err)
		}

		pagesAdded, itemsAdded := pipeline.ApplyPages(col, pipeline.NewExtractor(voc), pages)
		col.Index = catalog.Rebuild(col.PageItems)
		must(st.Save(col))
		fmt.Printf("extract done collection=%s pages=%d items=%d catalog_items=%d\n", *collection, pagesAdded, itemsAdded, len(col.Index))
	case "rebuild":
		col := loadCollection(st, cfg)
		col.Index = catalog.Rebuild(col.PageItems)
		must(st.Save(col))
		fmt.Printf("rebuild done collection=%s items=%d\n", col.Name, len(col.Index))
	case "audit":
		col := loadCollection(st, cfg)
		rep := catalog.Audit(col.Index, col.PageItems)
		for _, issue := range rep.MissingFromIndex {
			fmt.Printf("missing from index: %s page=%s\n", issue.Key, issue.Page)
		}
		for _, issue := range rep.StaleInIndex {
			fmt.Printf("stale in index: %s page=%s\n", issue.Key, issue.Page)
		}
		if !rep.Clean() {
			must(fmt.Errorf("audit found %d issues", len(rep.MissingFromIndex)+len(rep.StaleInIndex)))
		}
		fmt.Printf("audit clean collection=%s items=%d pages=%d\n", col.Name, rep.Items, rep.Pages)
	case "stats":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		top := fs.Int("top", 10, "top items to show")
		_ = fs.Parse(os.Args[2:])
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		s := catalog.BuildStats(col.Index, voc, *top)
		fmt.Printf("collection=%s items=%d pages=%d\n", *collection, s.Items, s.Pages)
		for _, c := range s.Categories {
			fmt.Printf("  category %-12s %d\n", c.Category, c.Count)
		}
		for _, b := range s.Brands {
			fmt.Printf("  brand %-20s %d\n", b.Brand, b.Count)
		}
		for _, it := range s.Top {
			fmt.Printf("  top %s pages=%d\n", it.Key, it.Pages)
		}
		fmt.Printf("  single_page=%d overlong=%d repeated=%d prefix_groups=%d\n", len(s.SinglePage), len(s.Overlong), len(s.Repeated), len(s.PrefixDupe))
		if len(col.Seasons) > 0 {
			counts := map[string]int{}
			for _, season := range col.Seasons {
				counts[season]++
			}
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  season %-12s %d\n", name, counts[name])
			}
		}
	case "search":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		query := fs.String("query", "", "search text")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*query) == "" {
			must(fmt.Errorf("--query is required"))
		}
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		results := catalog.Search(col.Index, *query, cfg.FuzzyThreshold)
		if len(results) == 0 {
			fmt.Println("no matches")
			return
		}
		for _, res := range results {
			fmt.Printf("%.2f %s pages=%s\n", res.Score, res.Key, joinPages(res.Pages))
		}
	case "pages":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		key := fs.String("key", "", `item key, "Name (Category)"`)
		_ = fs.Parse(os.Args[2:])
		parsed := parseKey(*key)
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		pages := col.Index.PagesFor(parsed)
		if len(pages) == 0 {
			fmt.Println("no pages")
			return
		}
		fmt.Println(joinPages(pages))
	case "dupes":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		out := fs.String("out", "", "optional xlsx output path")
		_ = fs.Parse(os.Args[2:])
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		pairs := catalog.NewResolver(voc).FindCandidates(col.Index)
		if strings.TrimSpace(*out) != "" {
			must(pipeline.ExportCandidatesXLSX(pairs, col.Index, *out))
			fmt.Printf("exported %d candidate pairs to %s\n", len(pairs), *out)
			return
		}
		for _, pair := range pairs {
			fmt.Printf("%-13s %s <-> %s shared=%s\n", pair.Reason, pair.A, pair.B, strings.Join(pair.Shared, " "))
		}
		fmt.Printf("%d candidate pairs\n", len(pairs))
	case "merge":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		canonical := fs.String("canonical", "", `canonical key, "Name (Category)"`)
		keys := fs.String("keys", "", `keys to fold, separated by ";"`)
		_ = fs.Parse(os.Args[2:])
		canonKey := parseKey(*canonical)
		group := []internal.ItemKey{}
		for _, part := range strings.Split(*keys, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			group = append(group, parseKey(part))
		}
		if len(group) == 0 {
			must(fmt.Errorf("--keys is required"))
		}

		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		newIdx, newPages, err := catalog.NewResolver(voc).Merge(col.Index, col.PageItems, group, canonKey)
		must(err)
		col.Index = newIdx
		col.PageItems = newPages
		must(st.Save(col))

		rec := internal.MergeRecord{Collection: *collection, Canonical: canonKey.String(), Source: "cli"}
		for _, key := range group {
			rec.Merged = append(rec.Merged, key.String())
		}
		for _, p := range newIdx.PagesFor(canonKey) {
			rec.Pages = append(rec.Pages, string(p))
		}
		must(db.InsertMerge(rec))
		fmt.Printf("merged %d keys into %s pages=%s\n", len(group), canonKey, joinPages(newIdx.PagesFor(canonKey)))
	case "rename":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		from := fs.String("from", "", `current key, "Name (Category)"`)
		to := fs.String("to", "", `new key, "Name (Category)"`)
		_ = fs.Parse(os.Args[2:])
		fromKey := parseKey(*from)
		toKey := parseKey(*to)

		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		newIdx, newPages, err := catalog.NewResolver(voc).Rename(col.Index, col.PageItems, fromKey, toKey)
		must(err)
		col.Index = newIdx
		col.PageItems = newPages
		must(st.Save(col))

		rec := internal.MergeRecord{Collection: *collection, Canonical: toKey.String(), Merged: []string{fromKey.String()}, Source: "cli"}
		for _, p := range newIdx.PagesFor(toKey) {
			rec.Pages = append(rec.Pages, string(p))
		}
		must(db.InsertMerge(rec))
		fmt.Printf("renamed %s -> %s\n", fromKey, toKey)
	case "season:set":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", "fw", "collection name")
		page := fs.String("page", "", "page key or number")
		season := fs.String("season", "", "fall|winter|spring|summer")
		_ = fs.Parse(os.Args[2:])
		pageKey := internal.NormalizePageKey(*page)
		if pageKey == "" || strings.TrimSpace(*season) == "" {
			must(fmt.Errorf("--page and --season are required"))
		}
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		if _, ok := col.PageItems[pageKey]; !ok {
			must(fmt.Errorf("unknown page %s", pageKey))
		}
		col.Seasons[pageKey] = strings.ToLower(strings.TrimSpace(*season))
		must(st.Save(col))
		fmt.Printf("season set %s=%s\n", pageKey, col.Seasons[pageKey])
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		outputPath := *out
		if strings.TrimSpace(outputPath) == "" {
			outputPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("catalog_%s.xlsx", *collection))
		}
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		must(pipeline.ExportCatalogXLSX(col.Index, outputPath))
		fmt.Printf("exported %d items to %s\n", len(col.Index), outputPath)
	case "export:candidates":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		collection := fs.String("collection", cfg.DefaultCollection, "collection name")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		outputPath := *out
		if strings.TrimSpace(outputPath) == "" {
			outputPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("candidates_%s.xlsx", *collection))
		}
		voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
		must(err)
		col, err := st.Load(voc)
		must(err)
		pairs := catalog.NewResolver(voc).FindCandidates(col.Index)
		must(pipeline.ExportCandidatesXLSX(pairs, col.Index, outputPath))
		fmt.Printf("exported %d candidate pairs to %s\n", len(pairs), outputPath)
	case "migrate:list":
		for _, m := range migrate.Registry {
			fmt.Printf("%-26s %-7s %s\n", m.Name, m.Collection, m.Description)
		}
	case "migrate:run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		name := fs.String("name", "", "migration name")
		live := fs.Bool("live", false, "apply changes instead of dry run")
		_ = fs.Parse(os.Args[2:])
		m, ok := migrate.Find(*name)
		if !ok {
			must(fmt.Errorf("unknown migration: %s", *name))
		}
		runner := migrate.NewRunner(db, st, cfg, *live)
		res, err := runner.Run(m)
		must(err)
		fmt.Printf("migration %s applied=%d skipped=%d\n", res.Migration, res.Applied, res.Skipped)
		if !*live && res.Applied > 0 {
			fmt.Println("dry run complete, rerun with --live to apply")
		}
	case "mail:fetch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		label := fs.String("label", "INBOX", "mailbox/label")
		max := fs.Int("max", 50, "max messages")
		_ = fs.Parse(os.Args[2:])
		conn, err := makeConnector(cfg, *provider)
		must(err)
		fetch := connectors.NewFetchService(db, cfg.RawMailDir, conn)
		result, err := fetch.FetchAndStore(*label, *max)
		must(err)
		fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d\n", *provider, result.Fetched, result.Stored)
	case "mail:process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		provider := fs.String("provider", "gmail", "gmail|imap")
		messageID := fs.String("messageId", "", "specific message-id")
		batch := fs.Int("batch", 20, "batch size")
		_ = fs.Parse(os.Args[2:])
		processor := pipeline.NewScanService(db, st, cfg)
		if strings.TrimSpace(*messageID) != "" {
			res, err := processor.ProcessByProviderMessageID(*provider, *messageID)
			must(err)
			if res.Skipped {
				fmt.Printf("scan id=%d skipped\n", res.ScanID)
				return
			}
			fmt.Printf("processed scan id=%d collection=%s pages=%d items=%d\n", res.ScanID, res.Collection, res.Pages, res.Items)
			return
		}
		processedScans, processedPages, err := processor.ProcessPending(*batch, *provider)
		must(err)
		fmt.Printf("processed pending scans=%d pages=%d\n", processedScans, processedPages)
	case "mail:listen":
		s := listener.NewService(db, cfg)
		must(s.Run(context.Background()))
	default:
		usage()
		os.Exit(1)
	}
}

// loadCollection reads the --collection flag shared by the plain
// read-modify commands.
func loadCollection(st *store.Store, cfg config.Config) *store.Collection {
	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	collection := fs.String("collection", cfg.DefaultCollection, "collection name")
	_ = fs.Parse(os.Args[2:])
	voc, err := vocab.ForCollection(*collection, cfg.VocabDir)
	must(err)
	col, err := st.Load(voc)
	must(err)
	return col
}

func parseKey(s string) internal.ItemKey {
	key, ok := internal.ParseItemKey(s)
	if !ok {
		must(fmt.Errorf(`bad item key %q, want "Name (Category)"`, s))
	}
	return key
}

func joinPages(pages []internal.PageKey) string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, string(p))
	}
	return strings.Join(out, ",")
}

func makeConnector(cfg config.Config, provider string) (connectors.MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: lookbook <command>")
	fmt.Println("commands:")
	fmt.Println("  extract --collection=summer --type=textdir|pdf|htmldir|xlsx|eml|remote --input=PATH")
	fmt.Println("  rebuild --collection=summer")
	fmt.Println("  audit --collection=summer")
	fmt.Println("  stats --collection=summer [--top=10]")
	fmt.Println("  search --collection=summer --query=loafer")
	fmt.Println("  pages --collection=summer --key=\"Loro Piana blazer (Outerwear)\"")
	fmt.Println("  dupes --collection=summer [--out=./out/candidates.xlsx]")
	fmt.Println("  merge --collection=summer --canonical=\"Name (Category)\" --keys=\"A (Cat);B (Cat)\"")
	fmt.Println("  rename --collection=summer --from=\"Old (Cat)\" --to=\"New (Cat)\"")
	fmt.Println("  season:set --collection=fw --page=page_12 --season=fall")
	fmt.Println("  export:xlsx --collection=summer [--out=...xlsx]")
	fmt.Println("  export:candidates --collection=summer [--out=...xlsx]")
	fmt.Println("  migrate:list")
	fmt.Println("  migrate:run --name=... [--live]")
	fmt.Println("  mail:fetch --provider=gmail|imap --label=INBOX --max=50")
	fmt.Println("  mail:process --provider=gmail|imap [--messageId=...] [--batch=20]")
	fmt.Println("  mail:listen")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
