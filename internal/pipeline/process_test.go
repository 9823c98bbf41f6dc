package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"lookbook/internal/config"
	"lookbook/internal/storage"
	"lookbook/internal/store"
	"lookbook/internal/vocab"
)

func TestSmokeScanMailToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, sampleScanMail(), 0o644); err != nil {
		t.Fatal(err)
	}

	scan, err := db.UpsertScan("gmail", "<fixture-1@example.com>", "Summer lookbook scan pages", "scans@ocrapp.example", "2026-06-14T00:00:00Z", "hash", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	st := store.NewStore(filepath.Join(tmp, "data"))
	svc := NewScanService(db, st, cfg)

	res, err := svc.ProcessScan(scan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped {
		t.Fatal("scan skipped")
	}
	if res.Collection != "summer" {
		t.Fatalf("collection=%s", res.Collection)
	}
	if res.Pages != 2 || res.Items != 3 {
		t.Fatalf("pages=%d items=%d", res.Pages, res.Items)
	}

	voc, err := vocab.ForCollection("summer", "")
	if err != nil {
		t.Fatal(err)
	}
	col, err := st.Load(voc)
	if err != nil {
		t.Fatal(err)
	}
	if len(col.PageItems["page_3"]) != 2 {
		t.Fatalf("page_3 items=%v", col.PageItems["page_3"])
	}
	if col.PageItems["page_4"][0].Name != "Brunello Cucinelli linen trouser" {
		t.Fatalf("page_4 item=%v", col.PageItems["page_4"][0])
	}
	if col.PageItems["page_4"][0].Category != "Bottoms" {
		t.Fatalf("category=%s", col.PageItems["page_4"][0].Category)
	}

	got, err := db.GetScanByID(scan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != "processed" {
		t.Fatalf("status=%v", got)
	}

	out := filepath.Join(tmp, "out", "catalog_summer.xlsx")
	if err := ExportCatalogXLSX(col.Index, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestProcessScanSkipsOrdinaryMail(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	raw := eml(
		"From: friend@example.com",
		"Subject: Dinner on Friday?",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"See you at eight.",
	)
	rawPath := filepath.Join(tmp, "chatter.eml")
	if err := os.WriteFile(rawPath, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	scan, err := db.UpsertScan("gmail", "<chatter-1@example.com>", "Dinner on Friday?", "friend@example.com", "2026-06-14T00:00:00Z", "hash2", rawPath, "fetched")
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	svc := NewScanService(db, store.NewStore(filepath.Join(tmp, "data")), cfg)

	res, err := svc.ProcessScan(scan)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Skipped {
		t.Fatal("chatter processed as scan")
	}

	got, err := db.GetScanByID(scan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Status != "skipped" {
		t.Fatalf("status=%v", got)
	}
}

func TestProcessPendingFiltersProvider(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rawPath := filepath.Join(tmp, "fixture.eml")
	if err := os.WriteFile(rawPath, sampleScanMail(), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertScan("gmail", "<g-1@example.com>", "Summer scan", "s@x.example", "2026-06-14T00:00:00Z", "h1", rawPath, "fetched"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.UpsertScan("imap", "<i-1@example.com>", "Summer scan", "s@x.example", "2026-06-14T00:00:01Z", "h2", rawPath, "fetched"); err != nil {
		t.Fatal(err)
	}

	cfg, _ := config.Load()
	svc := NewScanService(db, store.NewStore(filepath.Join(tmp, "data")), cfg)

	scans, pages, err := svc.ProcessPending(10, "imap")
	if err != nil {
		t.Fatal(err)
	}
	if scans != 1 {
		t.Fatalf("scans=%d", scans)
	}
	if pages != 2 {
		t.Fatalf("pages=%d", pages)
	}
}
