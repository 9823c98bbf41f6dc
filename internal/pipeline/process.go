package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"lookbook/internal"
	"lookbook/internal/catalog"
	"lookbook/internal/config"
	"lookbook/internal/storage"
	"lookbook/internal/store"
	"lookbook/internal/vocab"
)

type ScanService struct {
	db    *storage.DB
	store *store.Store
	cfg   config.Config
}

func NewScanService(db *storage.DB, st *store.Store, cfg config.Config) *ScanService {
	return &ScanService{db: db, store: st, cfg: cfg}
}

type ProcessResult struct {
	ScanID     int
	Collection string
	Pages      int
	Items      int
	Skipped    bool
}

func (s *ScanService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	scan, err := s.db.MustScanByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessScan(scan)
}

func (s *ScanService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListScansByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedScans := 0
	processedPages := 0
	for _, scan := range pending {
		if provider != "" && scan.Provider != provider {
			continue
		}
		res, err := s.ProcessScan(scan)
		if err != nil {
			return processedScans, processedPages, err
		}
		processedScans++
		processedPages += res.Pages
	}
	return processedScans, processedPages, nil
}

// ProcessScan runs one stored mail through extraction and persists the
// collection it detects. Reprocessing a mail whose pages name their own
// keys is idempotent; a bare PDF export appends new pages instead.
func (s *ScanService) ProcessScan(scan internal.ScanRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(scan.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	mail, err := ExtractPagesFromScanMail(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectScanMail(firstNonEmpty(mail.Subject, scan.Subject), mail.BodyText, mail.AttachmentNames)
	if !detect.IsScan {
		_ = s.db.UpdateScanStatus(scan.ID, "skipped")
		_ = s.db.InsertRun(traceID(), scan.ID, "", 0, 0, "skipped", fmt.Sprintf("%s score=%.2f", detect.Reason, detect.Score))
		return ProcessResult{ScanID: scan.ID, Skipped: true}, nil
	}

	collection := firstNonEmpty(detect.Collection, s.cfg.DefaultCollection)
	voc, err := vocab.ForCollection(collection, s.cfg.VocabDir)
	if err != nil {
		return ProcessResult{}, err
	}
	col, err := s.store.Load(voc)
	if err != nil {
		return ProcessResult{}, err
	}

	pagesAdded, itemsAdded := ApplyPages(col, NewExtractor(voc), mail.Pages)

	if pagesAdded == 0 {
		_ = s.db.UpdateScanStatus(scan.ID, "skipped")
		_ = s.db.InsertRun(traceID(), scan.ID, collection, 0, 0, "skipped", "no parseable pages")
		return ProcessResult{ScanID: scan.ID, Collection: collection, Skipped: true}, nil
	}

	col.Index = catalog.Rebuild(col.PageItems)
	if err := s.store.Save(col); err != nil {
		return ProcessResult{}, err
	}

	if err := s.db.UpdateScanStatus(scan.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	detail := fmt.Sprintf("score=%.2f totalMs=%d", detect.Score, time.Since(start).Milliseconds())
	_ = s.db.InsertRun(traceID(), scan.ID, collection, pagesAdded, itemsAdded, "processed", detail)
	_ = s.db.SetMetadata("extract.last."+collection, time.Now().UTC().Format(time.RFC3339))

	return ProcessResult{ScanID: scan.ID, Collection: collection, Pages: pagesAdded, Items: itemsAdded}, nil
}

// ApplyPages runs page texts through the extractor and folds the
// results into the collection. Pages naming their own key overwrite
// that page; unnumbered pages take the next free number, assigned
// after the named ones so a mixed batch cannot collide with itself.
// Pages that parse to nothing leave the collection untouched.
func ApplyPages(col *store.Collection, extractor *Extractor, pages []internal.PageText) (pagesAdded, itemsAdded int) {
	unnumbered := []internal.PageText{}
	for _, page := range pages {
		if page.Page == "" {
			unnumbered = append(unnumbered, page)
			continue
		}
		items := extractor.ParseItems(page.Text)
		if len(items) == 0 {
			continue
		}
		col.PageItems[page.Page] = items
		pagesAdded++
		itemsAdded += len(items)
	}
	for _, page := range unnumbered {
		items := extractor.ParseItems(page.Text)
		if len(items) == 0 {
			continue
		}
		col.PageItems[internal.PageKeyFor(col.NextPageNum())] = items
		pagesAdded++
		itemsAdded += len(items)
	}
	return pagesAdded, itemsAdded
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
