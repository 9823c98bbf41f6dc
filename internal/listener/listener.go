package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"lookbook/internal/config"
	"lookbook/internal/connectors"
	gmailconnector "lookbook/internal/connectors/gmail"
	imapconnector "lookbook/internal/connectors/imap"
	"lookbook/internal/pipeline"
	"lookbook/internal/storage"
	"lookbook/internal/store"
	"lookbook/internal/vocab"
)

// listenerCollections are the catalogs the detector can route a scan
// to; auto-export snapshots each one that holds data.
var listenerCollections = []string{"summer", "spring", "fw"}

type Service struct {
	db    *storage.DB
	store *store.Store
	cfg   config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, store: store.NewStore(cfg.DataDir), cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ScanListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.ScanListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.ScanListenerLabel, s.cfg.ScanListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewScanService(s.db, s.store, s.cfg)
	processedScans, processedPages, err := processor.ProcessPending(s.cfg.ScanListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	if s.cfg.ScanListenerAutoExport && processedScans > 0 {
		if err := s.exportProcessed(provider); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d pages=%d\n", provider, fetchResult.Fetched, fetchResult.Stored, processedScans, processedPages)
	_ = ctx
	return nil
}

// exportProcessed snapshots every collection holding data and moves the
// provider's processed scans to exported. Snapshots overwrite in place;
// the workbook is a view of the catalog, not an archive.
func (s *Service) exportProcessed(provider string) error {
	for _, name := range listenerCollections {
		voc, err := vocab.ForCollection(name, s.cfg.VocabDir)
		if err != nil {
			return err
		}
		col, err := s.store.Load(voc)
		if err != nil {
			return err
		}
		if len(col.Index) == 0 {
			continue
		}
		outputPath := filepath.Join(s.cfg.OutputDir, "listener", fmt.Sprintf("catalog_%s.xlsx", name))
		if err := pipeline.ExportCatalogXLSX(col.Index, outputPath); err != nil {
			return err
		}
	}

	scans, err := s.db.ListScansByStatus("processed", 200)
	if err != nil {
		return err
	}
	for _, scan := range scans {
		if scan.Provider != provider {
			continue
		}
		_ = s.db.UpdateScanStatus(scan.ID, "exported")
	}
	return nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}
