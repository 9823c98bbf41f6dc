package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"lookbook/internal"
	"lookbook/internal/storage"
)

type MailStoreService struct {
	db         *storage.DB
	rawMailDir string
}

func NewMailStoreService(db *storage.DB, rawMailDir string) *MailStoreService {
	return &MailStoreService{db: db, rawMailDir: rawMailDir}
}

// Store writes the raw message under its content hash and registers it
// as a scan. A message seen before keeps its row, file and status; the
// bool reports whether a new scan was created.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.ScanRow, bool, error) {
	existing, err := s.db.GetScanByProviderMessageID(msg.Provider, msg.MessageID)
	if err != nil {
		return internal.ScanRow{}, false, err
	}
	if existing != nil {
		return *existing, false, nil
	}

	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.ScanRow{}, false, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.ScanRow{}, false, err
		}
	}

	row, err := s.db.UpsertScan(msg.Provider, msg.MessageID, msg.Subject, msg.From, msg.ReceivedAt, hash, rawPath, "fetched")
	if err != nil {
		return internal.ScanRow{}, false, err
	}
	return row, true, nil
}
