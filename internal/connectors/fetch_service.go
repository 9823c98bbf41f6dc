package connectors

import (
	"lookbook/internal/storage"
)

type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

// FetchAndStore pulls a mailbox label and registers unseen messages as
// scans. Stored counts only new scans, so a quiet inbox polls as 0.
func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	stored := 0
	for _, msg := range messages {
		_, created, err := s.store.Store(msg)
		if err != nil {
			return FetchResult{}, err
		}
		if created {
			stored++
		}
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
