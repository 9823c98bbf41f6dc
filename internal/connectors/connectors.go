package connectors

import "lookbook/internal"

// MailConnector lists recent messages from one mailbox provider. Every
// message comes back whole; deciding whether it is a page scan happens
// later in the pipeline.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
