package pipeline

import (
	"bytes"
	"strings"

	"github.com/jhillyerd/enmime"

	"lookbook/internal"
	"lookbook/internal/source"
)

// ScanMail is one forwarded OCR mail broken into page texts. Subject
// and BodyText feed detection; AttachmentNames feeds both detection and
// diagnostics.
type ScanMail struct {
	Pages           []internal.PageText
	Subject         string
	BodyText        string
	AttachmentNames []string
}

// ExtractPagesFromScanMail parses a raw RFC 822 message from the phone
// OCR app. Text attachments carry one page each, PDFs one page per PDF
// page, HTML exports one page per file. The mail body itself becomes a
// page only when no attachment yielded any, so a cover note above a
// forwarded export does not turn into a phantom page.
func ExtractPagesFromScanMail(raw []byte) (ScanMail, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return ScanMail{}, err
	}

	mail := ScanMail{
		Subject:  env.GetHeader("Subject"),
		BodyText: env.Text,
	}

	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		mail.AttachmentNames = append(mail.AttachmentNames, filename)
		lower := strings.ToLower(filename)

		switch {
		case strings.HasSuffix(lower, ".txt"):
			if strings.TrimSpace(string(att.Content)) == "" {
				continue
			}
			mail.Pages = append(mail.Pages, internal.PageText{
				Page: source.PageFromName(filename),
				Kind: internal.TextFromFile,
				Text: string(att.Content),
			})
		case strings.HasSuffix(lower, ".pdf"):
			texts, err := source.PDFPageTexts(att.Content)
			if err != nil {
				continue
			}
			for _, text := range texts {
				mail.Pages = append(mail.Pages, internal.PageText{Kind: internal.TextFromPDF, Text: text})
			}
		case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
			text, err := source.HTMLText(att.Content)
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
			mail.Pages = append(mail.Pages, internal.PageText{
				Page: source.PageFromName(filename),
				Kind: internal.TextFromHTML,
				Text: text,
			})
		}
	}

	if len(mail.Pages) == 0 {
		if strings.TrimSpace(env.Text) != "" {
			mail.Pages = append(mail.Pages, internal.PageText{Kind: internal.TextFromMailBody, Text: env.Text})
		} else if env.HTML != "" {
			text, err := source.HTMLText([]byte(env.HTML))
			if err == nil && strings.TrimSpace(text) != "" {
				mail.Pages = append(mail.Pages, internal.PageText{Kind: internal.TextFromMailBody, Text: text})
			}
		}
	}

	return mail, nil
}
