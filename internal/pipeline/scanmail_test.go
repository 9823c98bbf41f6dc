package pipeline

import (
	"strings"
	"testing"

	"lookbook/internal"
)

func eml(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

func sampleScanMail() []byte {
	return eml(
		"From: scans@ocrapp.example",
		"To: catalog@lookbook.example",
		"Subject: Summer lookbook scan pages",
		"Message-ID: <scan-1@ocrapp.example>",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Scanned pages attached.",
		"--b1",
		`Content-Type: text/plain; name="page_3.txt"`,
		`Content-Disposition: attachment; filename="page_3.txt"`,
		"",
		"Loro Piana",
		"suede loafer",
		"Zegna silk polo",
		"--b1",
		`Content-Type: text/plain; name="page_4.txt"`,
		`Content-Disposition: attachment; filename="page_4.txt"`,
		"",
		"Brunello Cucinelli",
		"linen trouser",
		"--b1--",
	)
}

func TestExtractPagesFromScanMail(t *testing.T) {
	mail, err := ExtractPagesFromScanMail(sampleScanMail())
	if err != nil {
		t.Fatal(err)
	}
	if mail.Subject != "Summer lookbook scan pages" {
		t.Fatalf("subject=%q", mail.Subject)
	}
	if len(mail.Pages) != 2 {
		t.Fatalf("pages=%d", len(mail.Pages))
	}
	if mail.Pages[0].Page != "page_3" || mail.Pages[1].Page != "page_4" {
		t.Fatalf("keys: %s, %s", mail.Pages[0].Page, mail.Pages[1].Page)
	}
	if mail.Pages[0].Kind != internal.TextFromFile {
		t.Fatalf("kind=%s", mail.Pages[0].Kind)
	}
	if !strings.Contains(mail.Pages[0].Text, "suede loafer") {
		t.Fatalf("text=%q", mail.Pages[0].Text)
	}
	if len(mail.AttachmentNames) != 2 {
		t.Fatalf("attachments=%v", mail.AttachmentNames)
	}
	if !strings.Contains(mail.BodyText, "Scanned pages attached") {
		t.Fatalf("body=%q", mail.BodyText)
	}
}

func TestExtractPagesBodyFallback(t *testing.T) {
	raw := eml(
		"From: scans@ocrapp.example",
		"Subject: quick scan",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Loro Piana blazer",
		"Zegna loafer",
	)

	mail, err := ExtractPagesFromScanMail(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(mail.Pages) != 1 {
		t.Fatalf("pages=%d", len(mail.Pages))
	}
	if mail.Pages[0].Page != "" {
		t.Fatalf("key=%s", mail.Pages[0].Page)
	}
	if mail.Pages[0].Kind != internal.TextFromMailBody {
		t.Fatalf("kind=%s", mail.Pages[0].Kind)
	}
}

func TestExtractPagesHTMLAttachment(t *testing.T) {
	raw := eml(
		"From: scans@ocrapp.example",
		"Subject: page export",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="b2"`,
		"",
		"--b2",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Export attached.",
		"--b2",
		`Content-Type: text/html; name="page_7.html"`,
		`Content-Disposition: attachment; filename="page_7.html"`,
		"",
		"<html><body><p>Kiton polo</p><p>Drake's tie</p></body></html>",
		"--b2--",
	)

	mail, err := ExtractPagesFromScanMail(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(mail.Pages) != 1 {
		t.Fatalf("pages=%d", len(mail.Pages))
	}
	if mail.Pages[0].Page != "page_7" {
		t.Fatalf("key=%s", mail.Pages[0].Page)
	}
	if mail.Pages[0].Kind != internal.TextFromHTML {
		t.Fatalf("kind=%s", mail.Pages[0].Kind)
	}
	if mail.Pages[0].Text != "Kiton polo\nDrake's tie" {
		t.Fatalf("text=%q", mail.Pages[0].Text)
	}
}
