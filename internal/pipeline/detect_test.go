package pipeline

import "testing"

func TestDetectScanMailPositive(t *testing.T) {
	res := DetectScanMail("Summer lookbook scan pages", "scanned pages attached", []string{"page_3.txt"})
	if !res.IsScan {
		t.Fatalf("score=%.2f", res.Score)
	}
	if res.Collection != "summer" {
		t.Fatalf("collection=%q", res.Collection)
	}
	if res.Reason != "rules_positive" {
		t.Fatalf("reason=%s", res.Reason)
	}
}

func TestDetectScanMailNegative(t *testing.T) {
	res := DetectScanMail("Dinner on Friday?", "see you at eight", nil)
	if res.IsScan {
		t.Fatalf("score=%.2f", res.Score)
	}
	if res.Reason != "rules_negative" {
		t.Fatalf("reason=%s", res.Reason)
	}
}

func TestDetectScanMailPageTokens(t *testing.T) {
	res := DetectScanMail("", "page 1 has a blazer\npage 2 has loafers", nil)
	if !res.IsScan {
		t.Fatalf("score=%.2f", res.Score)
	}
	if res.Collection != "" {
		t.Fatalf("collection=%q", res.Collection)
	}
}

func TestDetectScanMailCollections(t *testing.T) {
	cases := []struct {
		subject string
		text    string
		want    string
	}{
		{"Summer scans", "", "summer"},
		{"Spring pages", "", "spring"},
		{"Fall/Winter lookbook", "", "fw"},
		{"", "autumn wardrobe page 1", "fw"},
		{"Winter scan export", "", "fw"},
		{"Lookbook export", "no season here", ""},
	}
	for _, tc := range cases {
		res := DetectScanMail(tc.subject, tc.text, nil)
		if res.Collection != tc.want {
			t.Fatalf("%q/%q: collection=%q want %q", tc.subject, tc.text, res.Collection, tc.want)
		}
	}
}
