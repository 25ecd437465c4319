package aggregator_test

import (
	"testing"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
)

func TestCleanValue(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Senior Engineer", "Senior Engineer"},
		{"  padded  ", "padded"},
		{"NaN", ""},
		{"nan", ""},
		{"None", ""},
		{"null", ""},
		{"N/A", ""},
		{"undefined", ""},
		{"  NaN  ", ""},
		{"", ""},
		{"Nantes", "Nantes"}, // contains "nan" but is a real value
	}
	for _, c := range cases {
		if got := aggregator.CleanValue(c.in); got != c.want {
			t.Errorf("CleanValue(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeHit_CleansEveryTextField(t *testing.T) {
	h := aggregator.NormalizeHit(aggregator.NormalizedHit{
		Title:       "  Engineer ",
		Company:     "NaN",
		Location:    "None",
		Description: "null",
		SourceURL:   " https://boards.example.com/1 ",
		DatePosted:  "undefined",
	})
	if h.Title != "Engineer" {
		t.Errorf("title = %q", h.Title)
	}
	if h.Company != "" || h.Location != "" || h.Description != "" || h.DatePosted != "" {
		t.Errorf("sentinel fields not cleared: %+v", h)
	}
	if h.SourceURL != "https://boards.example.com/1" {
		t.Errorf("sourceURL = %q", h.SourceURL)
	}
}

func TestNormalizeHit_InfersRemoteFromLocation(t *testing.T) {
	h := aggregator.NormalizeHit(aggregator.NormalizedHit{Title: "Engineer", Location: "Remote - US"})
	if !h.IsRemote {
		t.Error("location containing 'remote' should set IsRemote")
	}

	h = aggregator.NormalizeHit(aggregator.NormalizedHit{Title: "Engineer", Location: "Austin, TX"})
	if h.IsRemote {
		t.Error("ordinary location should not set IsRemote")
	}

	// An explicit flag is never cleared by the location text.
	h = aggregator.NormalizeHit(aggregator.NormalizedHit{Title: "Engineer", Location: "Austin, TX", IsRemote: true})
	if !h.IsRemote {
		t.Error("explicit IsRemote flag must survive normalization")
	}
}

func TestDedupKey(t *testing.T) {
	a := aggregator.DedupKey("Software Engineer", "Acme", "https://jobs.acme.com/123")
	b := aggregator.DedupKey("software engineer", "ACME", "https://jobs.acme.com/456?src=feed")
	if a != b {
		t.Errorf("same title/company/host must share a key: %q vs %q", a, b)
	}

	c := aggregator.DedupKey("Software Engineer", "Acme", "https://other-board.com/123")
	if a == c {
		t.Error("different hosts must not collapse")
	}

	d := aggregator.DedupKey("Software Engineer", "Acme", "")
	if d != "software engineer|acme|" {
		t.Errorf("empty URL key = %q", d)
	}
}

func TestDedupe_FirstOccurrenceWins(t *testing.T) {
	hits := []aggregator.NormalizedHit{
		{Title: "Engineer", Company: "Acme", SourceURL: "https://jobs.acme.com/1", Description: "first copy"},
		{Title: "Analyst", Company: "Beta", SourceURL: "https://beta.example.com/9"},
		{Title: "engineer", Company: "ACME", SourceURL: "https://jobs.acme.com/2", Description: "second copy"},
	}
	out := aggregator.Dedupe(hits)
	if len(out) != 2 {
		t.Fatalf("got %d hits, want 2", len(out))
	}
	if out[0].Description != "first copy" {
		t.Errorf("kept the wrong duplicate: %+v", out[0])
	}
	if out[1].Company != "Beta" {
		t.Errorf("order not preserved: %+v", out)
	}
}

func TestDedupe_EmptyInput(t *testing.T) {
	if out := aggregator.Dedupe(nil); len(out) != 0 {
		t.Errorf("got %d hits, want 0", len(out))
	}
}
