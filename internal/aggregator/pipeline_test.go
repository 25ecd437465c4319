package aggregator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
	"github.com/michaelprosario/career-catalyst/internal/apperr"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

// stubBackend returns canned hits or a canned error.
type stubBackend struct {
	name string
	hits []aggregator.NormalizedHit
	err  error
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Search(ctx context.Context, searchTerm, location string, resultsWanted int) ([]aggregator.NormalizedHit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

func newTestPipeline(backends ...aggregator.Backend) *aggregator.Pipeline {
	users := store.NewMemory[model.UserOpportunity]()
	rec := records.NewService[model.UserOpportunity, *model.UserOpportunity](users)
	return aggregator.NewPipeline(backends, rec, users, nil)
}

func hit(title, company, url string) aggregator.NormalizedHit {
	return aggregator.NormalizedHit{
		Title:       title,
		Company:     company,
		Description: "Build things.",
		Location:    "Austin, TX",
		SourceURL:   url,
		DatePosted:  "2026-08-01",
	}
}

func TestAggregateSearch_MergesBackendsInConfigOrder(t *testing.T) {
	p := newTestPipeline(
		&stubBackend{name: "alpha", hits: []aggregator.NormalizedHit{
			hit("Engineer", "Acme", "https://alpha.example.com/1"),
			hit("Analyst", "Beta", "https://alpha.example.com/2"),
		}},
		&stubBackend{name: "bravo", hits: []aggregator.NormalizedHit{
			hit("Designer", "Gamma", "https://bravo.example.com/3"),
		}},
	)

	res := p.AggregateSearch(context.Background(), "engineer", "austin", 10)
	if !res.Success {
		t.Fatalf("aggregate failed: %v", res.Errors)
	}
	if len(res.Results) != 3 {
		t.Fatalf("got %d hits, want 3", len(res.Results))
	}
	if res.Results[0].Title != "Engineer" || res.Results[2].Title != "Designer" {
		t.Errorf("hits out of configured backend order: %+v", res.Results)
	}
	if len(res.Errors) != 0 {
		t.Errorf("unexpected error entries: %v", res.Errors)
	}
}

func TestAggregateSearch_FailedBackendIsIsolated(t *testing.T) {
	p := newTestPipeline(
		&stubBackend{name: "alpha", hits: []aggregator.NormalizedHit{
			hit("Engineer", "Acme", "https://alpha.example.com/1"),
			hit("Analyst", "Beta", "https://alpha.example.com/2"),
			hit("Designer", "Gamma", "https://alpha.example.com/3"),
		}},
		&stubBackend{name: "bravo", err: errors.New("connection refused")},
	)

	res := p.AggregateSearch(context.Background(), "engineer", "", 10)
	if !res.Success {
		t.Fatal("one healthy backend should be enough for success")
	}
	if len(res.Results) != 3 {
		t.Errorf("got %d hits from the healthy backend, want 3", len(res.Results))
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "bravo") {
		t.Errorf("error entry should name the failed backend: %v", res.Errors)
	}
}

func TestAggregateSearch_AllBackendsFailing(t *testing.T) {
	p := newTestPipeline(
		&stubBackend{name: "alpha", err: errors.New("timeout")},
		&stubBackend{name: "bravo", err: errors.New("500")},
	)

	res := p.AggregateSearch(context.Background(), "engineer", "", 10)
	if res.Success {
		t.Fatal("all backends failing must fail the aggregate call")
	}
	if res.Message != apperr.ErrAggregateFailure.Error() {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.Errors) != 2 {
		t.Errorf("got %d error entries, want one per backend: %v", len(res.Errors), res.Errors)
	}
}

func TestAggregateSearch_DeduplicatesAcrossBackends(t *testing.T) {
	p := newTestPipeline(
		&stubBackend{name: "alpha", hits: []aggregator.NormalizedHit{
			hit("Engineer", "Acme", "https://jobs.acme.com/1"),
		}},
		&stubBackend{name: "bravo", hits: []aggregator.NormalizedHit{
			hit("engineer", "ACME", "https://jobs.acme.com/2"),
			hit("Designer", "Gamma", "https://bravo.example.com/3"),
		}},
	)

	res := p.AggregateSearch(context.Background(), "engineer", "", 10)
	if !res.Success {
		t.Fatalf("aggregate failed: %v", res.Errors)
	}
	if len(res.Results) != 2 {
		t.Fatalf("got %d hits after dedup, want 2", len(res.Results))
	}
	// First occurrence in configured order wins.
	if res.Results[0].SourceURL != "https://jobs.acme.com/1" {
		t.Errorf("kept the wrong duplicate: %+v", res.Results[0])
	}
}

func TestAggregateSearch_RequiresSearchTerm(t *testing.T) {
	p := newTestPipeline(&stubBackend{name: "alpha"})
	res := p.AggregateSearch(context.Background(), "", "austin", 10)
	if res.Success {
		t.Fatal("empty search term must fail validation")
	}
}

func TestAggregateSearch_UnconfiguredBackendContributesNothing(t *testing.T) {
	p := newTestPipeline(
		&stubBackend{name: "alpha"}, // nil hits, nil err — unconfigured
		&stubBackend{name: "bravo", hits: []aggregator.NormalizedHit{
			hit("Engineer", "Acme", "https://bravo.example.com/1"),
		}},
	)

	res := p.AggregateSearch(context.Background(), "engineer", "", 10)
	if !res.Success {
		t.Fatalf("aggregate failed: %v", res.Errors)
	}
	if len(res.Results) != 1 {
		t.Errorf("got %d hits, want 1", len(res.Results))
	}
	if len(res.Errors) != 0 {
		t.Errorf("an unconfigured backend is not a failure: %v", res.Errors)
	}
}

func TestBookmark_CreatesSavedRecordWithProvenance(t *testing.T) {
	p := newTestPipeline()
	h := hit("Engineer", "Acme", "https://jobs.acme.com/1")

	res := p.Bookmark(context.Background(), h, "user-1")
	if !res.Success {
		t.Fatalf("bookmark failed: %v", res.Errors)
	}
	got := res.Document
	if got == nil {
		t.Fatal("expected a stored document")
	}
	if got.ID == "" {
		t.Error("bookmark should assign an id")
	}
	if got.ApplicationStatus != model.StatusSaved {
		t.Errorf("status = %s, want SAVED", got.ApplicationStatus)
	}
	if got.UserID != "user-1" || got.Title != "Engineer" || got.Company != "Acme" {
		t.Errorf("hit fields not carried over: %+v", got)
	}
	if !strings.Contains(got.Notes, "https://jobs.acme.com/1") {
		t.Errorf("notes should record provenance, got %q", got.Notes)
	}
}

func TestBookmark_SameHitTwiceIsIdempotent(t *testing.T) {
	p := newTestPipeline()
	h := hit("Engineer", "Acme", "https://jobs.acme.com/1")

	first := p.Bookmark(context.Background(), h, "user-1")
	if !first.Success {
		t.Fatalf("first bookmark failed: %v", first.Errors)
	}

	// Same posting surfaced again, cosmetic URL difference on the same host.
	h2 := h
	h2.SourceURL = "https://jobs.acme.com/1?utm_source=feed"
	second := p.Bookmark(context.Background(), h2, "user-1")
	if !second.Success {
		t.Fatalf("second bookmark failed: %v", second.Errors)
	}
	if second.Document.ID != first.Document.ID {
		t.Errorf("rebookmark created a new record: %s vs %s", second.Document.ID, first.Document.ID)
	}
	if second.Message != "opportunity already bookmarked" {
		t.Errorf("message = %q", second.Message)
	}
}

func TestBookmark_SameHitDifferentUsersAreSeparate(t *testing.T) {
	p := newTestPipeline()
	h := hit("Engineer", "Acme", "https://jobs.acme.com/1")

	a := p.Bookmark(context.Background(), h, "user-1")
	b := p.Bookmark(context.Background(), h, "user-2")
	if !a.Success || !b.Success {
		t.Fatalf("bookmarks failed: %v %v", a.Errors, b.Errors)
	}
	if a.Document.ID == b.Document.ID {
		t.Error("different users must get separate tracked records")
	}
}

func TestBookmark_RequiresUserID(t *testing.T) {
	p := newTestPipeline()
	res := p.Bookmark(context.Background(), hit("Engineer", "Acme", ""), "")
	if res.Success {
		t.Fatal("empty userId must fail validation")
	}
}

func TestParsePostedAt(t *testing.T) {
	got := aggregator.ParsePostedAt("2026-08-01")
	if got.Year() != 2026 || got.Month() != 8 || got.Day() != 1 {
		t.Errorf("date-only parse = %v", got)
	}

	got = aggregator.ParsePostedAt("2026-08-01T09:30:00Z")
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Errorf("RFC3339 parse = %v", got)
	}

	// Unrecognized input falls back to now rather than the zero time.
	if aggregator.ParsePostedAt("last Tuesday").IsZero() {
		t.Error("fallback must not be the zero time")
	}
}
