// Package aggregator implements the multi-source job search pipeline:
// querying external boards, normalizing and deduplicating their hits,
// bookmarking a selected hit as a tracked opportunity, and exporting a hit
// list as CSV.
package aggregator

import "context"

// NormalizedHit is the canonical shape every raw backend hit is mapped to
// at the boundary. Backend-specific missing-value sentinels are already
// normalized to empty strings by the time a hit leaves its adapter.
type NormalizedHit struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	IsRemote    bool   `json:"isRemote"`
	Description string `json:"description,omitempty"`
	SourceURL   string `json:"sourceUrl,omitempty"`
	DatePosted  string `json:"datePosted,omitempty"`
}

// Backend is an external job board. Implementations are untrusted data
// sources: they may time out, fail, or return partial garbage, and the
// pipeline isolates each one so a failure never aborts its siblings.
type Backend interface {
	// Name identifies the backend in logs and error entries.
	Name() string

	// Search queries the board. An unconfigured backend may return
	// (nil, nil) to contribute nothing without counting as a failure.
	Search(ctx context.Context, searchTerm, location string, resultsWanted int) ([]NormalizedHit, error)
}
