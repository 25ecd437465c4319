package aggregator

import (
	"net/url"
	"strings"
)

// Missing-value sentinels seen across board APIs. Compared lowercase.
var missingSentinels = map[string]bool{
	"nan": true, "none": true, "null": true, "n/a": true, "undefined": true,
}

// CleanValue maps backend missing-value sentinels ("NaN", "None", …) and
// surrounding whitespace to the empty string, leaving real values intact.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	if missingSentinels[strings.ToLower(s)] {
		return ""
	}
	return s
}

// NormalizeHit applies CleanValue to every text field of a hit.
func NormalizeHit(h NormalizedHit) NormalizedHit {
	h.Title = CleanValue(h.Title)
	h.Company = CleanValue(h.Company)
	h.Location = CleanValue(h.Location)
	h.Description = CleanValue(h.Description)
	h.SourceURL = CleanValue(h.SourceURL)
	h.DatePosted = CleanValue(h.DatePosted)
	if !h.IsRemote {
		h.IsRemote = looksRemote(h.Location)
	}
	return h
}

// looksRemote covers boards that signal remote work through the location
// text instead of a dedicated flag.
func looksRemote(location string) bool {
	return strings.Contains(strings.ToLower(location), "remote")
}

// DedupKey builds the composite identity used to collapse duplicate hits:
// lowercased title and company plus the host of the source URL. Hits from
// different boards pointing at the same employer posting on the same host
// collapse to one.
func DedupKey(title, company, sourceURL string) string {
	host := ""
	if u, err := url.Parse(sourceURL); err == nil {
		host = strings.ToLower(u.Host)
	}
	return strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(company)) + "|" + host
}

// Dedupe drops later hits sharing a dedup key with an earlier one. The
// first occurrence in scan order wins; order is otherwise preserved.
func Dedupe(hits []NormalizedHit) []NormalizedHit {
	seen := make(map[string]bool, len(hits))
	out := make([]NormalizedHit, 0, len(hits))
	for _, h := range hits {
		key := DedupKey(h.Title, h.Company, h.SourceURL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
