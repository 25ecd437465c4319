package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaTimeout  = 15 * time.Second
)

// AdzunaBackend fetches job offers from the Adzuna public API.
// If AppID or AppKey is empty, Search returns (nil, nil) gracefully — the
// pipeline simply gets no hits from this source and logs a warning.
type AdzunaBackend struct {
	AppID   string
	AppKey  string
	Country string // "us", "gb", "fr", …
	client  *http.Client
}

// NewAdzunaBackend constructs a backend with a shared HTTP client.
func NewAdzunaBackend(appID, appKey, country string) *AdzunaBackend {
	return &AdzunaBackend{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		client:  &http.Client{Timeout: adzunaTimeout},
	}
}

func (b *AdzunaBackend) Name() string { return "adzuna" }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Search retrieves up to resultsWanted offers for the given term and
// location, iterating through pages as needed. Hits are normalized before
// they leave this adapter. Returns nil without error when credentials are
// missing.
func (b *AdzunaBackend) Search(ctx context.Context, searchTerm, location string, resultsWanted int) ([]NormalizedHit, error) {
	if b.AppID == "" || b.AppKey == "" {
		log.Println("[adzuna] ADZUNA_APP_ID / ADZUNA_APP_KEY not set — skipping source")
		return nil, nil
	}
	if resultsWanted <= 0 {
		resultsWanted = adzunaPageSize
	}

	var hits []NormalizedHit
	for page := 1; len(hits) < resultsWanted; page++ {
		batch, err := b.fetchPage(ctx, searchTerm, location, page)
		if err != nil {
			return hits, fmt.Errorf("page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break // No more results
		}
		hits = append(hits, batch...)
		if len(batch) < adzunaPageSize {
			break // Last page
		}
	}

	if len(hits) > resultsWanted {
		hits = hits[:resultsWanted]
	}
	return hits, nil
}

func (b *AdzunaBackend) fetchPage(ctx context.Context, searchTerm, location string, page int) ([]NormalizedHit, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", adzunaBaseURL, b.Country, page)

	params := url.Values{}
	params.Set("app_id", b.AppID)
	params.Set("app_key", b.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", searchTerm)
	params.Set("where", location)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	hits := make([]NormalizedHit, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		hits = append(hits, NormalizeHit(NormalizedHit{
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: r.Description,
			SourceURL:   r.RedirectURL,
			DatePosted:  r.Created,
		}))
	}
	return hits, nil
}
