package aggregator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

const joobleTimeout = 15 * time.Second

// JoobleBackend fetches job offers from the Jooble REST API. Like the
// Adzuna adapter it degrades to zero hits when no API key is configured.
type JoobleBackend struct {
	apiKey string
	client *resty.Client
}

// NewJoobleBackend constructs a backend with a shared resty client.
func NewJoobleBackend(apiKey string) *JoobleBackend {
	return &JoobleBackend{
		apiKey: apiKey,
		client: resty.New().
			SetBaseURL("https://jooble.org/api").
			SetTimeout(joobleTimeout),
	}
}

func (b *JoobleBackend) Name() string { return "jooble" }

type joobleRequest struct {
	Keywords      string `json:"keywords"`
	Location      string `json:"location,omitempty"`
	ResultsOnPage int    `json:"ResultOnPage,omitempty"`
}

type joobleResponse struct {
	TotalCount int         `json:"totalCount"`
	Jobs       []joobleJob `json:"jobs"`
}

type joobleJob struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	Snippet  string `json:"snippet"`
	Company  string `json:"company"`
	Updated  string `json:"updated"`
	Link     string `json:"link"`
}

// Search queries Jooble for the given term and location. Hits are
// normalized before they leave this adapter.
func (b *JoobleBackend) Search(ctx context.Context, searchTerm, location string, resultsWanted int) ([]NormalizedHit, error) {
	if b.apiKey == "" {
		log.Println("[jooble] JOOBLE_API_KEY not set — skipping source")
		return nil, nil
	}

	var out joobleResponse
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(joobleRequest{Keywords: searchTerm, Location: location, ResultsOnPage: resultsWanted}).
		SetResult(&out).
		Post("/" + b.apiKey)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("jooble returned %d: %s", resp.StatusCode(), resp.String())
	}

	hits := make([]NormalizedHit, 0, len(out.Jobs))
	for _, j := range out.Jobs {
		hits = append(hits, NormalizeHit(NormalizedHit{
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Description: j.Snippet,
			SourceURL:   j.Link,
			DatePosted:  j.Updated,
		}))
		if resultsWanted > 0 && len(hits) >= resultsWanted {
			break
		}
	}
	return hits, nil
}
