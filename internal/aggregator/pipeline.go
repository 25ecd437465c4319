package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/michaelprosario/career-catalyst/internal/apperr"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

const (
	// backendTimeout is the per-backend time budget for one search call.
	// Matches the HTTP client timeout the board adapters use.
	backendTimeout = 15 * time.Second

	cacheTTL = 10 * time.Minute
)

// Pipeline aggregates hits from the configured backends, deduplicates them,
// and can persist a selected hit as a tracked opportunity.
type Pipeline struct {
	backends []Backend
	records  *records.Service[model.UserOpportunity, *model.UserOpportunity]
	users    store.Store[model.UserOpportunity]
	rdb      *redis.Client // optional result cache; nil disables caching
	timeout  time.Duration
}

// NewPipeline returns a Pipeline over the given backends. The user store is
// used for the bookmark idempotency scan; rdb may be nil.
func NewPipeline(backends []Backend, rec *records.Service[model.UserOpportunity, *model.UserOpportunity], users store.Store[model.UserOpportunity], rdb *redis.Client) *Pipeline {
	return &Pipeline{backends: backends, records: rec, users: users, rdb: rdb, timeout: backendTimeout}
}

// AggregateSearch queries every configured backend in parallel and returns
// the deduplicated union of their hits, in configured backend order.
//
// Backends are isolated: one source timing out or failing contributes zero
// hits and an error entry naming it, and the call still succeeds as long as
// at least one backend delivered. Only total failure is a failure.
func (p *Pipeline) AggregateSearch(ctx context.Context, searchTerm, location string, resultsWanted int) model.ListResult[NormalizedHit] {
	if searchTerm == "" {
		return model.FailList[NormalizedHit]("validation failed", "searchTerm is required")
	}

	cacheKey := fmt.Sprintf("agg:%s|%s|%d", searchTerm, location, resultsWanted)
	if hits, ok := p.cacheGet(ctx, cacheKey); ok {
		return model.OKList("aggregate search complete (cached)", hits)
	}

	type slot struct {
		hits []NormalizedHit
		err  error
	}
	slots := make([]slot, len(p.backends))

	var wg sync.WaitGroup
	for i, b := range p.backends {
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			bctx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()
			hits, err := b.Search(bctx, searchTerm, location, resultsWanted)
			if err != nil {
				slots[i] = slot{err: &apperr.BackendError{Backend: b.Name(), Err: err}}
				return
			}
			slots[i] = slot{hits: hits}
		}(i, b)
	}
	wg.Wait()

	// Flatten in configured backend order so dedup scan order is stable.
	var all []NormalizedHit
	var errs []string
	failed := 0
	for _, s := range slots {
		if s.err != nil {
			failed++
			errs = append(errs, s.err.Error())
			log.Printf("[pipeline] %v — continuing with remaining sources", s.err)
			continue
		}
		all = append(all, s.hits...)
	}

	if len(p.backends) > 0 && failed == len(p.backends) {
		return model.FailList[NormalizedHit](apperr.ErrAggregateFailure.Error(), errs...)
	}

	deduped := Dedupe(all)
	p.cacheSet(ctx, cacheKey, deduped)

	res := model.OKList("aggregate search complete", deduped)
	res.Errors = errs
	return res
}

// Bookmark persists a normalized hit as a SAVED tracked opportunity for the
// given user. Bookmarking the same hit twice is idempotent: the existing
// record is returned instead of creating a duplicate.
func (p *Pipeline) Bookmark(ctx context.Context, hit NormalizedHit, userID string) model.GetDocumentResult[model.UserOpportunity] {
	if userID == "" {
		return model.FailDocument[model.UserOpportunity]("validation failed", "userId is required")
	}
	hit = NormalizeHit(hit)

	existing, err := p.findExisting(ctx, hit, userID)
	if err != nil {
		slog.Warn("bookmark lookup failed", "userId", userID, "err", err)
		return model.FailDocument[model.UserOpportunity]("failed to check existing bookmarks", err.Error())
	}
	if existing != nil {
		return model.OKDocument("opportunity already bookmarked", existing)
	}

	rec := model.UserOpportunity{
		UserID: userID,
		Posting: model.Posting{
			Title:       hit.Title,
			Company:     hit.Company,
			Description: hit.Description,
			Location:    hit.Location,
			IsRemote:    hit.IsRemote,
			SourceURL:   hit.SourceURL,
			PostedAt:    ParsePostedAt(hit.DatePosted),
		},
		ApplicationStatus: model.StatusSaved,
		Notes:             provenanceNote(hit),
	}
	return p.records.Add(ctx, rec)
}

// findExisting scans the user's tracked opportunities for one sharing the
// hit's dedup key.
func (p *Pipeline) findExisting(ctx context.Context, hit NormalizedHit, userID string) (*model.UserOpportunity, error) {
	key := DedupKey(hit.Title, hit.Company, hit.SourceURL)
	matches, err := p.users.Scan(ctx, func(u model.UserOpportunity) bool {
		return u.UserID == userID && DedupKey(u.Title, u.Company, u.SourceURL) == key
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// provenanceNote records where and when a bookmark came from.
func provenanceNote(hit NormalizedHit) string {
	source := hit.SourceURL
	if source == "" {
		source = "aggregate search"
	}
	return fmt.Sprintf("Bookmarked from %s on %s", source, time.Now().UTC().Format("2006-01-02"))
}

// ParsePostedAt converts a board-supplied date string to a timestamp,
// falling back to now when the format is unrecognized.
func ParsePostedAt(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

// ─── Result cache ────────────────────────────────────────────────────────────

func (p *Pipeline) cacheGet(ctx context.Context, key string) ([]NormalizedHit, bool) {
	if p.rdb == nil {
		return nil, false
	}
	raw, err := p.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false // miss or unavailable — treat alike
	}
	var hits []NormalizedHit
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, false
	}
	return hits, true
}

func (p *Pipeline) cacheSet(ctx context.Context, key string, hits []NormalizedHit) {
	if p.rdb == nil {
		return
	}
	raw, err := json.Marshal(hits)
	if err != nil {
		return
	}
	if err := p.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		slog.Warn("aggregate cache write failed", "key", key, "err", err)
	}
}
