package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

// Feed describes what a refresh cycle searches for.
type Feed struct {
	SearchTerms   []string
	Locations     []string
	ResultsWanted int
	ExcludeTerms  []string // hits containing any of these are discarded
}

// Scheduler wraps robfig/cron and manages the periodic feed refresh: every
// cycle runs the aggregation pipeline for each configured (term × location)
// pair and inserts unseen hits into the opportunity store.
type Scheduler struct {
	cron     *cron.Cron
	pipeline *aggregator.Pipeline
	records  *records.Service[model.Opportunity, *model.Opportunity]
	opps     store.Store[model.Opportunity]
	feed     Feed
	spec     string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(pipeline *aggregator.Pipeline, rec *records.Service[model.Opportunity, *model.Opportunity], opps store.Store[model.Opportunity], feed Feed, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		pipeline: pipeline,
		records:  rec,
		opps:     opps,
		feed:     feed,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunRefresh(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.RunRefresh(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// RunRefresh executes one refresh cycle over every configured pair.
// Individual pair failures log and continue.
func (s *Scheduler) RunRefresh(ctx context.Context) {
	if len(s.feed.SearchTerms) == 0 {
		log.Println("[scheduler] No feed search terms configured — nothing to refresh")
		return
	}
	log.Println("[scheduler] Feed refresh started")

	var totalInserted, totalFiltered, totalDuplicate int
	locations := s.feed.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}

	for _, term := range s.feed.SearchTerms {
		for _, location := range locations {
			inserted, filtered, dupes, err := s.refreshPair(ctx, term, location)
			if err != nil {
				log.Printf("[scheduler] Error refreshing (%q, %q): %v — continuing", term, location, err)
				continue
			}
			totalInserted += inserted
			totalFiltered += filtered
			totalDuplicate += dupes
		}
	}

	log.Printf("[scheduler] Feed refresh complete — inserted=%d filtered=%d duplicates=%d",
		totalInserted, totalFiltered, totalDuplicate)
}

func (s *Scheduler) refreshPair(ctx context.Context, term, location string) (inserted, filtered, dupes int, err error) {
	res := s.pipeline.AggregateSearch(ctx, term, location, s.feed.ResultsWanted)
	if !res.Success {
		return 0, 0, 0, fmt.Errorf("aggregate search: %s", res.Message)
	}

	for _, hit := range res.Results {
		// Boards occasionally return stubs; they cannot become valid
		// opportunities, so drop them up front.
		if hit.Title == "" || hit.Company == "" || hit.Description == "" {
			filtered++
			continue
		}
		if ContainsExcludedTerm(hit.Title, hit.Company, hit.Description, s.feed.ExcludeTerms) {
			filtered++
			continue
		}

		exists, scanErr := s.feedContains(ctx, hit)
		if scanErr != nil {
			log.Printf("[scheduler] Feed lookup error: %v", scanErr)
			continue
		}
		if exists {
			dupes++
			continue
		}

		opp := model.Opportunity{
			Posting: model.Posting{
				Title:       hit.Title,
				Company:     hit.Company,
				Description: hit.Description,
				Location:    hit.Location,
				IsRemote:    hit.IsRemote,
				SourceURL:   hit.SourceURL,
				PostedAt:    aggregator.ParsePostedAt(hit.DatePosted),
			},
		}
		if added := s.records.Add(ctx, opp); !added.Success {
			log.Printf("[scheduler] Feed insert failed: %s %v", added.Message, added.Errors)
			continue
		}
		inserted++
	}
	return inserted, filtered, dupes, nil
}

// feedContains reports whether a hit's dedup key is already in the feed.
func (s *Scheduler) feedContains(ctx context.Context, hit aggregator.NormalizedHit) (bool, error) {
	key := aggregator.DedupKey(hit.Title, hit.Company, hit.SourceURL)
	matches, err := s.opps.Scan(ctx, func(o model.Opportunity) bool {
		return aggregator.DedupKey(o.Title, o.Company, o.SourceURL) == key
	})
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}
