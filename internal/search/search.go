// Package search implements the criteria engine: a stateless predicate
// evaluator and paginator over the opportunity stores.
//
// All present criteria fields are ANDed; absent fields constrain nothing, so
// adding a constraint can only shrink a result set. The match predicate is
// pushed into the store scan. Application-status filtering is not a posting
// field, so user-opportunity searches run as a deliberate two-stage
// pipeline: criteria predicate at the store, then an in-memory status
// refinement pass.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

// Engine evaluates SearchCriteria against the stored populations.
type Engine struct {
	opps  store.Store[model.Opportunity]
	users store.Store[model.UserOpportunity]
}

// NewEngine returns an Engine over the two stores.
func NewEngine(opps store.Store[model.Opportunity], users store.Store[model.UserOpportunity]) *Engine {
	return &Engine{opps: opps, users: users}
}

// MatchesCriteria reports whether a posting satisfies every present
// criteria field.
func MatchesCriteria(p model.Posting, c model.SearchCriteria) bool {
	if c.Keywords != "" {
		haystack := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
		if !strings.Contains(haystack, strings.ToLower(c.Keywords)) {
			return false
		}
	}
	if c.Location != "" {
		if !strings.Contains(strings.ToLower(p.Location), strings.ToLower(c.Location)) {
			return false
		}
	}
	if c.Type != nil && p.Type != *c.Type {
		return false
	}
	if c.IsRemote != nil && p.IsRemote != *c.IsRemote {
		return false
	}
	if c.SalaryMin != nil || c.SalaryMax != nil {
		// A posting without a salary range never matches a salary-bounded
		// query; otherwise the two ranges must overlap.
		if p.SalaryRange == nil {
			return false
		}
		if c.SalaryMin != nil && p.SalaryRange.Max < *c.SalaryMin {
			return false
		}
		if c.SalaryMax != nil && p.SalaryRange.Min > *c.SalaryMax {
			return false
		}
	}
	if c.PostedAfter != nil && p.PostedAt.Before(*c.PostedAfter) {
		return false
	}
	return true
}

// Opportunities returns the opportunities matching the criteria, newest
// first (ties broken by id so ordering is deterministic), paged by
// limit/offset.
func (e *Engine) Opportunities(ctx context.Context, c model.SearchCriteria) model.ListResult[model.Opportunity] {
	matched, err := e.opps.Scan(ctx, func(o model.Opportunity) bool {
		return MatchesCriteria(o.Posting, c)
	})
	if err != nil {
		slog.Warn("opportunity scan failed", "err", err)
		return model.FailList[model.Opportunity]("search failed", err.Error())
	}
	orderByPostedAt(matched, func(o model.Opportunity) (string, int64) {
		return o.ID, o.PostedAt.UnixNano()
	})
	return model.OKList("search complete", page(matched, c.Limit, c.Offset))
}

// UserOpportunities returns a user's tracked records matching the criteria,
// optionally refined by application status as a second in-memory pass.
func (e *Engine) UserOpportunities(ctx context.Context, userID string, c model.SearchCriteria, status *model.ApplicationStatus) model.ListResult[model.UserOpportunity] {
	if userID == "" {
		return model.FailList[model.UserOpportunity]("validation failed", "userId is required")
	}
	matched, err := e.users.Scan(ctx, func(u model.UserOpportunity) bool {
		return u.UserID == userID && MatchesCriteria(u.Posting, c)
	})
	if err != nil {
		slog.Warn("user opportunity scan failed", "userId", userID, "err", err)
		return model.FailList[model.UserOpportunity]("search failed", err.Error())
	}

	// Second stage: application status lives on the tracked record, not the
	// posting, so it is refined here rather than in the store predicate.
	if status != nil {
		refined := matched[:0]
		for _, u := range matched {
			if u.ApplicationStatus == *status {
				refined = append(refined, u)
			}
		}
		matched = refined
	}

	orderByPostedAt(matched, func(u model.UserOpportunity) (string, int64) {
		return u.ID, u.PostedAt.UnixNano()
	})
	return model.OKList("search complete", page(matched, c.Limit, c.Offset))
}

// ByType returns opportunities of one contract type.
func (e *Engine) ByType(ctx context.Context, t model.OpportunityType) model.ListResult[model.Opportunity] {
	return e.Opportunities(ctx, model.SearchCriteria{Type: &t})
}

// ActiveOpportunities returns opportunities that are ACTIVE and unexpired.
func (e *Engine) ActiveOpportunities(ctx context.Context) model.ListResult[model.Opportunity] {
	matched, err := e.opps.Scan(ctx, func(o model.Opportunity) bool {
		return o.IsActive()
	})
	if err != nil {
		slog.Warn("opportunity scan failed", "err", err)
		return model.FailList[model.Opportunity]("search failed", err.Error())
	}
	orderByPostedAt(matched, func(o model.Opportunity) (string, int64) {
		return o.ID, o.PostedAt.UnixNano()
	})
	return model.OKList("search complete", matched)
}

// ByUserAndStatus returns all of a user's records in one application status.
func (e *Engine) ByUserAndStatus(ctx context.Context, userID string, status model.ApplicationStatus) model.ListResult[model.UserOpportunity] {
	return e.UserOpportunities(ctx, userID, model.SearchCriteria{}, &status)
}

// orderByPostedAt sorts descending by postedAt with ascending id as the
// tiebreaker.
func orderByPostedAt[T any](items []T, key func(T) (id string, postedAt int64)) {
	sort.Slice(items, func(i, j int) bool {
		idI, atI := key(items[i])
		idJ, atJ := key(items[j])
		if atI != atJ {
			return atI > atJ
		}
		return idI < idJ
	})
}

// page applies offset then limit. A non-positive limit means unlimited.
func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
