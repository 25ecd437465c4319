package lifecycle

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/michaelprosario/career-catalyst/internal/apperr"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
)

// statusEventChannel is the Redis pub/sub channel status changes are
// announced on. Publishing is best-effort; a failed publish never fails the
// transition.
const statusEventChannel = "EVENT_STATUS_CHANGED"

// Service applies status transitions and note updates to tracked
// opportunities. All persistence goes through the record store so the
// timestamp invariants stay in one place.
type Service struct {
	records *records.Service[model.UserOpportunity, *model.UserOpportunity]
	rdb     *redis.Client // optional; nil disables event publishing
}

// NewService returns a configured Service. rdb may be nil.
func NewService(rec *records.Service[model.UserOpportunity, *model.UserOpportunity], rdb *redis.Client) *Service {
	return &Service{records: rec, rdb: rdb}
}

// TransitionStatus moves a tracked opportunity to a new application status.
// Fails with not-found if the record does not exist or belong to userID.
// Entering APPLIED stamps appliedAt; entering a terminal state stamps
// resolvedAt. An illegal transition fails without mutating the record.
func (s *Service) TransitionStatus(ctx context.Context, userID, id string, requested model.ApplicationStatus) model.GetDocumentResult[model.UserOpportunity] {
	if _, err := model.ParseApplicationStatus(string(requested)); err != nil {
		return model.FailDocument[model.UserOpportunity]("validation failed", err.Error())
	}

	res := s.records.GetByID(ctx, id)
	if !res.Success {
		return res
	}
	if res.Document == nil || res.Document.UserID != userID {
		return model.FailDocument[model.UserOpportunity](apperr.ErrNotFound.Error())
	}

	rec := *res.Document
	if _, err := Transition(rec.ApplicationStatus, requested); err != nil {
		return model.FailDocument[model.UserOpportunity]("invalid transition", err.Error())
	}

	from := rec.ApplicationStatus
	now := time.Now().UTC()
	rec.ApplicationStatus = requested
	if requested == model.StatusApplied && rec.AppliedAt == nil {
		rec.AppliedAt = &now
	}
	if IsTerminal(requested) && rec.ResolvedAt == nil {
		rec.ResolvedAt = &now
	}

	updated := s.records.Update(ctx, rec)
	if updated.Success {
		s.publishStatusChange(ctx, rec.ID, rec.UserID, from, requested)
	}
	return updated
}

// UpdateNotes sets the free-text note on a tracked opportunity. Fails with
// not-found if the record does not exist or belong to userID. Notes are
// independent of the state machine; only the note and updatedAt change.
func (s *Service) UpdateNotes(ctx context.Context, userID, id, notes string) model.GetDocumentResult[model.UserOpportunity] {
	res := s.records.GetByID(ctx, id)
	if !res.Success {
		return res
	}
	if res.Document == nil || res.Document.UserID != userID {
		return model.FailDocument[model.UserOpportunity](apperr.ErrNotFound.Error())
	}

	rec := *res.Document
	rec.Notes = notes
	return s.records.Update(ctx, rec)
}

func (s *Service) publishStatusChange(ctx context.Context, id, userID string, from, to model.ApplicationStatus) {
	if s.rdb == nil {
		return
	}
	event, _ := json.Marshal(map[string]string{
		"type":              statusEventChannel,
		"userOpportunityId": id,
		"userId":            userID,
		"from":              string(from),
		"to":                string(to),
	})
	if err := s.rdb.Publish(ctx, statusEventChannel, event).Err(); err != nil {
		slog.Warn("publish EVENT_STATUS_CHANGED failed", "err", err)
	}
}
