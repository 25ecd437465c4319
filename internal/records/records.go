// Package records implements the generic record store: uniform CRUD over any
// entity carrying an id and server-managed timestamps. It is the only code
// allowed to write createdAt/updatedAt — higher layers mutate records
// exclusively through Add and Update so the timestamp invariants hold.
package records

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/michaelprosario/career-catalyst/internal/apperr"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

// Entity is the identity + timestamp contract a stored record must satisfy.
// Implemented with pointer receivers on the model types.
type Entity interface {
	GetID() string
	SetID(id string)
	GetCreatedAt() time.Time
	SetCreatedAt(t time.Time)
	SetUpdatedAt(t time.Time)
	SetDefaults()
	Validate() error
}

// Service provides the CRUD operations for one entity type. T is the value
// type, P its pointer type carrying the Entity methods — instantiated once
// per concrete entity, e.g. Service[model.UserOpportunity, *model.UserOpportunity].
type Service[T any, P interface {
	Entity
	*T
}] struct {
	st store.Store[T]
}

// NewService returns a record service over the given document store.
func NewService[T any, P interface {
	Entity
	*T
}](st store.Store[T]) *Service[T, P] {
	return &Service[T, P]{st: st}
}

// Add validates and persists a new record. A fresh id is assigned when the
// caller supplies none; createdAt and updatedAt are stamped to now. The
// stored document is returned.
func (s *Service[T, P]) Add(ctx context.Context, rec T) model.GetDocumentResult[T] {
	p := P(&rec)
	p.SetDefaults()
	if err := p.Validate(); err != nil {
		return model.FailDocument[T]("validation failed", err.Error())
	}

	if p.GetID() == "" {
		p.SetID(uuid.NewString())
	}
	now := time.Now().UTC()
	p.SetCreatedAt(now)
	p.SetUpdatedAt(now)

	if err := s.st.Put(ctx, p.GetID(), rec); err != nil {
		slog.Warn("record add failed", "id", p.GetID(), "err", err)
		return model.FailDocument[T]("failed to store record", err.Error())
	}
	return model.OKDocument("record added", &rec)
}

// Update replaces an existing record. The id must reference a stored
// document; id and createdAt are preserved from the stored version
// regardless of what the caller supplies, and updatedAt is recomputed.
func (s *Service[T, P]) Update(ctx context.Context, rec T) model.GetDocumentResult[T] {
	p := P(&rec)
	if p.GetID() == "" {
		return model.FailDocument[T]("validation failed", "id is required for update")
	}

	existing, ok, err := s.st.Get(ctx, p.GetID())
	if err != nil {
		slog.Warn("record lookup failed", "id", p.GetID(), "err", err)
		return model.FailDocument[T]("failed to load record", err.Error())
	}
	if !ok {
		return model.FailDocument[T](apperr.ErrNotFound.Error())
	}

	ep := P(&existing)
	p.SetCreatedAt(ep.GetCreatedAt())
	p.SetUpdatedAt(time.Now().UTC())

	if err := p.Validate(); err != nil {
		return model.FailDocument[T]("validation failed", err.Error())
	}
	if err := s.st.Put(ctx, p.GetID(), rec); err != nil {
		slog.Warn("record update failed", "id", p.GetID(), "err", err)
		return model.FailDocument[T]("failed to store record", err.Error())
	}
	return model.OKDocument("record updated", &rec)
}

// GetByID fetches a record. A missing id is a successful empty result, not
// an error — existence checks need no error handling.
func (s *Service[T, P]) GetByID(ctx context.Context, id string) model.GetDocumentResult[T] {
	if id == "" {
		return model.FailDocument[T]("validation failed", "id is required")
	}
	doc, ok, err := s.st.Get(ctx, id)
	if err != nil {
		slog.Warn("record lookup failed", "id", id, "err", err)
		return model.FailDocument[T]("failed to load record", err.Error())
	}
	if !ok {
		return model.OKDocument[T]("record not found", nil)
	}
	return model.OKDocument("record found", &doc)
}

// DeleteByID removes a record. Deleting an id that is already gone still
// succeeds — callers never need to special-case "already deleted".
func (s *Service[T, P]) DeleteByID(ctx context.Context, id string) model.AppResult {
	if id == "" {
		return model.FailResult("validation failed", "id is required")
	}
	if err := s.st.Delete(ctx, id); err != nil {
		slog.Warn("record delete failed", "id", id, "err", err)
		return model.FailResult("failed to delete record", err.Error())
	}
	return model.OKResult("record deleted")
}
