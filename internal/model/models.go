// Package model defines the domain entities shared across the service:
// job opportunities, a user's tracked opportunities, and the value objects
// hanging off them. Entities are plain structs with JSON tags matching the
// shapes stored in the document tables and returned to clients.
package model

import (
	"fmt"
	"time"

	"github.com/michaelprosario/career-catalyst/internal/apperr"
)

// OpportunityType is the contract type of a posting.
type OpportunityType string

const (
	TypeFullTime   OpportunityType = "FULL_TIME"
	TypePartTime   OpportunityType = "PART_TIME"
	TypeContract   OpportunityType = "CONTRACT"
	TypeFreelance  OpportunityType = "FREELANCE"
	TypeInternship OpportunityType = "INTERNSHIP"
	TypeTemporary  OpportunityType = "TEMPORARY"
)

// ParseOpportunityType converts a raw string to an OpportunityType,
// returning an error for unknown values.
func ParseOpportunityType(s string) (OpportunityType, error) {
	t := OpportunityType(s)
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeFreelance, TypeInternship, TypeTemporary:
		return t, nil
	}
	return "", fmt.Errorf("unknown opportunity type %q", s)
}

// OpportunityStatus is the lifecycle of the posting itself, independent of
// any user's application.
type OpportunityStatus string

const (
	OpportunityActive    OpportunityStatus = "ACTIVE"
	OpportunityExpired   OpportunityStatus = "EXPIRED"
	OpportunityFilled    OpportunityStatus = "FILLED"
	OpportunityCancelled OpportunityStatus = "CANCELLED"
)

// ParseOpportunityStatus converts a raw string to an OpportunityStatus.
func ParseOpportunityStatus(s string) (OpportunityStatus, error) {
	st := OpportunityStatus(s)
	switch st {
	case OpportunityActive, OpportunityExpired, OpportunityFilled, OpportunityCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown opportunity status %q", s)
}

// ApplicationStatus tracks a user's application through the pipeline.
// The transition rules live in the lifecycle package.
type ApplicationStatus string

const (
	StatusSaved        ApplicationStatus = "SAVED"
	StatusApplied      ApplicationStatus = "APPLIED"
	StatusScreening    ApplicationStatus = "SCREENING"
	StatusInterviewing ApplicationStatus = "INTERVIEWING"
	StatusOffer        ApplicationStatus = "OFFER"
	StatusAccepted     ApplicationStatus = "ACCEPTED"
	StatusRejected     ApplicationStatus = "REJECTED"
	StatusWithdrawn    ApplicationStatus = "WITHDRAWN"
)

// ParseApplicationStatus converts a raw string to an ApplicationStatus,
// returning an error for unknown values. Matching is case-sensitive.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusSaved, StatusApplied, StatusScreening, StatusInterviewing,
		StatusOffer, StatusAccepted, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// SalaryRange is the advertised compensation band on a posting.
type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	Period   string  `json:"period"` // HOURLY | DAILY | WEEKLY | MONTHLY | YEARLY
}

var salaryPeriods = map[string]bool{
	"HOURLY": true, "DAILY": true, "WEEKLY": true, "MONTHLY": true, "YEARLY": true,
}

// Validate enforces the range invariants: non-negative bounds, min ≤ max,
// and a known period when one is supplied.
func (r SalaryRange) Validate() error {
	if r.Min < 0 || r.Max < 0 {
		return apperr.Validation("salary amounts must be non-negative")
	}
	if r.Min > r.Max {
		return apperr.Validation("salary min %.2f exceeds max %.2f", r.Min, r.Max)
	}
	if r.Period != "" && !salaryPeriods[r.Period] {
		return apperr.Validation("unknown salary period %q", r.Period)
	}
	return nil
}

// Posting carries the fields shared by a canonical Opportunity and the
// denormalized copy embedded in a UserOpportunity at bookmark time.
type Posting struct {
	Title        string            `json:"title"`
	Company      string            `json:"company"`
	Description  string            `json:"description"`
	Requirements []string          `json:"requirements,omitempty"`
	Type         OpportunityType   `json:"type,omitempty"`
	Status       OpportunityStatus `json:"status"`
	Location     string            `json:"location,omitempty"`
	IsRemote     bool              `json:"isRemote"`
	SalaryRange  *SalaryRange      `json:"salaryRange,omitempty"`
	PostedAt     time.Time         `json:"postedAt"`
	ExpiresAt    *time.Time        `json:"expiresAt,omitempty"`
	SourceURL    string            `json:"sourceUrl,omitempty"`
}

// IsExpired reports whether the posting's expiry date has passed.
// Postings without an expiry never expire.
func (p Posting) IsExpired() bool {
	if p.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*p.ExpiresAt)
}

// IsActive reports whether the posting is still open: status ACTIVE and
// not past its expiry.
func (p Posting) IsActive() bool {
	return p.Status == OpportunityActive && !p.IsExpired()
}

// Opportunity is a canonical external job posting.
type Opportunity struct {
	ID string `json:"id"`
	Posting
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (o *Opportunity) GetID() string            { return o.ID }
func (o *Opportunity) SetID(id string)          { o.ID = id }
func (o *Opportunity) GetCreatedAt() time.Time  { return o.CreatedAt }
func (o *Opportunity) SetCreatedAt(t time.Time) { o.CreatedAt = t }
func (o *Opportunity) SetUpdatedAt(t time.Time) { o.UpdatedAt = t }

// SetDefaults fills fields a caller may legitimately omit.
func (o *Opportunity) SetDefaults() {
	if o.Status == "" {
		o.Status = OpportunityActive
	}
	if o.PostedAt.IsZero() {
		o.PostedAt = time.Now().UTC()
	}
}

// Validate checks the required posting fields and the salary invariant.
func (o *Opportunity) Validate() error {
	if o.Title == "" {
		return apperr.Validation("title is required")
	}
	if o.Company == "" {
		return apperr.Validation("company is required")
	}
	if o.Description == "" {
		return apperr.Validation("description is required")
	}
	if o.Type != "" {
		if _, err := ParseOpportunityType(string(o.Type)); err != nil {
			return err
		}
	}
	if o.SalaryRange != nil {
		if err := o.SalaryRange.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UserOpportunity is a user's tracked instance of a posting. The posting
// fields are denormalized at bookmark time so the record stays useful even
// after the source posting disappears.
type UserOpportunity struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	OpportunityID string `json:"opportunityId,omitempty"`
	Posting
	ApplicationStatus ApplicationStatus `json:"applicationStatus"`
	AppliedAt         *time.Time        `json:"appliedAt,omitempty"`
	ResolvedAt        *time.Time        `json:"resolvedAt,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	CoverLetterID     string            `json:"coverLetterId,omitempty"`
	ResumeID          string            `json:"resumeId,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (u *UserOpportunity) GetID() string            { return u.ID }
func (u *UserOpportunity) SetID(id string)          { u.ID = id }
func (u *UserOpportunity) GetCreatedAt() time.Time  { return u.CreatedAt }
func (u *UserOpportunity) SetCreatedAt(t time.Time) { u.CreatedAt = t }
func (u *UserOpportunity) SetUpdatedAt(t time.Time) { u.UpdatedAt = t }

// SetDefaults applies SAVED as the initial application status unless the
// caller supplied one (bookmark imports may carry a prior value).
func (u *UserOpportunity) SetDefaults() {
	if u.ApplicationStatus == "" {
		u.ApplicationStatus = StatusSaved
	}
	if u.Status == "" {
		u.Status = OpportunityActive
	}
	if u.PostedAt.IsZero() {
		u.PostedAt = time.Now().UTC()
	}
}

// Validate checks the required domain fields and the salary invariant.
func (u *UserOpportunity) Validate() error {
	if u.UserID == "" {
		return apperr.Validation("userId is required")
	}
	if u.Title == "" {
		return apperr.Validation("title is required")
	}
	if u.Company == "" {
		return apperr.Validation("company is required")
	}
	if _, err := ParseApplicationStatus(string(u.ApplicationStatus)); err != nil {
		return err
	}
	if u.Type != "" {
		if _, err := ParseOpportunityType(string(u.Type)); err != nil {
			return err
		}
	}
	if u.SalaryRange != nil {
		if err := u.SalaryRange.Validate(); err != nil {
			return err
		}
	}
	return nil
}
