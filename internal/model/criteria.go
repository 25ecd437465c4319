package model

import "time"

// SearchCriteria describes an opportunity filter. Every field is optional;
// an absent field constrains nothing. Pointer fields distinguish "unset"
// from a legitimate zero value (IsRemote=false, SalaryMin=0).
type SearchCriteria struct {
	Keywords    string           `json:"keywords,omitempty"`
	Location    string           `json:"location,omitempty"`
	Type        *OpportunityType `json:"type,omitempty"`
	IsRemote    *bool            `json:"isRemote,omitempty"`
	SalaryMin   *float64         `json:"salaryMin,omitempty"`
	SalaryMax   *float64         `json:"salaryMax,omitempty"`
	PostedAfter *time.Time       `json:"postedAfter,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	Offset      int              `json:"offset,omitempty"`
}
