// Package httpapi implements the JSON handlers for the opportunity service.
//
// All routes expect an x-user-id header forwarded by the gateway; per-record
// user-opportunity routes are scoped to that user, and a record owned by
// someone else is indistinguishable from a missing one. Handlers
// are a thin presentation adapter: requests are decoded, services do the
// work, and the resulting envelope is written back verbatim — failures
// travel in-band through the envelope's success flag, so service results
// are served with status 200. Only malformed requests get a 4xx.
//
// Routes:
//
//	GET    /opportunities/search                  → criteria search over the feed
//	POST   /opportunities                         → add a feed opportunity
//	GET    /opportunities/{id}                    → fetch one opportunity
//	PUT    /opportunities/{id}                    → update one opportunity
//	DELETE /opportunities/{id}                    → delete one opportunity
//	GET    /user-opportunities                    → caller's tracked records (criteria + status query)
//	POST   /user-opportunities                    → track a record directly
//	GET/PUT/DELETE /user-opportunities/{id}       → fetch / update / delete one record
//	POST   /user-opportunities/{id}/status        → application-status transition
//	POST   /user-opportunities/{id}/notes         → set free-text notes
//	POST   /search/aggregate                      → multi-board aggregate search
//	POST   /search/bookmark                       → bookmark a normalized hit
//	POST   /search/export                         → CSV snapshot of a hit list
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
	"github.com/michaelprosario/career-catalyst/internal/lifecycle"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/search"
)

// Handler holds shared dependencies.
type Handler struct {
	engine      *search.Engine
	opps        *records.Service[model.Opportunity, *model.Opportunity]
	userOpps    *records.Service[model.UserOpportunity, *model.UserOpportunity]
	transitions *lifecycle.Service
	pipeline    *aggregator.Pipeline
}

// NewHandler returns a configured Handler.
func NewHandler(
	engine *search.Engine,
	opps *records.Service[model.Opportunity, *model.Opportunity],
	userOpps *records.Service[model.UserOpportunity, *model.UserOpportunity],
	transitions *lifecycle.Service,
	pipeline *aggregator.Pipeline,
) *Handler {
	return &Handler{engine: engine, opps: opps, userOpps: userOpps, transitions: transitions, pipeline: pipeline}
}

// RegisterRoutes mounts all service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/opportunities", h.handleOpportunities)
	mux.HandleFunc("/opportunities/", h.handleOpportunityByID)
	mux.HandleFunc("/user-opportunities", h.handleUserOpportunities)
	mux.HandleFunc("/user-opportunities/", h.handleUserOpportunityAction)
	mux.HandleFunc("/search/aggregate", h.aggregateSearch)
	mux.HandleFunc("/search/bookmark", h.bookmark)
	mux.HandleFunc("/search/export", h.exportCSV)
}

// ─── Opportunities ───────────────────────────────────────────────────────────

func (h *Handler) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var opp model.Opportunity
		if err := json.NewDecoder(r.Body).Decode(&opp); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		jsonOK(w, h.opps.Add(r.Context(), opp))
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleOpportunityByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/opportunities/"), "/")

	// /opportunities/search is the criteria search, not an id.
	if rest == "search" {
		if r.Method != http.MethodGet {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonOK(w, h.engine.Opportunities(r.Context(), criteria))
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		jsonError(w, "invalid path", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		jsonOK(w, h.opps.GetByID(r.Context(), rest))
	case http.MethodPut:
		var opp model.Opportunity
		if err := json.NewDecoder(r.Body).Decode(&opp); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		opp.ID = rest
		jsonOK(w, h.opps.Update(r.Context(), opp))
	case http.MethodDelete:
		jsonOK(w, h.opps.DeleteByID(r.Context(), rest))
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ─── User opportunities ──────────────────────────────────────────────────────

func (h *Handler) handleUserOpportunities(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		criteria, err := criteriaFromQuery(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		var status *model.ApplicationStatus
		if s := r.URL.Query().Get("applicationStatus"); s != "" {
			parsed, err := model.ParseApplicationStatus(s)
			if err != nil {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}
			status = &parsed
		}
		jsonOK(w, h.engine.UserOpportunities(r.Context(), userID, criteria, status))
	case http.MethodPost:
		var rec model.UserOpportunity
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		rec.UserID = userID
		jsonOK(w, h.userOpps.Add(r.Context(), rec))
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleUserOpportunityAction handles /user-opportunities/{id} and
// /user-opportunities/{id}/status|notes.
func (h *Handler) handleUserOpportunityAction(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch len(parts) {
	case 2:
		h.userOpportunityByID(w, r, userID, parts[1])
	case 3:
		if r.Method != http.MethodPost {
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch parts[2] {
		case "status":
			h.transitionStatus(w, r, userID, parts[1])
		case "notes":
			h.updateNotes(w, r, userID, parts[1])
		default:
			jsonError(w, fmt.Sprintf("unknown action %q", parts[2]), http.StatusNotFound)
		}
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// userOpportunityByID serves the per-record CRUD routes. Records are scoped
// to the calling user: one owned by someone else is indistinguishable from a
// missing one.
func (h *Handler) userOpportunityByID(w http.ResponseWriter, r *http.Request, userID, id string) {
	got := h.userOpps.GetByID(r.Context(), id)
	if !got.Success {
		jsonOK(w, got)
		return
	}
	owned := got.Document != nil && got.Document.UserID == userID

	switch r.Method {
	case http.MethodGet:
		if !owned {
			jsonOK(w, model.OKDocument[model.UserOpportunity]("record not found", nil))
			return
		}
		jsonOK(w, got)
	case http.MethodPut:
		if !owned {
			jsonOK(w, model.FailDocument[model.UserOpportunity]("record not found"))
			return
		}
		var rec model.UserOpportunity
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		rec.ID = id
		rec.UserID = userID
		jsonOK(w, h.userOpps.Update(r.Context(), rec))
	case http.MethodDelete:
		if !owned {
			// Same no-op success as deleting an id that never existed.
			jsonOK(w, model.OKResult("record deleted"))
			return
		}
		jsonOK(w, h.userOpps.DeleteByID(r.Context(), id))
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) transitionStatus(w http.ResponseWriter, r *http.Request, userID, id string) {
	var body struct {
		NewStatus string `json:"newStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		jsonError(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}
	jsonOK(w, h.transitions.TransitionStatus(r.Context(), userID, id, model.ApplicationStatus(body.NewStatus)))
}

func (h *Handler) updateNotes(w http.ResponseWriter, r *http.Request, userID, id string) {
	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	jsonOK(w, h.transitions.UpdateNotes(r.Context(), userID, id, body.Notes))
}

// ─── Aggregate search ────────────────────────────────────────────────────────

func (h *Handler) aggregateSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		SearchTerm    string `json:"searchTerm"`
		Location      string `json:"location"`
		ResultsWanted int    `json:"resultsWanted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	jsonOK(w, h.pipeline.AggregateSearch(r.Context(), body.SearchTerm, body.Location, body.ResultsWanted))
}

func (h *Handler) bookmark(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}
	var hit aggregator.NormalizedHit
	if err := json.NewDecoder(r.Body).Decode(&hit); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	jsonOK(w, h.pipeline.Bookmark(r.Context(), hit, userID))
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Hits []aggregator.NormalizedHit `json:"hits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	csvText, err := aggregator.ExportCSV(body.Hits)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvText))
}

// ─── Query parsing ───────────────────────────────────────────────────────────

// criteriaFromQuery builds SearchCriteria from URL query parameters.
// Absent parameters leave the corresponding criteria field unset.
func criteriaFromQuery(r *http.Request) (model.SearchCriteria, error) {
	q := r.URL.Query()
	c := model.SearchCriteria{
		Keywords: q.Get("keywords"),
		Location: q.Get("location"),
	}

	if s := q.Get("type"); s != "" {
		t, err := model.ParseOpportunityType(s)
		if err != nil {
			return c, err
		}
		c.Type = &t
	}
	if s := q.Get("isRemote"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return c, fmt.Errorf("isRemote must be a boolean, got %q", s)
		}
		c.IsRemote = &v
	}
	if s := q.Get("salaryMin"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c, fmt.Errorf("salaryMin must be a number, got %q", s)
		}
		c.SalaryMin = &v
	}
	if s := q.Get("salaryMax"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return c, fmt.Errorf("salaryMax must be a number, got %q", s)
		}
		c.SalaryMax = &v
	}
	if s := q.Get("postedAfter"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c, fmt.Errorf("postedAfter must be RFC 3339, got %q", s)
		}
		c.PostedAfter = &t
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return c, fmt.Errorf("limit must be a non-negative integer, got %q", s)
		}
		c.Limit = v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return c, fmt.Errorf("offset must be a non-negative integer, got %q", s)
		}
		c.Offset = v
	}
	return c, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
