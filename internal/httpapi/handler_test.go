package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/michaelprosario/career-catalyst/internal/aggregator"
	"github.com/michaelprosario/career-catalyst/internal/httpapi"
	"github.com/michaelprosario/career-catalyst/internal/lifecycle"
	"github.com/michaelprosario/career-catalyst/internal/model"
	"github.com/michaelprosario/career-catalyst/internal/records"
	"github.com/michaelprosario/career-catalyst/internal/search"
	"github.com/michaelprosario/career-catalyst/internal/store"
)

func newTestMux(t *testing.T) (*http.ServeMux, *records.Service[model.UserOpportunity, *model.UserOpportunity], store.Store[model.UserOpportunity]) {
	t.Helper()
	oppStore := store.NewMemory[model.Opportunity]()
	userStore := store.NewMemory[model.UserOpportunity]()
	oppRecords := records.NewService[model.Opportunity, *model.Opportunity](oppStore)
	userRecords := records.NewService[model.UserOpportunity, *model.UserOpportunity](userStore)
	engine := search.NewEngine(oppStore, userStore)
	transitions := lifecycle.NewService(userRecords, nil)
	pipeline := aggregator.NewPipeline(nil, userRecords, userStore, nil)

	mux := http.NewServeMux()
	httpapi.NewHandler(engine, oppRecords, userRecords, transitions, pipeline).RegisterRoutes(mux)
	return mux, userRecords, userStore
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func seedTracked(t *testing.T, rec *records.Service[model.UserOpportunity, *model.UserOpportunity], userID string) model.UserOpportunity {
	t.Helper()
	res := rec.Add(context.Background(), model.UserOpportunity{
		UserID: userID,
		Posting: model.Posting{
			Title:   "Backend Engineer",
			Company: "Acme",
		},
	})
	if !res.Success {
		t.Fatalf("seed failed: %s %v", res.Message, res.Errors)
	}
	return *res.Document
}

func TestUserOpportunityRoutes_RequireUserHeader(t *testing.T) {
	mux, _, _ := newTestMux(t)
	rr := doJSON(t, mux, http.MethodGet, "/user-opportunities/some-id", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without x-user-id", rr.Code)
	}
}

func TestUserOpportunityRoutes_OwnerSeesRecord(t *testing.T) {
	mux, rec, _ := newTestMux(t)
	tracked := seedTracked(t, rec, "alice")

	rr := doJSON(t, mux, http.MethodGet, "/user-opportunities/"+tracked.ID, "alice", "")
	var res model.GetDocumentResult[model.UserOpportunity]
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success || res.Document == nil || res.Document.Title != "Backend Engineer" {
		t.Fatalf("owner could not fetch own record: %+v", res)
	}
}

// A record owned by someone else must behave exactly like a missing id on
// every per-record route.
func TestUserOpportunityRoutes_ForeignRecordIsInvisible(t *testing.T) {
	mux, rec, userStore := newTestMux(t)
	tracked := seedTracked(t, rec, "alice")
	ctx := context.Background()

	// GET: success with no document, same as an unknown id.
	rr := doJSON(t, mux, http.MethodGet, "/user-opportunities/"+tracked.ID, "mallory", "")
	var got model.GetDocumentResult[model.UserOpportunity]
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Success {
		t.Error("foreign GET should mirror a missing id (success, no document)")
	}
	if got.Document != nil {
		t.Fatalf("foreign GET leaked the record: %+v", got.Document)
	}

	// Status transition: fails, record untouched.
	rr = doJSON(t, mux, http.MethodPost, "/user-opportunities/"+tracked.ID+"/status", "mallory", `{"newStatus":"APPLIED"}`)
	var moved model.GetDocumentResult[model.UserOpportunity]
	if err := json.Unmarshal(rr.Body.Bytes(), &moved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if moved.Success {
		t.Error("foreign status transition must fail")
	}

	// PUT: fails.
	rr = doJSON(t, mux, http.MethodPut, "/user-opportunities/"+tracked.ID, "mallory", `{"title":"Hijacked","company":"Evil Corp"}`)
	var put model.GetDocumentResult[model.UserOpportunity]
	if err := json.Unmarshal(rr.Body.Bytes(), &put); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if put.Success {
		t.Error("foreign update must fail")
	}

	// DELETE: no-op success, record still stored.
	rr = doJSON(t, mux, http.MethodDelete, "/user-opportunities/"+tracked.ID, "mallory", "")
	var del model.AppResult
	if err := json.Unmarshal(rr.Body.Bytes(), &del); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !del.Success {
		t.Error("foreign delete should be the same no-op success as a missing id")
	}

	stored, ok, err := userStore.Get(ctx, tracked.ID)
	if err != nil || !ok {
		t.Fatalf("record vanished after foreign requests: ok=%v err=%v", ok, err)
	}
	if stored.ApplicationStatus != model.StatusSaved || stored.Title != "Backend Engineer" || stored.UserID != "alice" {
		t.Errorf("record mutated by foreign requests: %+v", stored)
	}
}

func TestUserOpportunityRoutes_UpdateCannotReassignOwner(t *testing.T) {
	mux, rec, userStore := newTestMux(t)
	tracked := seedTracked(t, rec, "alice")

	rr := doJSON(t, mux, http.MethodPut, "/user-opportunities/"+tracked.ID, "alice",
		`{"title":"Backend Engineer","company":"Acme","applicationStatus":"SAVED","userId":"mallory"}`)
	var res model.GetDocumentResult[model.UserOpportunity]
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Success {
		t.Fatalf("owner update failed: %s %v", res.Message, res.Errors)
	}

	stored, _, _ := userStore.Get(context.Background(), tracked.ID)
	if stored.UserID != "alice" {
		t.Errorf("update reassigned ownership to %q", stored.UserID)
	}
}
