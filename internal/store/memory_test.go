package store_test

import (
	"context"
	"testing"

	"github.com/michaelprosario/career-catalyst/internal/store"
)

type doc struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Count int      `json:"count"`
}

func TestMemory_PutGetRoundTrip(t *testing.T) {
	m := store.NewMemory[doc]()
	ctx := context.Background()

	if err := m.Put(ctx, "a", doc{Name: "first", Tags: []string{"x"}, Count: 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := m.Get(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got.Name != "first" || got.Count != 3 || len(got.Tags) != 1 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestMemory_GetMissingIsNotAnError(t *testing.T) {
	m := store.NewMemory[doc]()
	_, ok, err := m.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get on missing id must not error: %v", err)
	}
	if ok {
		t.Error("Get on missing id must report ok=false")
	}
}

func TestMemory_RetrievedDocumentIsIsolated(t *testing.T) {
	m := store.NewMemory[doc]()
	ctx := context.Background()
	if err := m.Put(ctx, "a", doc{Name: "first", Tags: []string{"x"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, _ := m.Get(ctx, "a")
	got.Tags[0] = "mutated"
	got.Name = "mutated"

	again, _, _ := m.Get(ctx, "a")
	if again.Name != "first" || again.Tags[0] != "x" {
		t.Error("mutating a retrieved document must not touch the stored copy")
	}
}

func TestMemory_DeleteIsIdempotent(t *testing.T) {
	m := store.NewMemory[doc]()
	ctx := context.Background()
	_ = m.Put(ctx, "a", doc{Name: "first"})

	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("second Delete must be a no-op: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Error("document should be gone after delete")
	}
}

func TestMemory_ScanWithPredicate(t *testing.T) {
	m := store.NewMemory[doc]()
	ctx := context.Background()
	_ = m.Put(ctx, "a", doc{Name: "keep", Count: 1})
	_ = m.Put(ctx, "b", doc{Name: "drop", Count: 2})
	_ = m.Put(ctx, "c", doc{Name: "keep", Count: 3})

	out, err := m.Scan(ctx, func(d doc) bool { return d.Name == "keep" })
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("scan matched %d documents, want 2", len(out))
	}
}

func TestMemory_ScanNilPredicateMatchesAll(t *testing.T) {
	m := store.NewMemory[doc]()
	ctx := context.Background()
	_ = m.Put(ctx, "a", doc{})
	_ = m.Put(ctx, "b", doc{})

	out, err := m.Scan(ctx, nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("nil predicate matched %d documents, want 2", len(out))
	}
}
