package vector

import (
	"context"
	"testing"
)

func mustStore(t *testing.T) *VectorStore {
	t.Helper()
	s, err := NewVectorStore("test")
	if err != nil {
		t.Fatalf("NewVectorStore returned error: %v", err)
	}
	return s
}

func TestVectorStore_SearchOrdersByDescendingScore(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)

	if _, err := s.Upsert(ctx, Document{ID: "a", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "b", Vector: []float32{0.9, 0.1}}); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "c", Vector: []float32{0, 1}}); err != nil {
		t.Fatalf("Upsert c: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != "a" || results[1].ID != "b" || results[2].ID != "c" {
		t.Fatalf("expected order [a b c], got %v", ids(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Fatalf("scores not monotonically non-increasing: %v", scores(results))
		}
	}
}

func TestVectorStore_TopKClampedToCount(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "only", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 50)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected topK clamped to 1 result, got %d", len(results))
	}
}

func TestVectorStore_ZeroQueryVectorYieldsNoResults(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "a", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{0, 0}, 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for a zero query vector, got %v", ids(results))
	}
}

func TestVectorStore_ZeroStoredVectorNeverSurfaces(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "zero", Vector: []float32{0, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "real", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "real" {
		t.Fatalf("expected only the non-zero document to surface, got %v", ids(results))
	}
}

func TestVectorStore_TiesBrokenByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "first", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "second", Vector: []float32{2, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 || results[0].ID != "first" || results[1].ID != "second" {
		t.Fatalf("expected identical-score ties broken by insertion order, got %v", ids(results))
	}
}

func TestVectorStore_UpsertReplacesKeepingOriginalInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "a", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "b", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	if _, err := s.Upsert(ctx, Document{ID: "a", Content: "updated", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("re-upsert a: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if results[0].ID != "a" || results[0].Content != "updated" {
		t.Fatalf("expected a's insertion slot preserved with refreshed content, got %+v", results[0])
	}
}

func TestVectorStore_DeleteRemovesDocument(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	if _, err := s.Upsert(ctx, Document{ID: "a", Vector: []float32{1, 0}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("expected count 0 after delete, got %d", s.Count())
	}
}

func TestVectorStore_ClearEmptiesStoreAndSearch(t *testing.T) {
	ctx := context.Background()
	s := mustStore(t)
	for i, id := range []string{"a", "b", "c"} {
		v := []float32{float32(i + 1), 0}
		if _, err := s.Upsert(ctx, Document{ID: id, Vector: v}); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if got := s.Count(); got != 0 {
		t.Fatalf("expected count 0 after Clear, got %d", got)
	}
	results, err := s.Search(ctx, []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after Clear, got %v", ids(results))
	}
}

func TestCosine_OrthogonalVectorsScoreZero(t *testing.T) {
	if got := cosine([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("expected orthogonal vectors to score 0, got %v", got)
	}
}

func TestCosine_IdenticalVectorsScoreOne(t *testing.T) {
	got := cosine([]float32{3, 4}, []float32{3, 4})
	if got < 0.999999 || got > 1.000001 {
		t.Fatalf("expected identical vectors to score ~1, got %v", got)
	}
}

func ids(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func scores(results []SearchResult) []float32 {
	out := make([]float32, len(results))
	for i, r := range results {
		out[i] = r.Score
	}
	return out
}
