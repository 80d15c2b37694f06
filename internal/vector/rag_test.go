package vector

import (
	"context"
	"testing"
)

func TestRAGSystem_IndexAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := mustStore(t)
	rag := NewRAGSystem(NewHashEmbeddings(32), store)

	if _, err := rag.Index(ctx, "doc1", "the quick brown fox", nil); err != nil {
		t.Fatalf("Index doc1: %v", err)
	}
	if _, err := rag.Index(ctx, "doc2", "completely unrelated text about oceans", nil); err != nil {
		t.Fatalf("Index doc2: %v", err)
	}

	results, err := rag.Query(ctx, "the quick brown fox", 2)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(results) == 0 || results[0].ID != "doc1" {
		t.Fatalf("expected doc1 to rank first for an identical query, got %v", ids(results))
	}
}

func TestRAGSystem_StoreExposesDirectOperations(t *testing.T) {
	ctx := context.Background()
	store := mustStore(t)
	rag := NewRAGSystem(NewHashEmbeddings(16), store)

	if _, err := rag.Index(ctx, "a", "hello world", nil); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if rag.Store().Count() != 1 {
		t.Fatalf("expected Store().Count() == 1, got %d", rag.Store().Count())
	}
	if err := rag.Store().Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if rag.Store().Count() != 0 {
		t.Fatalf("expected Store().Count() == 0 after Clear, got %d", rag.Store().Count())
	}
}
