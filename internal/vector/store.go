package vector

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"go.opentelemetry.io/otel/trace"

	"github.com/aldenhollow/agentforest/internal/errs"
)

// Document is one payload handed to VectorStore.Upsert. ID is
// generated if empty.
type Document struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata map[string]string
}

// SearchResult is one ranked hit returned by VectorStore.Search.
type SearchResult struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float32
}

// entry is the store's own bookkeeping record for a document,
// carrying its insertion sequence so Search can guarantee spec.md §4.6's
// ordering contract regardless of what the backing chromem-go
// collection reports internally.
type entry struct {
	doc Document
	seq uint64
}

// identityEmbed is passed to chromem-go in place of a real embedding
// function: every vector in this package is pre-computed by an
// Embeddings implementation, so chromem-go is never asked to turn
// text into a vector itself.
func identityEmbed(_ context.Context, _ string) ([]float32, error) {
	return nil, fmt.Errorf("vector: identity embedding function invoked; vectors must be pre-computed")
}

// VectorStore is an in-process embedding index backed by
// philippgille/chromem-go for storage, with cosine-similarity ranking
// recomputed in Go so that the zero-vector and tie-break conventions
// of spec.md §4.6 hold regardless of chromem-go's internal scoring.
type VectorStore struct {
	mu      sync.RWMutex
	col     *chromem.Collection
	entries map[string]*entry
	counter uint64
	tracer  trace.Tracer
}

// Option configures a VectorStore.
type Option func(*VectorStore)

// WithTracer attaches an OpenTelemetry tracer. A nil tracer (the
// default) disables span emission entirely.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *VectorStore) { s.tracer = tracer }
}

// NewVectorStore creates a fresh, empty collection named name.
func NewVectorStore(name string, opts ...Option) (*VectorStore, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(name, nil, identityEmbed)
	if err != nil {
		return nil, fmt.Errorf("vector: create collection %q: %w", name, err)
	}
	s := &VectorStore{col: col, entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *VectorStore) startSpan(ctx context.Context, name string) (context.Context, func()) {
	if s.tracer == nil {
		return ctx, func() {}
	}
	ctx, span := s.tracer.Start(ctx, name)
	return ctx, func() { span.End() }
}

// Upsert stores doc, generating an ID if doc.ID is empty, and returns
// the ID used. Upserting an existing ID replaces its content, vector,
// and metadata but keeps its original insertion order for tie-break
// purposes.
func (s *VectorStore) Upsert(ctx context.Context, doc Document) (string, error) {
	ctx, end := s.startSpan(ctx, "vector.Upsert")
	defer end()

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	meta := make(map[string]string, len(doc.Metadata))
	for k, v := range doc.Metadata {
		meta[k] = v
	}

	chromemDoc := chromem.Document{
		ID:        doc.ID,
		Content:   doc.Content,
		Metadata:  meta,
		Embedding: doc.Vector,
	}
	if err := s.col.AddDocuments(ctx, []chromem.Document{chromemDoc}, runtime.NumCPU()); err != nil {
		return "", fmt.Errorf("vector: upsert %q: %w", doc.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seq, existing := s.counter, false
	if prev, ok := s.entries[doc.ID]; ok {
		seq, existing = prev.seq, true
	}
	if !existing {
		s.counter++
	}
	s.entries[doc.ID] = &entry{doc: doc, seq: seq}
	return doc.ID, nil
}

// Search returns the top-k documents by cosine similarity to query,
// strictly descending by score with insertion-order tie-breaks. A
// document whose stored vector is the zero vector, or a query that is
// itself the zero vector, never surfaces: cosine is undefined there
// and the convention is to score (and exclude) it as 0. A non-zero
// document orthogonal to the query is still returned, with score 0.
// topK is clamped to the number of stored documents.
func (s *VectorStore) Search(ctx context.Context, query []float32, topK int) ([]SearchResult, error) {
	_, end := s.startSpan(ctx, "vector.Search")
	defer end()

	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	candidates := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		candidates = append(candidates, e)
	}
	s.mu.RUnlock()

	if isZero(query) {
		return nil, nil
	}

	scored := make([]SearchResult, 0, len(candidates))
	seqs := make(map[string]uint64, len(candidates))
	for _, c := range candidates {
		if isZero(c.doc.Vector) {
			continue
		}
		score := cosine(query, c.doc.Vector)
		scored = append(scored, SearchResult{
			ID:       c.doc.ID,
			Content:  c.doc.Content,
			Metadata: c.doc.Metadata,
			Score:    score,
		})
		seqs[c.doc.ID] = c.seq
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return seqs[scored[i].ID] < seqs[scored[j].ID]
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}
	return scored, nil
}

// Delete removes a document by ID. Deleting an unknown ID is a no-op,
// matching chromem-go's own delete semantics.
func (s *VectorStore) Delete(ctx context.Context, id string) error {
	_, end := s.startSpan(ctx, "vector.Delete")
	defer end()

	if err := s.col.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("vector: delete %q: %w", id, err)
	}
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Count reports the number of stored documents.
func (s *VectorStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every stored document. After Clear, Count returns 0
// and Search returns no results for any query.
func (s *VectorStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.col.Delete(ctx, nil, nil, id); err != nil {
			return fmt.Errorf("vector: clear: delete %q: %w", id, err)
		}
	}

	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.counter = 0
	s.mu.Unlock()
	return nil
}

// cosine computes cosine similarity between two equal-or-unequal
// length float32 vectors, truncating to the shorter length. A zero
// norm on either side yields 0 rather than NaN.
func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// DimensionMismatch wraps errs.ErrDimensionMismatch for an Embeddings
// implementation that asserts a fixed output width.
func DimensionMismatch(got, want int) error {
	return errs.New(errs.InvalidInput, fmt.Sprintf("embedding dimension %d, want %d", got, want), errs.ErrDimensionMismatch)
}
