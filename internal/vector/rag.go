package vector

import "context"

// RAGSystem composes an Embeddings capability with a VectorStore so
// callers can index and query raw text without handling vectors
// themselves.
type RAGSystem struct {
	embeddings Embeddings
	store      *VectorStore
}

// NewRAGSystem returns a RAGSystem over the given Embeddings and
// VectorStore.
func NewRAGSystem(embeddings Embeddings, store *VectorStore) *RAGSystem {
	return &RAGSystem{embeddings: embeddings, store: store}
}

// Index embeds text and upserts it with the given metadata, returning
// the document ID. An empty id lets the store generate one.
func (r *RAGSystem) Index(ctx context.Context, id, text string, metadata map[string]string) (string, error) {
	vec, err := r.embeddings.Embed(ctx, text)
	if err != nil {
		return "", err
	}
	return r.store.Upsert(ctx, Document{ID: id, Content: text, Vector: vec, Metadata: metadata})
}

// Query embeds text and returns the top-k most similar indexed
// documents.
func (r *RAGSystem) Query(ctx context.Context, text string, topK int) ([]SearchResult, error) {
	vec, err := r.embeddings.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return r.store.Search(ctx, vec, topK)
}

// Store exposes the underlying VectorStore for callers that also need
// direct vector operations (Delete, Count, Clear).
func (r *RAGSystem) Store() *VectorStore { return r.store }
