// Package vector implements the minimal retrieval substrate of
// spec.md §4.6: an Embeddings capability, a VectorStore backed by
// philippgille/chromem-go for storage with cosine-similarity search
// computed the way the teacher's memorysearch package does it, and a
// RAGSystem composing the two.
package vector

import "context"

// Embeddings turns text into a fixed-dimension vector. The wire
// protocol to an actual embedding model is out of scope; callers
// supply an implementation backed by whatever transport they like.
type Embeddings interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
