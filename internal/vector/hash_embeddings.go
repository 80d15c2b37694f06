package vector

import (
	"context"
	"hash/fnv"
)

// HashEmbeddings is a deterministic, dependency-free Embeddings
// implementation for tests and local demos: it buckets token hashes
// into a fixed-width vector. It is not a semantic embedding and is
// never used for anything production traffic depends on.
type HashEmbeddings struct {
	dim int
}

// NewHashEmbeddings returns a HashEmbeddings producing vectors of
// width dim.
func NewHashEmbeddings(dim int) *HashEmbeddings {
	if dim <= 0 {
		dim = 64
	}
	return &HashEmbeddings{dim: dim}
}

func (h *HashEmbeddings) Dimension() int { return h.dim }

func (h *HashEmbeddings) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)
	token := make([]byte, 0, 16)
	flush := func() {
		if len(token) == 0 {
			return
		}
		hasher := fnv.New32a()
		hasher.Write(token)
		vec[int(hasher.Sum32())%h.dim]++
		token = token[:0]
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' {
			flush()
			continue
		}
		token = append(token, c)
	}
	flush()
	return vec, nil
}
