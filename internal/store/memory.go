package store

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/mimir-ai/pdfchat/internal/model"
)

// MemoryRegistry keeps per-user indexes in a mutex-guarded map and
// searches them by brute-force cosine similarity. With one document per
// user the candidate set stays small enough that no ANN structure is
// needed.
type MemoryRegistry struct {
	mu      sync.RWMutex
	indexes map[int]*memoryIndex
}

// chunks[i] pairs with vectors[i].
type memoryIndex struct {
	chunks  []model.Chunk
	vectors [][]float32
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{indexes: make(map[int]*memoryIndex)}
}

func (r *MemoryRegistry) Replace(_ context.Context, userID int, chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	idx := &memoryIndex{
		chunks:  append([]model.Chunk(nil), chunks...),
		vectors: append([][]float32(nil), vectors...),
	}
	r.mu.Lock()
	r.indexes[userID] = idx
	r.mu.Unlock()
	return nil
}

func (r *MemoryRegistry) Search(_ context.Context, userID int, vector []float32, topK int) ([]model.Chunk, error) {
	r.mu.RLock()
	idx, ok := r.indexes[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if topK <= 0 {
		topK = 5
	}

	type scored struct {
		i     int
		score float64
	}
	scores := make([]scored, len(idx.vectors))
	for i, v := range idx.vectors {
		scores[i] = scored{i: i, score: cosine(v, vector)}
	}
	sort.Slice(scores, func(a, b int) bool { return scores[a].score > scores[b].score })

	if topK > len(scores) {
		topK = len(scores)
	}
	out := make([]model.Chunk, 0, topK)
	for _, s := range scores[:topK] {
		out = append(out, idx.chunks[s.i])
	}
	return out, nil
}

func (r *MemoryRegistry) Has(_ context.Context, userID int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.indexes[userID]
	return ok, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
