package store

import (
	"context"
	"errors"

	"github.com/mimir-ai/pdfchat/internal/model"
)

// ErrNotFound is returned by Search when the user has no index.
var ErrNotFound = errors.New("no index for user")

// Registry maps a user id to that user's similarity-searchable
// collection of (chunk, embedding) pairs. Each user holds at most one
// document: Replace swaps the entire index, an older one is discarded.
type Registry interface {
	Replace(ctx context.Context, userID int, chunks []model.Chunk, vectors [][]float32) error
	Search(ctx context.Context, userID int, vector []float32, topK int) ([]model.Chunk, error)
	Has(ctx context.Context, userID int) (bool, error)
}
