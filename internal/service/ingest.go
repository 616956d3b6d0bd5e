package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mimir-ai/pdfchat/internal/config"
	"github.com/mimir-ai/pdfchat/internal/model"
	"github.com/mimir-ai/pdfchat/internal/pdf"
	"github.com/mimir-ai/pdfchat/internal/store"
	"github.com/mimir-ai/pdfchat/internal/user"
	"github.com/mimir-ai/pdfchat/internal/util"
)

const pdfContentType = "application/pdf"

// Embedder turns text into a vector. Satisfied by LLMClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// seam for tests: parsing a real PDF needs a real file
var extractPages = pdf.ExtractPages

// Ingestor builds a user's knowledge base from an uploaded PDF: save to
// a temp file, extract page text, chunk, embed, swap the result in as
// that user's index.
type Ingestor struct {
	users    *user.Store
	registry store.Registry
	embedder Embedder
	log      *slog.Logger

	chunkSize    int
	chunkOverlap int
	tmpDir       string
}

func NewIngestor(users *user.Store, registry store.Registry, embedder Embedder, cfg *config.Config, log *slog.Logger) *Ingestor {
	return &Ingestor{
		users:        users,
		registry:     registry,
		embedder:     embedder,
		log:          log,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		tmpDir:       cfg.TmpDir,
	}
}

// Ingest runs the upload pipeline and returns a confirmation message.
// A previous index for the user, if any, is discarded wholesale: one
// document per user, no merging. The registry is only written as the
// final step, so a failure partway leaves the old index intact.
func (ing *Ingestor) Ingest(ctx context.Context, userID int, filename, contentType string, data []byte) (string, error) {
	if _, ok := ing.users.FindByID(userID); !ok {
		return "", ErrUserNotFound
	}
	if contentType != pdfContentType {
		return "", ErrUnsupportedContentType
	}

	// Temp name is namespaced with a uuid and stripped to its base so a
	// crafted filename cannot traverse or collide.
	docName := filepath.Base(filename)
	tmpPath := filepath.Join(ing.tmpDir, uuid.NewString()+"__"+util.Timestamped(docName))
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	defer os.Remove(tmpPath)

	pages, err := extractPages(tmpPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	text := pdf.Sanitize(strings.Join(pages, "\n"))
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted from PDF", ErrProcessing)
	}

	parts := pdf.ChunkByWords(text, ing.chunkSize, ing.chunkOverlap)
	chunks := make([]model.Chunk, 0, len(parts))
	vectors := make([][]float32, 0, len(parts))
	for i, p := range parts {
		vec, err := ing.embedder.Embed(ctx, p)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		chunks = append(chunks, model.Chunk{ID: fmt.Sprintf("%s_chunk_%d", docName, i), Text: p})
		vectors = append(vectors, vec)
	}

	if err := ing.registry.Replace(ctx, userID, chunks, vectors); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	ing.log.Info("document ingested", "user_id", userID, "doc", docName, "pages", len(pages), "chunks", len(chunks))
	return fmt.Sprintf("%s was processed, %d chunks are ready for questions.", docName, len(chunks)), nil
}
