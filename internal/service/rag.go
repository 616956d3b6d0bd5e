package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mimir-ai/pdfchat/internal/config"
	"github.com/mimir-ai/pdfchat/internal/store"
	"github.com/mimir-ai/pdfchat/internal/util"
)

// Generator produces an answer from a question and retrieved context.
// Satisfied by LLMClient.
type Generator interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// RAGService answers questions from a user's ingested document.
type RAGService struct {
	registry store.Registry
	embedder Embedder
	gen      Generator
	log      *slog.Logger
	topK     int
}

func NewRAGService(registry store.Registry, embedder Embedder, gen Generator, cfg *config.Config, log *slog.Logger) *RAGService {
	return &RAGService{
		registry: registry,
		embedder: embedder,
		gen:      gen,
		log:      log,
		topK:     cfg.TopK,
	}
}

// Ask retrieves the user's most relevant chunks for the question and
// feeds them to the generator. The index check comes first, so a user
// without an uploaded document never triggers an embedding or model
// call.
func (s *RAGService) Ask(ctx context.Context, userID int, question string) (string, error) {
	ok, err := s.registry.Has(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if !ok {
		return "", ErrNoIndex
	}

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	chunks, err := s.registry.Search(ctx, userID, vec, s.topK)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	var b strings.Builder
	for _, ch := range chunks {
		b.WriteString(fmt.Sprintf("[%s]\n%s\n\n", ch.ID, ch.Text))
	}

	answer, err := s.gen.Answer(ctx, question, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	s.log.Info("answer generated", "user_id", userID, "retrieved", len(chunks), "preview", util.TruncateRunes(answer, 80))
	return answer, nil
}
