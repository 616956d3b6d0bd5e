package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/mimir-ai/pdfchat/internal/config"
)

// LLMClient talks to an OpenAI-compatible endpoint (OpenAI itself,
// LM Studio, anything speaking the same API) for embeddings and chat
// completions.
type LLMClient struct {
	client    *openai.Client
	embedName string
	chatName  string
}

func NewLLMClient(cfg *config.Config) *LLMClient {
	oaiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.LLMBaseURL != "" {
		oaiCfg.BaseURL = cfg.LLMBaseURL
	}
	client := openai.NewClientWithConfig(oaiCfg)

	return &LLMClient{
		client:    client,
		embedName: cfg.EmbedModel,
		chatName:  cfg.ChatModel,
	}
}

// Embed returns the embedding vector for a piece of text.
func (l *LLMClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := l.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(l.embedName),
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

// Answer runs a single-turn completion over the retrieved context. No
// conversation history is kept: every call stands alone.
func (l *LLMClient) Answer(ctx context.Context, question, contextText string) (string, error) {
	prompt := fmt.Sprintf(
		"You are an assistant for the user's own documents. Answer strictly from the context below.\n\nContext:\n%s\n\nQuestion: %s\n\nIf the context is not enough to answer, say so.",
		contextText, question,
	)

	resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: l.chatName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ListModels returns the models available at the endpoint.
func (l *LLMClient) ListModels(ctx context.Context) ([]openai.Model, error) {
	resp, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Models, nil
}
