// Package advisor wraps the opaque text-advisory service the dashboard
// calls with a formatted school-context string.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// RequestTimeout bounds every advisory call. A timeout degrades to an
// UpstreamError; the call is never retried.
const RequestTimeout = 30 * time.Second

// Client defines the advisory operation. Text in, text out.
type Client interface {
	Advise(ctx context.Context, contextBlock, question string) (string, error)
}

// Config holds advisory endpoint configuration.
type Config struct {
	Endpoint string // Base URL of the OpenAI-compatible endpoint
	Model    string
	APIKey   string
}

type client struct {
	api    *openai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates an advisory client against an OpenAI-compatible
// endpoint.
func NewClient(cfg *Config, logger *zap.Logger) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("advisor endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("advisor model is required")
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	apiConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")

	return &client{
		api:    openai.NewClientWithConfig(apiConfig),
		model:  cfg.Model,
		logger: logger.Named("advisor"),
	}, nil
}

var _ Client = (*client)(nil)

const systemMessage = "Você é um assistente pedagógico. Responda com base " +
	"apenas nos dados de frequência e matrícula fornecidos no contexto."

func (c *client) Advise(ctx context.Context, contextBlock, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	c.logger.Debug("Advisory request",
		zap.String("model", c.model),
		zap.Int("context_len", len(contextBlock)))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: contextBlock + "\n\n" + question},
		},
	})
	if err != nil {
		return "", &UpstreamError{Cause: err}
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Cause: fmt.Errorf("empty completion")}
	}
	return resp.Choices[0].Message.Content, nil
}
