package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"devpulse/internal/bootstrap/config"
	"devpulse/internal/bootstrap/logging"
	"devpulse/internal/errs"
	"devpulse/internal/ports"
)

// ErrMissingAPIKey is a fatal configuration error raised before any call.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// Client implements ports.ChatCompleter against any OpenAI-compatible
// chat-completion endpoint (Groq by default).
type Client struct {
	client openai.Client
	cfg    config.LLMConfig
}

var _ ports.ChatCompleter = (*Client)(nil)

func NewClient(cfg config.LLMConfig) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

// Complete submits one prompt with the configured model, a fixed low sampling
// temperature and a bounded output-token budget, and returns the raw text of
// the first choice.
func (c *Client) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", ErrMissingAPIKey
	}

	logCtx := logging.WithAttrs(ctx,
		slog.String("component", "infra.llm"),
		slog.String("model", c.cfg.Model),
	)
	logging.Info(logCtx, "submitting chat completion")

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(c.cfg.Model),
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	})
	if err != nil {
		return "", errs.Wrap(err, "create chat completion")
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	content := completion.Choices[0].Message.Content
	logging.Info(logCtx, "chat completion received", slog.Int("content_length", len(content)))
	return content, nil
}
