package claude

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/llm"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

type messageFunc func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)

// Client completes prompts with the Anthropic Messages API.
type Client struct {
	cfg        store.LLMConfig
	newMessage messageFunc
}

var _ interfaces.LLM = (*Client)(nil)

// New reads CLAUDE_API_KEY (or ANTHROPIC_API_KEY). Set CLAUDE_API_ENDPOINT
// to go through a proxy.
func New(cfg store.LLMConfig) (*Client, error) {
	apiKey, err := llm.APIKey("CLAUDE_API_KEY", "ANTHROPIC_API_KEY")
	if err != nil {
		return nil, err
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		opts = append(opts, option.WithBaseURL(ep))
	}
	client := anthropic.NewClient(opts...)
	return &Client{cfg: cfg, newMessage: client.Messages.New}, nil
}

func (c *Client) Complete(ctx context.Context, req types.Completion) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	system := req.System
	if req.JSON {
		system += llm.JSONInstruction
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(c.cfg.Temperature))
	}
	if strings.TrimSpace(system) != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.newMessage(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", llm.Classify(apiErr.StatusCode, fmt.Errorf("claude http %d: %w", apiErr.StatusCode, err))
		}
		return "", fmt.Errorf("claude api call failed: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("claude returned no text content")
	}
	return out.String(), nil
}
