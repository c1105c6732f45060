package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/llm"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

type Client struct {
	cfg    store.LLMConfig
	client *goopenai.Client
}

var _ interfaces.LLM = (*Client)(nil)

// New reads OPENAI_API_KEY; OPENAI_BASE_URL points it at a compatible server.
func New(cfg store.LLMConfig) (*Client, error) {
	apiKey, err := llm.APIKey("OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}
	conf := goopenai.DefaultConfig(apiKey)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		conf.BaseURL = base
	}
	return &Client{cfg: cfg, client: goopenai.NewClientWithConfig(conf)}, nil
}

func (c *Client) Complete(ctx context.Context, req types.Completion) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var msgs []goopenai.ChatCompletionMessage
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.User})

	body := goopenai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if req.JSON {
		body.ResponseFormat = &goopenai.ChatCompletionResponseFormat{Type: goopenai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.client.CreateChatCompletion(ctx, body)
	if err != nil {
		var apiErr *goopenai.APIError
		var reqErr *goopenai.RequestError
		switch {
		case errors.As(err, &apiErr):
			return "", llm.Classify(apiErr.HTTPStatusCode, fmt.Errorf("openai http %d: %w", apiErr.HTTPStatusCode, err))
		case errors.As(err, &reqErr):
			return "", llm.Classify(reqErr.HTTPStatusCode, fmt.Errorf("openai http %d: %w", reqErr.HTTPStatusCode, err))
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
