// Package gemini completes prompts with Google's Gemini models through the
// google.golang.org/genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/llm"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type Client struct {
	cfg      store.LLMConfig
	generate generateFunc
}

var _ interfaces.LLM = (*Client)(nil)

// New reads GEMINI_API_KEY (or GOOGLE_API_KEY).
func New(ctx context.Context, cfg store.LLMConfig) (*Client, error) {
	apiKey, err := llm.APIKey("GEMINI_API_KEY", "GOOGLE_API_KEY")
	if err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{cfg: cfg, generate: client.Models.GenerateContent}, nil
}

func (c *Client) Complete(ctx context.Context, req types.Completion) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.cfg.Temperature),
	}
	if c.cfg.MaxTokens > 0 {
		config.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}
	if req.JSON {
		config.ResponseMIMEType = "application/json"
	}
	if strings.TrimSpace(req.System) != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	result, err := c.generate(ctx, c.cfg.Model, genai.Text(req.User), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", llm.Classify(apiErr.Code, fmt.Errorf("gemini http %d: %w", apiErr.Code, err))
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("gemini returned no text content")
	}
	return text, nil
}
