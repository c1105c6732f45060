package claude

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/llm"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New(store.LLMConfig{Model: "claude-sonnet-4-20250514"})
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestCompleteBuildsRequestAndJoinsText(t *testing.T) {
	var got anthropic.MessageNewParams
	c := &Client{
		cfg: store.LLMConfig{Model: "claude-sonnet-4-20250514", MaxTokens: 512, Temperature: 0.2},
		newMessage: func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
			got = params
			return &anthropic.Message{Content: []anthropic.ContentBlockUnion{
				{Type: "text", Text: `{"signal":"bullish",`},
				{Type: "text", Text: `"confidence":80,"reasoning":"ok"}`},
			}}, nil
		},
	}

	out, err := c.Complete(context.Background(), types.Completion{System: "be Buffett", User: "TCS", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"signal":"bullish","confidence":80,"reasoning":"ok"}`, out)

	assert.Equal(t, anthropic.Model("claude-sonnet-4-20250514"), got.Model)
	assert.Equal(t, int64(512), got.MaxTokens)
	require.Len(t, got.System, 1)
	assert.Equal(t, "be Buffett"+llm.JSONInstruction, got.System[0].Text)
	require.Len(t, got.Messages, 1)
}

func TestCompleteEmptyResponse(t *testing.T) {
	c := &Client{
		cfg: store.LLMConfig{Model: "m", MaxTokens: 16},
		newMessage: func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
			return &anthropic.Message{}, nil
		},
	}
	_, err := c.Complete(context.Background(), types.Completion{User: "x"})
	assert.Error(t, err)
}

func TestCompleteWrapsTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	c := &Client{
		cfg: store.LLMConfig{Model: "m", MaxTokens: 16},
		newMessage: func(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
			return nil, boom
		},
	}
	_, err := c.Complete(context.Background(), types.Completion{User: "x"})
	assert.ErrorIs(t, err, boom)
}
