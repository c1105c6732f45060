package llmobs

import (
	"context"
	"time"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

// observableLLM wraps an LLM with observability (logging & tracing)
type observableLLM struct {
	llm      interfaces.LLM
	provider string
}

// Compile-time interface check
var _ interfaces.LLM = (*observableLLM)(nil)

// Wrap wraps an LLM backend with observability middleware
func Wrap(llm interfaces.LLM, provider string) interfaces.LLM {
	return &observableLLM{llm: llm, provider: provider}
}

func (o *observableLLM) Complete(ctx context.Context, req types.Completion) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting completion",
		"provider", o.provider,
		"json", req.JSON,
		"prompt_chars", len(req.System)+len(req.User),
	)

	start := time.Now()
	out, err := o.llm.Complete(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Completion failed", err,
			"provider", o.provider,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Completion received",
		"provider", o.provider,
		"response_chars", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// observableNarrator wraps a Narrator with observability
type observableNarrator struct {
	narrator interfaces.Narrator
}

var _ interfaces.Narrator = (*observableNarrator)(nil)

// WrapNarrator wraps a narrator with observability middleware
func WrapNarrator(n interfaces.Narrator) interfaces.Narrator {
	return &observableNarrator{narrator: n}
}

func (o *observableNarrator) Narrate(ctx context.Context, prompt types.Prompt, bundle types.AnalysisBundle) (types.Signal, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Narrate")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting narrative",
		"analyst", bundle.Analyst,
		"ticker", bundle.Ticker,
		"score", bundle.TotalScore,
		"max_score", bundle.MaxScore,
	)

	sig, err := o.narrator.Narrate(ctx, prompt, bundle)
	if err != nil {
		// warn only: the caller retries
		logger.WarnSkip(ctx, 1, "Narrative attempt failed",
			"analyst", bundle.Analyst,
			"ticker", bundle.Ticker,
			"error", err.Error(),
		)
		return types.Signal{}, err
	}

	logger.InfoSkip(ctx, 1, "Narrative received",
		"analyst", bundle.Analyst,
		"ticker", bundle.Ticker,
		"signal", string(sig.Signal),
		"confidence", sig.Confidence,
	)
	return sig, nil
}
