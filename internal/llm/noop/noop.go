package noop

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/types"
)

// LLM is the fallback used when no provider is configured. JSON requests get
// a neutral signal; free-text requests get a fixed note.
type LLM struct{}

var _ interfaces.LLM = LLM{}

func (LLM) Complete(ctx context.Context, req types.Completion) (string, error) {
	logger.Debug(ctx, "Noop LLM called", "json", req.JSON)
	if req.JSON {
		return `{"signal":"neutral","confidence":0,"reasoning":"noop_llm_fallback"}`, nil
	}
	return "No language model configured; portfolio synthesis skipped. Review the analyst signals above.", nil
}

// Narrator explains a bundle without a model: the signal is the score
// signal, confidence is the score ratio and the reasoning lists the
// sub-score rationales.
type Narrator struct{}

var _ interfaces.Narrator = Narrator{}

func (Narrator) Narrate(ctx context.Context, prompt types.Prompt, b types.AnalysisBundle) (types.Signal, error) {
	conf := 0.0
	if b.MaxScore > 0 {
		conf = 100 * float64(b.TotalScore) / float64(b.MaxScore)
	}

	keys := make([]string, 0, len(b.SubScores))
	for k := range b.SubScores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Score %d/%d.", b.TotalScore, b.MaxScore)
	for _, k := range keys {
		s := b.SubScores[k]
		fmt.Fprintf(&sb, " %s %d/%d: %s", k, s.Points, s.MaxPoints, strings.Join(s.Rationale, " "))
	}

	return types.Signal{Signal: b.Signal, Confidence: conf, Reasoning: sb.String()}, nil
}
