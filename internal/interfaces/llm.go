package interfaces

import (
	"context"

	"indian-hedge-fund/internal/types"
)

// LLM is an opaque text-generation backend.
type LLM interface {
	Complete(ctx context.Context, req types.Completion) (string, error)
}

// Narrator turns a scored bundle into a Signal.
type Narrator interface {
	Narrate(ctx context.Context, prompt types.Prompt, bundle types.AnalysisBundle) (types.Signal, error)
}
