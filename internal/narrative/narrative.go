// Package narrative asks a language model to explain a scored analysis
// bundle and parses its reply into a Signal.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

// ErrUnparsable is returned when no JSON object can be recovered from the
// model output. It is retryable: a second sample usually parses.
var ErrUnparsable = errors.New("narrative: unparsable model output")

type Generator struct {
	llm interfaces.LLM
}

var _ interfaces.Narrator = (*Generator)(nil)

func New(llm interfaces.LLM) *Generator {
	return &Generator{llm: llm}
}

// Narrate renders the prompt with the bundle as indented JSON and returns
// the model's signal.
func (g *Generator) Narrate(ctx context.Context, prompt types.Prompt, bundle types.AnalysisBundle) (types.Signal, error) {
	ctx, span := trace.StartSpan(ctx, "narrative.Narrate")
	defer span.End()

	human, err := Render(prompt, bundle)
	if err != nil {
		return types.Signal{}, err
	}

	out, err := g.llm.Complete(ctx, types.Completion{System: prompt.System, User: human, JSON: true})
	if err != nil {
		return types.Signal{}, err
	}
	return Parse(out)
}

// Render executes the human template with .Ticker and .AnalysisData.
func Render(prompt types.Prompt, bundle types.AnalysisBundle) (string, error) {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal bundle: %w", err)
	}
	tmpl, err := template.New("human").Parse(prompt.Human)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Ticker       string
		AnalysisData string
	}{bundle.Ticker, string(data)})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Parse extracts {signal, confidence, reasoning} from model output. It tries
// strict JSON first, then a repaired document, then Hjson. A reply without a
// signal, or with neither confidence nor reasoning, is ErrUnparsable so the
// caller samples again; an unrecognized signal value is read as neutral.
func Parse(text string) (types.Signal, error) {
	t := extractObject(text)
	if t == "" {
		return types.Signal{}, fmt.Errorf("%w: no JSON object in %q", ErrUnparsable, truncate(text, 80))
	}
	obj, ok := decode(t)
	if !ok {
		return types.Signal{}, fmt.Errorf("%w: %q", ErrUnparsable, truncate(text, 80))
	}
	return fromMap(obj, text)
}

func decode(t string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(t), &m); err == nil && m != nil {
		return m, true
	}
	if fixed, err := jsonrepair.RepairJSON(t); err == nil {
		m = nil
		if err := json.Unmarshal([]byte(fixed), &m); err == nil && m != nil {
			return m, true
		}
	}
	m = nil
	if err := hjson.Unmarshal([]byte(t), &m); err == nil && m != nil {
		return m, true
	}
	return nil, false
}

func fromMap(raw map[string]any, text string) (types.Signal, error) {
	m := make(map[string]any, len(raw))
	for k, v := range raw {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}

	kind, ok := m["signal"].(string)
	if !ok {
		return types.Signal{}, fmt.Errorf("%w: missing signal in %q", ErrUnparsable, truncate(text, 80))
	}
	conf, hasConf := m["confidence"]
	reasoning, hasReasoning := m["reasoning"]
	if !hasConf && !hasReasoning {
		return types.Signal{}, fmt.Errorf("%w: missing confidence and reasoning in %q", ErrUnparsable, truncate(text, 80))
	}

	s := types.Signal{Signal: types.ParseSignalKind(kind)}
	switch v := conf.(type) {
	case float64:
		s.Confidence = clamp(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64); err == nil {
			s.Confidence = clamp(f)
		}
	}
	if r, ok := reasoning.(string); ok {
		s.Reasoning = strings.TrimSpace(r)
	}
	return s, nil
}

// extractObject strips code fences and returns the outermost {...} span.
func extractObject(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 {
		return ""
	}
	if end < start {
		// unterminated object; let the repair step close it
		return t[start:]
	}
	return t[start : end+1]
}

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 100:
		return 100
	}
	return c
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
