package types

import "strings"

type SignalKind string

const (
	Bullish SignalKind = "bullish"
	Bearish SignalKind = "bearish"
	Neutral SignalKind = "neutral"
)

// ParseSignalKind maps free text to a SignalKind, defaulting to Neutral.
func ParseSignalKind(s string) SignalKind {
	switch SignalKind(strings.ToLower(strings.TrimSpace(s))) {
	case Bullish:
		return Bullish
	case Bearish:
		return Bearish
	default:
		return Neutral
	}
}

// Signal is the final per-ticker, per-analyst output.
type Signal struct {
	Signal     SignalKind `json:"signal"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// SubScore is the output of one scoring function.
type SubScore struct {
	Points    int      `json:"score"`
	MaxPoints int      `json:"max_score"`
	Rationale []string `json:"details"`
}

// AnalysisBundle is everything an analyst computed for one ticker.
type AnalysisBundle struct {
	Ticker         string              `json:"ticker"`
	Analyst        string              `json:"analyst"`
	SubScores      map[string]SubScore `json:"sub_scores"`
	TotalScore     int                 `json:"score"`
	MaxScore       int                 `json:"max_score"`
	Signal         SignalKind          `json:"signal"`
	MarginOfSafety *float64            `json:"margin_of_safety,omitempty"`
	IntrinsicValue *float64            `json:"intrinsic_value,omitempty"`
	MarketCap      *float64            `json:"market_cap,omitempty"`
}
