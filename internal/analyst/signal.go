package analyst

import "indian-hedge-fund/internal/types"

const (
	BullishRatio = 0.7
	BearishRatio = 0.3
)

// Total sums sub-score points, clamped to [0, max].
func Total(subs map[string]types.SubScore, max int) int {
	total := 0
	for _, s := range subs {
		total += s.Points
	}
	if total > max {
		return max
	}
	if total < 0 {
		return 0
	}
	return total
}

// Classify maps a score ratio to a signal. Bearish is checked first.
func Classify(total, max int) types.SignalKind {
	if max <= 0 {
		return types.Neutral
	}
	t, m := float64(total), float64(max)
	switch {
	case t <= BearishRatio*m:
		return types.Bearish
	case t >= BullishRatio*m:
		return types.Bullish
	default:
		return types.Neutral
	}
}

// ClassifyWithMargin is Classify gated by a margin of safety: bullish also
// needs margin >= minMargin, and margin < -minMargin is bearish whatever the
// score. A nil margin never passes the bullish gate.
func ClassifyWithMargin(total, max int, margin *float64, minMargin float64) types.SignalKind {
	if margin != nil && *margin < -minMargin {
		return types.Bearish
	}
	switch Classify(total, max) {
	case types.Bearish:
		return types.Bearish
	case types.Bullish:
		if margin != nil && *margin >= minMargin {
			return types.Bullish
		}
	}
	return types.Neutral
}
