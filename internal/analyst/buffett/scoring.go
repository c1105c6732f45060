package buffett

import (
	"fmt"
	"math"

	"indian-hedge-fund/internal/types"
)

const (
	fundamentalsMax = 7
	consistencyMax  = 3
	moatMax         = 3
	managementMax   = 2

	qualityHurdle = 0.15

	dcfGrowth             = 0.05
	dcfDiscount           = 0.09
	dcfTerminal           = 12.0
	dcfYears              = 10
	maintenanceCapexShare = 0.75
)

// Fundamentals checks return on equity, leverage, margins and liquidity of
// the latest snapshot.
func Fundamentals(latest *types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: fundamentalsMax}
	if latest == nil {
		s.Rationale = []string{"Insufficient fundamental data."}
		return s
	}

	switch roe := latest.ReturnOnEquity; {
	case roe == nil:
		s.Rationale = append(s.Rationale, "ROE data not available.")
	case *roe > qualityHurdle:
		s.Points += 2
		s.Rationale = append(s.Rationale, fmt.Sprintf("Strong ROE of %.1f%%.", *roe*100))
	default:
		s.Rationale = append(s.Rationale, fmt.Sprintf("Weak ROE of %.1f%%.", *roe*100))
	}

	switch de := latest.DebtToEquity; {
	case de == nil:
		s.Rationale = append(s.Rationale, "Debt to equity data not available.")
	case *de < 0.5:
		s.Points += 2
		s.Rationale = append(s.Rationale, fmt.Sprintf("Conservative debt levels (D/E %.2f).", *de))
	default:
		s.Rationale = append(s.Rationale, fmt.Sprintf("High debt to equity ratio of %.2f.", *de))
	}

	switch om := latest.OperatingMargin; {
	case om == nil:
		s.Rationale = append(s.Rationale, "Operating margin data not available.")
	case *om > qualityHurdle:
		s.Points += 2
		s.Rationale = append(s.Rationale, fmt.Sprintf("Strong operating margin of %.1f%%.", *om*100))
	default:
		s.Rationale = append(s.Rationale, fmt.Sprintf("Weak operating margin of %.1f%%.", *om*100))
	}

	cr := latest.CurrentRatio
	if cr == nil && latest.CurrentAssets != nil && latest.CurrentLiabilities != nil && *latest.CurrentLiabilities > 0 {
		cr = types.F(*latest.CurrentAssets / *latest.CurrentLiabilities)
	}
	switch {
	case cr == nil:
		s.Rationale = append(s.Rationale, "Current ratio data not available.")
	case *cr > 1.5:
		s.Points++
		s.Rationale = append(s.Rationale, fmt.Sprintf("Good liquidity position (current ratio %.2f).", *cr))
	default:
		s.Rationale = append(s.Rationale, fmt.Sprintf("Weak liquidity with current ratio of %.2f.", *cr))
	}
	return s
}

// Consistency awards 3 points when net income rose in every period of an
// oldest-first series of at least four periods.
func Consistency(hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: consistencyMax}
	if len(hist) < 4 {
		s.Rationale = []string{"Insufficient historical data (need at least 4 periods)."}
		return s
	}

	var ni []float64
	for _, m := range hist {
		if m.NetIncome != nil {
			ni = append(ni, *m.NetIncome)
		}
	}
	if len(ni) < 4 {
		s.Rationale = []string{"Insufficient net income data for trend analysis."}
		return s
	}

	growing := true
	for i := 1; i < len(ni); i++ {
		if ni[i] <= ni[i-1] {
			growing = false
			break
		}
	}
	if growing {
		s.Points += 3
		s.Rationale = append(s.Rationale, fmt.Sprintf("Consistent earnings growth over past %d periods.", len(ni)))
	} else {
		s.Rationale = append(s.Rationale, "Inconsistent earnings growth pattern.")
	}

	first, last := ni[0], ni[len(ni)-1]
	if first != 0 {
		growth := (last - first) / math.Abs(first)
		s.Rationale = append(s.Rationale, fmt.Sprintf("Total earnings growth of %.1f%% over past %d periods.", growth*100, len(ni)))
	}
	return s
}

// Moat looks for returns on equity and operating margins that stayed above
// 15% in every period.
func Moat(hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: moatMax}
	if len(hist) < 3 {
		s.Rationale = []string{"Insufficient data for moat analysis."}
		return s
	}

	var roes, margins []float64
	for _, m := range hist {
		if m.ReturnOnEquity != nil {
			roes = append(roes, *m.ReturnOnEquity)
		}
		if m.OperatingMargin != nil {
			margins = append(margins, *m.OperatingMargin)
		}
	}

	stableROE := len(roes) >= 3 && allAbove(roes, qualityHurdle)
	switch {
	case stableROE:
		s.Points++
		s.Rationale = append(s.Rationale, "Stable ROE above 15% across periods (suggests moat).")
	case len(roes) < 3:
		s.Rationale = append(s.Rationale, "Insufficient ROE history for moat analysis.")
	default:
		s.Rationale = append(s.Rationale, "ROE not consistently above 15%.")
	}

	stableMargin := len(margins) >= 3 && allAbove(margins, qualityHurdle)
	switch {
	case stableMargin:
		s.Points++
		s.Rationale = append(s.Rationale, "Stable operating margins above 15% (moat indicator).")
	case len(margins) < 3:
		s.Rationale = append(s.Rationale, "Insufficient operating margin history for moat analysis.")
	default:
		s.Rationale = append(s.Rationale, "Operating margin not consistently above 15%.")
	}

	if stableROE && stableMargin {
		s.Points++
		s.Rationale = append(s.Rationale, "Both ROE and margin stability indicate a solid moat.")
	}
	return s
}

// ManagementQuality rewards buybacks and dividends in the newest period.
// Both are cash outflows, so negative values count.
func ManagementQuality(latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: managementMax}
	m := types.Merge(types.Newest(hist), latest)
	if m == nil {
		s.Rationale = []string{"Insufficient data for management analysis."}
		return s
	}

	switch iss := m.EquityIssuance; {
	case iss == nil:
		s.Rationale = append(s.Rationale, "Share issuance data not available.")
	case *iss < 0:
		s.Points++
		s.Rationale = append(s.Rationale, "Company has been repurchasing shares (shareholder-friendly).")
	case *iss > 0:
		s.Rationale = append(s.Rationale, "Recent common stock issuance (potential dilution).")
	default:
		s.Rationale = append(s.Rationale, "No significant new stock issuance detected.")
	}

	switch div := m.Dividends; {
	case div == nil:
		s.Rationale = append(s.Rationale, "Dividend data not available.")
	case *div < 0:
		s.Points++
		s.Rationale = append(s.Rationale, "Company has a track record of paying dividends.")
	default:
		s.Rationale = append(s.Rationale, "No or minimal dividends paid.")
	}
	return s
}

// OwnerEarnings is net income + depreciation - 0.75 x capex, or nil when a
// component is missing.
func OwnerEarnings(m *types.FinancialMetrics) (*float64, string) {
	if m == nil || m.NetIncome == nil || m.DepreciationAndAmortization == nil || m.CapitalExpenditure == nil {
		return nil, "Missing components for owner earnings calculation (insufficient data)."
	}
	maintenance := maintenanceCapexShare * *m.CapitalExpenditure
	oe := *m.NetIncome + *m.DepreciationAndAmortization - maintenance
	return &oe, fmt.Sprintf("Owner earnings = %.2f.", oe)
}

// DiscountedValue projects owner earnings for ten years and adds a terminal
// value at a fixed multiple, all discounted to today.
func DiscountedValue(ownerEarnings float64) float64 {
	pv := 0.0
	for y := 1; y <= dcfYears; y++ {
		future := ownerEarnings * math.Pow(1+dcfGrowth, float64(y))
		pv += future / math.Pow(1+dcfDiscount, float64(y))
	}
	terminal := ownerEarnings * math.Pow(1+dcfGrowth, dcfYears) * dcfTerminal / math.Pow(1+dcfDiscount, dcfYears)
	return pv + terminal
}

// IntrinsicValue returns the DCF value of the owner earnings. It carries no
// points; the value feeds the margin-of-safety gate.
func IntrinsicValue(latest *types.FinancialMetrics) (*float64, types.SubScore) {
	s := types.SubScore{}
	oe, note := OwnerEarnings(latest)
	s.Rationale = append(s.Rationale, note)
	if oe == nil {
		return nil, s
	}
	iv := DiscountedValue(*oe)
	s.Rationale = append(s.Rationale,
		fmt.Sprintf("Intrinsic value = %.2f (DCF: %.0f%% growth, %.0f%% discount, %.0fx terminal).", iv, dcfGrowth*100, dcfDiscount*100, dcfTerminal))
	return &iv, s
}

// MarginOfSafety is (intrinsic value - market cap) / market cap.
func MarginOfSafety(intrinsic, marketCap *float64) *float64 {
	if intrinsic == nil || marketCap == nil || *marketCap <= 0 {
		return nil
	}
	return types.F((*intrinsic - *marketCap) / *marketCap)
}

func allAbove(values []float64, threshold float64) bool {
	for _, v := range values {
		if v <= threshold {
			return false
		}
	}
	return true
}
