package report

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR formats a rupee amount with thousands grouping, e.g. "₹114,600.00".
func INR(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.INR)
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).Round(0).IntPart())
}
