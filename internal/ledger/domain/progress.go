package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ProgressPercentage returns total/goal as a percentage with two decimal
// places, clamped to [0, 100]. A non-positive goal yields 0 rather than a
// division error. Over-funding is tracked but displayed progress never
// exceeds 100.
func ProgressPercentage(totalRaised, fundingGoal decimal.Decimal) decimal.Decimal {
	if fundingGoal.Sign() <= 0 {
		return decimal.Zero
	}

	pct := totalRaised.Div(fundingGoal).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return pct.Round(2)
}
