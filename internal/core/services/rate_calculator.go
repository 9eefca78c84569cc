package services

import "github.com/shopspring/decimal"

var (
	baseRate               = decimal.RequireFromString("0.02")
	largeAmountSurcharge   = decimal.RequireFromString("0.02")
	sharedStudentSurcharge = decimal.RequireFromString("0.005")
	largeAmountThreshold   = decimal.NewFromInt(1000)
)

// CalculateDynamicRate computes the surcharge rate for a settlement. The
// tiers are additive and order-independent: 2% base, +2% for amounts above
// 1000, +0.5% when the student is sponsored by more than one parent.
func CalculateDynamicRate(amount decimal.Decimal, parentCount int) decimal.Decimal {
	rate := baseRate

	if amount.GreaterThan(largeAmountThreshold) {
		rate = rate.Add(largeAmountSurcharge)
	}

	if parentCount > 1 {
		rate = rate.Add(sharedStudentSurcharge)
	}

	return rate
}

// ApplyDynamicRate inflates an amount by the given rate:
// amount * (1 + rate).
func ApplyDynamicRate(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rate))
}
