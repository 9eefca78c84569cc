package services

import (
	"github.com/shopspring/decimal"
	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/domain"
)

// contributionError is a policy failure from the allocator. Both variants
// match apperrors.ErrNoSuitableContribution under errors.Is while keeping
// their exact caller-facing messages.
type contributionError struct{ msg string }

func (e *contributionError) Error() string { return e.msg }

func (e *contributionError) Is(target error) bool {
	return target == apperrors.ErrNoSuitableContribution
}

var (
	// ErrMinimumContribution rejects splits where the initiating parent
	// cannot cover the 20% floor.
	ErrMinimumContribution = &contributionError{"initiating party must contribute at least 20%"}

	// ErrNoContributionArrangement rejects splits where no tier combination
	// fits the current balances.
	ErrNoContributionArrangement = &contributionError{"no suitable contribution arrangement with current balances"}
)

var oneHundred = decimal.NewFromInt(100)

// percentageOf returns pct% of amount, rounded half-up to 2 decimal places.
func percentageOf(amount decimal.Decimal, pct int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(pct)).DivRound(oneHundred, 2)
}

// CalculateContribution decides how an adjusted amount is split across two
// parent balances. The tiers are fixed percentages of the adjusted amount
// and the rules are evaluated in strict precedence:
//
//  1. The initiating parent must cover at least the 20% tier.
//  2. initiating >= 60% and second >= 40%  -> (60%, 40%)
//  3. initiating >= 40% and second >= 20%  -> (40%, 60%)
//  4. second >= 80%                        -> (20%, 80%)
//  5. otherwise no arrangement exists.
//
// Rule 3 checks the second parent against the 20% tier even though it
// awards the 60% share. The literal threshold is kept as shipped; changing
// it changes financial outcomes.
// TODO: confirm the rule-3 threshold (20% vs 60%) with the business owner.
func CalculateContribution(initiatingBalance, secondBalance, adjustedAmount decimal.Decimal) (domain.ContributionBreakdown, error) {
	twentyPercent := percentageOf(adjustedAmount, 20)
	fortyPercent := percentageOf(adjustedAmount, 40)
	sixtyPercent := percentageOf(adjustedAmount, 60)
	eightyPercent := percentageOf(adjustedAmount, 80)

	if initiatingBalance.LessThan(twentyPercent) {
		return domain.ContributionBreakdown{}, ErrMinimumContribution
	}

	switch {
	case initiatingBalance.GreaterThanOrEqual(sixtyPercent) && secondBalance.GreaterThanOrEqual(fortyPercent):
		return domain.ContributionBreakdown{InitiatingShare: sixtyPercent, SecondShare: fortyPercent}, nil
	case initiatingBalance.GreaterThanOrEqual(fortyPercent) && secondBalance.GreaterThanOrEqual(twentyPercent):
		return domain.ContributionBreakdown{InitiatingShare: fortyPercent, SecondShare: sixtyPercent}, nil
	case secondBalance.GreaterThanOrEqual(eightyPercent):
		return domain.ContributionBreakdown{InitiatingShare: twentyPercent, SecondShare: eightyPercent}, nil
	}

	return domain.ContributionBreakdown{}, ErrNoContributionArrangement
}
