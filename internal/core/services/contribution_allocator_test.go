package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncpay/guardianpay/internal/apperrors"
	"github.com/syncpay/guardianpay/internal/core/services"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateContribution_Tiers(t *testing.T) {
	testCases := []struct {
		name           string
		initiating     string
		second         string
		adjusted       string
		wantInitiating string
		wantSecond     string
	}{
		{"60/40 split", "700", "400", "1000", "600", "400"},
		{"60/40 at exact boundaries", "600", "400", "1000", "600", "400"},
		{"40/60 split", "450", "300", "1000", "400", "600"},
		{"20/80 split", "250", "900", "1000", "200", "800"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			breakdown, err := services.CalculateContribution(dec(tc.initiating), dec(tc.second), dec(tc.adjusted))
			require.NoError(t, err)
			assert.True(t, breakdown.InitiatingShare.Equal(dec(tc.wantInitiating)),
				"initiating share %s, want %s", breakdown.InitiatingShare.String(), tc.wantInitiating)
			assert.True(t, breakdown.SecondShare.Equal(dec(tc.wantSecond)),
				"second share %s, want %s", breakdown.SecondShare.String(), tc.wantSecond)
		})
	}
}

func TestCalculateContribution_MinimumContribution(t *testing.T) {
	// 150 < 20% of 1000.
	_, err := services.CalculateContribution(dec("150"), dec("5000"), dec("1000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoSuitableContribution)
	assert.Equal(t, "initiating party must contribute at least 20%", err.Error())
}

func TestCalculateContribution_NoArrangement(t *testing.T) {
	// Initiating covers only the 20% tier, second is below 80%.
	_, err := services.CalculateContribution(dec("250"), dec("500"), dec("1000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoSuitableContribution)
	assert.Equal(t, "no suitable contribution arrangement with current balances", err.Error())
}

// The second rule awards the 60% share against a 20% eligibility check. The
// threshold is preserved as shipped.
func TestCalculateContribution_SecondShareSixtyWithTwentyCheck(t *testing.T) {
	// Initiating covers 40% but not 60%; second covers 20% but neither 40%
	// nor its awarded 60%.
	breakdown, err := services.CalculateContribution(dec("450"), dec("250"), dec("1000"))
	require.NoError(t, err)
	assert.True(t, breakdown.InitiatingShare.Equal(dec("400")))
	assert.True(t, breakdown.SecondShare.Equal(dec("600")))
}

func TestCalculateContribution_PrecedenceFavorsSixtyForty(t *testing.T) {
	// Both parents are flush; the first matching rule wins.
	breakdown, err := services.CalculateContribution(dec("10000"), dec("10000"), dec("1000"))
	require.NoError(t, err)
	assert.True(t, breakdown.InitiatingShare.Equal(dec("600")))
	assert.True(t, breakdown.SecondShare.Equal(dec("400")))
}

func TestCalculateContribution_SharesSumToAdjusted(t *testing.T) {
	adjusteds := []string{"1000", "1025", "333.33", "0.03", "1560"}
	balances := [][2]string{
		{"100000", "100000"},
		{"700", "400"},
	}

	for _, adj := range adjusteds {
		for _, b := range balances {
			breakdown, err := services.CalculateContribution(dec(b[0]), dec(b[1]), dec(adj))
			if err != nil {
				continue
			}
			sum := breakdown.InitiatingShare.Add(breakdown.SecondShare)
			assert.True(t, sum.Sub(dec(adj)).Abs().LessThanOrEqual(dec("0.01")),
				"shares %s + %s stray from adjusted %s", breakdown.InitiatingShare, breakdown.SecondShare, adj)
		}
	}
}

func TestCalculateContribution_RoundingHalfUp(t *testing.T) {
	// 20% of 0.03 is 0.006, which rounds to 0.01.
	breakdown, err := services.CalculateContribution(dec("100"), dec("100"), dec("0.03"))
	require.NoError(t, err)
	sixty := dec("0.03").Mul(dec("60")).DivRound(dec("100"), 2)
	assert.True(t, breakdown.InitiatingShare.Equal(sixty))
	assert.True(t, breakdown.InitiatingShare.Equal(dec("0.02")))
}
