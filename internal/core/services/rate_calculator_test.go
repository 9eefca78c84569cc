package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/syncpay/guardianpay/internal/core/services"
)

func TestCalculateDynamicRate(t *testing.T) {
	testCases := []struct {
		name        string
		amount      string
		parentCount int
		wantRate    string
	}{
		{"base rate only", "500", 1, "0.02"},
		{"large amount tier", "1500", 1, "0.04"},
		{"shared student tier", "500", 2, "0.025"},
		{"both tiers", "1500", 2, "0.045"},
		{"threshold is exclusive", "1000", 1, "0.02"},
		{"just over threshold", "1000.01", 1, "0.04"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			rate := services.CalculateDynamicRate(amount, tc.parentCount)
			assert.True(t, rate.Equal(decimal.RequireFromString(tc.wantRate)),
				"got rate %s, want %s", rate.String(), tc.wantRate)
		})
	}
}

func TestCalculateDynamicRate_NeverBelowBase(t *testing.T) {
	amounts := []string{"0.01", "1", "999.99", "1000", "1000.01", "50000"}
	base := decimal.RequireFromString("0.02")

	for _, a := range amounts {
		for _, parents := range []int{1, 2} {
			rate := services.CalculateDynamicRate(decimal.RequireFromString(a), parents)
			assert.True(t, rate.GreaterThanOrEqual(base),
				"rate %s for amount %s / %d parents below base", rate.String(), a, parents)
		}
	}
}

func TestApplyDynamicRate(t *testing.T) {
	testCases := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"base rate", "500", "0.02", "510"},
		{"large amount", "1500", "0.04", "1560"},
		{"shared student", "1000", "0.025", "1025"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := services.ApplyDynamicRate(decimal.RequireFromString(tc.amount), decimal.RequireFromString(tc.rate))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got.String(), tc.want)
		})
	}
}

func TestApplyDynamicRate_NeverShrinks(t *testing.T) {
	for _, a := range []string{"0.01", "500", "1500"} {
		amount := decimal.RequireFromString(a)
		rate := services.CalculateDynamicRate(amount, 2)
		adjusted := services.ApplyDynamicRate(amount, rate)
		assert.True(t, adjusted.GreaterThanOrEqual(amount))
	}
}
