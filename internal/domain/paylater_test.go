package domain_test

import (
	"testing"

	"github.com/SkAltmash/ZapSplit/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtensionFee(t *testing.T) {
	cases := []struct {
		due  string
		days int
		fee  string
	}{
		{"1000", 15, "150"},
		{"1000", 30, "300"},
		{"1000", 45, "450"},
		{"999", 15, "150"}, // 149.85 rounds up
		{"100", 15, "15"},
		{"33", 15, "5"}, // 4.95 rounds up
		{"0.5", 15, "1"},
	}
	for _, tc := range cases {
		due := decimal.RequireFromString(tc.due)
		want := decimal.RequireFromString(tc.fee)
		got := domain.ExtensionFee(due, tc.days)
		assert.True(t, got.Equal(want), "due=%s days=%d: got %s want %s", tc.due, tc.days, got, tc.fee)
	}
}

func TestCreditLimitFor(t *testing.T) {
	cases := []struct {
		income   string
		limit    string
		approved bool
	}{
		{"100000", "30000", true},
		{"50000", "30000", true},
		{"49999", "20000", true},
		{"30000", "20000", true},
		{"15000", "10000", true},
		{"14999", "0", false},
		{"0", "0", false},
	}
	for _, tc := range cases {
		limit, approved := domain.CreditLimitFor(decimal.RequireFromString(tc.income))
		assert.Equal(t, tc.approved, approved, "income=%s", tc.income)
		assert.True(t, limit.Equal(decimal.RequireFromString(tc.limit)), "income=%s: got %s", tc.income, limit)
	}
}
