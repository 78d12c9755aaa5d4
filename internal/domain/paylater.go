package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DrawStatus string

const (
	DrawStatusDue     DrawStatus = "due"
	DrawStatusPaid    DrawStatus = "paid"
	DrawStatusOverdue DrawStatus = "overdue"
)

// DrawExtension is one due-date extension on a credit draw.
type DrawExtension struct {
	ExtendedAt time.Time       `json:"extended_at"`
	AddedDays  int             `json:"added_days"`
	NewDueDate time.Time       `json:"new_due_date"`
	FeePaid    decimal.Decimal `json:"fee_paid"`
}

// CreditDraw is one pay-later draw against the user's credit limit.
// The due amount never changes after creation; extensions only move
// the due date, for a fee.
type CreditDraw struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
	DueDate    time.Time       `json:"due_date"`
	Status     DrawStatus      `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Extensions []DrawExtension `json:"extensions,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ExtensionFee is the price of pushing a due date out: 1% of the due
// amount per added day, rounded up to the next whole rupee.
func ExtensionFee(dueAmount decimal.Decimal, addedDays int) decimal.Decimal {
	fee := dueAmount.Mul(decimal.NewFromFloat(0.01)).Mul(decimal.NewFromInt(int64(addedDays)))
	return fee.Ceil()
}

// CreditLimitFor maps declared monthly income to an approved limit.
// Income below the qualifying floor gets no limit at all.
func CreditLimitFor(monthlyIncome decimal.Decimal) (decimal.Decimal, bool) {
	switch {
	case monthlyIncome.GreaterThanOrEqual(decimal.NewFromInt(50000)):
		return decimal.NewFromInt(30000), true
	case monthlyIncome.GreaterThanOrEqual(decimal.NewFromInt(30000)):
		return decimal.NewFromInt(20000), true
	case monthlyIncome.GreaterThanOrEqual(decimal.NewFromInt(15000)):
		return decimal.NewFromInt(10000), true
	default:
		return decimal.Zero, false
	}
}
