package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayLaterStatus string

const (
	PayLaterStatusNone     PayLaterStatus = "none"
	PayLaterStatusPending  PayLaterStatus = "pending"
	PayLaterStatusApproved PayLaterStatus = "approved"
	PayLaterStatusRejected PayLaterStatus = "rejected"
)

// Wallet is the single balance record per user. Balance and UsedCredit
// never go negative; UsedCredit never exceeds CreditLimit.
type Wallet struct {
	UserID          string          `json:"user_id"`
	Balance         decimal.Decimal `json:"balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	UsedCredit      decimal.Decimal `json:"used_credit"`
	PayLaterEnabled bool            `json:"pay_later_enabled"`
	PayLaterStatus  PayLaterStatus  `json:"pay_later_status"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AvailableCredit returns how much more the user can draw against
// their pay-later limit.
func (w *Wallet) AvailableCredit() decimal.Decimal {
	return w.CreditLimit.Sub(w.UsedCredit)
}

// CanCover reports whether the spendable balance covers the amount.
func (w *Wallet) CanCover(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
