package domain

import "github.com/shopspring/decimal"

const TransactionTypeCredit = "credit"

// DepositEvent is the validated triple extracted from a balance-update webhook.
type DepositEvent struct {
	Currency        string
	TransactionType string
	Amount          decimal.Decimal
}

// Qualifies reports whether the deposit should trigger a sweep: a credit in the
// configured source currency at or above the minimum (inclusive).
func (d DepositEvent) Qualifies(sourceCurrency string, minimum decimal.Decimal) bool {
	return d.TransactionType == TransactionTypeCredit &&
		d.Currency == sourceCurrency &&
		d.Amount.GreaterThanOrEqual(minimum)
}
