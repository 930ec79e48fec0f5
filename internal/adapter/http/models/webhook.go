package models

import (
	"github.com/shopspring/decimal"

	"github.com/api-sage/deposit-sweeper/internal/domain"
)

// BalanceUpdateRequest is the body Wise posts on a balance-change event.
type BalanceUpdateRequest struct {
	Data BalanceUpdateData `json:"data"`
}

type BalanceUpdateData struct {
	Currency        string          `json:"currency"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
}

func (r BalanceUpdateRequest) Deposit() domain.DepositEvent {
	return domain.DepositEvent{
		Currency:        r.Data.Currency,
		TransactionType: r.Data.TransactionType,
		Amount:          r.Data.Amount,
	}
}
