package wise

import "github.com/google/uuid"

const (
	PayInBalance       = "BALANCE"
	PayOutBankTransfer = "BANK_TRANSFER"
)

// detailSalary fills every free-text field of a transfer; the sweep moves
// salary deposits and nothing else.
const detailSalary = "Salary"

type Profile struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type Account struct {
	ID                int64          `json:"id"`
	AccountHolderName string         `json:"accountHolderName"`
	Details           AccountDetails `json:"details"`
}

type AccountDetails struct {
	AccountNumber string `json:"accountNumber"`
}

type QuoteRequest struct {
	SourceCurrency string   `json:"sourceCurrency"`
	TargetCurrency string   `json:"targetCurrency"`
	SourceAmount   float64  `json:"sourceAmount"`
	TargetAmount   *float64 `json:"targetAmount"`
	PayOut         string   `json:"payOut"`
	PreferredPayIn string   `json:"preferredPayIn"`
}

type Quote struct {
	ID             string          `json:"id"`
	Rate           float64         `json:"rate"`
	PaymentOptions []PaymentOption `json:"paymentOptions"`
}

type PaymentOption struct {
	PayIn        string  `json:"payIn"`
	Fee          Fee     `json:"fee"`
	TargetAmount float64 `json:"targetAmount"`
}

type Fee struct {
	Total float64 `json:"total"`
}

type TransferRequest struct {
	TargetAccount         int64           `json:"targetAccount"`
	QuoteUUID             string          `json:"quoteUuid"`
	CustomerTransactionID string          `json:"customerTransactionId"`
	Details               TransferDetails `json:"details"`
}

type TransferDetails struct {
	Reference                         string `json:"reference"`
	TransferPurpose                   string `json:"transferPurpose"`
	TransferPurposeSubTransferPurpose string `json:"transferPurposeSubTransferPurpose"`
	SourceOfFunds                     string `json:"sourceOfFunds"`
}

type Transfer struct {
	ID int64 `json:"id"`
}

type fundingRequest struct {
	Type string `json:"type"`
}

type FundingResult struct {
	Status string `json:"status"`
}

// NewTransferRequest builds a creation request with a fresh
// customerTransactionId. Wise deduplicates on that id, so the same value is
// re-sent across HTTP retries of one creation call, but a second workflow run
// for the same deposit gets a new id and may create a second transfer.
func NewTransferRequest(targetAccount int64, quoteID string) TransferRequest {
	return TransferRequest{
		TargetAccount:         targetAccount,
		QuoteUUID:             quoteID,
		CustomerTransactionID: uuid.NewString(),
		Details: TransferDetails{
			Reference:                         detailSalary,
			TransferPurpose:                   detailSalary,
			TransferPurposeSubTransferPurpose: detailSalary,
			SourceOfFunds:                     detailSalary,
		},
	}
}
