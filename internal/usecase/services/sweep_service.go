package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/deposit-sweeper/internal/adapter/wise"
	"github.com/api-sage/deposit-sweeper/internal/domain"
	"github.com/api-sage/deposit-sweeper/internal/logger"
)

type WiseClient interface {
	Profiles(ctx context.Context) ([]wise.Profile, error)
	Accounts(ctx context.Context, currency string) ([]wise.Account, error)
	CreateQuote(ctx context.Context, profileID int64, req wise.QuoteRequest) (wise.Quote, error)
	CreateTransfer(ctx context.Context, req wise.TransferRequest) (wise.Transfer, error)
	FundTransfer(ctx context.Context, profileID, transferID int64) (wise.FundingResult, error)
}

const profileTypePersonal = "personal"

// SweepService runs the outbound transfer workflow for one qualifying deposit:
// resolve profile, resolve recipient, request a quote, create and fund the
// transfer. Strictly sequential; any failure aborts the rest of the run and
// nothing already done is rolled back.
type SweepService struct {
	client              WiseClient
	sourceCurrency      string
	targetCurrency      string
	targetAccountNumber string
}

func NewSweepService(client WiseClient, sourceCurrency, targetCurrency, targetAccountNumber string) *SweepService {
	return &SweepService{
		client:              client,
		sourceCurrency:      sourceCurrency,
		targetCurrency:      targetCurrency,
		targetAccountNumber: targetAccountNumber,
	}
}

func (s *SweepService) Sweep(ctx context.Context, amount decimal.Decimal) error {
	profileID, err := s.resolveProfile(ctx)
	if err != nil {
		return fmt.Errorf("resolve profile: %w", err)
	}

	recipientID, err := s.resolveRecipient(ctx)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	quoteID, err := s.requestQuote(ctx, amount, profileID)
	if err != nil {
		return fmt.Errorf("request quote: %w", err)
	}

	if err := s.startTransfer(ctx, profileID, recipientID, quoteID); err != nil {
		return fmt.Errorf("start transfer: %w", err)
	}

	logger.Info("transfer completed successfully", logger.Fields{
		"amount":   amount.String(),
		"currency": s.sourceCurrency,
	})
	return nil
}

// resolveProfile selects the personal profile among those visible to the token.
func (s *SweepService) resolveProfile(ctx context.Context) (int64, error) {
	profiles, err := s.client.Profiles(ctx)
	if err != nil {
		return 0, err
	}

	for _, p := range profiles {
		if p.Type == profileTypePersonal {
			return p.ID, nil
		}
	}
	return 0, domain.ErrNoPersonalProfile
}

// resolveRecipient selects the configured recipient by exact account-number
// match among the accounts set up for the target currency.
func (s *SweepService) resolveRecipient(ctx context.Context) (int64, error) {
	accounts, err := s.client.Accounts(ctx, s.targetCurrency)
	if err != nil {
		return 0, err
	}

	for _, a := range accounts {
		if a.Details.AccountNumber == s.targetAccountNumber {
			logger.Info("found recipient", logger.Fields{
				"accountHolderName": a.AccountHolderName,
			})
			return a.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrRecipientNotFound, s.targetAccountNumber)
}

// requestQuote prices the conversion for the deposited amount and picks the
// option funded from balance. The quoted figures are logged but never
// re-validated against the deposit.
func (s *SweepService) requestQuote(ctx context.Context, amount decimal.Decimal, profileID int64) (string, error) {
	quote, err := s.client.CreateQuote(ctx, profileID, wise.QuoteRequest{
		SourceCurrency: s.sourceCurrency,
		TargetCurrency: s.targetCurrency,
		SourceAmount:   amount.InexactFloat64(),
		TargetAmount:   nil,
		PayOut:         wise.PayOutBankTransfer,
		PreferredPayIn: wise.PayInBalance,
	})
	if err != nil {
		return "", err
	}

	for _, option := range quote.PaymentOptions {
		if option.PayIn == wise.PayInBalance {
			logger.Info("quote received", logger.Fields{
				"rate":         quote.Rate,
				"fee":          option.Fee.Total,
				"targetAmount": option.TargetAmount,
			})
			return quote.ID, nil
		}
	}
	return "", domain.ErrNoBalanceOption
}

// startTransfer creates the transfer record then funds it from balance. There
// is no compensating action: a created transfer stays created if funding
// exhausts its retries.
func (s *SweepService) startTransfer(ctx context.Context, profileID, recipientID int64, quoteID string) error {
	transfer, err := s.client.CreateTransfer(ctx, wise.NewTransferRequest(recipientID, quoteID))
	if err != nil {
		return err
	}

	result, err := s.client.FundTransfer(ctx, profileID, transfer.ID)
	if err != nil {
		return err
	}

	logger.Info("funding complete", logger.Fields{
		"transferId": transfer.ID,
		"status":     result.Status,
	})
	return nil
}
