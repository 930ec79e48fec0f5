package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/deposit-sweeper/internal/adapter/wise"
	"github.com/api-sage/deposit-sweeper/internal/domain"
	"github.com/api-sage/deposit-sweeper/internal/usecase/services"
)

type fakeWiseClient struct {
	profiles []wise.Profile
	accounts []wise.Account
	quote    wise.Quote
	transfer wise.Transfer
	funding  wise.FundingResult

	profilesErr error
	accountsErr error
	quoteErr    error
	transferErr error
	fundingErr  error

	calls           []string
	quoteProfileID  int64
	quoteReq        wise.QuoteRequest
	transferReq     wise.TransferRequest
	fundProfileID   int64
	fundTransferID  int64
	accountCurrency string
}

func (f *fakeWiseClient) Profiles(ctx context.Context) ([]wise.Profile, error) {
	f.calls = append(f.calls, "profiles")
	return f.profiles, f.profilesErr
}

func (f *fakeWiseClient) Accounts(ctx context.Context, currency string) ([]wise.Account, error) {
	f.calls = append(f.calls, "accounts")
	f.accountCurrency = currency
	return f.accounts, f.accountsErr
}

func (f *fakeWiseClient) CreateQuote(ctx context.Context, profileID int64, req wise.QuoteRequest) (wise.Quote, error) {
	f.calls = append(f.calls, "quote")
	f.quoteProfileID = profileID
	f.quoteReq = req
	return f.quote, f.quoteErr
}

func (f *fakeWiseClient) CreateTransfer(ctx context.Context, req wise.TransferRequest) (wise.Transfer, error) {
	f.calls = append(f.calls, "transfer")
	f.transferReq = req
	return f.transfer, f.transferErr
}

func (f *fakeWiseClient) FundTransfer(ctx context.Context, profileID, transferID int64) (wise.FundingResult, error) {
	f.calls = append(f.calls, "fund")
	f.fundProfileID = profileID
	f.fundTransferID = transferID
	return f.funding, f.fundingErr
}

func happyClient() *fakeWiseClient {
	return &fakeWiseClient{
		profiles: []wise.Profile{
			{ID: 1, Type: "business"},
			{ID: 2, Type: "personal"},
		},
		accounts: []wise.Account{
			{ID: 10, AccountHolderName: "Someone Else", Details: wise.AccountDetails{AccountNumber: "00000000"}},
			{ID: 11, AccountHolderName: "The Target", Details: wise.AccountDetails{AccountNumber: "12345678"}},
		},
		quote: wise.Quote{
			ID:   "q-1",
			Rate: 0.79,
			PaymentOptions: []wise.PaymentOption{
				{PayIn: "BANK_TRANSFER", TargetAmount: 390},
				{PayIn: "BALANCE", Fee: wise.Fee{Total: 1.5}, TargetAmount: 393.5},
			},
		},
		transfer: wise.Transfer{ID: 42},
		funding:  wise.FundingResult{Status: "COMPLETED"},
	}
}

func newService(client *fakeWiseClient) *services.SweepService {
	return services.NewSweepService(client, "USD", "GBP", "12345678")
}

func TestSweepRunsFullSequence(t *testing.T) {
	client := happyClient()
	svc := newService(client)

	if err := svc.Sweep(context.Background(), decimal.NewFromInt(500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"profiles", "accounts", "quote", "transfer", "fund"}
	if len(client.calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, client.calls)
	}
	for i, name := range want {
		if client.calls[i] != name {
			t.Fatalf("expected calls %v, got %v", want, client.calls)
		}
	}

	if client.accountCurrency != "GBP" {
		t.Fatalf("expected recipient lookup in GBP, got %q", client.accountCurrency)
	}
	if client.quoteProfileID != 2 {
		t.Fatalf("expected quote on personal profile 2, got %d", client.quoteProfileID)
	}
	if client.quoteReq.SourceCurrency != "USD" || client.quoteReq.TargetCurrency != "GBP" {
		t.Fatalf("unexpected quote currencies: %+v", client.quoteReq)
	}
	if client.quoteReq.SourceAmount != 500 {
		t.Fatalf("expected sourceAmount 500, got %v", client.quoteReq.SourceAmount)
	}
	if client.quoteReq.TargetAmount != nil {
		t.Fatalf("expected nil targetAmount, got %v", *client.quoteReq.TargetAmount)
	}
	if client.quoteReq.PayOut != "BANK_TRANSFER" || client.quoteReq.PreferredPayIn != "BALANCE" {
		t.Fatalf("unexpected quote routing: %+v", client.quoteReq)
	}

	if client.transferReq.TargetAccount != 11 {
		t.Fatalf("expected transfer to matched recipient 11, got %d", client.transferReq.TargetAccount)
	}
	if client.transferReq.QuoteUUID != "q-1" {
		t.Fatalf("expected transfer against quote q-1, got %q", client.transferReq.QuoteUUID)
	}
	if client.transferReq.CustomerTransactionID == "" {
		t.Fatal("expected a customerTransactionId on the transfer request")
	}

	if client.fundProfileID != 2 || client.fundTransferID != 42 {
		t.Fatalf("unexpected funding call: profile %d transfer %d", client.fundProfileID, client.fundTransferID)
	}
}

func TestSweepFailsWithoutPersonalProfile(t *testing.T) {
	client := happyClient()
	client.profiles = []wise.Profile{{ID: 1, Type: "business"}}
	svc := newService(client)

	err := svc.Sweep(context.Background(), decimal.NewFromInt(500))
	if !errors.Is(err, domain.ErrNoPersonalProfile) {
		t.Fatalf("expected ErrNoPersonalProfile, got %v", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected no calls past the profile lookup, got %v", client.calls)
	}
}

func TestSweepRecipientMatchIsExact(t *testing.T) {
	cases := []struct {
		name       string
		configured string
		returned   string
	}{
		{"trailing whitespace", "12345678", "12345678 "},
		{"leading whitespace", "12345678", " 12345678"},
		{"different value", "12345678", "87654321"},
		{"different case", "GB29NWBK1234", "gb29nwbk1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := happyClient()
			client.accounts = []wise.Account{
				{ID: 11, AccountHolderName: "Near Match", Details: wise.AccountDetails{AccountNumber: tc.returned}},
			}
			svc := services.NewSweepService(client, "USD", "GBP", tc.configured)

			err := svc.Sweep(context.Background(), decimal.NewFromInt(500))
			if !errors.Is(err, domain.ErrRecipientNotFound) {
				t.Fatalf("expected ErrRecipientNotFound, got %v", err)
			}
		})
	}
}

func TestSweepFailsWithoutBalanceOption(t *testing.T) {
	client := happyClient()
	client.quote.PaymentOptions = []wise.PaymentOption{
		{PayIn: "BANK_TRANSFER", TargetAmount: 390},
		{PayIn: "CARD", TargetAmount: 385},
	}
	svc := newService(client)

	err := svc.Sweep(context.Background(), decimal.NewFromInt(500))
	if !errors.Is(err, domain.ErrNoBalanceOption) {
		t.Fatalf("expected ErrNoBalanceOption, got %v", err)
	}
	if len(client.calls) != 3 {
		t.Fatalf("expected workflow to stop after the quote, got %v", client.calls)
	}
}

func TestSweepStopsWhenTransferCreationFails(t *testing.T) {
	client := happyClient()
	client.transferErr = &wise.RetryExhaustedError{StatusCode: 503, Body: "unavailable"}
	svc := newService(client)

	err := svc.Sweep(context.Background(), decimal.NewFromInt(500))
	var exhausted *wise.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
	for _, call := range client.calls {
		if call == "fund" {
			t.Fatal("funding must not run when creation failed")
		}
	}
}

func TestSweepPropagatesFundingFailure(t *testing.T) {
	client := happyClient()
	client.fundingErr = &wise.RetryExhaustedError{StatusCode: 500, Body: "funding failed"}
	svc := newService(client)

	err := svc.Sweep(context.Background(), decimal.NewFromInt(500))
	var exhausted *wise.RetryExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetryExhaustedError, got %v", err)
	}
}

// TestSweepEndToEnd drives the workflow through the real client against a fake
// provider covering all five endpoints.
func TestSweepEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	var transferBody wise.TransferRequest

	mux := http.NewServeMux()
	record := func(r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
	}
	mux.HandleFunc("GET /v1/profiles", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`[{"id":1,"type":"business"},{"id":2,"type":"personal"}]`))
	})
	mux.HandleFunc("GET /v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.URL.Query().Get("currency") != "GBP" {
			t.Errorf("expected currency=GBP, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"id":11,"accountHolderName":"The Target","details":{"accountNumber":"12345678"}}]`))
	})
	mux.HandleFunc("POST /v3/profiles/2/quotes", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"id":"q-1","rate":0.79,"paymentOptions":[{"payIn":"BALANCE","fee":{"total":1.5},"targetAmount":393.5}]}`))
	})
	mux.HandleFunc("POST /v1/transfers", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		mu.Lock()
		json.NewDecoder(r.Body).Decode(&transferBody)
		mu.Unlock()
		w.Write([]byte(`{"id":42}`))
	})
	mux.HandleFunc("POST /v3/profiles/2/transfers/42/payments", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{"status":"COMPLETED"}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := wise.NewClient(server.URL, "test-token")
	svc := services.NewSweepService(client, "USD", "GBP", "12345678")

	if err := svc.Sweep(context.Background(), decimal.NewFromInt(500)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{
		"/v1/profiles",
		"/v1/accounts",
		"/v3/profiles/2/quotes",
		"/v1/transfers",
		"/v3/profiles/2/transfers/42/payments",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected paths %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("expected paths %v, got %v", want, paths)
		}
	}
	if transferBody.TargetAccount != 11 || transferBody.QuoteUUID != "q-1" {
		t.Fatalf("unexpected transfer body: %+v", transferBody)
	}
}
