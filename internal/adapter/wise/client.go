package wise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = 250 * time.Millisecond
	defaultHTTPTimeout = 10 * time.Second
)

// RetryExhaustedError is returned when every attempt of a call failed. A
// StatusCode of 0 means the final attempt never produced a response and Body
// holds the transport error instead.
type RetryExhaustedError struct {
	StatusCode int
	Body       string
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("API error after retries: %d %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	maxRetries  int
	backoffBase time.Duration
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
	}
}

// Profiles lists the profiles visible to the token. Wise returns the full list
// in one page.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.do(ctx, http.MethodGet, "/v1/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Accounts lists the recipient accounts configured for the given currency.
func (c *Client) Accounts(ctx context.Context, currency string) ([]Account, error) {
	query := url.Values{"currency": {currency}}
	var accounts []Account
	if err := c.do(ctx, http.MethodGet, "/v1/accounts?"+query.Encode(), nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) CreateQuote(ctx context.Context, profileID int64, req QuoteRequest) (Quote, error) {
	path := fmt.Sprintf("/v3/profiles/%d/quotes", profileID)
	var quote Quote
	if err := c.do(ctx, http.MethodPost, path, req, &quote); err != nil {
		return Quote{}, err
	}
	return quote, nil
}

func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (Transfer, error) {
	var transfer Transfer
	if err := c.do(ctx, http.MethodPost, "/v1/transfers", req, &transfer); err != nil {
		return Transfer{}, err
	}
	return transfer, nil
}

func (c *Client) FundTransfer(ctx context.Context, profileID, transferID int64) (FundingResult, error) {
	path := fmt.Sprintf("/v3/profiles/%d/transfers/%d/payments", profileID, transferID)
	var result FundingResult
	if err := c.do(ctx, http.MethodPost, path, fundingRequest{Type: PayInBalance}, &result); err != nil {
		return FundingResult{}, err
	}
	return result, nil
}

// do sends one logical call, retrying with exponential backoff until a 2xx
// response arrives or maxRetries is exceeded. Transport failures and non-2xx
// statuses are not distinguished: both count as a failed attempt. The request
// is rebuilt from the encoded body on every attempt so POSTs re-send
// identical bytes.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	attempt := 0
	for {
		resp, err := c.send(ctx, method, path, encoded)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return decode(resp, out)
		}

		attempt++
		if attempt > c.maxRetries {
			if err != nil {
				return &RetryExhaustedError{Body: err.Error()}
			}
			text, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return &RetryExhaustedError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
		}

		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		delay := c.backoffBase << (attempt - 1)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
