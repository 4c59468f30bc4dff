// Package bankfeed is a thin client for the bank-aggregation provider. It
// exchanges link tokens for access tokens and pulls account and transaction
// data; everything downstream of the wire format (category mapping, cent
// conversion, dedupe) belongs to the sync service.
package bankfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	exchangeEndpoint     = "/item/public_token/exchange"
	accountsEndpoint     = "/accounts/get"
	transactionsEndpoint = "/transactions/get"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3

	// transactionsPageSize is the provider's maximum page size.
	transactionsPageSize = 500
)

// Config holds the provider credentials and connection settings.
type Config struct {
	BaseURL    string
	ClientID   string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
}

// Client talks to the bank-feed provider over a retrying HTTP client.
// Safe for concurrent use.
type Client struct {
	baseURL  string
	clientID string
	secret   string
	http     *retryablehttp.Client
}

// New creates a bank-feed client from the given config.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: timeout}
	rc.RetryMax = maxRetries
	rc.Logger = nil

	return &Client{
		baseURL:  cfg.BaseURL,
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
		http:     rc,
	}
}

// Account is a bank account as reported by the provider.
type Account struct {
	AccountID string  `json:"account_id"`
	Name      string  `json:"name"`
	Mask      string  `json:"mask"`
	Type      string  `json:"type"`
	Balance   float64 `json:"balance"`
}

// Transaction is a transaction as reported by the provider. Amount is in
// dollars with the provider's sign convention (outflows negative).
type Transaction struct {
	TransactionID string  `json:"transaction_id"`
	AccountID     string  `json:"account_id"`
	Name          string  `json:"name"`
	Merchant      string  `json:"merchant_name"`
	Amount        float64 `json:"amount"`
	Date          string  `json:"date"`
	Pending       bool    `json:"pending"`
	Category      string  `json:"personal_finance_category"`
}

// apiError is the provider's error envelope.
type apiError struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// ExchangePublicToken trades the public token from the link flow for a
// long-lived access token and the provider's item ID.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	body := map[string]interface{}{"public_token": publicToken}
	if err := c.post(ctx, exchangeEndpoint, body, &resp); err != nil {
		return "", "", errors.Wrap(err, "failed to exchange public token")
	}
	return resp.AccessToken, resp.ItemID, nil
}

// Accounts returns the accounts reachable with the given access token.
func (c *Client) Accounts(ctx context.Context, accessToken string) ([]Account, error) {
	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	body := map[string]interface{}{"access_token": accessToken}
	if err := c.post(ctx, accountsEndpoint, body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get accounts")
	}
	return resp.Accounts, nil
}

// Transactions returns all transactions in [startDate, endDate] (YYYY-MM-DD),
// following the provider's offset pagination until the reported total is
// reached.
func (c *Client) Transactions(ctx context.Context, accessToken, startDate, endDate string) ([]Transaction, error) {
	var all []Transaction
	offset := 0

	for {
		var resp struct {
			Transactions []Transaction `json:"transactions"`
			Total        int           `json:"total_transactions"`
		}
		body := map[string]interface{}{
			"access_token": accessToken,
			"start_date":   startDate,
			"end_date":     endDate,
			"options": map[string]interface{}{
				"count":  transactionsPageSize,
				"offset": offset,
			},
		}
		if err := c.post(ctx, transactionsEndpoint, body, &resp); err != nil {
			return nil, errors.Wrap(err, "failed to get transactions")
		}

		all = append(all, resp.Transactions...)
		offset = len(all)
		if len(resp.Transactions) == 0 || offset >= resp.Total {
			return all, nil
		}
	}
}

// post sends a JSON POST with the client credentials merged into the body and
// decodes the response into out.
func (c *Client) post(ctx context.Context, endpoint string, body map[string]interface{}, out interface{}) error {
	body["client_id"] = c.clientID
	body["secret"] = c.secret

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.ErrorCode != "" {
			return errors.Errorf("provider error %s: %s", apiErr.ErrorCode, apiErr.ErrorMessage)
		}
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to decode %s response", endpoint))
	}
	return nil
}
