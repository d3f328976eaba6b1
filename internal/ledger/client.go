// Package ledger is the HTTP client for the remote personal-finance
// ledger API. It exposes the three operations the reconciler consumes:
// transaction search, transaction creation, and account listing.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/loansync-dev/loansync/internal/model"
)

const (
	// searchRetries bounds the retry loop for idempotent reads. Writes are
	// never retried: the only duplicate suppression downstream is date
	// proximity, so a blindly repeated POST could double-post.
	searchRetries    = 3
	retryBackoffBase = 500 * time.Millisecond
)

// Config holds the client's connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	UserID  int64
	Timeout time.Duration // zero = 30s
}

// Client talks to the remote ledger API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userID     int64
	sleep      func(time.Duration) // swapped out in tests
}

// New creates a ledger API client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userID:     cfg.UserID,
		sleep:      time.Sleep,
	}
}

// Search returns transactions for one account whose payee or description
// matches query (empty = no filter) within the inclusive date window.
// Results are returned in the service's native order, expected to be
// most-recent-first; callers verify, not the client. Transport errors and
// 5xx responses are retried a bounded number of times since the read is
// idempotent.
func (c *Client) Search(ctx context.Context, accountID int64, query string, startDate, endDate time.Time) ([]model.Transaction, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("start_date", model.FormatDate(startDate))
	params.Set("end_date", model.FormatDate(endDate))
	path := fmt.Sprintf("transaction_accounts/%d/transactions?%s", accountID, params.Encode())

	var wire []wireTransaction
	var err error
	for attempt := 0; attempt < searchRetries; attempt++ {
		if attempt > 0 {
			c.sleep(retryBackoffBase * time.Duration(attempt))
		}
		err = c.do(ctx, http.MethodGet, path, nil, &wire)
		if err == nil {
			break
		}
		if !isRetryable(err) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, 0, len(wire))
	for i, w := range wire {
		txn, convErr := w.toModel()
		if convErr != nil {
			return nil, fmt.Errorf("account %d result %d: %w", accountID, i, convErr)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// Post creates one transaction in the given account. Any transport or
// application error is propagated, never retried.
func (c *Client) Post(ctx context.Context, accountID int64, draft model.TransactionDraft) (model.Transaction, error) {
	body := createRequest{
		Payee:      draft.Payee,
		Amount:     draft.Amount.String(),
		Date:       model.FormatDate(draft.Date),
		IsTransfer: draft.IsTransfer,
		Note:       draft.Note,
	}
	if draft.CategoryID != "" {
		body.CategoryID = &draft.CategoryID
	}

	var wire wireTransaction
	path := fmt.Sprintf("transaction_accounts/%d/transactions", accountID)
	if err := c.do(ctx, http.MethodPost, path, body, &wire); err != nil {
		return model.Transaction{}, err
	}
	return wire.toModel()
}

// Accounts lists the user's transaction accounts.
func (c *Client) Accounts(ctx context.Context) ([]model.Account, error) {
	var wire []wireAccount
	path := fmt.Sprintf("users/%d/transaction_accounts", c.userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	accounts := make([]model.Account, len(wire))
	for i, w := range wire {
		accounts[i] = model.Account{ID: w.ID, Name: w.Name}
	}
	return accounts, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encoding request: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s %s: creating request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Developer-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{method: method, path: path, err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &transportError{method: method, path: path, err: err}
	}

	// The API reports application errors via an "error" field even on
	// success status codes; check it before anything else.
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &probe) == nil && probe.Error != "" {
		return &apiError{method: method, path: path, status: resp.StatusCode, message: probe.Error}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &apiError{method: method, path: path, status: resp.StatusCode, message: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decoding response: %w", method, path, err)
		}
	}
	return nil
}
