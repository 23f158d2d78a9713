package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrTransactionNotFound is returned when the processor has no record of the
// requested transaction. Callers distinguish it from transport errors with
// errors.Is.
var ErrTransactionNotFound = errors.New("transaction not found")

// RemoteTransaction is a read-only snapshot of a payment as the processor
// reports it. Amounts are in minor units (cents for two-decimal currencies)
// and the currency code is lower case, both per the processor's convention.
type RemoteTransaction struct {
	ID            string
	Amount        int64
	Currency      string
	Status        string
	Created       time.Time
	Description   string
	Metadata      map[string]string
	CustomerID    string
	PaymentMethod string
}

// Client defines the interface for payment processor operations.
type Client interface {
	// ListTransactions fetches all transactions created within [start, end),
	// following cursor pagination until the window is exhausted. Zero times
	// leave the corresponding bound open.
	ListTransactions(ctx context.Context, start, end time.Time) ([]RemoteTransaction, error)
	// GetTransaction fetches a single transaction by processor id. Returns
	// ErrTransactionNotFound when the processor does not know the id.
	GetTransaction(ctx context.Context, id string) (RemoteTransaction, error)
	// Ping verifies the API is reachable and the credentials are accepted
	// using a single-item list request.
	Ping(ctx context.Context) error
}

// NewClient creates a processor API client based on the configuration.
func NewClient(cfg Config) Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	limit := cfg.PageLimit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	return &httpClient{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		pageLimit: limit,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

type httpClient struct {
	baseURL   string
	secretKey string
	pageLimit int
	client    *http.Client
}

// wireTransaction mirrors the processor's JSON shape; created is epoch seconds.
type wireTransaction struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	Created       int64             `json:"created"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
	Customer      string            `json:"customer"`
	PaymentMethod string            `json:"payment_method"`
}

func (w wireTransaction) toRemote() RemoteTransaction {
	return RemoteTransaction{
		ID:            w.ID,
		Amount:        w.Amount,
		Currency:      w.Currency,
		Status:        w.Status,
		Created:       time.Unix(w.Created, 0).UTC(),
		Description:   w.Description,
		Metadata:      w.Metadata,
		CustomerID:    w.Customer,
		PaymentMethod: w.PaymentMethod,
	}
}

type listResponse struct {
	Data    []wireTransaction `json:"data"`
	HasMore bool              `json:"has_more"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *httpClient) ListTransactions(ctx context.Context, start, end time.Time) ([]RemoteTransaction, error) {
	var out []RemoteTransaction
	startingAfter := ""
	for {
		page, err := c.listPage(ctx, start, end, startingAfter, c.pageLimit)
		if err != nil {
			return nil, err
		}
		for _, w := range page.Data {
			out = append(out, w.toRemote())
		}
		if !page.HasMore || len(page.Data) == 0 {
			return out, nil
		}
		startingAfter = page.Data[len(page.Data)-1].ID
	}
}

func (c *httpClient) GetTransaction(ctx context.Context, id string) (RemoteTransaction, error) {
	var w wireTransaction
	if err := c.get(ctx, "/payment_intents/"+url.PathEscape(id), &w); err != nil {
		return RemoteTransaction{}, err
	}
	return w.toRemote(), nil
}

func (c *httpClient) Ping(ctx context.Context) error {
	_, err := c.listPage(ctx, time.Time{}, time.Time{}, "", 1)
	return err
}

func (c *httpClient) listPage(ctx context.Context, start, end time.Time, startingAfter string, limit int) (*listResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if !start.IsZero() {
		q.Set("created[gte]", strconv.FormatInt(start.Unix(), 10))
	}
	if !end.IsZero() {
		q.Set("created[lt]", strconv.FormatInt(end.Unix(), 10))
	}
	if startingAfter != "" {
		q.Set("starting_after", startingAfter)
	}

	var page listResponse
	if err := c.get(ctx, "/payment_intents?"+q.Encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build processor request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payment processor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTransactionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode processor response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("payment processor error (%d %s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("payment processor returned status %d", resp.StatusCode)
}
