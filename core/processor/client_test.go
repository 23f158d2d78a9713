package processor_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"payment-reconciler/core/processor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) processor.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return processor.NewClient(processor.Config{
		BaseURL:   srv.URL,
		SecretKey: "sk_test_123",
	})
}

func TestClient_ListTransactions(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, fmt.Sprintf("%d", start.Unix()), r.URL.Query().Get("created[gte]"))
		assert.Equal(t, fmt.Sprintf("%d", end.Unix()), r.URL.Query().Get("created[lt]"))

		fmt.Fprintf(w, `{"data": [{
			"id": "pi_123",
			"amount": 10000,
			"currency": "usd",
			"status": "succeeded",
			"created": %d,
			"description": "Order 42",
			"metadata": {"order_id": "42"},
			"customer": "cus_1",
			"payment_method": "pm_1"
		}], "has_more": false}`, start.Add(time.Hour).Unix())
	})

	txns, err := client.ListTransactions(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	assert.Equal(t, "pi_123", txns[0].ID)
	assert.Equal(t, int64(10000), txns[0].Amount)
	assert.Equal(t, "usd", txns[0].Currency)
	assert.Equal(t, "succeeded", txns[0].Status)
	assert.Equal(t, start.Add(time.Hour), txns[0].Created)
	assert.Equal(t, "Order 42", txns[0].Description)
	assert.Equal(t, map[string]string{"order_id": "42"}, txns[0].Metadata)
	assert.Equal(t, "cus_1", txns[0].CustomerID)
	assert.Equal(t, "pm_1", txns[0].PaymentMethod)
}

func TestClient_ListTransactions_Pagination(t *testing.T) {
	var cursors []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("starting_after")
		cursors = append(cursors, cursor)

		switch cursor {
		case "":
			fmt.Fprint(w, `{"data": [{"id": "pi_1", "amount": 100, "currency": "usd", "status": "succeeded", "created": 1700000000}, {"id": "pi_2", "amount": 200, "currency": "usd", "status": "succeeded", "created": 1700000001}], "has_more": true}`)
		case "pi_2":
			fmt.Fprint(w, `{"data": [{"id": "pi_3", "amount": 300, "currency": "usd", "status": "succeeded", "created": 1700000002}], "has_more": false}`)
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	})

	txns, err := client.ListTransactions(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, []string{"", "pi_2"}, cursors)
	assert.Equal(t, "pi_1", txns[0].ID)
	assert.Equal(t, "pi_3", txns[2].ID)
}

func TestClient_ListTransactions_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "Invalid API Key provided"}}`)
	})

	_, err := client.ListTransactions(context.Background(), time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_request_error")
	assert.Contains(t, err.Error(), "Invalid API Key provided")
}

func TestClient_GetTransaction(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/payment_intents/pi_123", r.URL.Path)
			fmt.Fprint(w, `{"id": "pi_123", "amount": 5000, "currency": "eur", "status": "processing", "created": 1700000000}`)
		})

		txn, err := client.GetTransaction(context.Background(), "pi_123")
		require.NoError(t, err)
		assert.Equal(t, "pi_123", txn.ID)
		assert.Equal(t, int64(5000), txn.Amount)
		assert.Equal(t, time.Unix(1700000000, 0).UTC(), txn.Created)
	})

	t.Run("NotFound", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"type": "invalid_request_error", "message": "No such payment_intent"}}`)
		})

		_, err := client.GetTransaction(context.Background(), "pi_missing")
		assert.ErrorIs(t, err, processor.ErrTransactionNotFound)
	})
}

func TestClient_Ping(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			fmt.Fprint(w, `{"data": [], "has_more": false}`)
		})

		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("Unreachable", func(t *testing.T) {
		client := processor.NewClient(processor.Config{
			BaseURL:        "http://127.0.0.1:1",
			TimeoutSeconds: 1,
		})

		assert.Error(t, client.Ping(context.Background()))
	})
}
