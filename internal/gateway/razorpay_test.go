package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(3000), req.Amount)
		assert.Equal(t, "INR", req.Currency)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{ID: "order_abc", Entity: "order", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, KeyID: "rzp_key", KeySecret: "rzp_secret"})
	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 3000, Currency: "INR", Receipt: "rcpt_1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "rcpt_1", order.Receipt)
}

func TestCreateOrderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_retry","amount":100,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Retries: 2})
	order, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "order_retry", order.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreateOrderClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Retries: 3})
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
	assert.Equal(t, int32(1), calls.Load(), "4xx responses are not retried")
}

func TestCreateOrderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.CreateOrder(context.Background(), OrderRequest{Amount: 0, Currency: "INR"})
	assert.Error(t, err)
}
