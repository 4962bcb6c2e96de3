package razorpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(serverURL string) *Client {
	return NewClient(Config{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   serverURL,
	})
}

func TestCreateOrder(t *testing.T) {
	var gotReq OrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/orders" {
			t.Errorf("path = %q, want /v1/orders", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "rzp_test_secret" {
			t.Error("missing or wrong basic auth credentials")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("failed to decode order request: %v", err)
		}
		json.NewEncoder(w).Encode(Order{
			ID:       "order_test001",
			Amount:   gotReq.Amount,
			Currency: gotReq.Currency,
			Receipt:  gotReq.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	order, err := client.CreateOrder(context.Background(), OrderRequest{
		Amount:  600000,
		Receipt: "rcpt_42_3_1739188800",
		Notes:   map[string]string{"studentId": "42"},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	if order.ID != "order_test001" {
		t.Errorf("order ID = %q, want order_test001", order.ID)
	}
	if gotReq.Currency != "INR" {
		t.Errorf("request currency = %q, want default INR", gotReq.Currency)
	}
	if gotReq.Amount != 600000 {
		t.Errorf("request amount = %d, want 600000", gotReq.Amount)
	}
	if gotReq.Notes["studentId"] != "42" {
		t.Error("notes not forwarded")
	}
}

func TestCreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 1})
	if !errors.Is(err, ErrOrderRejected) {
		t.Fatalf("CreateOrder error = %v, want ErrOrderRejected", err)
	}
}

func TestCreateOrderEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), OrderRequest{Amount: 100000})
	if !errors.Is(err, ErrOrderRejected) {
		t.Fatalf("CreateOrder error = %v, want ErrOrderRejected for missing order id", err)
	}
}
