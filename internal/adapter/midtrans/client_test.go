package midtrans

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesInput(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "key", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "key", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient("https://api.sandbox.midtrans.com", "", testLogger()); err == nil {
		t.Fatal("expected error for empty server key")
	}
}

func TestChargeReturnsQRPayload(t *testing.T) {
	var gotAuth string
	var gotBody chargeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/charge" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode charge body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"status_code": "201",
			"transaction_id": "tx-1",
			"transaction_status": "pending",
			"actions": [{"name": "generate-qr-code", "url": "https://api/qr/tx-1"}]
		}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "server-key", testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.Charge(context.Background(), "ORDER-1-abc", 250000, model.Payer{Name: "Budi", Email: "budi@example.com"})
	if err != nil {
		t.Fatalf("charge returned error: %v", err)
	}
	if result.QRCodeURL != "https://api/qr/tx-1" {
		t.Fatalf("unexpected qr url %q", result.QRCodeURL)
	}
	if result.TransactionID != "tx-1" {
		t.Fatalf("unexpected transaction id %q", result.TransactionID)
	}
	if gotAuth == "" {
		t.Fatal("expected basic auth header")
	}
	if gotBody.TransactionDetails.OrderID != "ORDER-1-abc" || gotBody.TransactionDetails.GrossAmount != 250000 {
		t.Fatalf("unexpected transaction details %+v", gotBody.TransactionDetails)
	}
	if gotBody.PaymentType != "qris" {
		t.Fatalf("expected qris payment type, got %q", gotBody.PaymentType)
	}
	if gotBody.CustomerDetails.Email != "budi@example.com" {
		t.Fatalf("unexpected customer details %+v", gotBody.CustomerDetails)
	}
}

func TestChargeWithoutQRActionIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code": "201", "transaction_id": "tx-1", "actions": []}`))
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	if _, err := client.Charge(context.Background(), "ORDER-1", 100000, model.Payer{}); !errors.Is(err, domainErrors.ErrProviderRejected) {
		t.Fatalf("expected provider rejected error, got %v", err)
	}
}

func TestChargeMapsClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	if _, err := client.Charge(context.Background(), "ORDER-1", 100000, model.Payer{}); !errors.Is(err, domainErrors.ErrProviderRejected) {
		t.Fatalf("expected provider rejected error, got %v", err)
	}
}

func TestStatusReturnsProviderTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/ORDER-9/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"order_id": "ORDER-9",
			"transaction_id": "tx-9",
			"transaction_status": "settlement",
			"payment_type": "qris",
			"actions": [{"name": "generate-qr-code", "url": "https://api/qr/tx-9"}]
		}`))
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	tx, err := client.Status(context.Background(), "ORDER-9")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if tx.TransactionStatus != model.TransactionStatusSettlement {
		t.Fatalf("unexpected transaction status %q", tx.TransactionStatus)
	}
	if tx.TransactionID != "tx-9" || tx.PaymentType != "qris" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.QRCodeURL != "https://api/qr/tx-9" {
		t.Fatalf("unexpected qr url %q", tx.QRCodeURL)
	}
}

func TestStatusNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	if _, err := client.Status(context.Background(), "ORDER-9"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected transaction not found, got %v", err)
	}
}

func TestStatusRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	_, err := client.Status(context.Background(), "ORDER-9")
	var rateErr TooManyRequestsError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
	if rateErr.RetryAfter != 2*time.Second {
		t.Fatalf("unexpected retry-after %v", rateErr.RetryAfter)
	}
}

func TestStatusUnreachableProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, "server-key", testLogger())
	if _, err := client.Status(context.Background(), "ORDER-9"); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}

	server.Close()
	if _, err := client.Status(context.Background(), "ORDER-9"); !errors.Is(err, domainErrors.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable for closed server, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d := parseRetryAfter(""); d != 5*time.Second {
		t.Fatalf("expected default retry-after, got %v", d)
	}
	if d := parseRetryAfter("7"); d != 7*time.Second {
		t.Fatalf("expected 7s, got %v", d)
	}
	if d := parseRetryAfter("garbage"); d != 5*time.Second {
		t.Fatalf("expected default for garbage, got %v", d)
	}
}
