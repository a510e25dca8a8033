package midtrans

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/febryan/qrispay/internal/domain/errors"
	"github.com/febryan/qrispay/internal/domain/model"
)

// ErrTransactionNotFound indicates the provider doesn't know the order yet.
var ErrTransactionNotFound = errors.New("transaction not found")

// TooManyRequestsError represents rate limiting signal from the provider.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes the two operations of the QR payment provider.
type Client interface {
	Charge(ctx context.Context, orderID string, amount int64, payer model.Payer) (*model.ChargeResult, error)
	Status(ctx context.Context, orderID string) (*model.ProviderTransaction, error)
}

// HTTPClient implements Client against the Midtrans Core API.
type HTTPClient struct {
	baseURL    *url.URL
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
}

const qrCodeActionName = "generate-qr-code"

type chargeRequest struct {
	PaymentType        string             `json:"payment_type"`
	TransactionDetails transactionDetails `json:"transaction_details"`
	QRIS               qrisOptions        `json:"qris"`
	CustomerDetails    customerDetails    `json:"customer_details"`
}

type transactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type qrisOptions struct {
	Acquirer string `json:"acquirer"`
}

type customerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

// response mirrors the JSON payload of charge and status endpoints.
type response struct {
	StatusCode        string   `json:"status_code"`
	StatusMessage     string   `json:"status_message"`
	OrderID           string   `json:"order_id"`
	TransactionID     string   `json:"transaction_id"`
	TransactionStatus string   `json:"transaction_status"`
	PaymentType       string   `json:"payment_type"`
	Actions           []action `json:"actions"`
}

type action struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (r response) qrCodeURL() string {
	for _, a := range r.Actions {
		if a.Name == qrCodeActionName {
			return a.URL
		}
	}
	return ""
}

// NewHTTPClient creates a provider client with default timeout.
func NewHTTPClient(baseURL, serverKey string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provider url must be absolute")
	}
	if serverKey == "" {
		return nil, fmt.Errorf("provider server key must not be empty")
	}
	return &HTTPClient{
		baseURL:    parsed,
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(serverKey+":")),
		logger:     logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Charge creates a QRIS charge for the order and returns its QR payload.
func (c *HTTPClient) Charge(ctx context.Context, orderID string, amount int64, payer model.Payer) (*model.ChargeResult, error) {
	payload := chargeRequest{
		PaymentType: "qris",
		TransactionDetails: transactionDetails{
			OrderID:     orderID,
			GrossAmount: amount,
		},
		QRIS: qrisOptions{Acquirer: "gopay"},
		CustomerDetails: customerDetails{
			FirstName: payer.Name,
			Email:     payer.Email,
		},
	}

	data, err := c.do(ctx, http.MethodPost, "/v2/charge", payload)
	if err != nil {
		return nil, err
	}

	qrCodeURL := data.qrCodeURL()
	if qrCodeURL == "" {
		return nil, fmt.Errorf("%w: charge response carries no QR action", domainErrors.ErrProviderRejected)
	}

	return &model.ChargeResult{
		TransactionID: data.TransactionID,
		QRCodeURL:     qrCodeURL,
	}, nil
}

// Status queries the provider for the live transaction state of the order.
func (c *HTTPClient) Status(ctx context.Context, orderID string) (*model.ProviderTransaction, error) {
	data, err := c.do(ctx, http.MethodGet, path.Join("/v2", orderID, "status"), nil)
	if err != nil {
		return nil, err
	}

	return &model.ProviderTransaction{
		OrderID:           data.OrderID,
		TransactionID:     data.TransactionID,
		TransactionStatus: model.TransactionStatus(data.TransactionStatus),
		PaymentType:       data.PaymentType,
		QRCodeURL:         data.qrCodeURL(),
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpointPath string, payload any) (*response, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authHeader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
		}
		var data response
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
		}
		return &data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrTransactionNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("provider rejected request",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProviderRejected, resp.Status)
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("provider request failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProviderUnavailable, resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
