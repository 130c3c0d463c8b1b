// Package mercadopago is a minimal client for the two Mercado Pago
// endpoints the funnel needs: direct PIX payments (QR code + copy-paste
// code, confirmed by polling) and checkout preferences (hosted redirect).
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.mercadopago.com"

var (
	// ErrNotConfigured means the access token is missing server-side.
	// Operator problem, not retryable by the end user.
	ErrNotConfigured = errors.New("mercadopago: access token not configured")
	// ErrUnauthorized means the provider rejected the credential (401).
	ErrUnauthorized = errors.New("mercadopago: invalid access token")
)

// APIError is any other non-2xx or malformed gateway response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercadopago: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

type Client struct {
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewFromEnv returns a configured client or nil when MERCADOPAGO_ACCESS_TOKEN
// is not set.
func NewFromEnv() *Client {
	token := os.Getenv("MERCADOPAGO_ACCESS_TOKEN")
	if token == "" {
		return nil
	}
	return New(token)
}

func New(accessToken string) *Client {
	return &Client{
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

// WithBaseURL points the client at a different host. Used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// PixRequest creates one direct PIX payment.
type PixRequest struct {
	Amount         float64
	Description    string
	PayerEmail     string
	PayerFirstName string
	PayerLastName  string
}

// PixPayment is the artifact shown to the user: the QR image and the
// copy-paste code, plus the id used for status polling.
type PixPayment struct {
	ID              string
	Status          string
	QRCodeBase64    string
	QRCodeCopyPaste string
	IdempotencyKey  string
}

// CreatePixPayment creates a PIX payment. A fresh idempotency key is
// generated per call, so a retried click always maps to a new logical
// attempt and never double-charges an old one.
func (c *Client) CreatePixPayment(ctx context.Context, req PixRequest) (*PixPayment, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	key := uuid.NewString()

	payload := map[string]interface{}{
		"transaction_amount": req.Amount,
		"description":        req.Description,
		"payment_method_id":  "pix",
		"payer": map[string]interface{}{
			"email":      req.PayerEmail,
			"first_name": req.PayerFirstName,
			"last_name":  req.PayerLastName,
		},
	}

	var resp struct {
		ID                 json.Number `json:"id"`
		Status             string      `json:"status"`
		PointOfInteraction struct {
			TransactionData struct {
				QRCode       string `json:"qr_code"`
				QRCodeBase64 string `json:"qr_code_base64"`
			} `json:"transaction_data"`
		} `json:"point_of_interaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/payments", key, payload, &resp); err != nil {
		return nil, err
	}

	if resp.PointOfInteraction.TransactionData.QRCode == "" &&
		resp.PointOfInteraction.TransactionData.QRCodeBase64 == "" {
		// Approved-shaped response without the PIX data is useless for the UI.
		return nil, &APIError{Status: http.StatusOK, Code: "missing_pix_data", Message: "resposta sem dados do PIX"}
	}

	return &PixPayment{
		ID:              resp.ID.String(),
		Status:          resp.Status,
		QRCodeBase64:    resp.PointOfInteraction.TransactionData.QRCodeBase64,
		QRCodeCopyPaste: resp.PointOfInteraction.TransactionData.QRCode,
		IdempotencyKey:  key,
	}, nil
}

// PaymentStatus is the polled payment state.
type PaymentStatus struct {
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

// GetPayment queries the current status of a payment by its external id.
func (c *Client) GetPayment(ctx context.Context, id string) (*PaymentStatus, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	var resp struct {
		Status       string `json:"status"`
		StatusDetail string `json:"status_detail"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+id, "", nil, &resp); err != nil {
		return nil, err
	}
	return &PaymentStatus{Status: resp.Status, StatusDetail: resp.StatusDetail}, nil
}

// PreferenceRequest creates a hosted-checkout preference (redirect mode).
type PreferenceRequest struct {
	Title       string
	Description string
	Amount      float64
	PayerName   string
	PayerEmail  string
	SuccessURL  string
	FailureURL  string
}

// Preference carries the redirect URL for the hosted checkout.
type Preference struct {
	ID        string
	InitPoint string
}

// CreatePreference creates a checkout preference that redirects back to the
// given URLs after payment.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	payload := map[string]interface{}{
		"items": []map[string]interface{}{{
			"id":          "fitcalc-premium-01",
			"title":       req.Title,
			"description": req.Description,
			"quantity":    1,
			"unit_price":  req.Amount,
			"currency_id": "BRL",
		}},
		"payer": map[string]interface{}{
			"name":  req.PayerName,
			"email": req.PayerEmail,
		},
		"back_urls": map[string]interface{}{
			"success": req.SuccessURL,
			"failure": req.FailureURL,
			"pending": req.FailureURL,
		},
		"auto_return": "approved",
	}
	var resp struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", uuid.NewString(), payload, &resp); err != nil {
		return nil, err
	}
	if resp.InitPoint == "" {
		return nil, &APIError{Status: http.StatusOK, Code: "missing_init_point", Message: "resposta sem URL de checkout"}
	}
	return &Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mercadopago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &apiErr)
		return &APIError{Status: resp.StatusCode, Code: apiErr.Error, Message: apiErr.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Code: "malformed_response", Message: err.Error()}
	}
	return nil
}
