package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ventura-backend/config"
)

// PaymentProvider is the narrow surface the payment coordinator needs
// from the external provider: one call to create an order, one to
// capture it. Implementations must return a distinguishable error on
// non-success HTTP status or malformed responses.
type PaymentProvider interface {
	CreateOrder(amount, currency, referenceID string) (*ProviderOrder, error)
	CaptureOrder(orderID string) (*ProviderCapture, error)
}

// ProviderOrder is the provider's answer to order creation.
type ProviderOrder struct {
	OrderID    string
	ApproveURL string
}

// ProviderCapture is the provider's answer to a capture attempt.
// Status is the provider's own vocabulary (COMPLETED, APPROVED, ...);
// Raw keeps the full payload for auditing.
type ProviderCapture struct {
	CaptureID string
	Status    string
	Raw       json.RawMessage
}

// PayPalClient implements PaymentProvider against the PayPal v2
// checkout API. Every call fetches a client-credentials token first,
// mirroring a stateless single-attempt integration; calls are bounded
// by the HTTP client timeout.
type PayPalClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	http         *http.Client
}

func NewPayPalClient(cfg config.PayPalConfig) *PayPalClient {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		if cfg.Mode == "live" {
			base = "https://api-m.paypal.com"
		} else {
			base = "https://api-m.sandbox.paypal.com"
		}
	}
	return &PayPalClient{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      base,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PayPalClient) accessToken() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(p.clientID + ":" + p.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request: %v", ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token request returned %d", ErrPaymentProvider, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		return "", fmt.Errorf("%w: malformed token response", ErrPaymentProvider)
	}
	return body.AccessToken, nil
}

func (p *PayPalClient) postJSON(path, token string, payload any) (json.RawMessage, error) {
	var reqBody io.Reader = strings.NewReader("{}")
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrPaymentProvider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrPaymentProvider, path, resp.StatusCode)
	}
	return raw, nil
}

// CreateOrder creates a CAPTURE-intent order referencing the
// reservation id, and returns the order id plus the buyer approval
// link when present.
func (p *PayPalClient) CreateOrder(amount, currency, referenceID string) (*ProviderOrder, error) {
	token, err := p.accessToken()
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": referenceID,
				"amount":       map[string]string{"currency_code": currency, "value": amount},
			},
		},
	}
	raw, err := p.postJSON("/v2/checkout/orders", token, payload)
	if err != nil {
		return nil, err
	}

	var body struct {
		ID    string `json:"id"`
		Links []struct {
			Rel  string `json:"rel"`
			Href string `json:"href"`
		} `json:"links"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: malformed create-order response", ErrPaymentProvider)
	}
	if body.ID == "" {
		return nil, fmt.Errorf("%w: create-order response missing order id", ErrPaymentProvider)
	}

	order := &ProviderOrder{OrderID: body.ID}
	for _, link := range body.Links {
		if link.Rel == "approve" {
			order.ApproveURL = link.Href
			break
		}
	}
	return order, nil
}

// CaptureOrder finalizes a previously created order. The capture id
// lives at purchase_units[0].payments.captures[0].id.
func (p *PayPalClient) CaptureOrder(orderID string) (*ProviderCapture, error) {
	token, err := p.accessToken()
	if err != nil {
		return nil, err
	}

	raw, err := p.postJSON("/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", token, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID string `json:"id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("%w: malformed capture response", ErrPaymentProvider)
	}

	capture := &ProviderCapture{Status: body.Status, Raw: raw}
	if len(body.PurchaseUnits) > 0 && len(body.PurchaseUnits[0].Payments.Captures) > 0 {
		capture.CaptureID = body.PurchaseUnits[0].Payments.Captures[0].ID
	}
	return capture, nil
}
