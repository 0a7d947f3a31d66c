package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"farmify/internal/farmerrors"
	"farmify/utils"
)

// Config holds the PayPal REST credentials and host.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// Client is a thin wrapper over the PayPal Orders v2 API. One pooled HTTP
// client is shared across calls.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a PayPal client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Order is a provider-created order.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Capture is a completed payment capture.
type Capture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken exchanges the client credentials for a bearer token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok tokenResponse
	if err := c.do(req, &tok); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// CreateOrder creates a CAPTURE-intent order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, amount float64, currency, description string) (Order, error) {
	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"description": description,
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amount),
			},
		}},
	}

	var order Order
	if err := c.post(ctx, "/v2/checkout/orders", payload, &order); err != nil {
		return Order{}, err
	}
	utils.Info("paypal order created", map[string]any{"paypal_order_id": order.ID, "status": order.Status})
	return order, nil
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []Capture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// CaptureOrder captures a previously created order and returns the capture.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (Capture, error) {
	var resp captureResponse
	if err := c.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", map[string]any{}, &resp); err != nil {
		return Capture{}, err
	}

	capture := Capture{Status: resp.Status}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		capture = resp.PurchaseUnits[0].Payments.Captures[0]
	}
	utils.Info("paypal order captured", map[string]any{"paypal_order_id": orderID, "capture_id": capture.ID})
	return capture, nil
}

// RefundCapture refunds a completed capture in full.
func (c *Client) RefundCapture(ctx context.Context, captureID string) error {
	if err := c.post(ctx, "/v2/payments/captures/"+captureID+"/refund", map[string]any{}, nil); err != nil {
		return err
	}
	utils.Info("paypal capture refunded", map[string]any{"capture_id": captureID})
	return nil
}

// post sends an authenticated JSON POST and decodes the response into out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("paypal %s: marshal: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("paypal %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do executes the request and surfaces non-2xx responses with their status
// and body.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paypal %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("paypal %s: read body: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.Warn("paypal request failed", map[string]any{
			"path": req.URL.Path, "status": resp.StatusCode, "body": string(body),
		})
		return fmt.Errorf("paypal %s: status %d: %s: %w", req.URL.Path, resp.StatusCode, string(body), farmerrors.ErrProvider)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("paypal %s: decode: %w", req.URL.Path, err)
		}
	}
	return nil
}
