package doordash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"farmify/internal/farmerrors"
	"farmify/utils"
)

// Config holds the DoorDash Drive credentials and host.
type Config struct {
	BaseURL       string
	DeveloperID   string
	KeyID         string
	SigningSecret string // base64url-encoded
}

// Client is a thin wrapper over the DoorDash Drive v2 API. Each request
// carries a freshly signed short-lived token; the HTTP client is pooled.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a DoorDash client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// DeliveryRequest describes a delivery to be created.
type DeliveryRequest struct {
	ExternalDeliveryID string `json:"external_delivery_id"`
	PickupAddress      string `json:"pickup_address"`
	PickupBusinessName string `json:"pickup_business_name,omitempty"`
	PickupPhoneNumber  string `json:"pickup_phone_number,omitempty"`
	DropoffAddress     string `json:"dropoff_address"`
	DropoffPhoneNumber string `json:"dropoff_phone_number,omitempty"`
	OrderValue         int    `json:"order_value,omitempty"` // cents
}

// Delivery is the provider's view of a delivery.
type Delivery struct {
	ExternalDeliveryID string `json:"external_delivery_id"`
	DeliveryStatus     string `json:"delivery_status"`
	TrackingURL        string `json:"tracking_url"`
	Fee                int    `json:"fee"`
}

// CreateDelivery requests a new delivery and returns the provider response.
func (c *Client) CreateDelivery(ctx context.Context, dr DeliveryRequest) (Delivery, error) {
	body, err := json.Marshal(dr)
	if err != nil {
		return Delivery{}, fmt.Errorf("doordash: marshal delivery: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/drive/v2/deliveries", bytes.NewReader(body))
	if err != nil {
		return Delivery{}, fmt.Errorf("doordash: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var delivery Delivery
	if err := c.do(req, &delivery); err != nil {
		return Delivery{}, err
	}
	utils.Info("doordash delivery created", map[string]any{
		"external_delivery_id": delivery.ExternalDeliveryID, "status": delivery.DeliveryStatus,
	})
	return delivery, nil
}

// GetDelivery fetches the current state of a delivery.
func (c *Client) GetDelivery(ctx context.Context, externalDeliveryID string) (Delivery, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/drive/v2/deliveries/"+externalDeliveryID, nil)
	if err != nil {
		return Delivery{}, fmt.Errorf("doordash: %w", err)
	}

	var delivery Delivery
	if err := c.do(req, &delivery); err != nil {
		return Delivery{}, err
	}
	return delivery, nil
}

// do signs a fresh token, executes the request, and surfaces non-2xx
// responses with their status and body.
func (c *Client) do(req *http.Request, out any) error {
	token, err := signToken(c.config.DeveloperID, c.config.KeyID, c.config.SigningSecret)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("doordash %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("doordash %s: read body: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.Warn("doordash request failed", map[string]any{
			"path": req.URL.Path, "status": resp.StatusCode, "body": string(body),
		})
		return fmt.Errorf("doordash %s: status %d: %s: %w", req.URL.Path, resp.StatusCode, string(body), farmerrors.ErrProvider)
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("doordash %s: decode: %w", req.URL.Path, err)
		}
	}
	return nil
}
