package xrplsale

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xrplsale/xrplsale-go/routes"
)

// WebhookEndpoint is a registered delivery target for platform events.
type WebhookEndpoint struct {
	ID        string             `json:"id"`
	URL       string             `json:"url"`
	Events    []WebhookEventType `json:"events"`
	Active    bool               `json:"active"`
	Secret    string             `json:"secret,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CreateWebhookRequest registers a new endpoint. An empty Events list
// subscribes to all event types.
type CreateWebhookRequest struct {
	URL    string             `json:"url"`
	Events []WebhookEventType `json:"events,omitempty"`
}

// UpdateWebhookRequest modifies an endpoint; nil fields are left unchanged.
type UpdateWebhookRequest struct {
	URL    *string             `json:"url,omitempty"`
	Events *[]WebhookEventType `json:"events,omitempty"`
	Active *bool               `json:"active,omitempty"`
}

// WebhookTestResult reports the outcome of a test delivery.
type WebhookTestResult struct {
	Delivered  bool   `json:"delivered"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
}

// WebhooksClient manages webhook endpoint registrations.
type WebhooksClient struct {
	client *Client
}

// List returns all registered endpoints.
func (c *WebhooksClient) List(ctx context.Context) ([]WebhookEndpoint, error) {
	var payload struct {
		Webhooks []WebhookEndpoint `json:"webhooks"`
	}
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.Webhooks, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Webhooks, nil
}

// Get retrieves an endpoint by ID.
func (c *WebhooksClient) Get(ctx context.Context, webhookID string) (WebhookEndpoint, error) {
	if webhookID == "" {
		return WebhookEndpoint{}, ConfigError{Reason: "webhook_id required"}
	}
	var endpoint WebhookEndpoint
	if err := c.client.sendAndDecode(ctx, http.MethodGet, webhookPath(webhookID), nil, &endpoint); err != nil {
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

// Create registers a new endpoint. The response carries the signing secret;
// it is shown only once.
func (c *WebhooksClient) Create(ctx context.Context, req CreateWebhookRequest) (WebhookEndpoint, error) {
	if req.URL == "" {
		return WebhookEndpoint{}, ConfigError{Reason: "url required"}
	}
	var endpoint WebhookEndpoint
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.Webhooks, req, &endpoint); err != nil {
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

// Update modifies an endpoint's URL, subscriptions, or active flag.
func (c *WebhooksClient) Update(ctx context.Context, webhookID string, req UpdateWebhookRequest) (WebhookEndpoint, error) {
	if webhookID == "" {
		return WebhookEndpoint{}, ConfigError{Reason: "webhook_id required"}
	}
	var endpoint WebhookEndpoint
	if err := c.client.sendAndDecode(ctx, http.MethodPatch, webhookPath(webhookID), req, &endpoint); err != nil {
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

// Delete removes an endpoint.
func (c *WebhooksClient) Delete(ctx context.Context, webhookID string) error {
	if webhookID == "" {
		return ConfigError{Reason: "webhook_id required"}
	}
	return c.client.sendAndDecode(ctx, http.MethodDelete, webhookPath(webhookID), nil, nil)
}

// Test asks the platform to send a test event to the endpoint.
func (c *WebhooksClient) Test(ctx context.Context, webhookID string) (WebhookTestResult, error) {
	if webhookID == "" {
		return WebhookTestResult{}, ConfigError{Reason: "webhook_id required"}
	}
	var result WebhookTestResult
	if err := c.client.sendAndDecode(ctx, http.MethodPost, webhookPath(webhookID)+"/test", struct{}{}, &result); err != nil {
		return WebhookTestResult{}, err
	}
	return result, nil
}

// RotateSecret replaces the endpoint's signing secret. Deliveries signed
// with the old secret stop verifying immediately.
func (c *WebhooksClient) RotateSecret(ctx context.Context, webhookID string) (WebhookEndpoint, error) {
	if webhookID == "" {
		return WebhookEndpoint{}, ConfigError{Reason: "webhook_id required"}
	}
	var endpoint WebhookEndpoint
	if err := c.client.sendAndDecode(ctx, http.MethodPost, webhookPath(webhookID)+"/rotate-secret", struct{}{}, &endpoint); err != nil {
		return WebhookEndpoint{}, err
	}
	return endpoint, nil
}

func webhookPath(webhookID string) string {
	return fmt.Sprintf("%s/%s", routes.Webhooks, url.PathEscape(webhookID))
}
