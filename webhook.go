package xrplsale

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// signaturePrefix tags hex-encoded HMAC-SHA256 webhook signatures.
const signaturePrefix = "sha256="

// ErrInvalidSignature is returned by ConstructEvent when the delivery's
// signature does not match the configured webhook secret.
var ErrInvalidSignature = errors.New("xrplsale: invalid webhook signature")

// WebhookEventType discriminates webhook payloads.
type WebhookEventType string

const (
	EventInvestmentCreated   WebhookEventType = "investment.created"
	EventInvestmentConfirmed WebhookEventType = "investment.confirmed"
	EventProjectCreated      WebhookEventType = "project.created"
	EventProjectLaunched     WebhookEventType = "project.launched"
	EventProjectPaused       WebhookEventType = "project.paused"
	EventProjectResumed      WebhookEventType = "project.resumed"
	EventProjectCancelled    WebhookEventType = "project.cancelled"
	EventProjectCompleted    WebhookEventType = "project.completed"
	EventTierCompleted       WebhookEventType = "tier.completed"
	EventTokensDistributed   WebhookEventType = "tokens.distributed"
)

// Known reports whether the event type is one this SDK version understands.
// Unrecognized types are still delivered; callers should ignore rather than
// reject them so new platform events never break consumers.
func (t WebhookEventType) Known() bool {
	switch t {
	case EventInvestmentCreated, EventInvestmentConfirmed,
		EventProjectCreated, EventProjectLaunched, EventProjectPaused,
		EventProjectResumed, EventProjectCancelled, EventProjectCompleted,
		EventTierCompleted, EventTokensDistributed:
		return true
	}
	return false
}

// WebhookEvent is the envelope of every webhook delivery. Data is kept raw
// so unknown event types round-trip untouched.
type WebhookEvent struct {
	ID        string           `json:"id"`
	Type      WebhookEventType `json:"type"`
	Timestamp time.Time        `json:"timestamp"`
	Data      json.RawMessage  `json:"data"`
}

// DecodeData unmarshals the event payload into a typed target
// (InvestmentCreatedData, ProjectLaunchedData, ...).
func (e WebhookEvent) DecodeData(out any) error {
	if len(e.Data) == 0 {
		return ParseError{Err: errors.New("event has no data")}
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return ParseError{Err: err}
	}
	return nil
}

// InvestmentCreatedData is the payload of investment.created and
// investment.confirmed events.
type InvestmentCreatedData struct {
	InvestmentID  string `json:"investment_id"`
	ProjectID     string `json:"project_id"`
	WalletAddress string `json:"wallet_address"`
	AmountXRP     string `json:"amount_xrp"`
	TokenAmount   string `json:"token_amount"`
	Tier          int    `json:"tier"`
	TxHash        string `json:"tx_hash,omitempty"`
}

// ProjectLaunchedData is the payload of project lifecycle events.
type ProjectLaunchedData struct {
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	TokenSymbol string    `json:"token_symbol"`
	SaleStartAt time.Time `json:"sale_start_at"`
	SaleEndAt   time.Time `json:"sale_end_at"`
}

// TierCompletedData is the payload of tier.completed events.
type TierCompletedData struct {
	ProjectID  string `json:"project_id"`
	Tier       int    `json:"tier"`
	TokensSold string `json:"tokens_sold"`
	RaisedXRP  string `json:"raised_xrp"`
}

// ParseWebhookEvent decodes a raw delivery body into the event envelope.
func ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return WebhookEvent{}, ParseError{Err: err}
	}
	return event, nil
}

// VerifyWebhookSignature checks a delivery's signature against the client's
// configured webhook secret. It never fails with an error: an absent secret,
// a malformed signature, or a mismatch all yield false.
func (c *Client) VerifyWebhookSignature(payload []byte, signature string) bool {
	return verifySignature(payload, c.webhookSecret, signature)
}

// ConstructEvent verifies the signature and parses the event in one step.
func (c *Client) ConstructEvent(payload []byte, signature string) (WebhookEvent, error) {
	if !c.VerifyWebhookSignature(payload, signature) {
		return WebhookEvent{}, ErrInvalidSignature
	}
	return ParseWebhookEvent(payload)
}

// ComputeWebhookSignature returns the sha256= signature the platform would
// attach to the given payload. Exposed for consumers that need to sign test
// deliveries of their own.
func ComputeWebhookSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// verifySignature compares in constant time so signature checks leak no
// timing information about the expected value.
func verifySignature(payload []byte, secret, signature string) bool {
	if secret == "" {
		return false
	}
	expected := ComputeWebhookSignature(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
