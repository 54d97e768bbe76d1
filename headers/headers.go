// Package headers defines HTTP header constants used across the XRPL.Sale platform.
// This is the single source of truth for header names used in API requests/responses.
package headers

const (
	// RequestID is the header for request correlation. The SDK supplies a
	// stable value across retry attempts of one logical request so the
	// server can deduplicate.
	RequestID = "X-Request-Id"

	// APIKey is the header for API key authentication.
	APIKey = "X-API-Key" //nolint:gosec // This is a header name, not a credential

	// IdempotencyKey guards mutating calls (investment creation) against
	// double submission.
	IdempotencyKey = "Idempotency-Key"

	// WebhookSignature carries the sha256= HMAC signature on webhook deliveries.
	WebhookSignature = "X-XRPLSale-Signature"

	// RetryAfter is the standard header the platform sets on 429 responses.
	RetryAfter = "Retry-After"
)
