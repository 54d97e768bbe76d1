package xrplsale

// Version is the published SDK version.
// 1.1.0: Add Idempotency-Key support on investment creation and parse
// Retry-After into RateLimitError.
// 1.0.0: Initial release: projects, investments, analytics, webhooks, wallet auth.
const Version = "1.1.0"
