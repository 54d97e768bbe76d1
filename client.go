package xrplsale

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xrplsale/xrplsale-go/headers"
)

const (
	productionBaseURL = "https://api.xrpl.sale/v1"
	testnetBaseURL    = "https://api-testnet.xrpl.sale/v1"

	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// Environment selects which XRPL.Sale deployment the client talks to.
type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentTestnet    Environment = "testnet"
)

func (e Environment) baseURL() string {
	if e == EnvironmentTestnet {
		return testnetBaseURL
	}
	return productionBaseURL
}

// Config wires authentication, base URL, retries, and telemetry for the API
// client. All fields are read-only after NewClient returns.
type Config struct {
	// APIKey authenticates requests until a bearer token is established.
	APIKey string
	// AccessToken seeds the client with an already-issued bearer token.
	AccessToken string
	// Environment selects production or testnet; ignored when BaseURL is set.
	Environment Environment
	// BaseURL overrides the environment's fixed base URL.
	BaseURL string

	// ConnectTimeout bounds dialing; RequestTimeout bounds a full attempt.
	// Both only apply when HTTPClient is nil.
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// MaxRetries and RetryDelay configure the retry policy. A zero
	// RetryDelay means the 1s default; set MaxRetries to 0 to disable
	// retries entirely.
	MaxRetries *int
	RetryDelay time.Duration

	// WebhookSecret is the pre-shared secret for webhook signature checks.
	WebhookSecret string

	// Debug enables request/response logging to stderr when no Logger is set.
	Debug bool
	// Logger receives SDK debug logs; defaults to a no-op logger.
	Logger *zerolog.Logger

	HTTPClient *http.Client
	Telemetry  TelemetryHooks
	UserAgent  string
}

// Option mutates a Config before validation.
type Option func(*Config)

// WithBaseURL overrides the environment-derived base URL.
func WithBaseURL(baseURL string) Option {
	return func(cfg *Config) { cfg.BaseURL = baseURL }
}

// WithEnvironment selects the target deployment.
func WithEnvironment(env Environment) Option {
	return func(cfg *Config) { cfg.Environment = env }
}

// WithHTTPClient supplies a custom transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *Config) { cfg.HTTPClient = hc }
}

// WithMaxRetries bounds the retry policy.
func WithMaxRetries(n int) Option {
	return func(cfg *Config) { cfg.MaxRetries = &n }
}

// WithRetryDelay sets the base backoff delay.
func WithRetryDelay(d time.Duration) Option {
	return func(cfg *Config) { cfg.RetryDelay = d }
}

// WithWebhookSecret sets the webhook signing secret.
func WithWebhookSecret(secret string) Option {
	return func(cfg *Config) { cfg.WebhookSecret = secret }
}

// WithDebug enables debug logging.
func WithDebug() Option {
	return func(cfg *Config) { cfg.Debug = true }
}

// WithLogger routes SDK logs to the given logger.
func WithLogger(log zerolog.Logger) Option {
	return func(cfg *Config) { cfg.Logger = &log }
}

// Client provides high-level helpers for interacting with the XRPL.Sale API.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	retry         RetryConfig
	webhookSecret string
	telemetry     TelemetryHooks
	userAgent     string
	log           zerolog.Logger

	tokenMu   sync.RWMutex
	authToken string

	// Grouped service clients.
	Projects    *ProjectsClient
	Investments *InvestmentsClient
	Analytics   *AnalyticsClient
	Webhooks    *WebhooksClient
	Auth        *AuthClient
}

// New creates a production client with just an API key.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{APIKey: apiKey, Environment: EnvironmentProduction}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewClient(cfg)
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, ConfigError{Reason: "api key or access token required"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cfg.Environment.baseURL()
	}
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(
			orDefault(cfg.ConnectTimeout, defaultConnectTimeout),
			orDefault(cfg.RequestTimeout, defaultRequestTimeout),
		)
	}

	retry := defaultRetryConfig()
	if cfg.MaxRetries != nil {
		retry.MaxRetries = *cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "xrplsale-go/" + Version
	}

	client := &Client{
		baseURL:       normalized,
		apiKey:        cfg.APIKey,
		httpClient:    httpClient,
		retry:         retry.normalized(),
		webhookSecret: cfg.WebhookSecret,
		telemetry:     cfg.Telemetry,
		userAgent:     ua,
		log:           buildLogger(cfg),
	}
	client.setToken(cfg.AccessToken)

	client.Projects = &ProjectsClient{client: client}
	client.Investments = &InvestmentsClient{client: client}
	client.Analytics = &AnalyticsClient{client: client}
	client.Webhooks = &WebhooksClient{client: client}
	client.Auth = &AuthClient{client: client}
	return client, nil
}

// SetAuthToken installs a bearer token for subsequent requests. Passing an
// empty string reverts the client to API key authentication.
func (c *Client) SetAuthToken(token string) {
	c.setToken(token)
}

// AuthToken returns the currently installed bearer token, if any.
func (c *Client) AuthToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.authToken
}

func (c *Client) setToken(token string) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	c.tokenMu.Lock()
	c.authToken = token
	c.tokenMu.Unlock()
}

func buildLogger(cfg Config) zerolog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger.With().Str("component", "xrplsale").Logger()
	}
	if cfg.Debug {
		return zerolog.New(os.Stderr).With().Timestamp().Str("component", "xrplsale").Logger()
	}
	return zerolog.Nop()
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: fmt.Sprintf("invalid base URL: %v", err)}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

func newHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// sendAndDecode executes a JSON request through the retry policy and decodes
// the successful response body into out. A nil out discards the body.
func (c *Client) sendAndDecode(ctx context.Context, method, path string, payload, out any) error {
	return c.sendAndDecodeHeaders(ctx, method, path, payload, out, nil)
}

// sendAndDecodeHeaders is sendAndDecode with extra request headers.
func (c *Client) sendAndDecodeHeaders(ctx context.Context, method, path string, payload, out any, extra http.Header) error {
	data, err := c.send(ctx, method, path, payload, extra)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ParseError{Err: err}
	}
	return nil
}

// send performs one logical request: marshal once, attempt up to
// MaxRetries+1 times with exponential backoff, and return the raw body of
// the successful response.
func (c *Client) send(ctx context.Context, method, path string, payload any, extra http.Header) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("xrplsale: encode request: %w", err)
		}
	}

	// Stable across attempts so the server can deduplicate retried requests.
	requestID := uuid.NewString()

	cfg := c.retry
	var meta RetryMetadata
	var lastErr error

	for attempt := 1; attempt <= cfg.maxAttempts(); attempt++ {
		if delay := cfg.backoffDelay(attempt); delay > 0 {
			if c.telemetry.OnRetry != nil {
				c.telemetry.OnRetry(ctx, attempt, delay)
			}
			meta.LastBackoff = delay
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, TransportError{Err: err}
			}
		}
		meta.Attempts = attempt

		resp, err := c.attempt(ctx, method, path, encoded, requestID, extra)
		if err != nil {
			meta.LastError = err.Error()
			lastErr = err
			// Caller cancellation is not worth retrying; per-attempt
			// timeouts and other network failures are.
			if ctx.Err() != nil || attempt == cfg.maxAttempts() {
				return nil, TransportError{Err: err}
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, TransportError{Err: readErr}
			}
			if meta.Attempts > 1 {
				c.log.Debug().
					Int("attempts", meta.Attempts).
					Int("last_status", meta.LastStatus).
					Str("last_error", meta.LastError).
					Msg("request succeeded after retries")
				c.telemetry.metric(ctx, "sdk_http_retries", float64(meta.Attempts-1), map[string]string{
					"path": path,
				})
			}
			return data, nil
		}

		meta.LastStatus = resp.StatusCode
		if retryableStatus(resp.StatusCode) && attempt < cfg.maxAttempts() {
			io.Copy(io.Discard, resp.Body) //nolint:errcheck
			resp.Body.Close()
			lastErr = APIError{Status: resp.StatusCode}
			continue
		}

		apiErr := decodeAPIError(resp)
		resp.Body.Close()
		return nil, apiErr
	}

	// Unreachable: the loop always returns on its final attempt.
	return nil, TransportError{Err: lastErr}
}

// attempt builds and executes a single HTTP attempt. A fresh request is
// constructed per attempt so the body reader is never reused.
func (c *Client) attempt(ctx context.Context, method, path string, body []byte, requestID string, extra http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headers.RequestID, requestID)
	for key, values := range extra {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	c.authStrategy().Apply(req)
	injectTraceparent(ctx, req)

	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(ctx, req)
	}
	c.log.Debug().
		Str("method", method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Msg("http request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)

	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(ctx, req, resp, err, latency)
	}
	c.telemetry.metric(ctx, "sdk_http_request_latency_ms", float64(latency.Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	if err != nil {
		c.log.Debug().Err(err).Str("url", req.URL.String()).Msg("http error")
		return nil, err
	}
	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", latency).
		Str("request_id", requestID).
		Msg("http response")
	return resp, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
