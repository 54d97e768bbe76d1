package xrplsale

import (
	"math"
	"net/http"
	"time"
)

// RetryConfig controls exponential backoff and attempt counts.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt, so a
	// request is tried at most MaxRetries+1 times.
	MaxRetries int
	// BaseDelay anchors the exponential backoff: the delay before retry n
	// is BaseDelay * 2^(n-1). No jitter is applied, so retries from
	// concurrent callers may synchronize.
	BaseDelay time.Duration
}

// RetryMetadata describes what happened during retries of one request.
type RetryMetadata struct {
	Attempts    int
	LastBackoff time.Duration
	LastStatus  int
	LastError   string
}

func defaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  time.Second,
	}
}

func (r RetryConfig) normalized() RetryConfig {
	cfg := r
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	return cfg
}

func (r RetryConfig) maxAttempts() int {
	return r.MaxRetries + 1
}

// backoffDelay returns the wait before the given 1-indexed attempt. The
// first attempt has no preceding delay; attempt k>=2 waits
// BaseDelay * 2^(k-2).
func (r RetryConfig) backoffDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	exp := attempt - 2
	return time.Duration(float64(r.BaseDelay) * math.Pow(2, float64(exp)))
}

// retryableStatus reports whether a response status warrants another
// attempt: request timeout, rate limiting, or any server error. Every other
// non-2xx status is terminal and propagates without consuming a retry.
func retryableStatus(status int) bool {
	switch {
	case status == http.StatusRequestTimeout:
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
