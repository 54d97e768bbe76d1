package xrplsale

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func asError[T error](err error, target *T) bool {
	return errors.As(err, target)
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithMaxRetries(0),
	}
	client, err := New("test-api-key", append(base, opts...)...)
	if err != nil {
		t.Fatalf("new test client: %v", err)
	}
	return client
}

func newRetryingTestClient(t *testing.T, srv *httptest.Server, maxRetries int, baseDelay time.Duration) *Client {
	t.Helper()
	client, err := New("test-api-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithMaxRetries(maxRetries),
		WithRetryDelay(baseDelay),
	)
	if err != nil {
		t.Fatalf("new retrying test client: %v", err)
	}
	return client
}
