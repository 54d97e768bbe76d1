package xrplsale

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/xrplsale/xrplsale-go/headers"
)

func TestNewClientRequiresCredential(t *testing.T) {
	_, err := NewClient(Config{})
	var cfgErr ConfigError
	if !asError(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestEnvironmentBaseURLs(t *testing.T) {
	prod, err := New("key")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if prod.baseURL != "https://api.xrpl.sale/v1" {
		t.Errorf("production base URL = %s", prod.baseURL)
	}

	test, err := New("key", WithEnvironment(EnvironmentTestnet))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if test.baseURL != "https://api-testnet.xrpl.sale/v1" {
		t.Errorf("testnet base URL = %s", test.baseURL)
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://api.example.com/v1/", "https://api.example.com/v1", false},
		{"https://api.example.com", "https://api.example.com", false},
		{"  https://api.example.com ", "https://api.example.com", false},
		{"", "", true},
		{"api.example.com", "", true},
		{"https://", "", true},
	}
	for _, tc := range cases {
		got, err := normalizeBaseURL(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("normalizeBaseURL(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeBaseURL(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCredentialHeaderSelection(t *testing.T) {
	var gotAuth, gotAPIKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get(headers.APIKey)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	// API key only.
	if _, err := client.Analytics.GetPlatform(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAPIKey != "test-api-key" || gotAuth != "" {
		t.Fatalf("expected api key header only, got key=%q auth=%q", gotAPIKey, gotAuth)
	}

	// Bearer token takes over; the API key header must disappear.
	client.SetAuthToken("tok_abc")
	if _, err := client.Analytics.GetPlatform(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "Bearer tok_abc" || gotAPIKey != "" {
		t.Fatalf("expected bearer only, got key=%q auth=%q", gotAPIKey, gotAuth)
	}

	// Tokens pasted with a Bearer prefix are normalized, never doubled.
	client.SetAuthToken("Bearer tok_xyz")
	if _, err := client.Analytics.GetPlatform(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAuth != "Bearer tok_xyz" {
		t.Fatalf("expected normalized bearer, got %q", gotAuth)
	}

	// Clearing the token reverts to the API key.
	client.SetAuthToken("")
	if _, err := client.Analytics.GetPlatform(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotAPIKey != "test-api-key" || gotAuth != "" {
		t.Fatalf("expected api key after logout, got key=%q auth=%q", gotAPIKey, gotAuth)
	}
}

func TestRequestIDStableAcrossRetries(t *testing.T) {
	var attempts atomic.Int32
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get(headers.RequestID)] = true
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newRetryingTestClient(t, srv, 3, 1)
	if _, err := client.Analytics.GetPlatform(context.Background()); err != nil {
		t.Fatalf("request: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("request id changed across retries: %v", ids)
	}
	for id := range ids {
		if id == "" {
			t.Fatal("request id header missing")
		}
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":{"code":"invalid_api_key","message":"bad key"}}`,
			check: func(t *testing.T, err error) {
				var authErr AuthenticationError
				if !asError(err, &authErr) {
					t.Fatalf("expected AuthenticationError, got %T", err)
				}
				if authErr.Status != 401 || authErr.Code != "invalid_api_key" {
					t.Fatalf("unexpected error: %+v", authErr)
				}
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"error":{"message":"no access"}}`,
			check: func(t *testing.T, err error) {
				var authErr AuthenticationError
				if !asError(err, &authErr) {
					t.Fatalf("expected AuthenticationError, got %T", err)
				}
				if authErr.Status != 403 {
					t.Fatalf("unexpected status: %d", authErr.Status)
				}
			},
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":{"code":"not_found","message":"no such project"}}`,
			check: func(t *testing.T, err error) {
				var nfErr NotFoundError
				if !asError(err, &nfErr) {
					t.Fatalf("expected NotFoundError, got %T", err)
				}
				if nfErr.Message != "no such project" {
					t.Fatalf("unexpected message %q", nfErr.Message)
				}
			},
		},
		{
			name:   "validation 422",
			status: http.StatusUnprocessableEntity,
			body:   `{"errors": {"name": ["required"]}}`,
			check: func(t *testing.T, err error) {
				var valErr ValidationError
				if !asError(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				msgs := valErr.Fields["name"]
				if len(msgs) != 1 || msgs[0] != "required" {
					t.Fatalf("unexpected field errors: %v", valErr.Fields)
				}
			},
		},
		{
			name:   "validation 400 with fields",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"invalid","errors":{"amount_xrp":["must be positive","must be numeric"]}}}`,
			check: func(t *testing.T, err error) {
				var valErr ValidationError
				if !asError(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if len(valErr.Fields["amount_xrp"]) != 2 {
					t.Fatalf("unexpected field errors: %v", valErr.Fields)
				}
			},
		},
		{
			name:   "plain 400 stays generic",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"bad_request","message":"malformed"}}`,
			check: func(t *testing.T, err error) {
				var apiErr APIError
				if !asError(err, &apiErr) {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != 400 || apiErr.Code != "bad_request" {
					t.Fatalf("unexpected error: %+v", apiErr)
				}
			},
		},
		{
			name:   "unparseable body falls back to raw",
			status: http.StatusConflict,
			body:   `service flapping, try later`,
			check: func(t *testing.T, err error) {
				var apiErr APIError
				if !asError(err, &apiErr) {
					t.Fatalf("expected APIError, got %T", err)
				}
				if apiErr.Status != 409 || apiErr.Body != "service flapping, try later" {
					t.Fatalf("unexpected error: %+v", apiErr)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := newTestClient(t, srv)
			_, err := client.Projects.Get(context.Background(), "proj_1")
			if err == nil {
				t.Fatal("expected error")
			}
			tc.check(t, err)
		})
	}
}

func TestSuccessBodyDecodeFailureIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 42}`)) // id should be a string
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.Projects.Get(context.Background(), "proj_1")
	var parseErr ParseError
	if !asError(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
}

func TestUserAgentAndContentType(t *testing.T) {
	var gotUA, gotCT, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCT = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"token":"tok","expires_at":"2025-06-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.Auth.Authenticate(context.Background(), AuthenticateRequest{
		WalletAddress: "rWallet",
		Signature:     "sig",
	})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotUA != "xrplsale-go/"+Version {
		t.Errorf("user agent = %q", gotUA)
	}
	if gotCT != "application/json" {
		t.Errorf("content type = %q", gotCT)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
}

func TestConcurrentRequestsShareNoState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_projects":1}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			if i%2 == 0 {
				client.SetAuthToken("tok")
			}
			_, err := client.Analytics.GetPlatform(context.Background())
			done <- err
		}(i)
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent request: %v", err)
		}
	}
}
