package xrplsale

import (
	"context"
	"net/http"
	"time"

	"github.com/xrplsale/xrplsale-go/routes"
)

// AuthChallenge is a one-time message the wallet must sign to prove control
// of an XRPL address.
type AuthChallenge struct {
	Challenge string    `json:"challenge"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthenticateRequest exchanges a signed challenge for a bearer token.
type AuthenticateRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// AuthResponse carries the platform-issued bearer token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthClient performs XRPL wallet challenge/response authentication.
type AuthClient struct {
	client *Client
}

// GetChallenge requests a sign-in challenge for a wallet address.
func (c *AuthClient) GetChallenge(ctx context.Context, walletAddress string) (AuthChallenge, error) {
	if walletAddress == "" {
		return AuthChallenge{}, ConfigError{Reason: "wallet_address required"}
	}
	body := map[string]string{"wallet_address": walletAddress}
	var challenge AuthChallenge
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.AuthChallenge, body, &challenge); err != nil {
		return AuthChallenge{}, err
	}
	return challenge, nil
}

// Authenticate verifies a signed challenge and returns a bearer token. The
// token is not installed on the client; use Login for that, or call
// SetAuthToken yourself.
func (c *AuthClient) Authenticate(ctx context.Context, req AuthenticateRequest) (AuthResponse, error) {
	if req.WalletAddress == "" || req.Signature == "" {
		return AuthResponse{}, ConfigError{Reason: "wallet_address and signature required"}
	}
	var resp AuthResponse
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.AuthVerify, req, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Login authenticates and installs the resulting token on the client, so
// subsequent requests use bearer authentication.
func (c *AuthClient) Login(ctx context.Context, req AuthenticateRequest) (AuthResponse, error) {
	resp, err := c.Authenticate(ctx, req)
	if err != nil {
		return AuthResponse{}, err
	}
	c.client.SetAuthToken(resp.Token)
	return resp, nil
}

// Logout revokes the current bearer token and reverts the client to API key
// authentication. The local token is cleared even when revocation fails.
func (c *AuthClient) Logout(ctx context.Context) error {
	err := c.client.sendAndDecode(ctx, http.MethodPost, routes.AuthLogout, struct{}{}, nil)
	c.client.SetAuthToken("")
	return err
}
