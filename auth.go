// Package xrplsale provides the XRPL.Sale Go SDK for interacting with the
// XRPL.Sale token sale platform API.
package xrplsale

import (
	"net/http"

	"github.com/xrplsale/xrplsale-go/headers"
)

type authStrategy interface {
	Apply(req *http.Request)
}

type bearerAuth struct {
	token string
}

func (b bearerAuth) Apply(req *http.Request) {
	if b.token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
}

type apiKeyAuth struct {
	key string
}

func (a apiKeyAuth) Apply(req *http.Request) {
	if a.key == "" {
		return
	}
	req.Header.Set(headers.APIKey, a.key)
}

// authStrategy picks exactly one credential per request: the bearer token
// when one has been established (via SetAuthToken or Auth.Login), otherwise
// the configured API key. Never both.
func (c *Client) authStrategy() authStrategy {
	c.tokenMu.RLock()
	token := c.authToken
	c.tokenMu.RUnlock()
	if token != "" {
		return bearerAuth{token: token}
	}
	return apiKeyAuth{key: c.apiKey}
}
