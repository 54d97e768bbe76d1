package xrplsale

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/xrplsale/xrplsale-go/headers"
	"github.com/xrplsale/xrplsale-go/routes"
)

// InvestmentStatus encodes the settlement state of an investment.
type InvestmentStatus string

const (
	InvestmentStatusPending   InvestmentStatus = "pending"
	InvestmentStatusConfirmed InvestmentStatus = "confirmed"
	InvestmentStatusCancelled InvestmentStatus = "cancelled"
	InvestmentStatusRefunded  InvestmentStatus = "refunded"
)

// Investment records one wallet's purchase in a project tier.
type Investment struct {
	ID            string           `json:"id"`
	ProjectID     string           `json:"project_id"`
	WalletAddress string           `json:"wallet_address"`
	AmountXRP     string           `json:"amount_xrp"`
	TokenAmount   string           `json:"token_amount"`
	Tier          int              `json:"tier"`
	Status        InvestmentStatus `json:"status"`
	TxHash        string           `json:"tx_hash,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ConfirmedAt   *time.Time       `json:"confirmed_at,omitempty"`
}

// InvestmentSummary aggregates a wallet's activity across all projects.
type InvestmentSummary struct {
	WalletAddress   string `json:"wallet_address"`
	TotalInvested   string `json:"total_invested_xrp"`
	ProjectCount    int    `json:"project_count"`
	InvestmentCount int    `json:"investment_count"`
}

// CreateInvestmentRequest submits a new investment. IdempotencyKey is
// optional; the SDK generates one when empty so a retried create can never
// double-invest.
type CreateInvestmentRequest struct {
	ProjectID      string `json:"project_id"`
	WalletAddress  string `json:"wallet_address"`
	AmountXRP      string `json:"amount_xrp"`
	IdempotencyKey string `json:"-"`
}

// SimulateInvestmentRequest previews the allocation an investment would get.
type SimulateInvestmentRequest struct {
	ProjectID string `json:"project_id"`
	AmountXRP string `json:"amount_xrp"`
}

// InvestmentSimulation is the preview of a prospective investment.
type InvestmentSimulation struct {
	ProjectID   string `json:"project_id"`
	AmountXRP   string `json:"amount_xrp"`
	TokenAmount string `json:"token_amount"`
	Tier        int    `json:"tier"`
}

// InvestmentListOptions filters and paginates investment listings.
type InvestmentListOptions struct {
	ProjectID     string
	WalletAddress string
	Status        InvestmentStatus
	Page          *int
	Limit         *int
}

func (o *InvestmentListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	setString(q, "project_id", o.ProjectID)
	setString(q, "wallet_address", o.WalletAddress)
	setString(q, "status", string(o.Status))
	setInt(q, "page", o.Page)
	setInt(q, "limit", o.Limit)
	return q
}

// InvestmentsClient tracks and submits investments.
type InvestmentsClient struct {
	client *Client
}

// List returns investments with optional filtering and pagination.
func (c *InvestmentsClient) List(ctx context.Context, opts *InvestmentListOptions) (PaginatedResponse[Investment], error) {
	var page PaginatedResponse[Investment]
	path := pathWithQuery(routes.Investments, opts.query())
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &page); err != nil {
		return PaginatedResponse[Investment]{}, err
	}
	return page, nil
}

// Get retrieves an investment by ID.
func (c *InvestmentsClient) Get(ctx context.Context, investmentID string) (Investment, error) {
	if investmentID == "" {
		return Investment{}, ConfigError{Reason: "investment_id required"}
	}
	var inv Investment
	if err := c.client.sendAndDecode(ctx, http.MethodGet, investmentPath(investmentID), nil, &inv); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// Create submits a new investment. The Idempotency-Key header makes the call
// safe to retry.
func (c *InvestmentsClient) Create(ctx context.Context, req CreateInvestmentRequest) (Investment, error) {
	if req.ProjectID == "" || req.WalletAddress == "" || req.AmountXRP == "" {
		return Investment{}, ConfigError{Reason: "project_id, wallet_address, and amount_xrp required"}
	}
	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	extra := http.Header{}
	extra.Set(headers.IdempotencyKey, key)

	var inv Investment
	if err := c.client.sendAndDecodeHeaders(ctx, http.MethodPost, routes.Investments, req, &inv, extra); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// Cancel withdraws a pending investment.
func (c *InvestmentsClient) Cancel(ctx context.Context, investmentID string) (Investment, error) {
	if investmentID == "" {
		return Investment{}, ConfigError{Reason: "investment_id required"}
	}
	var inv Investment
	if err := c.client.sendAndDecode(ctx, http.MethodPost, investmentPath(investmentID)+"/cancel", struct{}{}, &inv); err != nil {
		return Investment{}, err
	}
	return inv, nil
}

// GetByProject returns a page of investments in one project.
func (c *InvestmentsClient) GetByProject(ctx context.Context, projectID string, page, limit int) (PaginatedResponse[Investment], error) {
	if projectID == "" {
		return PaginatedResponse[Investment]{}, ConfigError{Reason: "project_id required"}
	}
	return c.List(ctx, &InvestmentListOptions{ProjectID: projectID, Page: &page, Limit: &limit})
}

// GetByInvestor returns a page of one wallet's investments.
func (c *InvestmentsClient) GetByInvestor(ctx context.Context, walletAddress string, page, limit int) (PaginatedResponse[Investment], error) {
	if walletAddress == "" {
		return PaginatedResponse[Investment]{}, ConfigError{Reason: "wallet_address required"}
	}
	return c.List(ctx, &InvestmentListOptions{WalletAddress: walletAddress, Page: &page, Limit: &limit})
}

// GetSummary aggregates a wallet's activity across all projects.
func (c *InvestmentsClient) GetSummary(ctx context.Context, walletAddress string) (InvestmentSummary, error) {
	if walletAddress == "" {
		return InvestmentSummary{}, ConfigError{Reason: "wallet_address required"}
	}
	q := url.Values{}
	q.Set("wallet_address", walletAddress)
	var summary InvestmentSummary
	path := pathWithQuery(routes.Investments+"/summary", q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return InvestmentSummary{}, err
	}
	return summary, nil
}

// Simulate previews the token allocation for a prospective investment
// without committing funds.
func (c *InvestmentsClient) Simulate(ctx context.Context, req SimulateInvestmentRequest) (InvestmentSimulation, error) {
	if req.ProjectID == "" || req.AmountXRP == "" {
		return InvestmentSimulation{}, ConfigError{Reason: "project_id and amount_xrp required"}
	}
	var sim InvestmentSimulation
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.InvestmentsSimulate, req, &sim); err != nil {
		return InvestmentSimulation{}, err
	}
	return sim, nil
}

func investmentPath(investmentID string) string {
	return fmt.Sprintf("%s/%s", routes.Investments, url.PathEscape(investmentID))
}
