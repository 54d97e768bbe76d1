package xrplsale

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xrplsale/xrplsale-go/routes"
)

// ProjectStatus encodes the lifecycle state of a token sale project.
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusUpcoming  ProjectStatus = "upcoming"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPaused    ProjectStatus = "paused"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project represents a token sale on the platform. XRP and token amounts are
// decimal strings to avoid float precision loss.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	TokenSymbol string        `json:"token_symbol"`
	TokenIssuer string        `json:"token_issuer,omitempty"`
	Status      ProjectStatus `json:"status"`
	TotalSupply string        `json:"total_supply"`
	TotalRaised string        `json:"total_raised_xrp"`
	Featured    bool          `json:"featured,omitempty"`
	Tiers       []Tier        `json:"tiers,omitempty"`
	SaleStartAt time.Time     `json:"sale_start_at"`
	SaleEndAt   time.Time     `json:"sale_end_at"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Tier is one pricing tranche of a sale.
type Tier struct {
	Tier          int    `json:"tier"`
	PricePerToken string `json:"price_per_token"`
	TotalTokens   string `json:"total_tokens"`
	TokensSold    string `json:"tokens_sold,omitempty"`
}

// ProjectStats aggregates sale progress for one project.
type ProjectStats struct {
	ProjectID     string  `json:"project_id"`
	TotalRaised   string  `json:"total_raised_xrp"`
	TokensSold    string  `json:"tokens_sold"`
	InvestorCount int     `json:"investor_count"`
	PercentFunded float64 `json:"percent_funded"`
	CurrentTier   int     `json:"current_tier"`
}

// Investor summarizes one wallet's participation in a project.
type Investor struct {
	WalletAddress   string    `json:"wallet_address"`
	TotalInvested   string    `json:"total_invested_xrp"`
	TokenAmount     string    `json:"token_amount"`
	InvestmentCount int       `json:"investment_count"`
	FirstInvestedAt time.Time `json:"first_invested_at"`
}

// CreateProjectRequest contains the fields required to create a project.
type CreateProjectRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TokenSymbol string    `json:"token_symbol"`
	TokenIssuer string    `json:"token_issuer,omitempty"`
	TotalSupply string    `json:"total_supply"`
	Tiers       []Tier    `json:"tiers"`
	SaleStartAt time.Time `json:"sale_start_at"`
	SaleEndAt   time.Time `json:"sale_end_at"`
}

// ProjectListOptions filters and paginates project listings. Nil pointer
// fields are omitted from the query.
type ProjectListOptions struct {
	Status    ProjectStatus
	Page      *int
	Limit     *int
	SortBy    string
	SortOrder SortOrder
}

func (o *ProjectListOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	setString(q, "status", string(o.Status))
	setInt(q, "page", o.Page)
	setInt(q, "limit", o.Limit)
	setString(q, "sort_by", o.SortBy)
	setString(q, "sort_order", string(o.SortOrder))
	return q
}

// ProjectSearchOptions refines text search over projects.
type ProjectSearchOptions struct {
	Status ProjectStatus
	Page   *int
	Limit  *int
}

// ProjectsClient manages token sale projects: creation, lifecycle
// transitions, statistics, investors, and tiers.
type ProjectsClient struct {
	client *Client
}

// List returns projects with optional filtering and pagination.
func (c *ProjectsClient) List(ctx context.Context, opts *ProjectListOptions) (PaginatedResponse[Project], error) {
	var page PaginatedResponse[Project]
	path := pathWithQuery(routes.Projects, opts.query())
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &page); err != nil {
		return PaginatedResponse[Project]{}, err
	}
	return page, nil
}

// GetActive returns the requested page of active projects.
func (c *ProjectsClient) GetActive(ctx context.Context, page, limit int) (PaginatedResponse[Project], error) {
	return c.listByStatus(ctx, ProjectStatusActive, page, limit)
}

// GetUpcoming returns the requested page of upcoming projects.
func (c *ProjectsClient) GetUpcoming(ctx context.Context, page, limit int) (PaginatedResponse[Project], error) {
	return c.listByStatus(ctx, ProjectStatusUpcoming, page, limit)
}

// GetCompleted returns the requested page of completed projects.
func (c *ProjectsClient) GetCompleted(ctx context.Context, page, limit int) (PaginatedResponse[Project], error) {
	return c.listByStatus(ctx, ProjectStatusCompleted, page, limit)
}

func (c *ProjectsClient) listByStatus(ctx context.Context, status ProjectStatus, page, limit int) (PaginatedResponse[Project], error) {
	return c.List(ctx, &ProjectListOptions{
		Status: status,
		Page:   &page,
		Limit:  &limit,
	})
}

// Get retrieves a project by ID.
func (c *ProjectsClient) Get(ctx context.Context, projectID string) (Project, error) {
	if projectID == "" {
		return Project{}, ConfigError{Reason: "project_id required"}
	}
	var project Project
	if err := c.client.sendAndDecode(ctx, http.MethodGet, projectPath(projectID), nil, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Create registers a new project in draft state.
func (c *ProjectsClient) Create(ctx context.Context, req CreateProjectRequest) (Project, error) {
	var project Project
	if err := c.client.sendAndDecode(ctx, http.MethodPost, routes.Projects, req, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Update applies a partial update to a project.
func (c *ProjectsClient) Update(ctx context.Context, projectID string, updates map[string]any) (Project, error) {
	if projectID == "" {
		return Project{}, ConfigError{Reason: "project_id required"}
	}
	var project Project
	if err := c.client.sendAndDecode(ctx, http.MethodPatch, projectPath(projectID), updates, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// Launch makes a project active.
func (c *ProjectsClient) Launch(ctx context.Context, projectID string) (Project, error) {
	return c.transition(ctx, projectID, "launch")
}

// Pause suspends an active project.
func (c *ProjectsClient) Pause(ctx context.Context, projectID string) (Project, error) {
	return c.transition(ctx, projectID, "pause")
}

// Resume reactivates a paused project.
func (c *ProjectsClient) Resume(ctx context.Context, projectID string) (Project, error) {
	return c.transition(ctx, projectID, "resume")
}

// Cancel terminates a project.
func (c *ProjectsClient) Cancel(ctx context.Context, projectID string) (Project, error) {
	return c.transition(ctx, projectID, "cancel")
}

func (c *ProjectsClient) transition(ctx context.Context, projectID, action string) (Project, error) {
	if projectID == "" {
		return Project{}, ConfigError{Reason: "project_id required"}
	}
	var project Project
	path := projectPath(projectID) + "/" + action
	if err := c.client.sendAndDecode(ctx, http.MethodPost, path, struct{}{}, &project); err != nil {
		return Project{}, err
	}
	return project, nil
}

// GetStats retrieves sale progress statistics for a project.
func (c *ProjectsClient) GetStats(ctx context.Context, projectID string) (ProjectStats, error) {
	if projectID == "" {
		return ProjectStats{}, ConfigError{Reason: "project_id required"}
	}
	var stats ProjectStats
	if err := c.client.sendAndDecode(ctx, http.MethodGet, projectPath(projectID)+"/stats", nil, &stats); err != nil {
		return ProjectStats{}, err
	}
	return stats, nil
}

// GetInvestors returns the requested page of a project's investors.
func (c *ProjectsClient) GetInvestors(ctx context.Context, projectID string, page, limit int) (PaginatedResponse[Investor], error) {
	if projectID == "" {
		return PaginatedResponse[Investor]{}, ConfigError{Reason: "project_id required"}
	}
	q := url.Values{}
	setInt(q, "page", &page)
	setInt(q, "limit", &limit)
	var resp PaginatedResponse[Investor]
	path := pathWithQuery(projectPath(projectID)+"/investors", q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return PaginatedResponse[Investor]{}, err
	}
	return resp, nil
}

// GetTiers returns a project's pricing tiers.
func (c *ProjectsClient) GetTiers(ctx context.Context, projectID string) ([]Tier, error) {
	if projectID == "" {
		return nil, ConfigError{Reason: "project_id required"}
	}
	var payload struct {
		Tiers []Tier `json:"tiers"`
	}
	if err := c.client.sendAndDecode(ctx, http.MethodGet, projectPath(projectID)+"/tiers", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tiers, nil
}

// UpdateTiers replaces a project's pricing tiers.
func (c *ProjectsClient) UpdateTiers(ctx context.Context, projectID string, tiers []Tier) ([]Tier, error) {
	if projectID == "" {
		return nil, ConfigError{Reason: "project_id required"}
	}
	body := map[string]any{"tiers": tiers}
	var payload struct {
		Tiers []Tier `json:"tiers"`
	}
	if err := c.client.sendAndDecode(ctx, http.MethodPut, projectPath(projectID)+"/tiers", body, &payload); err != nil {
		return nil, err
	}
	return payload.Tiers, nil
}

// Search performs a text search over projects.
func (c *ProjectsClient) Search(ctx context.Context, query string, opts *ProjectSearchOptions) (PaginatedResponse[Project], error) {
	q := url.Values{}
	q.Set("q", query)
	if opts != nil {
		setString(q, "status", string(opts.Status))
		setInt(q, "page", opts.Page)
		setInt(q, "limit", opts.Limit)
	}
	var page PaginatedResponse[Project]
	path := pathWithQuery(routes.ProjectsSearch, q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &page); err != nil {
		return PaginatedResponse[Project]{}, err
	}
	return page, nil
}

// GetFeatured returns curated featured projects.
func (c *ProjectsClient) GetFeatured(ctx context.Context, limit int) ([]Project, error) {
	q := url.Values{}
	setInt(q, "limit", &limit)
	var payload struct {
		Projects []Project `json:"projects"`
	}
	path := pathWithQuery(routes.ProjectsFeatured, q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Projects, nil
}

// GetTrending returns trending projects for a period ("24h", "7d", "30d").
func (c *ProjectsClient) GetTrending(ctx context.Context, period string, limit int) ([]Project, error) {
	q := url.Values{}
	setString(q, "period", period)
	setInt(q, "limit", &limit)
	var payload struct {
		Projects []Project `json:"projects"`
	}
	path := pathWithQuery(routes.ProjectsTrending, q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Projects, nil
}

func projectPath(projectID string) string {
	return fmt.Sprintf("%s/%s", routes.Projects, url.PathEscape(projectID))
}
