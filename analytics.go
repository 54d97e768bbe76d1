package xrplsale

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xrplsale/xrplsale-go/routes"
)

// PlatformAnalytics aggregates activity across the whole platform.
type PlatformAnalytics struct {
	TotalProjects  int    `json:"total_projects"`
	ActiveProjects int    `json:"active_projects"`
	TotalRaised    string `json:"total_raised_xrp"`
	TotalInvestors int    `json:"total_investors"`
	AverageRaise   string `json:"average_raise_xrp"`
}

// TrendPoint is one bucket of a time series.
type TrendPoint struct {
	Date        time.Time `json:"date"`
	AmountXRP   string    `json:"amount_xrp"`
	Investments int       `json:"investments"`
}

// ProjectAnalytics reports sale activity for one project over a window.
type ProjectAnalytics struct {
	ProjectID      string       `json:"project_id"`
	TotalRaised    string       `json:"total_raised_xrp"`
	InvestorCount  int          `json:"investor_count"`
	AverageTicket  string       `json:"average_ticket_xrp"`
	DailyBreakdown []TrendPoint `json:"daily_breakdown,omitempty"`
}

// MarketAnalytics summarizes market-level movement for a period.
type MarketAnalytics struct {
	Period        string `json:"period"`
	VolumeXRP     string `json:"volume_xrp"`
	SalesLaunched int    `json:"sales_launched"`
	SalesClosed   int    `json:"sales_closed"`
}

// AnalyticsOptions bounds a project analytics query to a date window.
type AnalyticsOptions struct {
	StartDate time.Time
	EndDate   time.Time
}

func (o *AnalyticsOptions) query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if !o.StartDate.IsZero() {
		q.Set("start_date", o.StartDate.Format("2006-01-02"))
	}
	if !o.EndDate.IsZero() {
		q.Set("end_date", o.EndDate.Format("2006-01-02"))
	}
	return q
}

// ExportOptions selects the dataset and window for a CSV export.
type ExportOptions struct {
	Dataset   string // "investments", "projects"
	ProjectID string
	StartDate time.Time
	EndDate   time.Time
}

// AnalyticsClient reads platform, project, and market aggregates.
type AnalyticsClient struct {
	client *Client
}

// GetPlatform returns platform-wide aggregates.
func (c *AnalyticsClient) GetPlatform(ctx context.Context) (PlatformAnalytics, error) {
	var analytics PlatformAnalytics
	if err := c.client.sendAndDecode(ctx, http.MethodGet, routes.AnalyticsPlatform, nil, &analytics); err != nil {
		return PlatformAnalytics{}, err
	}
	return analytics, nil
}

// GetProject returns sale activity for one project, optionally bounded to a
// date window.
func (c *AnalyticsClient) GetProject(ctx context.Context, projectID string, opts *AnalyticsOptions) (ProjectAnalytics, error) {
	if projectID == "" {
		return ProjectAnalytics{}, ConfigError{Reason: "project_id required"}
	}
	var analytics ProjectAnalytics
	path := pathWithQuery(fmt.Sprintf("/analytics/projects/%s", url.PathEscape(projectID)), opts.query())
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &analytics); err != nil {
		return ProjectAnalytics{}, err
	}
	return analytics, nil
}

// GetProjectTrends returns the investment time series for one project over a
// period ("24h", "7d", "30d").
func (c *AnalyticsClient) GetProjectTrends(ctx context.Context, projectID, period string) ([]TrendPoint, error) {
	if projectID == "" {
		return nil, ConfigError{Reason: "project_id required"}
	}
	q := url.Values{}
	setString(q, "period", period)
	var payload struct {
		Trends []TrendPoint `json:"trends"`
	}
	path := pathWithQuery(fmt.Sprintf("/analytics/projects/%s/trends", url.PathEscape(projectID)), q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Trends, nil
}

// GetMarket returns market-level aggregates for a period.
func (c *AnalyticsClient) GetMarket(ctx context.Context, period string) (MarketAnalytics, error) {
	q := url.Values{}
	setString(q, "period", period)
	var analytics MarketAnalytics
	path := pathWithQuery(routes.AnalyticsMarket, q)
	if err := c.client.sendAndDecode(ctx, http.MethodGet, path, nil, &analytics); err != nil {
		return MarketAnalytics{}, err
	}
	return analytics, nil
}

// Export returns a raw CSV export of the selected dataset.
func (c *AnalyticsClient) Export(ctx context.Context, opts ExportOptions) ([]byte, error) {
	if opts.Dataset == "" {
		return nil, ConfigError{Reason: "dataset required"}
	}
	q := url.Values{}
	setString(q, "dataset", opts.Dataset)
	setString(q, "project_id", opts.ProjectID)
	if !opts.StartDate.IsZero() {
		q.Set("start_date", opts.StartDate.Format("2006-01-02"))
	}
	if !opts.EndDate.IsZero() {
		q.Set("end_date", opts.EndDate.Format("2006-01-02"))
	}
	return c.client.send(ctx, http.MethodGet, pathWithQuery(routes.AnalyticsExport, q), nil, nil)
}
