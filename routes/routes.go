// Package routes provides shared API route constants used by the SDK's
// service clients to prevent path mismatches.
package routes

const (
	// Projects lists and creates token sale projects.
	Projects = "/projects"

	// ProjectsSearch performs a text search over projects.
	ProjectsSearch = "/projects/search"

	// ProjectsFeatured returns curated featured projects.
	ProjectsFeatured = "/projects/featured"

	// ProjectsTrending returns trending projects for a time period.
	ProjectsTrending = "/projects/trending"

	// Investments lists and creates investments.
	Investments = "/investments"

	// InvestmentsSimulate previews token allocation for a prospective investment.
	InvestmentsSimulate = "/investments/simulate"

	// AnalyticsPlatform returns platform-wide aggregates.
	AnalyticsPlatform = "/analytics/platform"

	// AnalyticsMarket returns market-level aggregates for a period.
	AnalyticsMarket = "/analytics/market"

	// AnalyticsExport returns a CSV export of analytics data.
	AnalyticsExport = "/analytics/export"

	// Webhooks manages webhook endpoint registrations.
	Webhooks = "/webhooks"

	// AuthChallenge issues a wallet sign-in challenge.
	AuthChallenge = "/auth/challenge"

	// AuthVerify exchanges a signed challenge for a bearer token.
	AuthVerify = "/auth/verify"

	// AuthLogout revokes the current bearer token.
	AuthLogout = "/auth/logout"
)
