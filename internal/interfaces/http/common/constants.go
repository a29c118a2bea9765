package common

import "time"

// Query parameter names shared by the list endpoints.
const (
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamCity      = "cit"
	ParamText      = "text"
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamDays      = "days"
)

const (
	// DefaultPage is the first page of every listing.
	DefaultPage = 1
	// DefaultRequestTimeout bounds store access when no timeout is configured.
	DefaultRequestTimeout = 5 * time.Second
)
