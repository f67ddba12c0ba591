package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTokenRequest     = fmt.Errorf("token request failed")
	ErrStateMismatch    = fmt.Errorf("oauth state mismatch")

	// API and service errors
	ErrAPIRequest    = fmt.Errorf("API request failed")
	ErrChartFetch    = fmt.Errorf("chart fetch failed")
	ErrNoMatch       = fmt.Errorf("no matching track")
	ErrPublishFailed = fmt.Errorf("playlist publish failed")

	// Input validation errors
	ErrInvalidDate     = fmt.Errorf("invalid date format")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
