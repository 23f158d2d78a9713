package processor

// Config holds configuration for the payment processor API client.
type Config struct {
	// BaseURL is the root URL of the processor API.
	BaseURL string `mapstructure:"base_url" default:"https://api.stripe.com/v1"`
	// SecretKey authenticates requests, sent as a bearer token.
	SecretKey string `mapstructure:"secret_key" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
	// PageLimit is the page size used when listing transactions. The API
	// caps pages at 100 items.
	PageLimit int `mapstructure:"page_limit" default:"100"`
}
