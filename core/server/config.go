package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// Empty disables API key protection (local development).
	ApiKey string `mapstructure:"api_key" default:""`
}

// ListenAddr returns the address string passed to the HTTP listener.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
