package monitoring

// Config holds configuration for the monitoring sink.
type Config struct {
	// Enabled toggles the New Relic sink. When false the engine uses the
	// no-op sink.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// LicenseKey is the New Relic ingest license key.
	LicenseKey string `mapstructure:"license_key" default:""`
	// AppName is the application name reported to New Relic.
	AppName string `mapstructure:"app_name" default:"payment-reconciler"`
}
