// Package config provides configuration management for the payment reconciler.
//
// It utilizes Viper for loading configuration from environment variables,
// with optional overrides from a local .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details for the transaction ledger
//   - Storage: S3/MinIO credentials and bucket settings for the report archive
//   - Log: Logging level and format
//   - Processor: payment processor API endpoint and credentials
//   - Monitoring: New Relic sink settings
//   - Reconcile: engine tuning (tolerance, pending timeout, schedule)
//   - Report: report format, output directory, archival and retention
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
