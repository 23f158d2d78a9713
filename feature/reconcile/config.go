package reconcile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds tuning for the reconciliation engine.
type Config struct {
	// AmountTolerance is the largest acceptable absolute difference between
	// the local and remote amount, in major currency units. A difference at
	// or below the tolerance is not a discrepancy.
	AmountTolerance string `mapstructure:"amount_tolerance" default:"0.01"`
	// PendingTimeoutHours is how long a local transaction may stay pending
	// before an unresolved remote side is treated as a failure.
	PendingTimeoutHours int `mapstructure:"pending_timeout_hours" default:"24"`
	// MetadataFields is a comma-separated list of fields compared between
	// matched records. The field "currency" compares the canonical
	// currencies; other fields compare metadata values.
	MetadataFields string `mapstructure:"metadata_fields" default:"currency"`
	// HealthWindowMinutes is the lookback window of the health check's fast
	// reconciliation pass.
	HealthWindowMinutes int `mapstructure:"health_window_minutes" default:"60"`
	// PendingWarnThreshold is the pending backlog size above which health
	// degrades to warning.
	PendingWarnThreshold int `mapstructure:"pending_warn_threshold" default:"100"`
	// ScheduleIntervalHours enables periodic reconciliation when positive.
	ScheduleIntervalHours int `mapstructure:"schedule_interval_hours" default:"0"`
}

// Tolerance returns the amount tolerance in minor units.
func (c Config) Tolerance() int64 {
	d, err := decimal.NewFromString(c.AmountTolerance)
	if err != nil {
		return 1
	}
	return d.Shift(2).Round(0).IntPart()
}

// PendingTimeout returns the pending timeout as a duration.
func (c Config) PendingTimeout() time.Duration {
	if c.PendingTimeoutHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.PendingTimeoutHours) * time.Hour
}

// HealthWindow returns the health check's reconciliation lookback window.
func (c Config) HealthWindow() time.Duration {
	if c.HealthWindowMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.HealthWindowMinutes) * time.Minute
}

// WarnThreshold returns the pending backlog size above which health degrades.
func (c Config) WarnThreshold() int64 {
	if c.PendingWarnThreshold <= 0 {
		return 100
	}
	return int64(c.PendingWarnThreshold)
}

// MetadataFieldList returns the configured metadata comparison fields.
func (c Config) MetadataFieldList() []string {
	var fields []string
	for _, f := range strings.Split(c.MetadataFields, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// ReportConfig holds report output and archival settings.
type ReportConfig struct {
	// Format is the default report serialization format (json, csv).
	Format string `mapstructure:"format" default:"json"`
	// Dir is the local directory reports are written to.
	Dir string `mapstructure:"dir" default:"reports"`
	// Archive enables writing scheduled run reports to object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// Prefix is the object name prefix used in the archive bucket.
	Prefix string `mapstructure:"prefix" default:"reconciliation"`
	// RetentionDays is how long archived reports are kept before pruning.
	RetentionDays int `mapstructure:"retention_days" default:"90"`
}

// Retention returns the archive retention window.
func (c ReportConfig) Retention() time.Duration {
	if c.RetentionDays <= 0 {
		return 90 * 24 * time.Hour
	}
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// ArchivePrefix returns the configured object name prefix.
func (c ReportConfig) ArchivePrefix() string {
	if c.Prefix == "" {
		return "reconciliation"
	}
	return c.Prefix
}
