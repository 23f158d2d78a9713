package monitoring

import (
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"
)

// Sink receives operational signals from the reconciliation engine.
// All methods are fire-and-forget; a sink failure never fails a run.
type Sink interface {
	// Breadcrumb records a step in an ongoing operation.
	Breadcrumb(message, category, level string, data map[string]any)
	// Metric records a numeric measurement.
	Metric(name string, value float64)
	// CaptureException reports an error with additional context.
	CaptureException(err error, context map[string]any)
	// CaptureMessage reports a standalone message at the given level.
	CaptureMessage(message, level string, data map[string]any)
}

// NoopSink discards all signals. It is the fallback when monitoring is
// disabled or unconfigured.
type NoopSink struct{}

func (NoopSink) Breadcrumb(message, category, level string, data map[string]any) {}
func (NoopSink) Metric(name string, value float64)                               {}
func (NoopSink) CaptureException(err error, context map[string]any)              {}
func (NoopSink) CaptureMessage(message, level string, data map[string]any)       {}

// NewRelicSink forwards signals to New Relic as custom events, custom
// metrics and noticed errors.
type NewRelicSink struct {
	app *newrelic.Application
}

// NewNewRelicSink wraps a New Relic application as a Sink.
func NewNewRelicSink(app *newrelic.Application) *NewRelicSink {
	return &NewRelicSink{app: app}
}

func (s *NewRelicSink) Breadcrumb(message, category, level string, data map[string]any) {
	if s.app == nil {
		return
	}
	params := map[string]any{
		"message":  message,
		"category": category,
		"level":    level,
	}
	for k, v := range data {
		params[k] = v
	}
	s.app.RecordCustomEvent("ReconciliationBreadcrumb", params)
}

func (s *NewRelicSink) Metric(name string, value float64) {
	if s.app == nil {
		return
	}
	s.app.RecordCustomMetric(name, value)
}

// CaptureException notices the error inside a short transaction so it is
// attributed and grouped by New Relic's error inbox.
func (s *NewRelicSink) CaptureException(err error, context map[string]any) {
	if s.app == nil || err == nil {
		return
	}
	txn := s.app.StartTransaction("reconciliation.error")
	defer txn.End()
	for k, v := range context {
		txn.AddAttribute(k, v)
	}
	txn.NoticeError(err)
}

func (s *NewRelicSink) CaptureMessage(message, level string, data map[string]any) {
	if s.app == nil {
		return
	}
	params := map[string]any{
		"message": message,
		"level":   level,
	}
	for k, v := range data {
		params[k] = v
	}
	s.app.RecordCustomEvent("ReconciliationMessage", params)
}

// NewSink creates the monitoring sink for the given configuration. It returns
// the no-op sink when New Relic is disabled or not configured, and falls back
// to the no-op sink (with a warning) when the agent fails to initialize, so
// monitoring problems never block startup.
func NewSink(cfg Config, log *zap.Logger) Sink {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		log.Info("monitoring disabled, using no-op sink")
		return NoopSink{}
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
	)
	if err != nil {
		log.Warn("failed to initialize New Relic, continuing without monitoring", zap.Error(err))
		return NoopSink{}
	}

	log.Info("monitoring enabled", zap.String("app_name", cfg.AppName))
	return NewNewRelicSink(app)
}
