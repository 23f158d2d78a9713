package reconcile

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Supported report serialization formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnsupportedFormat rejects report formats the encoder does not know.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ValidFormat reports whether the encoder supports the format. The empty
// string is valid and means FormatJSON.
func ValidFormat(format string) bool {
	switch strings.ToLower(format) {
	case "", FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// EncodeReport serializes a report. JSON is the indented structured layout;
// CSV is a header row plus one row per discrepancy and per orphan with the
// report-level fields repeated.
func EncodeReport(report *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return json.MarshalIndent(report, "", "  ")
	case FormatCSV:
		return encodeCSV(report)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ArchiveName builds the object name an archived report is stored under:
// <prefix>/<reportId>_<timestamp>.<ext>.
func ArchiveName(cfg ReportConfig, report *Report) string {
	ext := strings.ToLower(cfg.Format)
	if ext == "" {
		ext = FormatJSON
	}
	stamp := report.Timestamp.UTC().Format("20060102T150405Z")
	return fmt.Sprintf("%s/%s_%s.%s", cfg.ArchivePrefix(), report.ReportID, stamp, ext)
}

// ContentTypeFor returns the MIME type for a report format.
func ContentTypeFor(format string) string {
	if strings.EqualFold(format, FormatCSV) {
		return "text/csv"
	}
	return "application/json"
}

var csvHeader = []string{
	"report_id", "timestamp", "period_start", "period_end",
	"record_type", "discrepancy_type", "severity",
	"transaction_id", "stripe_id",
	"local_amount", "stripe_amount", "local_status", "stripe_status",
	"description", "action",
}

func encodeCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	base := []string{
		report.ReportID,
		report.Timestamp.Format(time.RFC3339),
		report.Period.Start.Format(time.RFC3339),
		report.Period.End.Format(time.RFC3339),
	}
	row := func(fields ...string) []string {
		return append(append(make([]string, 0, len(csvHeader)), base...), fields...)
	}

	for _, d := range report.Discrepancies {
		rec := row(
			"discrepancy", string(d.Type), string(d.Severity),
			d.TransactionID, d.StripeID,
			amountString(d.LocalAmount), amountString(d.StripeAmount),
			d.LocalStatus, d.StripeStatus,
			d.Description, d.Action,
		)
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	for _, o := range report.OrphanPayments.Local {
		rec := row(
			"local_orphan", string(DiscrepancyMissingStripe), "",
			o.TransactionID, o.StripeID,
			o.Amount.String(), "",
			o.Status, "",
			o.Reason, o.Action,
		)
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	for _, o := range report.OrphanPayments.Stripe {
		rec := row(
			"stripe_orphan", string(DiscrepancyMissingLocal), "",
			"", o.StripeID,
			"", o.Amount.String(),
			"", o.Status,
			o.Reason, o.Action,
		)
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func amountString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
