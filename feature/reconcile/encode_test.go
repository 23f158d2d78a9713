package reconcile

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()

	local := nLocal("txn-1", "pi_1", testNow.Add(-time.Hour))
	remote := nRemote("pi_1", testNow.Add(-time.Hour))
	localAmount := majorUnits(10000)
	stripeAmount := majorUnits(9500)
	discrepancies := []Discrepancy{{
		Type:          DiscrepancyAmountMismatch,
		Severity:      SeverityHigh,
		TransactionID: "txn-1",
		StripeID:      "pi_1",
		LocalAmount:   &localAmount,
		StripeAmount:  &stripeAmount,
		Description:   "amount: local=100 stripe=95",
		Action:        "Verify the charged amount with the payment processor",
		DetectedAt:    testNow,
	}}

	detector := newTestOrphanDetector()
	orphans := OrphanLists{
		Local:  detector.DetectLocal([]NormalizedLocal{nLocal("txn-2", "", testNow.Add(-time.Hour))}),
		Stripe: detector.DetectRemote([]NormalizedRemote{nRemote("pi_9", testNow.Add(-time.Hour))}),
	}

	report := BuildReport("report-1", testNow, Period{Start: testNow.Add(-24 * time.Hour), End: testNow},
		[]NormalizedLocal{local}, []NormalizedRemote{remote},
		[]MatchedPair{{Local: local, Remote: remote}}, discrepancies, orphans)
	return &report
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat(""))
	assert.True(t, ValidFormat("json"))
	assert.True(t, ValidFormat("csv"))
	assert.True(t, ValidFormat("JSON"))
	assert.False(t, ValidFormat("xml"))
	assert.False(t, ValidFormat("pdf"))
}

func TestEncodeReport_JSON(t *testing.T) {
	report := sampleReport(t)

	payload, err := EncodeReport(report, FormatJSON)
	require.NoError(t, err)
	assert.True(t, json.Valid(payload))

	// Indented layout for human consumption.
	assert.True(t, strings.HasPrefix(string(payload), "{\n  \"reportId\""))

	// The empty format means JSON.
	defaulted, err := EncodeReport(report, "")
	require.NoError(t, err)
	assert.Equal(t, payload, defaulted)
}

func TestEncodeReport_CSV(t *testing.T) {
	report := sampleReport(t)

	payload, err := EncodeReport(report, FormatCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	// Header plus one discrepancy and two orphans.
	require.Len(t, rows, 4)

	assert.Equal(t, csvHeader, rows[0])

	byType := make(map[string][]string)
	for _, row := range rows[1:] {
		require.Len(t, row, len(csvHeader))
		assert.Equal(t, "report-1", row[0])
		byType[row[4]] = row
	}

	discrepancy := byType["discrepancy"]
	require.NotNil(t, discrepancy)
	assert.Equal(t, "amount_mismatch", discrepancy[5])
	assert.Equal(t, "high", discrepancy[6])
	assert.Equal(t, "txn-1", discrepancy[7])
	assert.Equal(t, "100", discrepancy[9])
	assert.Equal(t, "95", discrepancy[10])

	localOrphan := byType["local_orphan"]
	require.NotNil(t, localOrphan)
	assert.Equal(t, "missing_stripe", localOrphan[5])
	assert.Equal(t, "txn-2", localOrphan[7])

	stripeOrphan := byType["stripe_orphan"]
	require.NotNil(t, stripeOrphan)
	assert.Equal(t, "missing_local", stripeOrphan[5])
	assert.Equal(t, "pi_9", stripeOrphan[8])
}

func TestEncodeReport_UnsupportedFormat(t *testing.T) {
	report := sampleReport(t)

	_, err := EncodeReport(report, "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), `"xml"`)
}

func TestArchiveName(t *testing.T) {
	report := &Report{ReportID: "report-1", Timestamp: time.Date(2026, 8, 20, 12, 30, 45, 0, time.UTC)}

	cfg := ReportConfig{Format: "json", Prefix: "reconciliation"}
	assert.Equal(t, "reconciliation/report-1_20260820T123045Z.json", ArchiveName(cfg, report))

	cfg.Format = "csv"
	cfg.Prefix = "nightly"
	assert.Equal(t, "nightly/report-1_20260820T123045Z.csv", ArchiveName(cfg, report))

	// The empty format defaults to json, the empty prefix to reconciliation.
	assert.Equal(t, "reconciliation/report-1_20260820T123045Z.json", ArchiveName(ReportConfig{}, report))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/json", ContentTypeFor("json"))
	assert.Equal(t, "application/json", ContentTypeFor(""))
	assert.Equal(t, "text/csv", ContentTypeFor("csv"))
	assert.Equal(t, "text/csv", ContentTypeFor("CSV"))
}
