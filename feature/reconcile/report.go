package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Period is the reconciled time window [start, end).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OrphanCounts summarizes orphans per side.
type OrphanCounts struct {
	Local  int `json:"local"`
	Stripe int `json:"stripe"`
}

// Summary carries the report's headline counters. Discrepancies counts pair
// discrepancies plus one missing_local / missing_stripe equivalent per
// orphan; amounts are major-unit decimals.
type Summary struct {
	TotalLocalTransactions  int             `json:"totalLocalTransactions"`
	TotalStripeTransactions int             `json:"totalStripeTransactions"`
	MatchedTransactions     int             `json:"matchedTransactions"`
	Discrepancies           int             `json:"discrepancies"`
	OrphanPayments          OrphanCounts    `json:"orphanPayments"`
	TotalAmountLocal        decimal.Decimal `json:"totalAmountLocal"`
	TotalAmountStripe       decimal.Decimal `json:"totalAmountStripe"`
	AmountDiscrepancy       decimal.Decimal `json:"amountDiscrepancy"`
}

// OrphanLists groups orphans by side.
type OrphanLists struct {
	Local  []OrphanPayment `json:"local"`
	Stripe []OrphanPayment `json:"stripe"`
}

// Report is the immutable result of one reconciliation run.
type Report struct {
	ReportID        string        `json:"reportId"`
	Timestamp       time.Time     `json:"timestamp"`
	Period          Period        `json:"period"`
	Summary         Summary       `json:"summary"`
	Discrepancies   []Discrepancy `json:"discrepancies"`
	OrphanPayments  OrphanLists   `json:"orphanPayments"`
	Recommendations []string      `json:"recommendations"`
}

// BuildReport assembles the run report from the pipeline outputs. Counters
// hold the partition invariant: matched + local orphans = total local, and
// matched + stripe orphans = total stripe.
func BuildReport(reportID string, generatedAt time.Time, period Period, locals []NormalizedLocal, remotes []NormalizedRemote, pairs []MatchedPair, discrepancies []Discrepancy, orphans OrphanLists) Report {
	if discrepancies == nil {
		discrepancies = []Discrepancy{}
	}
	if orphans.Local == nil {
		orphans.Local = []OrphanPayment{}
	}
	if orphans.Stripe == nil {
		orphans.Stripe = []OrphanPayment{}
	}

	totalLocal := decimal.Zero
	for _, l := range locals {
		totalLocal = totalLocal.Add(majorUnits(l.Amount))
	}
	totalStripe := decimal.Zero
	for _, r := range remotes {
		totalStripe = totalStripe.Add(majorUnits(r.Amount))
	}

	summary := Summary{
		TotalLocalTransactions:  len(locals),
		TotalStripeTransactions: len(remotes),
		MatchedTransactions:     len(pairs),
		Discrepancies:           len(discrepancies) + len(orphans.Local) + len(orphans.Stripe),
		OrphanPayments:          OrphanCounts{Local: len(orphans.Local), Stripe: len(orphans.Stripe)},
		TotalAmountLocal:        totalLocal,
		TotalAmountStripe:       totalStripe,
		AmountDiscrepancy:       totalLocal.Sub(totalStripe).Abs(),
	}

	return Report{
		ReportID:        reportID,
		Timestamp:       generatedAt,
		Period:          period,
		Summary:         summary,
		Discrepancies:   discrepancies,
		OrphanPayments:  orphans,
		Recommendations: buildRecommendations(summary, discrepancies),
	}
}

// buildRecommendations derives follow-up guidance from the run's findings.
func buildRecommendations(summary Summary, discrepancies []Discrepancy) []string {
	if summary.Discrepancies == 0 {
		return []string{"Ledgers are in sync. No action required."}
	}

	byType := make(map[DiscrepancyType]int)
	critical := 0
	for _, d := range discrepancies {
		byType[d.Type]++
		if d.Severity == SeverityCritical {
			critical++
		}
	}

	var recs []string
	if critical > 0 {
		recs = append(recs, fmt.Sprintf("%d critical discrepancies found. Settlement outcomes disagree; investigate immediately.", critical))
	}
	if n := byType[DiscrepancyAmountMismatch]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d amount mismatches found. Verify charge amounts against the processor dashboard.", n))
	}
	if n := byType[DiscrepancyStatusMismatch]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d status mismatches found. Run a pending sync and re-check.", n))
	}
	if n := byType[DiscrepancyMetadataMismatch]; n > 0 {
		recs = append(recs, fmt.Sprintf("%d metadata mismatches found. Review metadata synchronization.", n))
	}
	if n := summary.OrphanPayments.Local; n > 0 {
		recs = append(recs, fmt.Sprintf("%d local transactions have no processor record. Check for interrupted payment flows.", n))
	}
	if n := summary.OrphanPayments.Stripe; n > 0 {
		recs = append(recs, fmt.Sprintf("%d processor payments are missing locally. Check webhook delivery and ledger ingestion.", n))
	}
	if !summary.AmountDiscrepancy.IsZero() {
		recs = append(recs, fmt.Sprintf("Ledger totals differ by %s. Reconcile against the settlement report.", summary.AmountDiscrepancy))
	}
	return recs
}
