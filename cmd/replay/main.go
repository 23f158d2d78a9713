package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"payment-reconciler/core/processor"
	"payment-reconciler/feature/ledger/models"
	"payment-reconciler/feature/reconcile"

	"github.com/google/uuid"
)

// Replays a reconciliation offline from captured fixtures. The first file is
// a JSON array of ledger rows, the second a captured processor list response
// (or a bare array of charges). No database or network involved.

// stripeCharge mirrors the processor's wire shape; created is epoch seconds.
type stripeCharge struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	Created       int64             `json:"created"`
	Description   string            `json:"description"`
	Metadata      map[string]string `json:"metadata"`
	Customer      string            `json:"customer"`
	PaymentMethod string            `json:"payment_method"`
}

func (c stripeCharge) toRemote() processor.RemoteTransaction {
	return processor.RemoteTransaction{
		ID:            c.ID,
		Amount:        c.Amount,
		Currency:      c.Currency,
		Status:        c.Status,
		Created:       time.Unix(c.Created, 0).UTC(),
		Description:   c.Description,
		Metadata:      c.Metadata,
		CustomerID:    c.Customer,
		PaymentMethod: c.PaymentMethod,
	}
}

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <ledger.json> <stripe.json>", os.Args[0])
	}

	ledgerTxns, err := loadLedgerFixture(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	remoteTxns, err := loadStripeFixture(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}

	// Stage 1: normalize both sides
	fmt.Println("=== STAGE 1: Normalize ===")
	locals, err := reconcile.NormalizeLocal(ledgerTxns)
	if err != nil {
		log.Fatal(err)
	}
	remotes, err := reconcile.NormalizeRemote(remoteTxns)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Ledger records normalized: %d\n", len(locals))
	fmt.Printf("Stripe records normalized: %d\n", len(remotes))

	// Stage 2: match by correlation key
	fmt.Println("\n=== STAGE 2: Match ===")
	matched := reconcile.Match(locals, remotes)
	fmt.Printf("Pairs: %d\n", len(matched.Pairs))
	fmt.Printf("Ledger orphans: %d\n", len(matched.LocalOrphans))
	fmt.Printf("Stripe orphans: %d\n", len(matched.RemoteOrphans))

	// Stage 3: classify matched pairs
	fmt.Println("\n=== STAGE 3: Classify ===")
	var cfg reconcile.Config
	classifier := reconcile.NewClassifier(cfg)
	var discrepancies []reconcile.Discrepancy
	for _, pair := range matched.Pairs {
		discrepancies = append(discrepancies, classifier.Classify(pair)...)
	}
	fmt.Printf("Discrepancies: %d\n", len(discrepancies))
	byType := make(map[reconcile.DiscrepancyType]int)
	for _, d := range discrepancies {
		byType[d.Type]++
	}
	for typ, n := range byType {
		fmt.Printf("  %s: %d\n", typ, n)
	}

	// Stage 4: orphan details
	fmt.Println("\n=== STAGE 4: Orphans ===")
	detector := reconcile.NewOrphanDetector(cfg)
	orphans := reconcile.OrphanLists{
		Local:  detector.DetectLocal(matched.LocalOrphans),
		Stripe: detector.DetectRemote(matched.RemoteOrphans),
	}
	for _, o := range orphans.Local {
		fmt.Printf("  ledger %s: %s\n", o.TransactionID, o.Action)
	}
	for _, o := range orphans.Stripe {
		fmt.Printf("  stripe %s: %s\n", o.StripeID, o.Action)
	}

	// Stage 5: build and save the report
	fmt.Println("\n=== STAGE 5: Report ===")
	report := reconcile.BuildReport(
		uuid.NewString(), time.Now().UTC(),
		observedPeriod(locals, remotes),
		locals, remotes, matched.Pairs, discrepancies, orphans,
	)
	fmt.Printf("Matched: %d\n", report.Summary.MatchedTransactions)
	fmt.Printf("Ledger total: %s\n", report.Summary.TotalAmountLocal.String())
	fmt.Printf("Stripe total: %s\n", report.Summary.TotalAmountStripe.String())
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}

	payload, err := reconcile.EncodeReport(&report, reconcile.FormatJSON)
	if err != nil {
		log.Fatal(err)
	}
	os.WriteFile("replay_report.json", payload, 0644)

	fmt.Println("\nReplay complete. Check replay_report.json for the full report.")
}

func loadLedgerFixture(path string) ([]models.PaymentTransaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var txns []models.PaymentTransaction
	if err := json.Unmarshal(raw, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode ledger fixture %s: %w", path, err)
	}
	return txns, nil
}

func loadStripeFixture(path string) ([]processor.RemoteTransaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var charges []stripeCharge
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &charges); err != nil {
			return nil, fmt.Errorf("failed to decode stripe fixture %s: %w", path, err)
		}
	} else {
		var envelope struct {
			Data []stripeCharge `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode stripe fixture %s: %w", path, err)
		}
		charges = envelope.Data
	}

	out := make([]processor.RemoteTransaction, 0, len(charges))
	for _, c := range charges {
		out = append(out, c.toRemote())
	}
	return out, nil
}

// observedPeriod spans the earliest to the latest creation time seen on
// either side, since fixtures carry no explicit window.
func observedPeriod(locals []reconcile.NormalizedLocal, remotes []reconcile.NormalizedRemote) reconcile.Period {
	var p reconcile.Period
	grow := func(t time.Time) {
		if p.Start.IsZero() || t.Before(p.Start) {
			p.Start = t
		}
		if t.After(p.End) {
			p.End = t
		}
	}
	for _, l := range locals {
		grow(l.CreatedAt)
	}
	for _, r := range remotes {
		grow(r.CreatedAt)
	}
	return p
}
