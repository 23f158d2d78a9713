// Package models contains the gorm models for the local payment ledger.
//
// PaymentTransaction maps the payment_transactions table owned by the payment
// service. The reconciliation engine is a guest in that schema: it reads rows
// and resolves stuck pending rows, nothing else, which is why there is no
// AutoMigrate here. Schema compatibility is verified at startup against
// ledger.RequiredColumns instead.
package models
