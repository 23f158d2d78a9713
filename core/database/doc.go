// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration.
//
// # Connect
//
// The Connect function establishes a connection to the ledger database with
// sane pool settings and connection/read/write timeouts baked into the DSN.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, which is used for the
// startup verification of the payment_transactions table. It allows retrieving table
// columns and verifying that the columns required by the reconciliation engine exist.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.VerifyColumns(db, "payment_transactions", ledger.RequiredColumns())
package database
