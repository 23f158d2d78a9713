package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func showColumnsRows(fields ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f[0], f[1], "NO", "", nil, "")
	}
	return rows
}

func TestGetTableColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `payment_transactions`").
		WillReturnRows(showColumnsRows(
			[2]string{"ID", "varchar(36)"},
			[2]string{"amount", "DECIMAL(12,2)"},
			[2]string{"status", "varchar(20)"},
		))

	columns, err := GetTableColumns(db, "payment_transactions")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	// Names and types are normalized to lowercase
	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "varchar(36)", colMap["id"])
	assert.Equal(t, "decimal(12,2)", colMap["amount"])
	assert.Equal(t, "varchar(20)", colMap["status"])
}

func TestGetTableColumns_Error(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `missing_table`").
		WillReturnError(fmt.Errorf("table does not exist"))

	columns, err := GetTableColumns(db, "missing_table")
	assert.Error(t, err)
	assert.Nil(t, columns)
	assert.Contains(t, err.Error(), "missing_table")
}

func TestVerifyColumns(t *testing.T) {
	t.Run("All Present", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `payment_transactions`").
			WillReturnRows(showColumnsRows(
				[2]string{"id", "varchar(36)"},
				[2]string{"amount", "decimal(12,2)"},
				[2]string{"status", "varchar(20)"},
				[2]string{"created_at", "datetime"},
			))

		missing, err := VerifyColumns(db, "payment_transactions", []string{"id", "amount", "status"})
		assert.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("Missing Columns", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SHOW COLUMNS FROM `payment_transactions`").
			WillReturnRows(showColumnsRows(
				[2]string{"id", "varchar(36)"},
			))

		missing, err := VerifyColumns(db, "payment_transactions", []string{"id", "stripe_payment_intent_id", "metadata"})
		assert.NoError(t, err)
		assert.Equal(t, []string{"stripe_payment_intent_id", "metadata"}, missing)
	})
}
