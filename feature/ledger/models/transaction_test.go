package models_test

import (
	"testing"

	"payment-reconciler/feature/ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTransaction_TableName(t *testing.T) {
	assert.Equal(t, "payment_transactions", models.PaymentTransaction{}.TableName())
}

func TestMetadata_Value(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		var m models.Metadata
		v, err := m.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("Populated", func(t *testing.T) {
		m := models.Metadata{"payment_intent_id": "pi_123"}
		v, err := m.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{"payment_intent_id": "pi_123"}`, string(v.([]byte)))
	})
}

func TestMetadata_Scan(t *testing.T) {
	t.Run("Bytes", func(t *testing.T) {
		var m models.Metadata
		require.NoError(t, m.Scan([]byte(`{"order_id": "42"}`)))
		assert.Equal(t, "42", m["order_id"])
	})

	t.Run("String", func(t *testing.T) {
		var m models.Metadata
		require.NoError(t, m.Scan(`{"order_id": "42"}`))
		assert.Equal(t, "42", m["order_id"])
	})

	t.Run("Nil", func(t *testing.T) {
		var m models.Metadata
		require.NoError(t, m.Scan(nil))
		assert.Nil(t, m)
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		var m models.Metadata
		assert.Error(t, m.Scan(12345))
	})
}
