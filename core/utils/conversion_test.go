package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"String", "pi_abc123", "pi_abc123"},
		{"Bytes", []byte("pi_abc123"), "pi_abc123"},
		{"Float64Whole", float64(42), "42"},
		{"Float64Fraction", 10.5, "10.5"},
		{"Bool", true, "true"},
		{"Int", 7, "7"},
		{"Nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}
