package importer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCell(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"nil", nil, ""},
		{"plain string", "Maria", "Maria"},
		{"padded string", "  Maria da Silva  ", "Maria da Silva"},
		{"whitespace only", "   ", ""},
		{"integral float drops decimal", float64(123456.0), "123456"},
		{"fractional float kept", 12.5, "12.5"},
		{"nan", math.NaN(), ""},
		{"positive infinity", math.Inf(1), ""},
		{"negative infinity", math.Inf(-1), ""},
		{"int", 42, "42"},
		{"int64", int64(99), "99"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCell(tt.raw))
		})
	}
}
