package preview

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "R$\u00a00,00"},
		{"3000", "R$\u00a03.000,00"},
		{"1234.56", "R$\u00a01.234,56"},
		{"0.5", "R$\u00a00,50"},
		{"1234567.891", "R$\u00a01.234.567,89"},
		{"-10", "-R$\u00a010,00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15/03/2025", FormatDate("2025-03-15"))
	assert.Equal(t, "—", FormatDate(""))
	assert.Equal(t, "amanhã", FormatDate("amanhã"))
}
