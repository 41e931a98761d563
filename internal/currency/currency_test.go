package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct{ in, want string }{
		{"0", "₹0"},
		{"49", "₹49"},
		{"999.99", "₹999.99"},
		{"1234", "₹1,234"},
		{"1234.5", "₹1,234.5"},
		{"123456.50", "₹1,23,456.5"},
		{"1234567.891", "₹12,34,567.89"},
		{"100000000", "₹10,00,00,000"},
		{"-2500", "-₹2,500"},
		{"10.005", "₹10.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct{ in, want string }{
		{"12500000", "₹1.3 Cr"},
		{"10000000", "₹1.0 Cr"},
		{"150000", "₹1.5 L"},
		{"1500", "₹1.5K"},
		{"999", "₹999"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCompact(decimal.RequireFromString(tt.in)))
		})
	}
}
