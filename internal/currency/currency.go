// Package currency formats rupee amounts the way the storefront shows them.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

const symbol = "₹"

var (
	crore    = decimal.NewFromInt(10_000_000)
	lakh     = decimal.NewFromInt(100_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatPrice renders d with Indian digit grouping and at most two
// fraction digits, e.g. ₹1,23,456.5.
func FormatPrice(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	s := d.Round(2).String()
	whole, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	out := sign + symbol + groupIndian(whole)
	if frac != "" {
		out += "." + frac
	}
	return out
}

// FormatCompact abbreviates large amounts to crores, lakhs and thousands.
func FormatCompact(d decimal.Decimal) string {
	switch {
	case d.GreaterThanOrEqual(crore):
		return symbol + d.Div(crore).StringFixed(1) + " Cr"
	case d.GreaterThanOrEqual(lakh):
		return symbol + d.Div(lakh).StringFixed(1) + " L"
	case d.GreaterThanOrEqual(thousand):
		return symbol + d.Div(thousand).StringFixed(1) + "K"
	}
	return FormatPrice(d)
}

// groupIndian puts the last three digits together and every two before.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
