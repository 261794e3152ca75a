// Package currencyutils parses the monetary amounts found in budget exports.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyMarks matches currency symbols, ISO codes and whitespace around an amount.
var currencyMarks = regexp.MustCompile(`[€$£¥₣₹]|\b(?:CHF|EUR|USD|GBP)\b|\s`)

// ParseAmount parses an amount written as "1234.56", "1,234.56", "1.234,56", "1'234.56",
// "CHF 1'234.50" or "-€12,5". An empty string is zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(StandardizeAmount(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites an amount into the plain form accepted by
// decimal.NewFromString: no currency marks, no thousands separators and a dot as the
// decimal separator.
func StandardizeAmount(amountStr string) string {
	s := currencyMarks.ReplaceAllString(amountStr, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "’", "")

	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot < lastComma {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// 1234,56
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234 or 1,234,567
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}
