package utils

import (
	"fmt"
	"strings"

	"github.com/hance08/ledgerd/internal/constants"
	"github.com/shopspring/decimal"
)

// FormatAmount rounds to four decimal places (half away from zero) and
// renders the shortest form that keeps at least one fractional digit:
// 1.10001 -> "1.1", 0.0001 -> "0.0001", 2 -> "2.0".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(constants.AmountPlaces).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ParseAmount parses a decimal such as "150", "150.5", "0.0001" or "1e2".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: %s", amountStr)
	}
	return d, nil
}
