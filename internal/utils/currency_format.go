package utils

import (
	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with the 2-decimal precision used for every
// money figure in this system.
// Example: 12.3456 returns "12.35".
func FormatMoney(amount decimal.Decimal) string {
	return amount.Round(2).StringFixed(2)
}
