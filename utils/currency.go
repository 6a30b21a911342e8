package utils

import "fmt"

// FormatCurrency renders an amount with two-decimal display precision,
// e.g. 9.25 -> "$9.25".
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
