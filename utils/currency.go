package utils

import (
	"fmt"
	"strconv"
)

// FormatVND groups an amount with thousands separators: 150000 -> "150,000".
// Payment notes and emails append the ₫ sign themselves.
func FormatVND(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.Itoa(amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}

	if neg {
		return "-" + s
	}
	return s
}

// FormatVNDWithSign renders a full currency string, e.g. "150,000 ₫".
func FormatVNDWithSign(amount int) string {
	return fmt.Sprintf("%s ₫", FormatVND(amount))
}
