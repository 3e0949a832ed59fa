package store

import (
	"fmt"
	"strconv"
)

// FormatMoney renders an amount in minor units with thousands separators,
// e.g. FormatMoney(123456, "INR") == "1,234.56 INR".
func FormatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	major := strconv.FormatInt(minor/100, 10)
	for i := len(major) - 3; i > 0; i -= 3 {
		major = major[:i] + "," + major[i:]
	}
	s := fmt.Sprintf("%s%s.%02d", sign, major, minor%100)
	if currency != "" {
		s += " " + currency
	}
	return s
}
