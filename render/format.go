package render

import (
	"fmt"
	"math"
	"strings"
)

// FormatNumber formats a value with comma separators and two decimals.
func FormatNumber(v float64) string {
	v = RoundTo2(v)
	negative := v < 0
	if negative {
		v = -v
	}

	intPart := int64(v)
	decPart := int64(math.Round((v - float64(intPart)) * 100))
	if decPart == 100 {
		intPart++
		decPart = 0
	}

	s := fmt.Sprintf("%s.%02d", groupThousands(fmt.Sprintf("%d", intPart)), decPart)
	if negative {
		s = "-" + s
	}
	return s
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}
