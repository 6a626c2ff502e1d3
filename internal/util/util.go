package util

import (
	"strconv"
	"strings"
	"unicode"
)

// FormatKm formats kilometres for display with one decimal place, e.g. "2.5km".
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64) + "km"
}

// ParseLeadingFloat parses the number a string starts with, ignoring leading
// whitespace and any trailing text, so "2.5km" yields 2.5.
// It reports false when the string does not start with a number.
func ParseLeadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}

	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		expDigits := exp
		for expDigits < len(s) && isDigit(s[expDigits]) {
			expDigits++
		}
		if expDigits > exp {
			end = expDigits
		}
	}

	value, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
