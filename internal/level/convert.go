package level

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// The conversions below never fail: malformed input yields zero, matching
// how level documents have always been read.

func stringToFloat(s string) float32 {
	s = strings.TrimSpace(s)
	if !isDecimal(s) {
		return 0
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return float32(f)
}

// isDecimal reports whether s is a plain decimal number with an optional
// sign, fraction and exponent. Hex forms and inf/nan words are rejected.
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		for i++; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for ; i < len(s) && isDigit(s[i]); i++ {
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func stringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

func stringToInt64(s string) int64 {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return i
}

func floatToString(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// xmlStringToString decodes the line break markup the editor writes into
// free-text properties.
func xmlStringToString(s string) string {
	return strings.ReplaceAll(s, "<br/>", "\n")
}

// utf8ToPath converts a slash-separated document path to OS form.
func utf8ToPath(s string) string {
	if s == "" {
		return ""
	}
	return filepath.FromSlash(s)
}
