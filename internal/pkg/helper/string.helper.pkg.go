package helper

import (
	"strings"
	"unicode/utf8"
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func ParseCommaSeperatedString(data string) []string {
	var stringsList []string
	if data == "" {
		return stringsList
	}

	parts := strings.Split(data, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		stringsList = append(stringsList, part)
	}

	return stringsList
}

// MaskSecret keeps the last four runes of a credential for display.
func MaskSecret(secret string) string {
	n := utf8.RuneCountInString(secret)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	runes := []rune(secret)
	return strings.Repeat("*", n-4) + string(runes[n-4:])
}
