package models

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")

	indianPhone = regexp.MustCompile(`^\+91[6-9]\d{9}$`)
)

// NormalizePhone coerces a patient phone number to +91XXXXXXXXXX.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	normalized := raw
	switch {
	case len(digits) == 10:
		normalized = "+91" + digits
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		normalized = "+" + digits
	}

	if !indianPhone.MatchString(normalized) {
		return "", ErrInvalidPhone
	}
	return normalized, nil
}
