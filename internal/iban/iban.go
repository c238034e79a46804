// Package iban validates International Bank Account Numbers for bank refunds.
package iban

import (
	"strings"

	"go.uber.org/fx"
)

// Validator reports whether a candidate IBAN is structurally valid.
type Validator interface {
	Valid(candidate string) bool
}

// Mod97Validator implements the ISO 13616 check: move the first four
// characters to the end, expand letters to two-digit numbers, and verify the
// resulting integer is congruent to 1 modulo 97.
type Mod97Validator struct{}

func NewValidator() Validator {
	return Mod97Validator{}
}

func (Mod97Validator) Valid(candidate string) bool {
	normalized := normalize(candidate)
	if len(normalized) < 15 || len(normalized) > 34 {
		return false
	}
	// Country code and check digits must lead.
	if !isLetter(normalized[0]) || !isLetter(normalized[1]) ||
		!isDigit(normalized[2]) || !isDigit(normalized[3]) {
		return false
	}

	rotated := normalized[4:] + normalized[:4]
	remainder := 0
	for _, ch := range rotated {
		switch {
		case ch >= '0' && ch <= '9':
			remainder = (remainder*10 + int(ch-'0')) % 97
		case ch >= 'A' && ch <= 'Z':
			value := int(ch-'A') + 10
			remainder = (remainder*100 + value) % 97
		default:
			return false
		}
	}
	return remainder == 1
}

func normalize(candidate string) string {
	var b strings.Builder
	for _, ch := range candidate {
		if ch == ' ' || ch == '-' {
			continue
		}
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func isLetter(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }

var Module = fx.Module("iban",
	fx.Provide(NewValidator),
)
