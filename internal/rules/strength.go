// Package rules holds the client-facing form rules shared by every page:
// password strength, confirmation matching and request validation.
package rules

import (
	"strings"
	"unicode/utf8"
)

type Level string

const (
	Weak   Level = "weak"
	Medium Level = "medium"
	Strong Level = "strong"
)

const minStrongLength = 8

// Strength scores a password one point each for length, an uppercase letter,
// a digit and a character outside [A-Za-z0-9]. It is total over all strings.
func Strength(password string) Level {
	score := 0
	if utf8.RuneCountInString(password) >= minStrongLength {
		score++
	}

	var upper, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			other = true
		}
	}
	for _, ok := range []bool{upper, digit, other} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 1:
		return Weak
	case score <= 3:
		return Medium
	default:
		return Strong
	}
}

// Indicator is the text and css class of a feedback element next to a field.
type Indicator struct {
	Text  string `json:"text"`
	Class string `json:"class"`
}

var strengthLabels = map[Level]string{
	Weak:   "Weak 🔴",
	Medium: "Medium 🟡",
	Strong: "Strong 🟢",
}

// StrengthIndicator renders the strength of the trimmed password. An empty
// password clears the indicator.
func StrengthIndicator(password string) Indicator {
	p := strings.TrimSpace(password)
	if p == "" {
		return Indicator{Class: "password-strength"}
	}
	level := Strength(p)
	return Indicator{Text: strengthLabels[level], Class: "password-strength " + string(level)}
}
