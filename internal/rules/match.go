package rules

import "strings"

type MatchState string

const (
	MatchNeutral  MatchState = "neutral"
	MatchOK       MatchState = "match"
	MatchMismatch MatchState = "mismatch"
)

type MatchResult struct {
	State         MatchState `json:"state"`
	Indicator     Indicator  `json:"indicator"`
	SubmitEnabled bool       `json:"submit_enabled"`
}

// Match compares the trimmed password and confirmation, the same values a
// submission would send.
func Match(password, confirmation string) MatchResult {
	password = strings.TrimSpace(password)
	confirmation = strings.TrimSpace(confirmation)

	switch {
	case confirmation == "":
		return MatchResult{State: MatchNeutral}
	case password == confirmation:
		return MatchResult{
			State:         MatchOK,
			Indicator:     Indicator{Text: "Passwords match ✅", Class: "password-match success"},
			SubmitEnabled: true,
		}
	default:
		return MatchResult{
			State:     MatchMismatch,
			Indicator: Indicator{Text: "Passwords do not match ❌", Class: "password-match error"},
		}
	}
}
