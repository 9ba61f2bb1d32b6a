package classify

import "strings"

// Severity is the level of concern a headline signals.
type Severity int

const (
	Low Severity = iota
	Medium
	High
)

// Marker returns the emoji shown next to a headline.
func (s Severity) Marker() string {
	switch s {
	case High:
		return "🔴"
	case Medium:
		return "🟡"
	default:
		return "🟢"
	}
}

func (s Severity) String() string {
	switch s {
	case High:
		return "high"
	case Medium:
		return "medium"
	default:
		return "low"
	}
}

type rule struct {
	severity Severity
	keywords []string
}

// Rules are checked in order; the first match wins.
var rules = []rule{
	{High, []string{"accident", "crash", "blocked", "jam", "closed"}},
	{Medium, []string{"slow", "delay", "snarl", "heavy"}},
}

// Classify grades a title by keyword. Matching is plain substring
// containment, so "unblocked" still counts as "blocked".
func Classify(title string) Severity {
	text := strings.ToLower(title)
	for _, r := range rules {
		if containsAny(text, r.keywords) {
			return r.severity
		}
	}
	return Low
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
