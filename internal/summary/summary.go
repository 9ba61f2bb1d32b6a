// Package summary condenses a batch of headlines into one sentence.
package summary

import (
	"fmt"
	"strings"
)

// Summarizer generates a one-line summary for a batch of titles.
type Summarizer interface {
	Summarize(titles []string) string
}

type rule struct {
	keywords []string
	text     func(city string) string
}

func fixed(s string) func(string) string {
	return func(string) string { return s }
}

// rules are checked in order against the joined titles; the first match wins.
var rules = []rule{
	{[]string{"accident"}, fixed("Accident reported — expect delays.")},
	{[]string{"baner", "balewadi"}, func(city string) string {
		return fmt.Sprintf("Moderate congestion around %s hotspots.", city)
	}},
	{[]string{"metro", "work"}, fixed("Roadwork/metro activity slowing traffic.")},
}

const quiet = "No major bottlenecks reported."

// Keyword is the rule-table summarizer.
type Keyword struct {
	City string
}

func New(city string) *Keyword {
	return &Keyword{City: city}
}

func (k *Keyword) Summarize(titles []string) string {
	lowered := make([]string, len(titles))
	for i, t := range titles {
		lowered[i] = strings.ToLower(t)
	}
	text := strings.Join(lowered, " ")

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.text(k.City)
			}
		}
	}
	return quiet
}
