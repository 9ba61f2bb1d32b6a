package briefing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Ramesh0708/trafficbot-pro/internal/feed"
)

var testNow = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func testOpts() Opts {
	return Opts{
		City:        "pune",
		MaxArticles: 5,
		Facts:       []string{"f0", "f1", "f2", "f3", "f4"},
		MapURL:      "https://maps.example.com/pune",
		Location:    time.UTC,
	}
}

func nArticles(n int) []feed.Article {
	out := make([]feed.Article, n)
	for i := range out {
		out[i] = feed.Article{
			Title:     fmt.Sprintf("Update %d on Karve Road", i+1),
			Link:      fmt.Sprintf("https://news.example.com/%d", i+1),
			Published: testNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestBuildNoArticles(t *testing.T) {
	got, err := Build(testOpts(), nil, testNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := "🚦 TrafficBot Pro • Pune • 19 Oct 2026 • 08:30 AM\n\n" +
		"🟢 No major updates found.\n\n" +
		"🔍 Summary: No major bottlenecks reported.\n\n" +
		"🗺️ Live Traffic Map: https://maps.example.com/pune\n\n" +
		"💡 Fact: f4"
	if got != want {
		t.Errorf("unexpected message:\n%q\nwant:\n%q", got, want)
	}
	if strings.Contains(got, "\n• ") {
		t.Error("expected no bullet lines for empty input")
	}
}

func TestBuildWithArticles(t *testing.T) {
	articles := []feed.Article{
		{Title: "Highway accident blocks traffic", Link: "https://n.example.com/1"},
		{Title: "Heavy delay near toll", Link: "https://n.example.com/2"},
	}
	got, err := Build(testOpts(), articles, testNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := "🚦 TrafficBot Pro • Pune • 19 Oct 2026 • 08:30 AM\n\n" +
		"• 🔴 [Highway accident blocks traffic](https://n.example.com/1)\n" +
		"• 🟡 [Heavy delay near toll](https://n.example.com/2)\n\n" +
		"🔍 Summary: Accident reported — expect delays.\n\n" +
		"🗺️ Live Traffic Map: https://maps.example.com/pune\n\n" +
		"💡 Fact: f4"
	if got != want {
		t.Errorf("unexpected message:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildTruncatesWithOverflow(t *testing.T) {
	got, err := Build(testOpts(), nArticles(7), testNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	bullets := 0
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "• ") {
			bullets++
		}
	}
	if bullets != 5 {
		t.Errorf("expected 5 bullet lines, got %d", bullets)
	}
	if !strings.Contains(got, "• 🟢 [Update 5 on Karve Road](https://news.example.com/5)\n\n… and 2 more updates.\n\n🔍 Summary:") {
		t.Errorf("expected overflow line after the list, got:\n%s", got)
	}
	if strings.Contains(got, "Update 6") {
		t.Error("articles beyond the cap should not be shown")
	}
}

func TestBuildNoOverflowAtCap(t *testing.T) {
	got, err := Build(testOpts(), nArticles(5), testNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(got, "more updates") {
		t.Errorf("expected no overflow line, got:\n%s", got)
	}
}

func TestBuildSectionOrder(t *testing.T) {
	got, err := Build(testOpts(), nArticles(2), testNow)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	markers := []string{"🚦 TrafficBot Pro", "\n• ", "🔍 Summary:", "🗺️ Live Traffic Map:", "💡 Fact:"}
	last := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		if idx <= last {
			t.Fatalf("section %q out of order in:\n%s", m, got)
		}
		last = idx
	}
	if !strings.HasSuffix(got, "💡 Fact: f4") {
		t.Errorf("expected fact to be the last line, got:\n%s", got)
	}
}

func TestPrepareSummarizesDisplayedTitlesOnly(t *testing.T) {
	articles := nArticles(5)
	articles = append(articles, feed.Article{Title: "Accident near Wakad", Link: "https://n.example.com/x"})

	d := Prepare(testOpts(), articles, testNow)
	if d.Summary != "No major bottlenecks reported." {
		t.Errorf("overflowed titles should not feed the summary, got %q", d.Summary)
	}
	if d.Overflow != 1 {
		t.Errorf("expected overflow 1, got %d", d.Overflow)
	}
}

func TestPrepareUsesLocation(t *testing.T) {
	opts := testOpts()
	opts.Location = time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 19th is 01:30 on the 20th in IST
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	d := Prepare(opts, nil, now)
	if d.Timestamp != "20 Oct 2026 • 01:30 AM" {
		t.Errorf("unexpected timestamp %q", d.Timestamp)
	}
	if d.Fact != "f0" {
		t.Errorf("expected fact for day 20, got %q", d.Fact)
	}
}

func TestPrepareDefaultsMaxArticles(t *testing.T) {
	opts := testOpts()
	opts.MaxArticles = 0
	d := Prepare(opts, nArticles(6), testNow)
	if len(d.Lines) != 5 || d.Overflow != 1 {
		t.Errorf("expected default cap of 5, got %d lines and overflow %d", len(d.Lines), d.Overflow)
	}
}

func TestFactIndex(t *testing.T) {
	tests := []struct {
		day, n, want int
	}{
		{1, 5, 1},
		{5, 5, 0},
		{19, 5, 4},
		{31, 5, 1},
		{31, 7, 3},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := FactIndex(tt.day, tt.n); got != tt.want {
			t.Errorf("FactIndex(%d, %d) = %d, want %d", tt.day, tt.n, got, tt.want)
		}
	}
}

func TestFactSameDaySameFact(t *testing.T) {
	facts := []string{"a", "b", "c"}
	morning := time.Date(2026, 10, 7, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 7, 22, 0, 0, 0, time.UTC)
	if Fact(morning, facts) != Fact(evening, facts) {
		t.Error("expected the same fact all day")
	}
	if Fact(morning, nil) != "" {
		t.Error("expected empty fact for empty list")
	}
}

func TestLine(t *testing.T) {
	got := Line(feed.Article{Title: "Roads clear this morning", Link: "https://n.example.com/ok"})
	if got != "• 🟢 [Roads clear this morning](https://n.example.com/ok)" {
		t.Errorf("unexpected line %q", got)
	}
}

func TestBuildTitleCasesCity(t *testing.T) {
	tests := []struct {
		city, want string
	}{
		{"PUNE", "🚦 TrafficBot Pro • Pune • "},
		{"new delhi", "🚦 TrafficBot Pro • New Delhi • "},
		{"bAnGaLoRe", "🚦 TrafficBot Pro • Bangalore • "},
	}
	for _, tt := range tests {
		opts := testOpts()
		opts.City = tt.city
		got, err := Build(opts, nil, testNow)
		if err != nil {
			t.Fatalf("Build(%q): %v", tt.city, err)
		}
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("Build(%q) header = %q, want prefix %q", tt.city, strings.SplitN(got, "\n", 2)[0], tt.want)
		}
	}
}
