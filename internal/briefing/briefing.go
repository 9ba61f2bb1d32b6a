package briefing

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/Ramesh0708/trafficbot-pro/internal/classify"
	"github.com/Ramesh0708/trafficbot-pro/internal/feed"
	"github.com/Ramesh0708/trafficbot-pro/internal/summary"
)

//go:embed digest.tmpl
var digestTemplate string

var digest = template.Must(template.New("digest").Funcs(sprig.TxtFuncMap()).Parse(digestTemplate))

// TimestampLayout renders as "19 Oct 2026 • 08:30 AM".
const TimestampLayout = "02 Jan 2006 • 03:04 PM"

// Opts holds everything Build needs besides the articles.
type Opts struct {
	City        string
	MaxArticles int
	Facts       []string
	MapURL      string
	Location    *time.Location
	Summarizer  summary.Summarizer
}

// Digest is the data rendered into the message template.
type Digest struct {
	City      string
	Timestamp string
	Lines     []string
	Overflow  int
	Summary   string
	MapURL    string
	Fact      string
}

// Prepare selects, classifies and summarizes articles. The articles are
// expected newest first; only the first MaxArticles are shown.
func Prepare(opts Opts, articles []feed.Article, now time.Time) Digest {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 5
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Summarizer == nil {
		opts.Summarizer = summary.New(opts.City)
	}
	local := now.In(opts.Location)

	d := Digest{
		City:      opts.City,
		Timestamp: local.Format(TimestampLayout),
		MapURL:    opts.MapURL,
		Fact:      Fact(local, opts.Facts),
	}

	shown := articles
	if len(shown) > opts.MaxArticles {
		shown = shown[:opts.MaxArticles]
		d.Overflow = len(articles) - opts.MaxArticles
	}

	titles := make([]string, 0, len(shown))
	for _, a := range shown {
		d.Lines = append(d.Lines, Line(a))
		titles = append(titles, a.Title)
	}
	d.Summary = opts.Summarizer.Summarize(titles)

	return d
}

// Line formats one displayed article.
func Line(a feed.Article) string {
	return fmt.Sprintf("• %s [%s](%s)", classify.Classify(a.Title).Marker(), a.Title, a.Link)
}

// Render writes the digest through the message template.
func Render(d Digest) (string, error) {
	var buf bytes.Buffer
	if err := digest.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Build composes the final message text.
func Build(opts Opts, articles []feed.Article, now time.Time) (string, error) {
	return Render(Prepare(opts, articles, now))
}

// FactIndex picks a fact slot from the day of the month.
func FactIndex(day, n int) int {
	if n <= 0 {
		return 0
	}
	return day % n
}

// Fact returns the fact of the day, or "" for an empty list.
func Fact(now time.Time, facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	return facts[FactIndex(now.Day(), len(facts))]
}
