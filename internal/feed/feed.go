package feed

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Article is a single feed entry selected for the digest.
type Article struct {
	Title     string
	Link      string
	Published time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, feedURL string, now time.Time) ([]Article, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher(userAgent string) *RSSFetcher {
	p := gofeed.NewParser()
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &RSSFetcher{parser: p}
}

func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string, now time.Time) ([]Article, error) {
	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", feedURL, err)
	}
	return articlesFromFeed(parsed, now), nil
}

func articlesFromFeed(parsed *gofeed.Feed, now time.Time) []Article {
	articles := make([]Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		articles = append(articles, Article{
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Published: ResolvePublished(item, now),
		})
	}
	return articles
}

// dateField is one place an entry may carry its timestamp. parsed is
// gofeed's own normalization of the same value, when it has one.
type dateField struct {
	name   string
	raw    func(*gofeed.Item) string
	parsed func(*gofeed.Item) *time.Time
}

var dateFields = []dateField{
	{
		name:   "published",
		raw:    func(i *gofeed.Item) string { return i.Published },
		parsed: func(i *gofeed.Item) *time.Time { return i.PublishedParsed },
	},
	{
		name:   "updated",
		raw:    func(i *gofeed.Item) string { return i.Updated },
		parsed: func(i *gofeed.Item) *time.Time { return i.UpdatedParsed },
	},
	{
		name: "date",
		raw: func(i *gofeed.Item) string {
			if i.DublinCoreExt != nil && len(i.DublinCoreExt.Date) > 0 {
				return i.DublinCoreExt.Date[0]
			}
			return ""
		},
		parsed: func(*gofeed.Item) *time.Time { return nil },
	},
}

// ResolvePublished returns the entry's timestamp in UTC from the first date
// field that parses. Entries with no usable date are stamped with now, so
// they count as fresh.
func ResolvePublished(item *gofeed.Item, now time.Time) time.Time {
	for _, f := range dateFields {
		raw := strings.TrimSpace(f.raw(item))
		if raw == "" {
			continue
		}
		if t, err := ParseDate(raw); err == nil {
			return t
		}
		if p := f.parsed(item); p != nil {
			return p.UTC()
		}
	}
	return now.UTC()
}

// Dates without a zone are read as UTC.
var zonelessLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04",
}

// RFC 2822 obsolete zone names. time.Parse gives unknown abbreviations a
// zero offset, so they are rewritten to numeric offsets first.
var obsoleteZones = map[string]string{
	"UT":  "+0000",
	"GMT": "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

// numericZone replaces a trailing obsolete zone name, ignoring any
// parenthesized comment after it.
func numericZone(s string) string {
	fields := strings.Fields(s)
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if strings.HasPrefix(f, "(") || strings.HasSuffix(f, ")") {
			continue
		}
		if off, ok := obsoleteZones[strings.ToUpper(f)]; ok {
			fields[i] = off
			return strings.Join(fields, " ")
		}
		break
	}
	return s
}

// ParseDate parses an RFC 2822 date and converts it to UTC.
func ParseDate(s string) (time.Time, error) {
	if t, err := mail.ParseDate(numericZone(s)); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Fresh keeps articles published within window of now, newest first.
// Equal timestamps keep their discovery order.
func Fresh(articles []Article, now time.Time, window time.Duration) []Article {
	cutoff := now.Add(-window)
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Published.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out
}

type FetchResult struct {
	Articles []Article
	Errors   []error
}

// FetchAll fetches each URL in turn. A failing URL is recorded in Errors and
// does not stop the others.
func FetchAll(ctx context.Context, fetcher Fetcher, urls []string, now time.Time) FetchResult {
	var result FetchResult
	for _, u := range urls {
		articles, err := fetcher.Fetch(ctx, u, now)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Articles = append(result.Articles, articles...)
	}
	return result
}
