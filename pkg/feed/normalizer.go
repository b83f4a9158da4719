package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
	"golang.org/x/text/unicode/norm"

	"github.com/umputun/rssreader/pkg/domain"
)

// DateLayout is the canonical date format of cached entries, offset is always numeric
const DateLayout = "2006-01-02T15:04:05-07:00"

var errNoDate = errors.New("no published date")

// Normalizer converts raw feed items to canonical entries
type Normalizer struct {
	log lgr.L
	loc *time.Location // used for dates without zone
}

// NewNormalizer makes a normalizer, dates without zone are treated as UTC
func NewNormalizer(l lgr.L) *Normalizer {
	if l == nil {
		l = lgr.NoOp
	}
	return &Normalizer{log: l, loc: time.UTC}
}

// Normalize makes a canonical entry from raw item of the feed titled feedTitle fetched from source.
// Text fields are NFKC normalized, absent fields stay absent.
func (n *Normalizer) Normalize(raw domain.RawEntry, feedTitle, source string) (domain.Entry, error) {
	date, err := n.date(raw)
	if err != nil {
		return domain.Entry{}, err
	}

	res := domain.Entry{
		RSSSource: source,
		Feed:      norm.NFKC.String(feedTitle),
		Title:     nfkc(raw.Title),
		Date:      date,
		Link:      nfkc(raw.Link),
		Summary:   nfkc(raw.Summary),
		Links:     make([]domain.LinkRef, 0, len(raw.Links)),
	}
	for i, l := range raw.Links {
		res.Links = append(res.Links, domain.LinkRef{Index: i + 1, Href: l.Href, Type: l.Type})
	}
	return res, nil
}

// NormalizeAll normalizes every entry of the feed. Entries failing normalization are skipped,
// their errors returned alongside successfully normalized siblings.
func (n *Normalizer) NormalizeAll(feed domain.RawFeed, source string) ([]domain.Entry, []error) {
	entries := make([]domain.Entry, 0, len(feed.Entries))
	var errs []error
	for i, raw := range feed.Entries {
		entry, err := n.Normalize(raw, feed.Title, source)
		if err != nil {
			nerr := &domain.NormalizeError{Index: i, Err: err}
			if raw.Title != nil {
				nerr.Title = *raw.Title
			}
			n.log.Logf("[WARN] skip entry: %v", nerr)
			errs = append(errs, nerr)
			continue
		}
		entries = append(entries, entry)
	}
	n.log.Logf("[DEBUG] normalized %d of %d entries from %s", len(entries), len(feed.Entries), source)
	return entries, errs
}

// date parses published string, falls back to the date already parsed by the feed parser
func (n *Normalizer) date(raw domain.RawEntry) (string, error) {
	var parseErr error
	if raw.Published != nil {
		t, err := dateparse.ParseIn(*raw.Published, n.loc)
		if err == nil {
			t, err = withZoneOffset(t)
		}
		if err == nil {
			return t.Format(DateLayout), nil
		}
		parseErr = fmt.Errorf("parse date %q: %w", *raw.Published, err)
	}
	if raw.PublishedParsed != nil && !raw.PublishedParsed.IsZero() {
		if t, err := withZoneOffset(*raw.PublishedParsed); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	if parseErr != nil {
		return "", parseErr
	}
	return "", errNoDate
}

// zoneOffsets maps zone abbreviations to offsets in hours. RFC 822 zones used by RSS come first.
var zoneOffsets = map[string]int{
	"UT": 0, "UTC": 0, "GMT": 0, "Z": 0,
	"EST": -5, "EDT": -4, "CST": -6, "CDT": -5, "MST": -7, "MDT": -6, "PST": -8, "PDT": -7,
	"AKST": -9, "AKDT": -8, "HST": -10,
	"WET": 0, "WEST": 1, "BST": 1, "CET": 1, "CEST": 2, "EET": 2, "EEST": 3, "MSK": 3,
	"JST": 9, "KST": 9, "AEST": 10, "AEDT": 11, "NZST": 12, "NZDT": 13,
}

// withZoneOffset fixes times parsed with a zone abbreviation. Parsers don't know abbreviations
// of other locations and keep them with zero offset, so the wall clock is kept and the real
// offset attached. Unknown abbreviations are rejected.
func withZoneOffset(t time.Time) (time.Time, error) {
	name, offset := t.Zone()
	if offset != 0 || name == "" {
		return t, nil
	}
	hours, ok := zoneOffsets[name]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown time zone %q", name)
	}
	if hours == 0 {
		return t, nil
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, hours*3600)), nil
}

func nfkc(s *string) *string {
	if s == nil {
		return nil
	}
	v := norm.NFKC.String(*s)
	return &v
}
