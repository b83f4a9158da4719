package domain

import "time"

// LinkRef is a single link attached to an entry, Index is 1-based and follows feed order
type LinkRef struct {
	Index int    `json:"index"`
	Href  string `json:"href"`
	Type  string `json:"type"`
}

// Entry is the canonical record of a single feed item, as printed and as cached.
// RSSSource and Feed are stamped on every entry so it stays self-describing after
// batches are flattened. Optional fields are nil when the source item had no such field.
type Entry struct {
	RSSSource string    `json:"rss_source"`
	Feed      string    `json:"feed"`
	Title     *string   `json:"title,omitempty"`
	Date      string    `json:"date,omitempty"`
	Link      *string   `json:"link,omitempty"`
	Summary   *string   `json:"summary,omitempty"`
	Links     []LinkRef `json:"links"`
}

// Equal reports whether two entries are identical in all fields
func (e Entry) Equal(o Entry) bool {
	if e.RSSSource != o.RSSSource || e.Feed != o.Feed || e.Date != o.Date {
		return false
	}
	if !equalOpt(e.Title, o.Title) || !equalOpt(e.Link, o.Link) || !equalOpt(e.Summary, o.Summary) {
		return false
	}
	if len(e.Links) != len(o.Links) {
		return false
	}
	for i := range e.Links {
		if e.Links[i] != o.Links[i] {
			return false
		}
	}
	return true
}

// GetTitle returns title or empty string if not set
func (e Entry) GetTitle() string {
	return deref(e.Title)
}

// GetLink returns link or empty string if not set
func (e Entry) GetLink() string {
	return deref(e.Link)
}

// GetSummary returns summary or empty string if not set
func (e Entry) GetSummary() string {
	return deref(e.Summary)
}

// FetchBatch is the result of one fetch, persisted as a whole
type FetchBatch struct {
	Entries []Entry `json:"entries"`
}

// Result is what gets rendered, Feed is empty for results assembled from the cache
type Result struct {
	Feed    string  `json:"feed,omitempty"`
	Entries []Entry `json:"entries"`
}

// Query describes a cache lookup. Date is YYYYMMDD, empty Source means any source
// and nil Limit means no limit.
type Query struct {
	Date   int
	Source string
	Limit  *int
}

// RawFeed is a parsed feed before normalization
type RawFeed struct {
	Title   string
	Entries []RawEntry
}

// RawEntry is a parsed feed item, nil fields were absent in the source document
type RawEntry struct {
	Title           *string
	Published       *string
	PublishedParsed *time.Time // set when the parser already understood the date
	Link            *string
	Summary         *string
	Links           []RawLink
}

// RawLink is a link of a raw entry
type RawLink struct {
	Href string
	Type string
}

// Str returns a pointer to s, handy for optional fields
func Str(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func equalOpt(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
