package cache

import (
	"fmt"
	"strings"

	"github.com/umputun/rssreader/pkg/domain"
)

// Reader provides all stored batches
type Reader interface {
	ReadAll() ([]domain.FetchBatch, error)
}

// Query returns cached entries published on q.Date, optionally restricted to q.Source and
// limited to q.Limit. Entries keep the order they were stored in. Exact duplicates are
// returned once. An empty result with nil error means the cache exists but nothing matched,
// a missing cache is reported as domain.ErrCacheMissing.
func Query(r Reader, q domain.Query) ([]domain.Entry, error) {
	batches, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}

	wantKey := fmt.Sprintf("%08d", q.Date)
	var res []domain.Entry
	for _, batch := range batches {
		for _, entry := range batch.Entries {
			if !matches(entry, wantKey, q.Source) {
				continue
			}
			if containsEntry(res, entry) {
				continue
			}
			res = append(res, entry)
		}
	}

	return ApplyLimit(res, q.Limit), nil
}

// DateKey makes YYYYMMDD key from the canonical date string, i.e. "2022-09-26T10:00:00+00:00"
// gives "20220926". Returns false if the date has fewer than 8 leading digits.
func DateKey(date string) (string, bool) {
	key := strings.ReplaceAll(date, "-", "")
	if len(key) < 8 {
		return "", false
	}
	key = key[:8]
	for _, c := range key {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return key, true
}

// ApplyLimit returns the first limit entries, or all of them if limit is nil or
// larger than what is available. Never pads and never fails.
func ApplyLimit(entries []domain.Entry, limit *int) []domain.Entry {
	if limit == nil {
		return entries
	}
	n := max(*limit, 0)
	if n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// matches checks date key and source. Filtering before dedup gives the same result as
// dedup before filtering because identical entries share date and source.
func matches(e domain.Entry, wantKey, source string) bool {
	key, ok := DateKey(e.Date)
	if !ok || key != wantKey {
		return false
	}
	return source == "" || e.RSSSource == source
}

func containsEntry(entries []domain.Entry, e domain.Entry) bool {
	for _, v := range entries {
		if v.Equal(e) {
			return true
		}
	}
	return false
}
