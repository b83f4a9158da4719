// Package feed fetches RSS/Atom feeds and turns their items into canonical entries.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/rssreader/pkg/domain"
)

// errPermanent marks failures which won't go away on retry, like broken xml or 404
var errPermanent = errors.New("permanent failure")

// FetcherParams defines fetcher settings
type FetcherParams struct {
	Timeout    time.Duration // per-attempt http timeout
	UserAgent  string
	Retries    int // total number of attempts, at least one is made
	RetryDelay time.Duration
	Logger     lgr.L
}

// Fetcher retrieves and parses feeds via HTTP
type Fetcher struct {
	client     *http.Client
	userAgent  string
	retries    int
	retryDelay time.Duration
	log        lgr.L
}

// NewFetcher creates a new feed fetcher
func NewFetcher(p FetcherParams) *Fetcher {
	res := &Fetcher{
		client: &http.Client{
			Timeout: p.Timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		userAgent:  p.UserAgent,
		retries:    max(p.Retries, 1),
		retryDelay: p.RetryDelay,
		log:        p.Logger,
	}
	if res.log == nil {
		res.log = lgr.NoOp
	}
	if res.retryDelay <= 0 {
		res.retryDelay = 100 * time.Millisecond
	}
	return res
}

// Fetch retrieves and parses the feed at feedURL. Transient network and server errors are
// retried with backoff, all failures are returned as *domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (domain.RawFeed, error) {
	var parsed *gofeed.Feed
	attempt := 0
	retrier := repeater.NewBackoff(f.retries, f.retryDelay, repeater.WithMaxDelay(5*time.Second))
	err := retrier.Do(ctx, func() error {
		attempt++
		f.log.Logf("[DEBUG] fetching %s, attempt %d", feedURL, attempt)
		feed, err := f.parse(ctx, feedURL)
		if err != nil {
			f.log.Logf("[WARN] attempt %d for %s failed: %v", attempt, feedURL, err)
			return err
		}
		parsed = feed
		return nil
	}, errPermanent)
	if err != nil {
		return domain.RawFeed{}, &domain.FetchError{URL: feedURL, Err: err}
	}

	res := convertFeed(parsed)
	f.log.Logf("[INFO] fetched %q from %s, %d items", res.Title, feedURL, len(res.Entries))
	return res, nil
}

func (f *Fetcher) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	body, err := f.get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w: %w", errPermanent, err)
	}
	return feed, nil
}

// get retrieves content from a URL
func (f *Fetcher) get(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w: %w", errPermanent, err)
	}

	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, fmt.Errorf("unexpected status code: %d: %w", resp.StatusCode, errPermanent)
		}
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// setHeaders makes request look like a feed reader in a browser, some hosts reject bare clients
func (f *Fetcher) setHeaders(req *http.Request) {
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // not a secret
}

var acceptLanguages = []string{"en-US,en;q=0.9", "en-GB,en;q=0.9", "en-US,en;q=0.9,de;q=0.8"}

// convertFeed maps parsed feed to raw entries. Empty strings are treated as absent fields
// because the parser doesn't keep the difference.
func convertFeed(feed *gofeed.Feed) domain.RawFeed {
	res := domain.RawFeed{Title: feed.Title, Entries: make([]domain.RawEntry, 0, len(feed.Items))}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		raw := domain.RawEntry{
			Title:   optional(item.Title),
			Link:    optional(item.Link),
			Summary: optional(item.Description),
		}

		// atom feeds may have only updated date
		switch {
		case item.Published != "":
			raw.Published, raw.PublishedParsed = optional(item.Published), item.PublishedParsed
		case item.Updated != "":
			raw.Published, raw.PublishedParsed = optional(item.Updated), item.UpdatedParsed
		}

		for _, l := range item.Links {
			if l == "" {
				continue
			}
			raw.Links = append(raw.Links, domain.RawLink{Href: l, Type: "text/html"})
		}
		for _, enc := range item.Enclosures {
			if enc == nil || enc.URL == "" {
				continue
			}
			raw.Links = append(raw.Links, domain.RawLink{Href: enc.URL, Type: enc.Type})
		}
		res.Entries = append(res.Entries, raw)
	}
	return res
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
