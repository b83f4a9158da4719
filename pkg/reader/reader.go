// Package reader wires fetching, caching, querying and rendering into a single command run.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/rssreader/pkg/cache"
	"github.com/umputun/rssreader/pkg/domain"
	"github.com/umputun/rssreader/pkg/render"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/exporter.go -pkg mocks -skip-ensure -fmt goimports . Exporter

// Fetcher retrieves and parses a feed
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (domain.RawFeed, error)
}

// Normalizer converts raw feed items to entries, skipping broken ones
type Normalizer interface {
	NormalizeAll(feed domain.RawFeed, source string) ([]domain.Entry, []error)
}

// Store is append-only persistence of fetched batches
type Store interface {
	Append(batch domain.FetchBatch) error
	ReadAll() ([]domain.FetchBatch, error)
}

// Exporter writes entries to files
type Exporter interface {
	HTML(path string, entries []domain.Entry) error
	PDF(path string, entries []domain.Entry) error
}

// Params defines reader dependencies
type Params struct {
	Fetcher    Fetcher
	Normalizer Normalizer
	Store      Store
	Exporter   Exporter
	Out        io.Writer
	Logger     lgr.L
}

// Reader runs a single command, either fetch or cache lookup
type Reader struct {
	Params
}

// Request is a single command. Zero Date means fetch Source, otherwise cached entries
// of Date are shown, optionally only those of Source.
type Request struct {
	Source   string
	Date     int // YYYYMMDD
	Limit    *int
	JSON     bool
	HTMLPath string
	PDFPath  string
}

// New makes a reader
func New(p Params) *Reader {
	if p.Logger == nil {
		p.Logger = lgr.NoOp
	}
	if p.Out == nil {
		p.Out = io.Discard
	}
	return &Reader{Params: p}
}

// Run executes the request. Failures to save the cache or to export don't stop the output,
// they are returned together after everything else is done.
func (r *Reader) Run(ctx context.Context, req Request) error {
	return Guard(r.Logger, "run", func() error {
		if req.Date == 0 && req.Source == "" {
			return errors.New("either source or date is required")
		}

		var res domain.Result
		var deferred []error
		if req.Date == 0 {
			entries, title, err := r.fetch(ctx, req.Source)
			if err != nil {
				return err
			}
			// cache save failure doesn't prevent showing what was fetched
			if err := r.save(req.Source, entries); err != nil {
				deferred = append(deferred, err)
			}
			res = domain.Result{Feed: title, Entries: cache.ApplyLimit(entries, req.Limit)}
		} else {
			entries, err := cache.Query(r.Store, domain.Query{Date: req.Date, Source: req.Source, Limit: req.Limit})
			if err != nil {
				return err
			}
			res = domain.Result{Entries: entries}
		}

		if err := r.print(req, res); err != nil {
			return err
		}
		deferred = append(deferred, r.export(req, res.Entries)...)
		return errors.Join(deferred...)
	})
}

// fetch retrieves the feed and normalizes all its items, broken items are skipped
func (r *Reader) fetch(ctx context.Context, source string) (entries []domain.Entry, title string, err error) {
	raw, err := r.Fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, "", err
	}

	entries, errs := r.Normalizer.NormalizeAll(raw, source)
	if len(errs) > 0 {
		r.Logger.Logf("[WARN] %d of %d entries from %s skipped", len(errs), len(raw.Entries), source)
	}
	return entries, feedTitle(raw, entries), nil
}

// save appends the whole fetched batch to the cache, limit doesn't apply here
func (r *Reader) save(source string, entries []domain.Entry) error {
	if len(entries) == 0 {
		r.Logger.Logf("[DEBUG] nothing to cache from %s", source)
		return nil
	}
	if err := r.Store.Append(domain.FetchBatch{Entries: entries}); err != nil {
		r.Logger.Logf("[WARN] failed to cache entries from %s: %v", source, err)
		return fmt.Errorf("save to cache: %w", err)
	}
	r.Logger.Logf("[INFO] cached %d entries from %s", len(entries), source)
	return nil
}

func (r *Reader) print(req Request, res domain.Result) error {
	if req.JSON {
		return render.JSON(r.Out, res)
	}
	if len(res.Entries) == 0 && req.Date != 0 {
		if req.Source != "" {
			_, err := fmt.Fprintf(r.Out, "no cached news for %08d from %s\n", req.Date, req.Source)
			return err
		}
		_, err := fmt.Fprintf(r.Out, "no cached news for %08d\n", req.Date)
		return err
	}
	return render.Text(r.Out, res)
}

// export writes html and pdf if requested, a failure of one doesn't prevent the other
func (r *Reader) export(req Request, entries []domain.Entry) []error {
	var errs []error
	if req.HTMLPath != "" {
		if err := r.Exporter.HTML(req.HTMLPath, entries); err != nil {
			r.Logger.Logf("[WARN] html export failed: %v", err)
			errs = append(errs, err)
		}
	}
	if req.PDFPath != "" {
		if err := r.Exporter.PDF(req.PDFPath, entries); err != nil {
			r.Logger.Logf("[WARN] pdf export failed: %v", err)
			errs = append(errs, err)
		}
	}
	return errs
}

// feedTitle prefers the normalized title stamped on entries
func feedTitle(raw domain.RawFeed, entries []domain.Entry) string {
	if len(entries) > 0 {
		return entries[0].Feed
	}
	return raw.Title
}
