package reader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/rssreader/pkg/domain"
	"github.com/umputun/rssreader/pkg/feed"
	"github.com/umputun/rssreader/pkg/reader/mocks"
)

func rawFeed() domain.RawFeed {
	return domain.RawFeed{
		Title: "Test Feed",
		Entries: []domain.RawEntry{
			{Title: domain.Str("first"), Published: domain.Str("2022-09-26T10:00:00Z"), Link: domain.Str("http://a/1")},
			{Title: domain.Str("second"), Published: domain.Str("2022-09-26T11:00:00Z"), Link: domain.Str("http://a/2")},
			{Title: domain.Str("broken"), Published: domain.Str("not a date")},
			{Title: domain.Str("third"), Published: domain.Str("2022-09-27T09:00:00Z"), Link: domain.Str("http://a/3")},
		},
	}
}

func cachedBatches() []domain.FetchBatch {
	return []domain.FetchBatch{
		{Entries: []domain.Entry{
			{RSSSource: "http://a/", Feed: "A", Title: domain.Str("a1"), Date: "2022-09-26T10:00:00+00:00", Links: []domain.LinkRef{}},
			{RSSSource: "http://b/", Feed: "B", Title: domain.Str("b1"), Date: "2022-09-26T12:00:00+00:00", Links: []domain.LinkRef{}},
		}},
		{Entries: []domain.Entry{
			{RSSSource: "http://a/", Feed: "A", Title: domain.Str("a1"), Date: "2022-09-26T10:00:00+00:00", Links: []domain.LinkRef{}},
			{RSSSource: "http://a/", Feed: "A", Title: domain.Str("a2"), Date: "2022-09-27T10:00:00+00:00", Links: []domain.LinkRef{}},
		}},
	}
}

func newReader(f Fetcher, s Store, e Exporter, out *bytes.Buffer) *Reader {
	return New(Params{Fetcher: f, Normalizer: feed.NewNormalizer(nil), Store: s, Exporter: e, Out: out})
}

func intPtr(v int) *int { return &v }

func TestReader_RunFetch(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		return rawFeed(), nil
	}}
	store := &mocks.StoreMock{AppendFunc: func(batch domain.FetchBatch) error { return nil }}
	var out bytes.Buffer

	err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(),
		Request{Source: "http://a/", Limit: intPtr(2)})
	require.NoError(t, err)

	require.Len(t, fetcher.FetchCalls(), 1)
	assert.Equal(t, "http://a/", fetcher.FetchCalls()[0].FeedURL)

	require.Len(t, store.AppendCalls(), 1)
	cached := store.AppendCalls()[0].Batch.Entries
	require.Len(t, cached, 3, "whole batch is cached regardless of limit")
	assert.Equal(t, "third", cached[2].GetTitle())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Feed: Test Feed\n"))
	assert.Contains(t, text, "Title: first\n")
	assert.Contains(t, text, "Title: second\n")
	assert.NotContains(t, text, "third")
	assert.NotContains(t, text, "broken")
}

func TestReader_RunFetchJSON(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		return rawFeed(), nil
	}}
	store := &mocks.StoreMock{AppendFunc: func(batch domain.FetchBatch) error { return nil }}
	var out bytes.Buffer

	err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(),
		Request{Source: "http://a/", JSON: true})
	require.NoError(t, err)

	var res domain.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "Test Feed", res.Feed)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, "http://a/", res.Entries[0].RSSSource)
	assert.Equal(t, "2022-09-26T10:00:00+00:00", res.Entries[0].Date)
}

func TestReader_RunFetchError(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		return domain.RawFeed{}, &domain.FetchError{URL: feedURL, Err: errors.New("connection refused")}
	}}
	store := &mocks.StoreMock{}
	var out bytes.Buffer

	err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(),
		Request{Source: "http://bad/", HTMLPath: "/tmp/x.html"})
	require.Error(t, err)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "http://bad/", fe.URL)
	assert.Empty(t, store.AppendCalls())
	assert.Empty(t, out.String())
	assert.Contains(t, UserMessage(err), "please check the rss link and start over")
}

func TestReader_RunFetchNothingToCache(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		return domain.RawFeed{Title: "Empty"}, nil
	}}
	store := &mocks.StoreMock{}
	var out bytes.Buffer

	err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(), Request{Source: "http://a/"})
	require.NoError(t, err)
	assert.Empty(t, store.AppendCalls())
	assert.Equal(t, "Feed: Empty\n", out.String())
}

func TestReader_RunFetchCacheFailure(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		return rawFeed(), nil
	}}
	store := &mocks.StoreMock{AppendFunc: func(batch domain.FetchBatch) error { return errors.New("disk full") }}
	var out bytes.Buffer

	err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(), Request{Source: "http://a/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save to cache: disk full")
	assert.Contains(t, out.String(), "Title: third", "fetched news shown anyway")
}

func TestReader_RunDate(t *testing.T) {
	tbl := []struct {
		name   string
		req    Request
		titles []string
	}{
		{name: "all sources", req: Request{Date: 20220926}, titles: []string{"a1", "b1"}},
		{name: "one source", req: Request{Date: 20220926, Source: "http://b/"}, titles: []string{"b1"}},
		{name: "limited", req: Request{Date: 20220926, Limit: intPtr(1)}, titles: []string{"a1"}},
		{name: "other day", req: Request{Date: 20220927}, titles: []string{"a2"}},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.StoreMock{ReadAllFunc: func() ([]domain.FetchBatch, error) { return cachedBatches(), nil }}
			fetcher := &mocks.FetcherMock{}
			var out bytes.Buffer
			tt.req.JSON = true

			err := newReader(fetcher, store, &mocks.ExporterMock{}, &out).Run(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Empty(t, fetcher.FetchCalls())

			var res domain.Result
			require.NoError(t, json.Unmarshal(out.Bytes(), &res))
			assert.Empty(t, res.Feed)
			titles := make([]string, 0, len(res.Entries))
			for _, e := range res.Entries {
				titles = append(titles, e.GetTitle())
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestReader_RunDateNoNews(t *testing.T) {
	store := &mocks.StoreMock{ReadAllFunc: func() ([]domain.FetchBatch, error) { return cachedBatches(), nil }}

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		err := newReader(nil, store, nil, &out).Run(context.Background(), Request{Date: 20200101})
		require.NoError(t, err)
		assert.Equal(t, "no cached news for 20200101\n", out.String())
	})

	t.Run("text with source", func(t *testing.T) {
		var out bytes.Buffer
		err := newReader(nil, store, nil, &out).Run(context.Background(), Request{Date: 20220926, Source: "http://c/"})
		require.NoError(t, err)
		assert.Equal(t, "no cached news for 20220926 from http://c/\n", out.String())
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		err := newReader(nil, store, nil, &out).Run(context.Background(), Request{Date: 20200101, JSON: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"entries": []}`, out.String())
	})
}

func TestReader_RunCacheMissing(t *testing.T) {
	store := &mocks.StoreMock{ReadAllFunc: func() ([]domain.FetchBatch, error) {
		return nil, fmt.Errorf("read cache /tmp/none.json: %w", domain.ErrCacheMissing)
	}}
	var out bytes.Buffer
	err := newReader(nil, store, nil, &out).Run(context.Background(), Request{Date: 20220926})
	require.ErrorIs(t, err, domain.ErrCacheMissing)
	assert.Equal(t, "no cached news found, fetch a feed first", UserMessage(err))
	assert.Empty(t, out.String())
}

func TestReader_RunExport(t *testing.T) {
	store := &mocks.StoreMock{ReadAllFunc: func() ([]domain.FetchBatch, error) { return cachedBatches(), nil }}

	t.Run("both formats", func(t *testing.T) {
		exp := &mocks.ExporterMock{
			HTMLFunc: func(path string, entries []domain.Entry) error { return nil },
			PDFFunc:  func(path string, entries []domain.Entry) error { return nil },
		}
		var out bytes.Buffer
		err := newReader(nil, store, exp, &out).Run(context.Background(),
			Request{Date: 20220926, HTMLPath: "news.html", PDFPath: "news.pdf"})
		require.NoError(t, err)
		require.Len(t, exp.HTMLCalls(), 1)
		assert.Equal(t, "news.html", exp.HTMLCalls()[0].Path)
		assert.Len(t, exp.HTMLCalls()[0].Entries, 2)
		require.Len(t, exp.PDFCalls(), 1)
		assert.Equal(t, "news.pdf", exp.PDFCalls()[0].Path)
		assert.NotEmpty(t, out.String())
	})

	t.Run("html failure doesn't stop pdf", func(t *testing.T) {
		exp := &mocks.ExporterMock{
			HTMLFunc: func(path string, entries []domain.Entry) error {
				return &domain.ExportError{Format: "html", Path: path, Err: errors.New("permission denied")}
			},
			PDFFunc: func(path string, entries []domain.Entry) error { return nil },
		}
		var out bytes.Buffer
		err := newReader(nil, store, exp, &out).Run(context.Background(),
			Request{Date: 20220926, HTMLPath: "/root/news.html", PDFPath: "news.pdf"})
		require.Error(t, err)
		var ee *domain.ExportError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, "html", ee.Format)
		assert.Len(t, exp.PDFCalls(), 1)
		assert.Contains(t, out.String(), "Title: a1")
		assert.Contains(t, UserMessage(err), "failed to export html to /root/news.html")
	})

	t.Run("no export requested", func(t *testing.T) {
		exp := &mocks.ExporterMock{}
		err := newReader(nil, store, exp, &bytes.Buffer{}).Run(context.Background(), Request{Date: 20220926})
		require.NoError(t, err)
		assert.Empty(t, exp.HTMLCalls())
		assert.Empty(t, exp.PDFCalls())
	})
}

func TestReader_RunNoSourceNoDate(t *testing.T) {
	err := newReader(nil, nil, nil, &bytes.Buffer{}).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either source or date is required")
}

func TestReader_RunPanic(t *testing.T) {
	fetcher := &mocks.FetcherMock{FetchFunc: func(ctx context.Context, feedURL string) (domain.RawFeed, error) {
		panic("boom")
	}}
	var logged []string
	r := New(Params{Fetcher: fetcher, Normalizer: feed.NewNormalizer(nil), Out: &bytes.Buffer{},
		Logger: lgr.Func(func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) })})

	err := r.Run(context.Background(), Request{Source: "http://a/"})
	require.Error(t, err)
	var oe *domain.OperationError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "run", oe.Op)
	assert.Contains(t, err.Error(), "panic: boom")
	assert.Contains(t, logged, "[DEBUG] run started")
	assert.True(t, strings.HasPrefix(UserMessage(err), "something went wrong: run: panic: boom"))
}
