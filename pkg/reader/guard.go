package reader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/rssreader/pkg/domain"
)

// Guard calls fn, logging its start and end at debug level. A panic in fn is recovered
// and returned as *domain.OperationError, so nothing escapes to the caller unhandled.
func Guard(l lgr.L, op string, fn func() error) (err error) {
	if l == nil {
		l = lgr.NoOp
	}
	l.Logf("[DEBUG] %s started", op)
	defer func() {
		if rec := recover(); rec != nil {
			err = &domain.OperationError{Op: op, Err: fmt.Errorf("panic: %v", rec)}
		}
		if err != nil {
			l.Logf("[DEBUG] %s failed: %v", op, err)
			return
		}
		l.Logf("[DEBUG] %s completed", op)
	}()
	return fn()
}

// UserMessage converts error to the text shown to the user, with a hint on what to do next.
// Joined errors produce one message per line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		msgs := []string{}
		for _, e := range joined.Unwrap() {
			if m := UserMessage(e); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "\n")
	}

	var fetchErr *domain.FetchError
	var exportErr *domain.ExportError
	switch {
	case errors.As(err, &fetchErr):
		return fmt.Sprintf("failed to fetch feed %s: %v\nplease check the rss link and start over", fetchErr.URL, fetchErr.Err)
	case errors.Is(err, domain.ErrCacheMissing):
		return "no cached news found, fetch a feed first"
	case errors.As(err, &exportErr):
		return fmt.Sprintf("failed to export %s to %s: %v\nplease check the path and retry",
			exportErr.Format, exportErr.Path, exportErr.Err)
	default:
		return fmt.Sprintf("something went wrong: %v\nplease check the link or path and retry", err)
	}
}
