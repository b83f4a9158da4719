// Package render prints results as text or json and exports them to html and pdf files.
package render

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/umputun/rssreader/pkg/domain"
)

// Text writes human-readable result. Each entry is preceded by a blank line and lists its
// fields in record order with capitalized labels, followed by the numbered links.
func Text(w io.Writer, res domain.Result) error {
	bw := bufio.NewWriter(w)
	if res.Feed != "" {
		fmt.Fprintf(bw, "Feed: %s\n", res.Feed)
	}
	for _, e := range res.Entries {
		bw.WriteString("\n")
		for _, f := range fields(e) {
			fmt.Fprintf(bw, "%s: %s\n", label(f.name), f.value)
		}
		bw.WriteString("\nLinks:\n")
		for _, l := range e.Links {
			fmt.Fprintf(bw, "[%d]: %s (%s)\n", l.Index, l.Href, l.Type)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// JSON writes result as indented json
func JSON(w io.Writer, res domain.Result) error {
	if res.Entries == nil {
		res.Entries = []domain.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

type field struct {
	name  string
	value string
}

// fields returns scalar fields present in the entry, in the order of the json record
func fields(e domain.Entry) []field {
	res := []field{{"rss_source", e.RSSSource}, {"feed", e.Feed}}
	if e.Title != nil {
		res = append(res, field{"title", *e.Title})
	}
	if e.Date != "" {
		res = append(res, field{"date", e.Date})
	}
	if e.Link != nil {
		res = append(res, field{"link", *e.Link})
	}
	if e.Summary != nil {
		res = append(res, field{"summary", *e.Summary})
	}
	return res
}

// label capitalizes the first letter and lowercases the rest, "rss_source" -> "Rss_source"
func label(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + strings.ToLower(name[1:])
}
