package render

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/rssreader/pkg/domain"
)

//go:embed templates/news.html
var templatesFS embed.FS

var newsTmpl = template.Must(template.ParseFS(templatesFS, "templates/news.html"))

// Exporter writes entries to html and pdf files
type Exporter struct {
	title  string
	log    lgr.L
	ugc    *bluemonday.Policy // summaries in html keep safe markup
	strict *bluemonday.Policy // summaries in pdf are plain text
}

// NewExporter makes exporter, title is used as the document heading
func NewExporter(title string, l lgr.L) *Exporter {
	if l == nil {
		l = lgr.NoOp
	}
	if title == "" {
		title = "RSS news"
	}
	return &Exporter{title: title, log: l, ugc: bluemonday.UGCPolicy(), strict: bluemonday.StrictPolicy()}
}

type htmlEntry struct {
	Feed    string
	Title   string
	Date    string
	Images  []string
	Summary template.HTML
	Link    string
}

// HTML writes entries as a static html document to path
func (e *Exporter) HTML(path string, entries []domain.Entry) error {
	data := struct {
		Title   string
		Entries []htmlEntry
	}{Title: e.title, Entries: make([]htmlEntry, 0, len(entries))}

	for _, entry := range entries {
		data.Entries = append(data.Entries, htmlEntry{
			Feed:    entry.Feed,
			Title:   entry.GetTitle(),
			Date:    entry.Date,
			Images:  images(entry),
			Summary: template.HTML(e.ugc.Sanitize(entry.GetSummary())), //nolint:gosec // sanitized by bluemonday
			Link:    entry.GetLink(),
		})
	}

	var buf bytes.Buffer
	if err := newsTmpl.Execute(&buf, data); err != nil {
		return &domain.ExportError{Format: "html", Path: path, Err: fmt.Errorf("execute template: %w", err)}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return &domain.ExportError{Format: "html", Path: path, Err: err}
	}
	e.log.Logf("[INFO] exported %d entries to %s", len(entries), path)
	return nil
}

// PDF writes entries to path, each entry lists feed, title, date, summary and link
func (e *Exporter) PDF(path string, entries []domain.Entry) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(e.title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// core fonts are cp1252, characters outside of it can't be rendered
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr(e.title), "", "L", false)

	for _, entry := range entries {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr(entry.Feed), "", "L", false)
		pdf.SetTextColor(0, 0, 0)

		if title := entry.GetTitle(); title != "" {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(title), "", "L", false)
		}
		if entry.Date != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, tr(entry.Date), "", "L", false)
		}
		if summary := e.plain(entry.GetSummary()); summary != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(summary), "", "L", false)
		}
		if link := entry.GetLink(); link != "" {
			pdf.SetFont("Helvetica", "U", 9)
			pdf.SetTextColor(0, 0, 200)
			pdf.WriteLinkString(5, tr(link), link)
			pdf.Ln(5)
			pdf.SetTextColor(0, 0, 0)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return &domain.ExportError{Format: "pdf", Path: path, Err: err}
	}
	e.log.Logf("[INFO] exported %d entries to %s", len(entries), path)
	return nil
}

// plain strips markup from summary and collapses whitespace
func (e *Exporter) plain(s string) string {
	s = html.UnescapeString(e.strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

func images(entry domain.Entry) []string {
	var res []string
	for _, l := range entry.Links {
		if strings.HasPrefix(l.Type, "image/") {
			res = append(res, l.Href)
		}
	}
	return res
}
