package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/rssreader/pkg/cache"
	"github.com/umputun/rssreader/pkg/config"
	"github.com/umputun/rssreader/pkg/feed"
	"github.com/umputun/rssreader/pkg/reader"
	"github.com/umputun/rssreader/pkg/render"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"RSSREADER_CONFIG" description:"config file, rssreader/config.yml in XDG config dir by default"`
	Cache  string `long:"cache" env:"RSSREADER_CACHE" description:"cache file location, overrides config"`

	JSON   bool   `long:"json" description:"print result as json"`
	Limit  *int   `long:"limit" description:"limit news topics, all by default"`
	Date   string `long:"date" description:"show cached news published on date, YYYYMMDD"`
	ToHTML string `long:"to-html" description:"export news to html file"`
	ToPDF  string `long:"to-pdf" description:"export news to pdf file"`

	Args struct {
		Source string `positional-arg-name:"source" description:"rss feed url"`
	} `positional-args:"yes"`

	// Common options
	Verbose bool `short:"v" long:"verbose" description:"verbose status messages"`
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// usageError is reported with help text instead of user message
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [source]"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("rssreader version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug, opts.Verbose)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, os.Stdout, os.Stderr)
	cancel()

	if err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(os.Stderr, "%s\n\n", ue.msg)
			parser.WriteHelp(os.Stderr)
			os.Exit(1)
		}
		log.Printf("[ERROR] %v", err)
		fmt.Fprintln(os.Stderr, color.New(color.FgHiRed).Sprint(reader.UserMessage(err)))
		os.Exit(1)
	}
}

// run loads config, validates options and executes a single reader command.
// Results go to out, notices for the user go to errOut regardless of log level.
func run(ctx context.Context, opts Opts, out, errOut io.Writer) error {
	cfgPath := opts.Config
	if cfgPath == "" {
		if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
			cfgPath = config.DefaultConfigPath()
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Cache != "" {
		cfg.Cache.Path = opts.Cache
	}

	if opts.Args.Source == "" && opts.Date == "" {
		return &usageError{msg: "either source or --date is required"}
	}
	if opts.Limit != nil && *opts.Limit <= 0 {
		return &usageError{msg: fmt.Sprintf("--limit must be a positive number, got %d", *opts.Limit)}
	}

	date, replaced := checkDate(opts.Date, time.Now())
	if replaced {
		fmt.Fprintf(errOut, "date %q is invalid or in the future, showing news for %08d\n", opts.Date, date)
	}

	logger := lgr.Std
	rd := reader.New(reader.Params{
		Fetcher: feed.NewFetcher(feed.FetcherParams{
			Timeout:    cfg.Fetch.Timeout,
			UserAgent:  cfg.Fetch.UserAgent,
			Retries:    cfg.Fetch.Retries,
			RetryDelay: cfg.Fetch.RetryDelay,
			Logger:     logger,
		}),
		Normalizer: feed.NewNormalizer(logger),
		Store:      cache.NewStore(cfg.Cache.Path, cache.WithLogger(logger)),
		Exporter:   render.NewExporter(cfg.Export.PageTitle, logger),
		Out:        out,
		Logger:     logger,
	})

	log.Printf("[DEBUG] cache %s, source %q, date %d", cfg.Cache.Path, opts.Args.Source, date)
	return rd.Run(ctx, reader.Request{
		Source:   opts.Args.Source,
		Date:     date,
		Limit:    opts.Limit,
		JSON:     opts.JSON,
		HTMLPath: opts.ToHTML,
		PDFPath:  opts.ToPDF,
	})
}

// checkDate converts YYYYMMDD to int. Unparsable dates and dates after today are replaced
// by today, the second value reports the replacement. Empty string gives zero.
func checkDate(s string, now time.Time) (date int, replaced bool) {
	if s == "" {
		return 0, false
	}
	today := now.Format("20060102")
	t, err := time.ParseInLocation("20060102", s, now.Location())
	if err != nil || t.Format("20060102") > today {
		date, _ = strconv.Atoi(today)
		return date, true
	}
	date, _ = strconv.Atoi(t.Format("20060102"))
	return date, false
}

func setupLog(dbg, verbose bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Out(io.Discard), lgr.Err(io.Discard)}
	switch {
	case dbg:
		logOpts = []lgr.Option{lgr.Out(os.Stderr), lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	case verbose:
		logOpts = []lgr.Option{lgr.Out(os.Stderr), lgr.LevelBraces}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
