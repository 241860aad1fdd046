package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ducminhle1904/market-timing/internal/period"
	"github.com/ducminhle1904/market-timing/pkg/data"
)

type options struct {
	symbols  []string
	category string
	interval string
	start    time.Time
	end      time.Time
	outDir   string
	limit    int
}

// parseOptions registers the download flags on fs and parses args
func parseOptions(fs *flag.FlagSet, args []string) (*options, error) {
	symbols := fs.String("symbols", "BTCUSDT", "Comma-separated symbols")
	category := fs.String("category", "spot", "Market category (spot, linear, inverse)")
	periodicity := fs.String("periodicity", "daily", "Candle periodicity (daily, weekly, monthly)")
	start := fs.String("start", "", "Start date (YYYY-MM-DD); defaults to one year before end")
	end := fs.String("end", "", "End date (YYYY-MM-DD); defaults to today")
	outDir := fs.String("outdir", "", "Directory to write <SYMBOL>.csv files; defaults to TIMING_DATA_ROOT")
	limit := fs.Int("limit", 1000, "Klines per request (max 1000)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{
		category: strings.ToLower(strings.TrimSpace(*category)),
		outDir:   *outDir,
		limit:    *limit,
	}
	var problems []string

	for _, s := range strings.Split(*symbols, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			opts.symbols = append(opts.symbols, s)
		}
	}
	if len(opts.symbols) == 0 {
		problems = append(problems, "-symbols is empty")
	}

	switch opts.category {
	case "spot", "linear", "inverse":
	default:
		problems = append(problems, fmt.Sprintf("-category: unknown category %q", *category))
	}

	if p, err := period.ParsePeriodicity(*periodicity); err != nil {
		problems = append(problems, fmt.Sprintf("-periodicity: %v", err))
	} else if opts.interval, err = data.BybitInterval(p); err != nil {
		problems = append(problems, fmt.Sprintf("-periodicity: %v", err))
	}

	opts.end = time.Now().UTC()
	if *end != "" {
		t, err := time.Parse(time.DateOnly, *end)
		if err != nil {
			problems = append(problems, fmt.Sprintf("-end: %v", err))
		}
		opts.end = t
	}
	opts.start = opts.end.AddDate(-1, 0, 0)
	if *start != "" {
		t, err := time.Parse(time.DateOnly, *start)
		if err != nil {
			problems = append(problems, fmt.Sprintf("-start: %v", err))
		}
		opts.start = t
	}
	if !opts.end.After(opts.start) {
		problems = append(problems, "-end must be after -start")
	}

	if opts.limit < 1 || opts.limit > 1000 {
		problems = append(problems, "-limit must be within [1, 1000]")
	}

	if len(problems) > 0 {
		return nil, errors.New(strings.Join(problems, "; "))
	}
	return opts, nil
}
