package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/phuslu/log"

	"github.com/ducminhle1904/market-timing/pkg/config"
	"github.com/ducminhle1904/market-timing/pkg/data"
)

type fetcher struct {
	opts   *options
	env    *config.Env
	logger *log.Logger
	stdout io.Writer

	// extra is appended to the provider options; tests swap the HTTP client
	extra []data.BybitOption
}

type download struct {
	symbol  string
	path    string
	candles int
	first   time.Time
	last    time.Time
	err     error
}

// run downloads every symbol in turn through one shared rate limiter.
// A failed symbol does not stop the others.
func (f *fetcher) run(ctx context.Context) error {
	opts := append([]data.BybitOption{
		data.WithBybitLogger(f.logger),
		data.WithRateLimiter(data.NewRateLimiter(10, 10)),
	}, f.extra...)
	provider := data.NewBybitProvider(data.BybitConfig{
		APIKey:    f.env.Bybit.APIKey,
		APISecret: f.env.Bybit.APISecret,
		Testnet:   f.env.Bybit.Testnet,
		Category:  f.opts.category,
		Interval:  f.opts.interval,
		Start:     f.opts.start,
		End:       f.opts.end,
		Limit:     f.opts.limit,
	}, opts...)

	var downloads []download
	var failed []error
	for _, symbol := range f.opts.symbols {
		d := f.fetchOne(ctx, provider, symbol)
		if d.err != nil {
			f.logger.Error().Err(d.err).Str("symbol", symbol).Msg("download failed")
			failed = append(failed, fmt.Errorf("%s: %w", symbol, d.err))
			if ctx.Err() != nil {
				break
			}
		}
		downloads = append(downloads, d)
	}

	f.printSummary(downloads)
	return errors.Join(failed...)
}

func (f *fetcher) fetchOne(ctx context.Context, provider *data.BybitProvider, symbol string) download {
	d := download{symbol: symbol, path: filepath.Join(f.opts.outDir, symbol+".csv")}

	candles, err := provider.LoadData(ctx, symbol)
	if err != nil {
		d.err = err
		return d
	}
	if err := provider.ValidateData(candles); err != nil {
		d.err = err
		return d
	}
	if err := data.WriteCSV(d.path, candles); err != nil {
		d.err = err
		return d
	}

	d.candles = len(candles)
	d.first = candles[0].Timestamp
	d.last = candles[len(candles)-1].Timestamp
	f.logger.Info().
		Str("symbol", symbol).
		Int("candles", d.candles).
		Str("file", d.path).
		Msg("klines saved")
	return d
}

func (f *fetcher) printSummary(downloads []download) {
	t := table.NewWriter()
	t.SetOutputMirror(f.stdout)
	t.SetTitle(fmt.Sprintf("Bybit %s klines (%s)", f.opts.category, f.opts.interval))
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Symbol", "Candles", "First", "Last", "File"})
	for _, d := range downloads {
		if d.err != nil {
			t.AppendRow(table.Row{d.symbol, 0, "-", "-", "failed"})
			continue
		}
		t.AppendRow(table.Row{d.symbol, d.candles, d.first.Format(time.DateOnly), d.last.Format(time.DateOnly), d.path})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}
