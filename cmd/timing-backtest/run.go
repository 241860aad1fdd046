package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/ducminhle1904/market-timing/internal/backtest"
	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/internal/monitoring"
	"github.com/ducminhle1904/market-timing/internal/timing"
	"github.com/ducminhle1904/market-timing/pkg/config"
	"github.com/ducminhle1904/market-timing/pkg/data"
	"github.com/ducminhle1904/market-timing/pkg/reporting"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// loadConcurrency bounds the assets loaded at once
const loadConcurrency = 4

// unit is one replay: a strategy and the assets it reads
type unit struct {
	name     string
	strategy *config.Strategy
}

type app struct {
	flags    *Flags
	env      *config.Env
	strategy *config.Strategy
	logger   *log.Logger
	health   *monitoring.HealthChecker
	metrics  monitoring.Recorder
	stdout   io.Writer
}

func run(ctx context.Context, flags *Flags, stdout io.Writer) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	l, err := logger.New(logger.Options{Level: env.LogLevel, File: env.LogFile, Console: true})
	if err != nil {
		return err
	}

	s, err := config.LoadStrategy(*flags.ConfigFile)
	if err != nil {
		return err
	}
	if *flags.Asset != "" {
		s = s.ForAsset(*flags.Asset)
		if len(s.Timings) == 0 && len(s.Indicators) == 0 {
			return errs.NewConfigurationError("CLI", "run", "no component reads the selected asset").
				WithContext("asset", *flags.Asset)
		}
	}
	// fail on bad enums before any data is loaded
	if _, err := s.Build(); err != nil {
		return err
	}

	a := &app{
		flags:    flags,
		env:      env,
		strategy: s,
		logger:   l,
		health:   monitoring.NewHealthChecker(),
		metrics:  monitoring.NopRecorder{},
		stdout:   stdout,
	}
	if env.MetricsAddr != "" {
		a.metrics = monitoring.PrometheusRecorder{}
		stop := a.serve(env.MetricsAddr)
		defer stop()
	}
	return a.replay(ctx)
}

// serve exposes /metrics and /health until the returned func is called
func (a *app) serve(addr string) func() {
	srv := &http.Server{Addr: addr, Handler: monitoring.NewRouter(a.health), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Str("addr", addr).Msg("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (a *app) units() []unit {
	assets := a.strategy.Assets()
	if !*a.flags.PerAsset || len(assets) < 2 {
		return []unit{{name: strings.Join(assets, "-"), strategy: a.strategy}}
	}
	out := make([]unit, 0, len(assets))
	for _, asset := range assets {
		out = append(out, unit{name: asset, strategy: a.strategy.ForAsset(asset)})
	}
	return out
}

func (a *app) replay(ctx context.Context) error {
	quotes, err := a.loadQuotes(ctx, a.strategy.Assets())
	if err != nil {
		a.health.MarkError(err)
		monitoring.RecordError("data")
		return err
	}

	units := a.units()
	recorders := make([]*reporting.Recorder, len(units))
	jobs := make([]backtest.Job, len(units))
	for i, u := range units {
		streams := make([][]types.InstantQuotes, 0, len(u.strategy.Assets()))
		for _, asset := range u.strategy.Assets() {
			streams = append(streams, quotes[asset])
		}
		jobs[i] = backtest.Job{
			ID:    u.name,
			Build: a.builder(u.strategy, &recorders[i]),
			Data:  data.MergeInstantQuotes(streams...),
		}
	}

	results := backtest.RunBatch(ctx, a.env.Workers, jobs, a.logger)

	var failed []error
	for i, r := range results {
		if r.Error != nil {
			a.health.MarkError(r.Error)
			monitoring.RecordError("replay")
			a.logger.Error().Err(r.Error).Str("job", r.ID).Msg("replay failed")
			failed = append(failed, fmt.Errorf("%s: %w", r.ID, r.Error))
			continue
		}
		if err := a.report(units[i], r, recorders[i], len(units) > 1); err != nil {
			a.health.MarkError(err)
			monitoring.RecordError("reporting")
			failed = append(failed, fmt.Errorf("%s: %w", r.ID, err))
		}
	}
	return errors.Join(failed...)
}

// builder returns a Job.Build that assembles a fresh engine for s and hands
// its recorder back through rec
func (a *app) builder(s *config.Strategy, rec **reporting.Recorder) func() (*backtest.Engine, error) {
	return func() (*backtest.Engine, error) {
		plan, err := s.Build(timing.WithLogger(a.logger), timing.WithMetrics(a.metrics))
		if err != nil {
			return nil, err
		}

		r := reporting.NewRecorder(plan.Series...)
		for _, p := range plan.PreProcessors {
			r.Root().AddPreProcessor(p)
		}
		for _, h := range plan.Highlights {
			r.AddHighlight(h)
		}

		engine := backtest.NewEngine(r.Root(), backtest.WithLogger(a.logger), backtest.WithHealth(a.health))
		for _, t := range plan.Timings {
			engine.AddTiming(t)
		}
		for _, ir := range plan.Indicators {
			engine.AddIndicator(ir)
		}
		*rec = r
		return engine, nil
	}
}

func (a *app) report(u unit, r backtest.JobResult, rec *reporting.Recorder, many bool) error {
	for _, t := range r.Result.Timings {
		monitoring.SetStatus(t.ID, t.Status)
	}

	fmt.Fprintln(a.stdout)
	r.Result.PrintSummary(a.stdout)
	if len(rec.Highlights()) > 0 {
		rec.PrintHighlights(a.stdout, fmt.Sprintf("%s (%s)", a.strategy.Name, u.name))
	}
	if *a.flags.ConsoleOnly {
		return nil
	}

	dir := a.outputDir(u.name, many)
	paths, err := rec.WriteFiles(dir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(a.stdout, "wrote %s\n", p)
	}
	a.logger.Info().Str("job", r.ID).Str("dir", dir).Dur("duration", r.Duration).Msg("results written")
	return nil
}

func (a *app) outputDir(name string, many bool) string {
	dir := *a.flags.OutputDir
	if dir == "" {
		dir = a.env.OutputDir
	}
	if dir == "" {
		return reporting.DefaultOutputDir(name, a.strategy.Name)
	}
	if many {
		return filepath.Join(dir, name)
	}
	return dir
}

func (a *app) provider() data.DataProvider {
	ds := a.strategy.Data
	if ds.Provider == "bybit" {
		start, end, _ := ds.Range()
		return data.NewCachedProvider(data.NewBybitProvider(data.BybitConfig{
			APIKey:    a.env.Bybit.APIKey,
			APISecret: a.env.Bybit.APISecret,
			Testnet:   a.env.Bybit.Testnet,
			Category:  ds.Category,
			Start:     start,
			End:       end,
		}, data.WithBybitLogger(a.logger)), a.logger)
	}

	csv := data.NewCSVProviderWithFormat(ds.CSVFormat())
	csv.SetLogger(a.logger)
	return data.NewCachedProvider(csv, a.logger)
}

func (a *app) dataRoot() string {
	switch {
	case *a.flags.DataPath != "":
		return *a.flags.DataPath
	case a.strategy.Data.Path != "":
		return a.strategy.Data.Path
	}
	return a.env.DataRoot
}

// loadQuotes loads, cleans and wraps the candles of every asset. Assets load
// concurrently; the first failure cancels the rest.
func (a *app) loadQuotes(ctx context.Context, assets []string) (map[string][]types.InstantQuotes, error) {
	ds := a.strategy.Data
	if *a.flags.Period != "" {
		ds.Period = *a.flags.Period
	}
	start, end, err := ds.Range()
	if err != nil {
		return nil, err
	}
	trailing, err := ds.Trailing()
	if err != nil {
		return nil, err
	}

	provider := a.provider()
	locator := data.NewDefaultFileLocator()
	filter := data.NewDefaultDataFilter()

	loaded := make([][]types.InstantQuotes, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, asset := range assets {
		g.Go(func() error {
			source := asset
			if ds.Provider != "bybit" {
				var err error
				if source, err = locator.FindDataFile(a.dataRoot(), asset); err != nil {
					return err
				}
			}

			candles, err := provider.LoadData(gctx, source)
			if err != nil {
				return err
			}
			candles = filter.RemoveDuplicates(filter.SortByTimestamp(candles))
			if !start.IsZero() || !end.IsZero() {
				candles = filter.FilterByDateRange(candles, start, end)
			}
			candles = filter.FilterByPeriod(candles, trailing)
			if err := provider.ValidateData(candles); err != nil {
				return errs.WrapError(err, errs.ErrorCategoryData, "CLI", "loadQuotes").WithContext("asset", asset)
			}

			a.logger.Info().
				Str("asset", asset).
				Str("source", source).
				Int("candles", len(candles)).
				Time("first", candles[0].Timestamp).
				Time("last", candles[len(candles)-1].Timestamp).
				Msg("data loaded")
			loaded[i] = data.ToInstantQuotes(asset, candles)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]types.InstantQuotes, len(assets))
	for i, asset := range assets {
		out[asset] = loaded[i]
	}
	return out, nil
}
