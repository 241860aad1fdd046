package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/pkg/config"
	"github.com/ducminhle1904/market-timing/pkg/data"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeKlines serves five daily candles newest first, and rejects BADUSDT
func fakeKlines(_ context.Context, params map[string]interface{}) (*bybit_api.ServerResponse, error) {
	if params["symbol"] == "BADUSDT" {
		return &bybit_api.ServerResponse{RetCode: 10001, RetMsg: "params error: symbol invalid"}, nil
	}
	var list []interface{}
	for d := 4; d >= 0; d-- {
		ts := strconv.FormatInt(day0.AddDate(0, 0, d).UnixMilli(), 10)
		c := strconv.Itoa(100 + d)
		list = append(list, []interface{}{ts, c, c, c, c, "1", "100"})
	}
	return &bybit_api.ServerResponse{
		RetMsg: "OK",
		Result: map[string]interface{}{"list": list},
	}, nil
}

func TestFetcher_Run(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	f := &fetcher{
		opts: &options{
			symbols:  []string{"BTCUSDT", "BADUSDT"},
			category: "spot",
			interval: "D",
			start:    day0,
			end:      day0.AddDate(0, 0, 10),
			outDir:   dir,
			limit:    1000,
		},
		env:    &config.Env{},
		logger: logger.NewWriter(io.Discard, log.ErrorLevel),
		stdout: &out,
		extra:  []data.BybitOption{data.WithKlineFetcher(fakeKlines)},
	}

	err := f.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BADUSDT")
	assert.NotContains(t, err.Error(), "BTCUSDT")

	candles, err := data.NewCSVProvider().LoadData(context.Background(), filepath.Join(dir, "BTCUSDT.csv"))
	require.NoError(t, err)
	require.Len(t, candles, 5)
	assert.Equal(t, day0, candles[0].Timestamp)
	assert.Equal(t, 104.0, candles[4].Close)

	assert.Contains(t, out.String(), "BTCUSDT")
	assert.Contains(t, out.String(), "2024-01-05")
	assert.Contains(t, out.String(), "failed")
	assert.NoFileExists(t, filepath.Join(dir, "BADUSDT.csv"))
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions(flag.NewFlagSet("t", flag.ContinueOnError), []string{
		"-symbols", " btcusdt, ethusdt ,", "-periodicity", "weekly", "-start", "2023-01-01", "-end", "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, opts.symbols)
	assert.Equal(t, "W", opts.interval)
	assert.Equal(t, "spot", opts.category)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), opts.start)

	opts, err = parseOptions(flag.NewFlagSet("t", flag.ContinueOnError), []string{"-end", "2024-06-30"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), opts.start)
}

func TestParseOptions_Invalid(t *testing.T) {
	_, err := parseOptions(flag.NewFlagSet("t", flag.ContinueOnError), []string{
		"-symbols", ",", "-category", "options", "-periodicity", "yearly", "-limit", "5000",
	})
	require.Error(t, err)
	for _, want := range []string{"-symbols", "-category", "-periodicity", "-limit"} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = parseOptions(flag.NewFlagSet("t", flag.ContinueOnError), []string{"-start", "2024-02-01", "-end", "2024-01-01"})
	assert.ErrorContains(t, err, "-end must be after -start")
}
