// Command fetch-klines downloads Bybit klines into CSV files the timing
// backtest can replay.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/pkg/config"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	fs := flag.NewFlagSet("fetch-klines", flag.ExitOnError)
	envFile := fs.String("env", ".env", "Environment file")
	opts, err := parseOptions(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "flag error: %v\n\n", err)
		fs.Usage()
		return 2
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not load %s: %v\n", *envFile, err)
	}
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	l, err := logger.New(logger.Options{Level: env.LogLevel, File: env.LogFile, Console: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if opts.outDir == "" {
		opts.outDir = env.DataRoot
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := &fetcher{opts: opts, env: env, logger: l, stdout: os.Stdout}
	if err := f.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
