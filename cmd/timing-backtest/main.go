// Command timing-backtest replays historical candles through the market
// timings of a strategy file and reports their series and highlights.
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
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	flags := NewFlags(flag.CommandLine)
	flag.Parse()

	if *flags.ShowVersion {
		printVersion(os.Stdout)
		return 0
	}
	if err := flags.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "flag error: %v\n\n", err)
		flag.Usage()
		return 2
	}

	if err := godotenv.Load(*flags.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "could not load %s: %v\n", *flags.EnvFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
