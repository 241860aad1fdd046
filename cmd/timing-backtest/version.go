package main

import (
	"fmt"
	"io"
	"runtime"
)

const (
	AppName    = "Market Timing Backtest"
	AppVersion = "1.0.0"
)

// Set with -ldflags "-X main.BuildCommit=... -X main.BuildDate=..."
var (
	BuildCommit = "dev"
	BuildDate   = "unknown"
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "%s v%s\n", AppName, AppVersion)
	fmt.Fprintf(w, "Build: %s (%s)\n", BuildCommit, BuildDate)
	fmt.Fprintf(w, "Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
