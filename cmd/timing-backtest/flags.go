package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds the command line flags
type Flags struct {
	ConfigFile  *string
	DataPath    *string
	Asset       *string
	OutputDir   *string
	EnvFile     *string
	Period      *string
	PerAsset    *bool
	ConsoleOnly *bool
	ShowVersion *bool
}

// NewFlags registers the flags on fs
func NewFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		ConfigFile:  fs.String("config", "", "Strategy file (.json, .yaml or .yml)"),
		DataPath:    fs.String("data", "", "CSV file or directory of <ASSET>.csv files; overrides the strategy and TIMING_DATA_ROOT"),
		Asset:       fs.String("asset", "", "Only run the components reading this asset"),
		OutputDir:   fs.String("output", "", "Output directory; defaults to TIMING_OUTPUT_DIR or results/<ASSET>_<name>"),
		EnvFile:     fs.String("env", ".env", "Environment file"),
		Period:      fs.String("period", "", "Trailing window to replay, e.g. 90d, 5y; overrides the strategy"),
		PerAsset:    fs.Bool("per-asset", false, "Replay every asset independently and in parallel"),
		ConsoleOnly: fs.Bool("console-only", false, "Print results without writing files"),
		ShowVersion: fs.Bool("version", false, "Show version information"),
	}
}

// Validate collects every flag problem into one error
func (f *Flags) Validate() error {
	var problems []string
	if *f.ConfigFile == "" {
		problems = append(problems, "-config is required")
	} else if _, err := os.Stat(*f.ConfigFile); err != nil {
		problems = append(problems, fmt.Sprintf("-config: %v", err))
	}
	if *f.DataPath != "" {
		if _, err := os.Stat(*f.DataPath); err != nil {
			problems = append(problems, fmt.Sprintf("-data: %v", err))
		}
	}
	if *f.PerAsset && *f.Asset != "" {
		problems = append(problems, "-per-asset and -asset are exclusive")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
