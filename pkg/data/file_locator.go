package data

import (
	"os"
	"path/filepath"
	"strings"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
)

// DefaultFileLocator looks for <root>/<ASSET>.csv, <root>/<asset>.csv and
// <root>/<ASSET>/candles.csv in that order
type DefaultFileLocator struct{}

func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

func (f *DefaultFileLocator) FindDataFile(dataRoot, asset string) (string, error) {
	if info, err := os.Stat(dataRoot); err == nil && !info.IsDir() {
		return dataRoot, nil
	}

	candidates := []string{
		filepath.Join(dataRoot, strings.ToUpper(asset)+".csv"),
		filepath.Join(dataRoot, strings.ToLower(asset)+".csv"),
		filepath.Join(dataRoot, strings.ToUpper(asset), "candles.csv"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", errs.NewEngineError(errs.ErrorCategoryData, "FileLocator", "FindDataFile", "no data file found").
		WithContext("asset", asset).
		WithContext("attempted", strings.Join(candidates, ", "))
}
