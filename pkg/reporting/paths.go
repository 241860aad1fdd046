package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	SeriesFileName     = "series.csv"
	WorkbookFileName   = "report.xlsx"
	HighlightsFileName = "highlights.json"
)

// DefaultOutputDir returns results/<ASSET>_<name>
func DefaultOutputDir(asset, name string) string {
	a := strings.ToUpper(strings.TrimSpace(asset))
	n := strings.ToLower(strings.TrimSpace(name))
	if a == "" {
		a = "UNKNOWN"
	}
	if n == "" {
		n = "run"
	}
	return filepath.Join("results", fmt.Sprintf("%s_%s", a, n))
}

// EnsureParentDir creates the directory holding path if it does not exist
func EnsureParentDir(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}
