package data

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

var csvHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// WriteCSV writes candles to path in DefaultCSVFormat, creating the parent
// directory as needed. Timestamps are written in UTC.
func WriteCSV(path string, candles []types.OHLCV) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.NewDataError("CSVWriter", "WriteCSV", err).WithContext("file", path)
	}
	file, err := os.Create(path)
	if err != nil {
		return errs.NewDataError("CSVWriter", "WriteCSV", err).WithContext("file", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errs.NewDataError("CSVWriter", "WriteCSV", cerr).WithContext("file", path)
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return errs.NewDataError("CSVWriter", "WriteCSV", err).WithContext("file", path)
	}
	for _, c := range candles {
		record := []string{
			c.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			formatPrice(c.Open),
			formatPrice(c.High),
			formatPrice(c.Low),
			formatPrice(c.Close),
			formatPrice(c.Volume),
		}
		if err := w.Write(record); err != nil {
			return errs.NewDataError("CSVWriter", "WriteCSV", err).WithContext("file", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errs.NewDataError("CSVWriter", "WriteCSV", err).WithContext("file", path)
	}
	return nil
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
