package data

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phuslu/log"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// CSVProvider implements DataProvider for CSV files
type CSVProvider struct {
	format CSVColumnMapping
	logger *log.Logger
}

// NewCSVProvider creates a CSV provider with the default format
func NewCSVProvider() *CSVProvider {
	return NewCSVProviderWithFormat(DefaultCSVFormat)
}

func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{
		format: format,
		logger: logger.Nop(),
	}
}

// SetLogger sets the logger skipped rows are reported to
func (p *CSVProvider) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads the file at source. Malformed rows are skipped and logged;
// a missing or unreadable file is an error.
func (p *CSVProvider) LoadData(_ context.Context, source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, errs.NewDataError("CSVProvider", "LoadData", err).WithContext("file", source)
	}
	defer file.Close()

	data, err := p.parse(file, source)
	if err != nil {
		return nil, errs.NewDataError("CSVProvider", "LoadData", err).WithContext("file", source)
	}
	return data, nil
}

func (p *CSVProvider) parse(r io.Reader, source string) ([]types.OHLCV, error) {
	format := p.format
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	var data []types.OHLCV
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		candle, err := parseRecord(record, format)
		if err != nil {
			p.logger.Warn().
				Str("file", source).
				Int("line", lineNum).
				Err(err).
				Msg("skipping CSV row")
			continue
		}
		data = append(data, candle)
	}

	return data, nil
}

type column struct {
	name string
	col  int
	dst  *float64
}

func parseRecord(record []string, format CSVColumnMapping) (types.OHLCV, error) {
	if len(record) < format.MinColumns {
		return types.OHLCV{}, fmt.Errorf("insufficient columns (expected %d, got %d)", format.MinColumns, len(record))
	}

	timestamp, err := parseTimestamp(strings.TrimSpace(record[format.TimestampCol]), format.DateFormats)
	if err != nil {
		return types.OHLCV{}, err
	}

	var candle types.OHLCV
	candle.Timestamp = timestamp
	fields := []column{
		{"open", format.OpenCol, &candle.Open},
		{"high", format.HighCol, &candle.High},
		{"low", format.LowCol, &candle.Low},
		{"close", format.CloseCol, &candle.Close},
		{"volume", format.VolumeCol, &candle.Volume},
	}
	for _, f := range fields {
		if f.col < 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[f.col]), 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid %s %q: %w", f.name, record[f.col], err)
		}
		*f.dst = v
	}

	if err := validateCandle(candle); err != nil {
		return types.OHLCV{}, err
	}
	return candle, nil
}

func parseTimestamp(s string, formats []string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func validateCandle(c types.OHLCV) error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("prices must be positive")
	}
	if c.High < c.Low {
		return fmt.Errorf("high (%.4f) cannot be less than low (%.4f)", c.High, c.Low)
	}
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("high (%.4f) must be >= open (%.4f) and close (%.4f)", c.High, c.Open, c.Close)
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("low (%.4f) must be <= open (%.4f) and close (%.4f)", c.Low, c.Open, c.Close)
	}
	return nil
}

// ValidateData validates prices and chronological order
func (p *CSVProvider) ValidateData(data []types.OHLCV) error {
	return validateSeries("CSVProvider", data)
}

func validateSeries(component string, data []types.OHLCV) error {
	if len(data) == 0 {
		return errs.NewValidationError(component, "ValidateData", "no data provided")
	}
	for i, candle := range data {
		if err := validateCandle(candle); err != nil {
			return errs.WrapError(err, errs.ErrorCategoryValidation, component, "ValidateData").
				WithContext("index", i)
		}
	}
	return NewDefaultDataFilter().ValidateTimeSequence(data)
}
