// Package data loads historical candles from files or exchanges and turns
// them into the ordered instant stream replayed by the engine.
package data

import (
	"context"
	"time"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

// DataProvider loads historical data from one kind of source
type DataProvider interface {
	// LoadData loads the candles identified by source, oldest first
	LoadData(ctx context.Context, source string) ([]types.OHLCV, error)

	// ValidateData validates the integrity of the loaded data
	ValidateData(data []types.OHLCV) error

	GetName() string
}

// DataCache caches loaded data by source
type DataCache interface {
	Get(key string) ([]types.OHLCV, bool)
	Set(key string, data []types.OHLCV)
	Clear()
	Size() int
}

// DataFilter filters and orders candles
type DataFilter interface {
	// FilterByPeriod keeps the trailing period of data
	FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV

	// FilterByDateRange keeps candles within [start, end]; a zero bound is open
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV

	// ValidateTimeSequence ensures data is in strictly increasing order
	ValidateTimeSequence(data []types.OHLCV) error
}

// CSVColumnMapping defines the column positions of a CSV format. A negative
// column is absent.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormats  []string
}

var (
	// DefaultCSVFormat is timestamp,open,high,low,close,volume
	DefaultCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormats:  []string{"2006-01-02 15:04:05", time.DateOnly, time.RFC3339},
	}

	// YahooCSVFormat is Date,Open,High,Low,Close,Adj Close,Volume
	YahooCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    6,
		MinColumns:   7,
		DateFormats:  []string{time.DateOnly},
	}
)

// FileLocator finds the data file of an asset
type FileLocator interface {
	FindDataFile(dataRoot, asset string) (string, error)
}
