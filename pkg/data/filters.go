package data

import (
	"sort"
	"strconv"
	"strings"
	"time"

	errs "github.com/ducminhle1904/market-timing/internal/errors"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// DefaultDataFilter implements DataFilter
type DefaultDataFilter struct{}

func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// FilterByPeriod keeps candles not older than period before the last one
func (f *DefaultDataFilter) FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if period <= 0 || len(data) == 0 {
		return data
	}

	cutoff := data[len(data)-1].Timestamp.Add(-period)
	start := sort.Search(len(data), func(i int) bool {
		return !data[i].Timestamp.Before(cutoff)
	})
	return data[start:]
}

func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	var filtered []types.OHLCV
	for _, candle := range data {
		if !start.IsZero() && candle.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && candle.Timestamp.After(end) {
			continue
		}
		filtered = append(filtered, candle)
	}
	return filtered
}

// ValidateTimeSequence rejects out-of-order and duplicated timestamps
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	for i := 1; i < len(data); i++ {
		if !data[i].Timestamp.After(data[i-1].Timestamp) {
			return errs.NewValidationError("DataFilter", "ValidateTimeSequence", "timestamps must be strictly increasing").
				WithContext("index", i).
				WithContext("timestamp", data[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// SortByTimestamp returns a sorted copy of data
func (f *DefaultDataFilter) SortByTimestamp(data []types.OHLCV) []types.OHLCV {
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// RemoveDuplicates keeps the first candle of every timestamp of sorted data
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) == 0 {
		return data
	}
	result := []types.OHLCV{data[0]}
	for i := 1; i < len(data); i++ {
		if !data[i].Timestamp.Equal(result[len(result)-1].Timestamp) {
			result = append(result, data[i])
		}
	}
	return result
}

// ParseTrailingPeriod parses "30d", "5y", "6m" or a Go duration
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	units := map[byte]time.Duration{
		'd': 24 * time.Hour,
		'w': 7 * 24 * time.Hour,
		'm': 30 * 24 * time.Hour,
		'y': 365 * 24 * time.Hour,
	}
	if unit, ok := units[s[len(s)-1]]; ok {
		if n, err := strconv.Atoi(s[:len(s)-1]); err == nil {
			if n <= 0 {
				return 0, false
			}
			return time.Duration(n) * unit, true
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}
