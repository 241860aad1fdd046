package indicators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Source selects which candlestick field feeds an indicator
type Source int

const (
	SourceClose Source = iota
	SourceOpen
	SourceHigh
	SourceLow
	SourceMid
)

func (s Source) String() string {
	switch s {
	case SourceClose:
		return "CLOSE"
	case SourceOpen:
		return "OPEN"
	case SourceHigh:
		return "HIGH"
	case SourceLow:
		return "LOW"
	case SourceMid:
		return "MID"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

func (s Source) Valid() bool {
	return s >= SourceClose && s <= SourceMid
}

// Extract reduces a candlestick to one scalar
func (s Source) Extract(c types.OHLCV) float64 {
	switch s {
	case SourceOpen:
		return c.Open
	case SourceHigh:
		return c.High
	case SourceLow:
		return c.Low
	case SourceMid:
		return (c.High + c.Low) / 2
	default:
		return c.Close
	}
}

func ParseSource(s string) (Source, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CLOSE":
		return SourceClose, nil
	case "OPEN":
		return SourceOpen, nil
	case "HIGH":
		return SourceHigh, nil
	case "LOW":
		return SourceLow, nil
	case "MID":
		return SourceMid, nil
	}
	return SourceClose, fmt.Errorf("unknown source %q", s)
}

// Preprocessing reduces the values buffered during one period to one value
type Preprocessing int

const (
	PreprocessingLast Preprocessing = iota
	PreprocessingFirst
	PreprocessingTypical
	PreprocessingMedian
)

func (p Preprocessing) String() string {
	switch p {
	case PreprocessingLast:
		return "LAST"
	case PreprocessingFirst:
		return "FIRST"
	case PreprocessingTypical:
		return "TYPICAL"
	case PreprocessingMedian:
		return "MEDIAN"
	default:
		return fmt.Sprintf("Preprocessing(%d)", int(p))
	}
}

func (p Preprocessing) Valid() bool {
	return p >= PreprocessingLast && p <= PreprocessingMedian
}

// Reduce collapses values; it must not be called with an empty slice
func (p Preprocessing) Reduce(values []float64) float64 {
	switch p {
	case PreprocessingFirst:
		return values[0]
	case PreprocessingTypical:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		return sum / float64(len(values))
	case PreprocessingMedian:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 0 {
			return (sorted[mid-1] + sorted[mid]) / 2
		}
		return sorted[mid]
	default:
		return values[len(values)-1]
	}
}

func ParsePreprocessing(s string) (Preprocessing, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LAST":
		return PreprocessingLast, nil
	case "FIRST":
		return PreprocessingFirst, nil
	case "TYPICAL", "MEAN":
		return PreprocessingTypical, nil
	case "MEDIAN":
		return PreprocessingMedian, nil
	}
	return PreprocessingLast, fmt.Errorf("unknown preprocessing %q", s)
}
