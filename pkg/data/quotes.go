package data

import (
	"sort"
	"time"

	"github.com/ducminhle1904/market-timing/pkg/types"
)

// ToInstantQuotes wraps every candle of one asset into its own instant
func ToInstantQuotes(asset string, candles []types.OHLCV) []types.InstantQuotes {
	out := make([]types.InstantQuotes, 0, len(candles))
	for _, c := range candles {
		out = append(out, types.NewInstantQuotes(c.Timestamp, types.Quote{
			Asset:         asset,
			OHLCV:         c,
			AdjustedClose: c.Close,
		}))
	}
	return out
}

// MergeInstantQuotes merges streams of different assets into one stream
// ordered by instant. Quotes observed at the same instant share one entry;
// a later stream wins when two carry the same asset at the same instant.
func MergeInstantQuotes(streams ...[]types.InstantQuotes) []types.InstantQuotes {
	byInstant := make(map[time.Time]*types.InstantQuotes)
	var instants []time.Time

	for _, stream := range streams {
		for _, iq := range stream {
			key := iq.Instant.UTC()
			merged, ok := byInstant[key]
			if !ok {
				m := types.InstantQuotes{Instant: iq.Instant, Quotes: make(map[string]types.Quote, len(iq.Quotes))}
				merged = &m
				byInstant[key] = merged
				instants = append(instants, key)
			}
			for asset, q := range iq.Quotes {
				merged.Quotes[asset] = q
			}
		}
	}

	sort.Slice(instants, func(i, j int) bool { return instants[i].Before(instants[j]) })
	out := make([]types.InstantQuotes, 0, len(instants))
	for _, t := range instants {
		out = append(out, *byInstant[t])
	}
	return out
}

// Assets returns the sorted set of assets present in a stream
func Assets(stream []types.InstantQuotes) []string {
	seen := make(map[string]struct{})
	for _, iq := range stream {
		for asset := range iq.Quotes {
			seen[asset] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
