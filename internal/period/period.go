// Package period buckets instants into calendar periods and detects when a
// stream of instants crosses from one period into the next.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Periodicity is the unit of aggregation used to bucket instants
type Periodicity int

const (
	Daily Periodicity = iota
	Weekly
	SemiMonthly
	Monthly
	Yearly
)

func (p Periodicity) String() string {
	switch p {
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case SemiMonthly:
		return "SEMIMONTHLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	default:
		return fmt.Sprintf("Periodicity(%d)", int(p))
	}
}

// Valid reports whether p is one of the declared periodicities
func (p Periodicity) Valid() bool {
	return p >= Daily && p <= Yearly
}

// ParsePeriodicity converts a configuration value such as "weekly"
func ParsePeriodicity(s string) (Periodicity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DAILY", "DAY":
		return Daily, nil
	case "WEEKLY", "WEEK":
		return Weekly, nil
	case "SEMIMONTHLY", "SEMI_MONTHLY":
		return SemiMonthly, nil
	case "MONTHLY", "MONTH":
		return Monthly, nil
	case "YEARLY", "YEAR":
		return Yearly, nil
	}
	return Daily, fmt.Errorf("unknown periodicity %q", s)
}

// weekAnchor is the first Monday after the Unix epoch
var weekAnchor = time.Date(1970, time.January, 5, 0, 0, 0, 0, time.UTC)

// Period remembers the last and first buckets it was asked about.
// It is not safe for concurrent use.
type Period struct {
	periodicity Periodicity
	anchor      int
	skip        int

	last     int
	hasLast  bool
	first    int
	hasFirst bool
}

// Option customises a Period
type Option func(*Period)

// WithSkip groups n consecutive periods into one bucket (every Nth week)
func WithSkip(n int) Option {
	return func(p *Period) {
		if n > 1 {
			p.skip = n
		}
	}
}

// WithAnchor moves the period boundary. For WEEKLY the anchor is the
// time.Weekday a week starts on, for MONTHLY the day of month a month starts on.
// Other periodicities ignore it.
func WithAnchor(day int) Option {
	return func(p *Period) {
		p.anchor = day
	}
}

// New creates a Period for the given periodicity
func New(periodicity Periodicity, opts ...Option) *Period {
	p := &Period{
		periodicity: periodicity,
		skip:        1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Periodicity returns the configured periodicity
func (p *Period) Periodicity() Periodicity {
	return p.periodicity
}

// Number maps an instant to its integer bucket
func (p *Period) Number(instant time.Time) int {
	y, m, d := instant.Date()
	var n int

	switch p.periodicity {
	case Daily:
		n = daysSinceEpoch(y, m, d)
	case Weekly:
		days := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(weekAnchor).Hours() / 24)
		if p.anchor > int(time.Monday) && p.anchor <= int(time.Saturday) {
			days -= p.anchor - int(time.Monday)
		} else if p.anchor == int(time.Sunday) {
			days++
		}
		n = floorDiv(days, 7)
	case SemiMonthly:
		n = (int(m)-1)*2 + y*24
		if d >= 15 {
			n++
		}
	case Monthly:
		month := int(m) - 1
		if p.anchor > 1 && d < p.anchor {
			month--
		}
		n = month + y*12
	case Yearly:
		n = y
	}

	return floorDiv(n, p.skip)
}

// ChangeOfPeriod reports whether instant falls in a different bucket than the
// previous call. The first call always reports a change.
func (p *Period) ChangeOfPeriod(instant time.Time) bool {
	n := p.Number(instant)
	changed := !p.hasLast || n != p.last
	p.last = n
	p.hasLast = true
	return changed
}

// TimeIsUp reports whether at least n buckets have elapsed since the first
// instant this Period was asked about.
func (p *Period) TimeIsUp(instant time.Time, n int) bool {
	current := p.Number(instant)
	if !p.hasFirst {
		p.first = current
		p.hasFirst = true
	}
	return current-p.first >= n
}

func daysSinceEpoch(y int, m time.Month, d int) int {
	return floorDiv(int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()), 86400)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
