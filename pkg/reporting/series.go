package reporting

import (
	"sort"
	"time"
)

// Point is one reported value at the instant of its cycle
type Point struct {
	Instant time.Time
	Y       float64
}

// Series records every value of the subscribed sources in cycle order. A
// nil subscription records every source, an empty one records nothing.
type Series struct {
	reportBase

	subscribed map[string]struct{}
	order      []string
	points     map[string][]Point
}

func NewSeries(sources ...string) *Series {
	s := &Series{points: make(map[string][]Point)}
	if sources != nil {
		s.subscribed = make(map[string]struct{}, len(sources))
		for _, src := range sources {
			s.subscribed[src] = struct{}{}
		}
	}
	return s
}

func (s *Series) StartReportingCycle(instant time.Time) {
	s.startCycle(instant)
}

func (s *Series) ReceiveData(data ReportedData) {
	if s.subscribed != nil {
		if _, ok := s.subscribed[data.SourceName]; !ok {
			return
		}
	}
	if _, ok := s.points[data.SourceName]; !ok {
		s.order = append(s.order, data.SourceName)
	}
	s.points[data.SourceName] = append(s.points[data.SourceName], Point{Instant: s.instant, Y: data.Y})
}

func (s *Series) CollectReports() {
	s.collect(s)
}

func (s *Series) CompleteReport() {}

// Sources returns the recorded source names in order of first appearance
func (s *Series) Sources() []string {
	return append([]string(nil), s.order...)
}

// Points returns the recorded points of one source
func (s *Series) Points(source string) []Point {
	return s.points[source]
}

// Instants returns the sorted union of instants across all sources
func (s *Series) Instants() []time.Time {
	seen := make(map[time.Time]struct{})
	var out []time.Time
	for _, src := range s.order {
		for _, p := range s.points[src] {
			if _, ok := seen[p.Instant]; ok {
				continue
			}
			seen[p.Instant] = struct{}{}
			out = append(out, p.Instant)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Table returns one row per instant with a value per source; missing values
// are reported as absent
func (s *Series) Table() ([]time.Time, [][]*float64) {
	instants := s.Instants()
	index := make(map[time.Time]int, len(instants))
	for i, t := range instants {
		index[t] = i
	}
	rows := make([][]*float64, len(instants))
	for i := range rows {
		rows[i] = make([]*float64, len(s.order))
	}
	for col, src := range s.order {
		for _, p := range s.points[src] {
			y := p.Y
			rows[index[p.Instant]][col] = &y
		}
	}
	return instants, rows
}
