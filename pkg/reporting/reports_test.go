package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_PreProcessorRouting(t *testing.T) {
	root := NewReports()
	r1 := &valueReporter{source: "SOURCE1", ys: []float64{1, 2, 3}}
	r2 := &valueReporter{source: "SOURCE2", ys: []float64{10, 20, 30}}
	root.AddReporter(r1)
	root.AddReporter(r2)
	root.AddPreProcessor(Scale("SOURCE1", "SOURCE3", 2))
	root.AddPreProcessor(Offset("SOURCE2", "SOURCE4", 2))

	s3 := NewSeries("SOURCE3")
	s4 := NewSeries("SOURCE4")
	root.AddReport(s3)
	root.AddReport(s4)

	runCycles(root, epoch, 3)

	assert.Equal(t, []float64{2, 4, 6}, ys(s3.Points("SOURCE3")))
	assert.Equal(t, []float64{12, 22, 32}, ys(s4.Points("SOURCE4")))
	assert.Equal(t, []string{"SOURCE3"}, s3.Sources())
}

func TestReports_ChildSeesRawAndTransformedData(t *testing.T) {
	root := NewReports()
	root.AddReporter(&valueReporter{source: "SOURCE1", ys: []float64{5}})
	root.AddPreProcessor(Scale("SOURCE1", "SOURCE3", 2))
	all := NewSeries()
	root.AddReport(all)

	runCycles(root, epoch, 1)

	assert.Equal(t, []string{"SOURCE1", "SOURCE3"}, all.Sources())
	assert.Equal(t, []float64{10}, ys(all.Points("SOURCE3")))
}

func TestReports_StartCycleOncePerInstant(t *testing.T) {
	root := NewReports()
	rep := &valueReporter{source: "SOURCE1", ys: []float64{1, 2}}
	root.AddReporter(rep)
	root.AddReport(NewSeries())
	root.AddReport(NewMaxHighlight("max", "SOURCE1"))

	var cycles []time.Time
	root.OnCycle(func(instant time.Time) { cycles = append(cycles, instant) })

	runCycles(root, epoch, 2)

	assert.Equal(t, 2, rep.starts)
	assert.Equal(t, []time.Time{epoch, epoch.AddDate(0, 0, 1)}, cycles)
}

func TestReports_NestedComposites(t *testing.T) {
	root := NewReports()
	root.AddReporter(&valueReporter{source: "SOURCE1", ys: []float64{1, 2}})

	inner := NewReports()
	inner.AddPreProcessor(Offset("SOURCE1", "SOURCE2", 100))
	root.AddReport(inner)

	leaf := NewSeries("SOURCE2")
	inner.AddReport(leaf)

	runCycles(root, epoch, 2)

	assert.Equal(t, []float64{101, 102}, ys(leaf.Points("SOURCE2")))
	require.Len(t, inner.Buffered(), 2)
	assert.Equal(t, epoch.AddDate(0, 0, 1), inner.Instant())
}

func TestReports_BufferResetsEachCycle(t *testing.T) {
	root := NewReports()
	root.AddReporter(&valueReporter{source: "SOURCE1", ys: []float64{1, 2}})

	runCycles(root, epoch, 2)

	assert.Equal(t, []ReportedData{{SourceName: "SOURCE1", Y: 2}}, root.Buffered())
}

func TestTransformPreProcessor_ForwardsOnlyWhenSeen(t *testing.T) {
	root := NewReports()
	// the reporter runs dry after one value
	root.AddReporter(&valueReporter{source: "SOURCE1", ys: []float64{3}})
	root.AddPreProcessor(Scale("SOURCE1", "SOURCE3", 2))
	s := NewSeries("SOURCE3")
	root.AddReport(s)

	runCycles(root, epoch, 3)

	require.Len(t, s.Points("SOURCE3"), 1)
	assert.Equal(t, epoch, s.Points("SOURCE3")[0].Instant)
}

func TestSeries_Table(t *testing.T) {
	root := NewReports()
	root.AddReporter(&valueReporter{source: "A", ys: []float64{1, 2, 3}})
	root.AddReporter(&valueReporter{source: "B", ys: []float64{7}})
	s := NewSeries()
	root.AddReport(s)

	runCycles(root, epoch, 3)

	instants, rows := s.Table()
	require.Len(t, instants, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, 1.0, *rows[0][0])
	assert.Equal(t, 7.0, *rows[0][1])
	assert.Nil(t, rows[2][1])
}

func TestSeries_Subscription(t *testing.T) {
	tests := []struct {
		name    string
		sources []string
		want    []string
	}{
		{"nil records every source", nil, []string{"A", "B"}},
		{"listed sources only", []string{"B"}, []string{"B"}},
		{"empty records nothing", []string{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewReports()
			root.AddReporter(&valueReporter{source: "A", ys: []float64{1, 2}})
			root.AddReporter(&valueReporter{source: "B", ys: []float64{3, 4}})
			s := NewSeries(tt.sources...)
			root.AddReport(s)

			runCycles(root, epoch, 2)

			assert.Equal(t, tt.want, s.Sources())
		})
	}
}
