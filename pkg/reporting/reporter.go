package reporting

import (
	"io"
	"path/filepath"
)

// Recorder wires a root Reports composite to a Series and a set of
// highlights, and writes their contents to the output sinks at the end of a
// run
type Recorder struct {
	root       *Reports
	series     *Series
	highlights []*Highlight
}

// NewRecorder creates a recorder whose series subscribes to sources. A nil
// list subscribes to every source; an empty non-nil list to none.
func NewRecorder(sources ...string) *Recorder {
	r := &Recorder{
		root:   NewReports(),
		series: NewSeries(sources...),
	}
	r.root.AddReport(r.series)
	return r
}

// Root returns the composite that reporters and preprocessors attach to
func (r *Recorder) Root() *Reports { return r.root }

func (r *Recorder) Series() *Series { return r.series }

// AddHighlight attaches h to the root composite
func (r *Recorder) AddHighlight(h *Highlight) {
	r.highlights = append(r.highlights, h)
	r.root.AddReport(h)
}

// Highlights returns the current result of every highlight in order
func (r *Recorder) Highlights() []HighlightResult {
	out := make([]HighlightResult, 0, len(r.highlights))
	for _, h := range r.highlights {
		out = append(out, h.Result())
	}
	return out
}

// PrintHighlights renders the highlights table to w
func (r *Recorder) PrintHighlights(w io.Writer, title string) {
	WriteHighlightsTable(w, title, r.Highlights())
}

// WriteFiles writes the series CSV, the highlights JSON and the workbook
// into dir and returns the written paths
func (r *Recorder) WriteFiles(dir string) ([]string, error) {
	highlights := r.Highlights()

	seriesPath := filepath.Join(dir, SeriesFileName)
	if err := WriteSeriesCSV(r.series, seriesPath); err != nil {
		return nil, err
	}
	jsonPath := filepath.Join(dir, HighlightsFileName)
	if err := WriteHighlightsJSON(highlights, jsonPath); err != nil {
		return nil, err
	}
	xlsxPath := filepath.Join(dir, WorkbookFileName)
	if err := WriteWorkbook(r.series, highlights, xlsxPath); err != nil {
		return nil, err
	}
	return []string{seriesPath, jsonPath, xlsxPath}, nil
}
