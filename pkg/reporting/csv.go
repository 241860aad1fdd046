package reporting

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// WriteSeriesCSV writes one row per instant and one column per source.
// Sources without a value at an instant leave the cell empty.
func WriteSeriesCSV(series *Series, path string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"Instant"}, series.Sources()...)
	if err := w.Write(header); err != nil {
		return err
	}

	instants, rows := series.Table()
	for i, instant := range instants {
		record := make([]string, 0, len(header))
		record = append(record, instant.Format(time.DateOnly))
		for _, v := range rows[i] {
			if v == nil {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(*v, 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
