package reporting

import (
	"encoding/json"
	"os"
	"time"
)

type highlightJSON struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Kind    string   `json:"kind"`
	Value   *float64 `json:"value"`
	At      string   `json:"at,omitempty"`
	Samples int      `json:"samples"`
}

// FormatHighlightsJSON encodes results; values of empty highlights are null
func FormatHighlightsJSON(results []HighlightResult) ([]byte, error) {
	out := make([]highlightJSON, 0, len(results))
	for _, r := range results {
		h := highlightJSON{
			Name:    r.Name,
			Source:  r.Source,
			Kind:    string(r.Kind),
			Samples: r.Samples,
		}
		if r.Valid {
			v := r.Value
			h.Value = &v
			if !r.Instant.IsZero() {
				h.At = r.Instant.Format(time.DateOnly)
			}
		}
		out = append(out, h)
	}
	return json.MarshalIndent(out, "", "  ")
}

func WriteHighlightsJSON(results []HighlightResult, path string) error {
	data, err := FormatHighlightsJSON(results)
	if err != nil {
		return err
	}
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
