package indicators

// windowMax tracks the maximum of the last size values. The maximum is kept
// incrementally and the window is only rescanned when the tracked point is
// evicted.
type windowMax struct {
	size   int
	values []float64
	maxIdx int // index into values, -1 when empty
}

func newWindowMax(size int) *windowMax {
	return &windowMax{
		size:   size,
		values: make([]float64, 0, size),
		maxIdx: -1,
	}
}

func (w *windowMax) push(v float64) {
	if len(w.values) == w.size {
		copy(w.values, w.values[1:])
		w.values = w.values[:w.size-1]
		w.maxIdx--
		if w.maxIdx < 0 {
			w.rescan()
		}
	}
	w.values = append(w.values, v)
	if w.maxIdx < 0 || v >= w.values[w.maxIdx] {
		w.maxIdx = len(w.values) - 1
	}
}

func (w *windowMax) rescan() {
	w.maxIdx = -1
	for i, v := range w.values {
		if w.maxIdx < 0 || v >= w.values[w.maxIdx] {
			w.maxIdx = i
		}
	}
}

func (w *windowMax) max() (float64, bool) {
	if w.maxIdx < 0 {
		return 0, false
	}
	return w.values[w.maxIdx], true
}

func (w *windowMax) len() int { return len(w.values) }
