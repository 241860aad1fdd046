package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker exposes the progress of a replay
type HealthChecker struct {
	mu          sync.RWMutex
	lastInstant time.Time
	bars        int
	done        bool
	errors      []string
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastInstant time.Time `json:"last_instant"`
	Bars        int       `json:"bars"`
	Done        bool      `json:"done"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// MarkInstant records that instant has been replayed
func (h *HealthChecker) MarkInstant(instant time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastInstant = instant
	h.bars++
}

func (h *HealthChecker) MarkDone() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done = true
}

func (h *HealthChecker) MarkError(err error) {
	if err == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err.Error())
}

// Status returns a snapshot of the current state
func (h *HealthChecker) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "running"
	switch {
	case len(h.errors) > 0:
		status = "unhealthy"
	case h.done:
		status = "done"
	}

	return HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastInstant: h.lastInstant,
		Bars:        h.bars,
		Done:        h.done,
		Uptime:      time.Since(startTime).String(),
		Errors:      append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Status()

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
