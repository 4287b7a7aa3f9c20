package lint

import (
	"maps"
	"sync"
)

// Telemetry counts events that are worth knowing about but never change
// results, such as a configured pattern that had to be matched as a literal.
// A nil *Telemetry discards everything. Safe for concurrent use.
type Telemetry struct {
	mu        sync.Mutex
	fallbacks map[string]int
}

// NewTelemetry creates an empty Telemetry.
func NewTelemetry() *Telemetry {
	return &Telemetry{fallbacks: make(map[string]int)}
}

// RecordFallback notes that ruleID degraded a configured value to a safer
// interpretation.
func (t *Telemetry) RecordFallback(ruleID string) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fallbacks[ruleID]++
}

// Fallbacks returns the total number of recorded fallbacks.
func (t *Telemetry) Fallbacks() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0
	for _, n := range t.fallbacks {
		total += n
	}
	return total
}

// FallbacksByRule returns a copy of the per-rule fallback counts.
func (t *Telemetry) FallbacksByRule() map[string]int {
	if t == nil {
		return map[string]int{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.fallbacks)
}

// Reset clears every counter.
func (t *Telemetry) Reset() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.fallbacks)
}
