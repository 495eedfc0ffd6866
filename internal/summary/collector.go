// internal/summary/collector.go
package summary

import (
	"sync"
	"time"

	"github.com/mwiater/modeleval/internal/cases"
)

// Collector guards a Summary for concurrent folds. It is the only shared
// mutable state in a run; classifiers stay pure and workers record
// through it.
type Collector struct {
	mu      sync.Mutex
	summary *Summary
}

// NewCollector returns a Collector over an empty Summary.
func NewCollector() *Collector {
	return &Collector{summary: New()}
}

// Record folds one case result under the lock.
func (c *Collector) Record(r cases.CaseResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary.Fold(r)
}

// Summary returns an independent copy of the current aggregate, safe to
// read while workers keep recording.
func (c *Collector) Summary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Merge(New(), c.summary)
}

// Snapshot flattens the current aggregate under the lock.
func (c *Collector) Snapshot(runID string, createdAt time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary.Snapshot(runID, createdAt)
}
