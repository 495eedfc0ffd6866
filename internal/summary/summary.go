// internal/summary/summary.go
// Package summary folds case results into (model, family, metric) counter
// pairs and merges partial aggregates. Counters only ever accumulate;
// rates are derived on read and a rate with no observations is reported
// as absent, never as zero.
package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mwiater/modeleval/internal/cases"
)

// Key addresses one counter.
type Key struct {
	Model  string
	Family cases.Family
	Metric string
}

// Counter is a numerator/denominator pair. Boolean metrics contribute
// 1/1 or 0/1 per observation; numeric metrics contribute value/1.
type Counter struct {
	Num float64
	Den float64
}

// Summary is the aggregate state of a run.
type Summary struct {
	Counters map[Key]Counter
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{Counters: map[Key]Counter{}}
}

// Fold adds one case result to the aggregate. A result carrying an
// unknown family, or a metric name outside its family's registry, is
// rejected before anything is counted: silently dropping it would corrupt
// every downstream rate.
func (s *Summary) Fold(r cases.CaseResult) error {
	if !r.Family.Valid() {
		return fmt.Errorf("fold case %q: unknown family %q", r.CaseID, r.Family)
	}
	if r.Model == "" {
		return fmt.Errorf("fold case %q: result has no model", r.CaseID)
	}
	for name := range r.Metrics {
		if !r.Family.AllowsMetric(name) {
			return fmt.Errorf("fold case %q: metric %q is not registered for family %s", r.CaseID, name, r.Family)
		}
	}
	for name, value := range r.Metrics {
		key := Key{Model: r.Model, Family: r.Family, Metric: name}
		c := s.Counters[key]
		c.Num += value
		c.Den++
		s.Counters[key] = c
	}
	return nil
}

// Merge returns a new Summary holding the component-wise sum of both
// inputs. Merging is associative and commutative, so folding results one
// at a time or combining partial summaries produces identical counters.
func Merge(a, b *Summary) *Summary {
	out := New()
	for k, c := range a.Counters {
		out.Counters[k] = c
	}
	for k, c := range b.Counters {
		cur := out.Counters[k]
		cur.Num += c.Num
		cur.Den += c.Den
		out.Counters[k] = cur
	}
	return out
}

// Rate returns num/den for a counter. ok is false when the counter has no
// observations; callers must not treat that as a zero rate.
func (s *Summary) Rate(model string, family cases.Family, metric string) (rate float64, ok bool) {
	c := s.Counters[Key{Model: model, Family: family, Metric: metric}]
	if c.Den == 0 {
		return 0, false
	}
	return c.Num / c.Den, true
}

// Counts exposes the raw counter pair for reporting.
func (s *Summary) Counts(model string, family cases.Family, metric string) (num, den float64) {
	c := s.Counters[Key{Model: model, Family: family, Metric: metric}]
	return c.Num, c.Den
}

// Models lists every model with at least one counter, sorted.
func (s *Summary) Models() []string {
	seen := map[string]bool{}
	for k := range s.Counters {
		seen[k.Model] = true
	}
	models := make([]string, 0, len(seen))
	for m := range seen {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}

// FamiliesObserved lists every family with at least one counter, in the
// canonical family order.
func (s *Summary) FamiliesObserved() []cases.Family {
	seen := map[cases.Family]bool{}
	for k := range s.Counters {
		seen[k.Family] = true
	}
	var families []cases.Family
	for _, f := range cases.Families() {
		if seen[f] {
			families = append(families, f)
		}
	}
	return families
}

// Record is the flat serialized form of one counter. Go maps keyed by
// structs do not marshal, so snapshots store a sorted record list.
type Record struct {
	Model  string       `json:"model"`
	Family cases.Family `json:"family"`
	Metric string       `json:"metric"`
	Num    float64      `json:"num"`
	Den    float64      `json:"den"`
}

// Snapshot is a persistable view of a Summary.
type Snapshot struct {
	RunID     string    `json:"runId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Records   []Record  `json:"records"`
}

// Snapshot flattens the counters into a deterministic record list.
func (s *Summary) Snapshot(runID string, createdAt time.Time) Snapshot {
	records := make([]Record, 0, len(s.Counters))
	for k, c := range s.Counters {
		records = append(records, Record{
			Model:  k.Model,
			Family: k.Family,
			Metric: k.Metric,
			Num:    c.Num,
			Den:    c.Den,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		return a.Metric < b.Metric
	})
	return Snapshot{RunID: runID, CreatedAt: createdAt, Records: records}
}

// FromSnapshot rebuilds a Summary from persisted records.
func FromSnapshot(snap Snapshot) *Summary {
	s := New()
	for _, rec := range snap.Records {
		key := Key{Model: rec.Model, Family: rec.Family, Metric: rec.Metric}
		c := s.Counters[key]
		c.Num += rec.Num
		c.Den += rec.Den
		s.Counters[key] = c
	}
	return s
}

// SaveSnapshot writes a snapshot as indented JSON.
func SaveSnapshot(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling summary snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing summary snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("error reading summary snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("error parsing summary snapshot %s: %w", path, err)
	}
	return snap, nil
}
