// internal/costs/costs.go
// Package costs tracks token usage and API spend across an evaluation run.
package costs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mwiater/modeleval/internal/cases"
)

// cachedDiscount is the fraction of the input rate refunded for tokens served
// from the provider's prompt cache.
const cachedDiscount = 0.9

// Pricing holds USD rates per one million tokens.
type Pricing struct {
	Input  float64
	Output float64
}

// modelPricing lists published per-model rates. Models not listed here cost
// zero, which covers local and mock providers.
var modelPricing = map[string]Pricing{
	// OpenAI
	"gpt-4o":        {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":   {Input: 0.15, Output: 0.60},
	"gpt-4-turbo":   {Input: 10.00, Output: 30.00},
	"gpt-4":         {Input: 30.00, Output: 60.00},
	"gpt-3.5-turbo": {Input: 0.50, Output: 1.50},
	// Anthropic
	"claude-3-5-sonnet-20241022": {Input: 3.00, Output: 15.00},
	"claude-3-5-haiku-20241022":  {Input: 0.80, Output: 4.00},
	"claude-3-opus-20240229":     {Input: 15.00, Output: 75.00},
	"claude-3-haiku-20240307":    {Input: 0.25, Output: 1.25},
	// Mock
	"mock-model": {Input: 0, Output: 0},
}

// PricingFor returns the published rates for a model. ok is false for
// unlisted models, which are billed at zero.
func PricingFor(model string) (Pricing, bool) {
	p, ok := modelPricing[model]
	return p, ok
}

// Cost computes the USD cost of one call.
func Cost(model string, inputTokens, outputTokens, cachedTokens int) float64 {
	pricing := modelPricing[model]
	inputCost := float64(inputTokens) / 1_000_000 * pricing.Input
	outputCost := float64(outputTokens) / 1_000_000 * pricing.Output
	discount := float64(cachedTokens) / 1_000_000 * pricing.Input * cachedDiscount
	return inputCost + outputCost - discount
}

// Record captures tokens and spend for a single API call.
type Record struct {
	Model        string       `json:"model"`
	Family       cases.Family `json:"family"`
	CaseID       string       `json:"caseId,omitempty"`
	InputTokens  int          `json:"inputTokens"`
	OutputTokens int          `json:"outputTokens"`
	CachedTokens int          `json:"cachedTokens,omitempty"`
	CostUSD      float64      `json:"costUsd"`
}

// NewRecord builds a Record with the cost filled in from published rates.
func NewRecord(model string, family cases.Family, caseID string, inputTokens, outputTokens, cachedTokens int) Record {
	return Record{
		Model:        model,
		Family:       family,
		CaseID:       caseID,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CachedTokens: cachedTokens,
		CostUSD:      Cost(model, inputTokens, outputTokens, cachedTokens),
	}
}

// Stats is an aggregate over a group of records.
type Stats struct {
	Calls        int     `json:"calls"`
	InputTokens  int     `json:"inputTokens"`
	OutputTokens int     `json:"outputTokens"`
	CachedTokens int     `json:"cachedTokens"`
	CostUSD      float64 `json:"costUsd"`
}

func (s *Stats) add(r Record) {
	s.Calls++
	s.InputTokens += r.InputTokens
	s.OutputTokens += r.OutputTokens
	s.CachedTokens += r.CachedTokens
	s.CostUSD += r.CostUSD
}

// Report accumulates cost records for an evaluation run. Methods are safe for
// concurrent use.
type Report struct {
	mu      sync.Mutex
	records []Record
}

// NewReport returns an empty cost report.
func NewReport() *Report {
	return &Report{}
}

// Add appends one record.
func (r *Report) Add(record Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
}

// Records returns a copy of the accumulated records.
func (r *Report) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Totals returns the aggregate over every record.
func (r *Report) Totals() Stats {
	var total Stats
	for _, rec := range r.Records() {
		total.add(rec)
	}
	return total
}

// ByModel returns per-model aggregates.
func (r *Report) ByModel() map[string]Stats {
	breakdown := make(map[string]Stats)
	for _, rec := range r.Records() {
		stats := breakdown[rec.Model]
		stats.add(rec)
		breakdown[rec.Model] = stats
	}
	return breakdown
}

// ByFamily returns per-family aggregates.
func (r *Report) ByFamily() map[cases.Family]Stats {
	breakdown := make(map[cases.Family]Stats)
	for _, rec := range r.Records() {
		stats := breakdown[rec.Family]
		stats.add(rec)
		breakdown[rec.Family] = stats
	}
	return breakdown
}

// Export is the JSON-serializable form of a report.
type Export struct {
	Totals   Stats                  `json:"totals"`
	ByModel  map[string]Stats       `json:"byModel"`
	ByFamily map[cases.Family]Stats `json:"byFamily"`
	Records  []Record               `json:"records"`
}

// Export returns the serializable form of the report.
func (r *Report) Export() Export {
	return Export{
		Totals:   r.Totals(),
		ByModel:  r.ByModel(),
		ByFamily: r.ByFamily(),
		Records:  r.Records(),
	}
}

// Markdown renders the report as a markdown document with per-model and
// per-family tables in deterministic order.
func (r *Report) Markdown() string {
	totals := r.Totals()

	var b strings.Builder
	b.WriteString("# Cost Report\n\n")
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Cost:** $%.4f\n", totals.CostUSD)
	fmt.Fprintf(&b, "- **Total Tokens:** %d\n", totals.InputTokens+totals.OutputTokens)
	fmt.Fprintf(&b, "- **Input Tokens:** %d\n", totals.InputTokens)
	fmt.Fprintf(&b, "- **Output Tokens:** %d\n", totals.OutputTokens)
	fmt.Fprintf(&b, "- **Cached Tokens:** %d\n", totals.CachedTokens)
	fmt.Fprintf(&b, "- **API Calls:** %d\n", totals.Calls)

	byModel := r.ByModel()
	models := make([]string, 0, len(byModel))
	for model := range byModel {
		models = append(models, model)
	}
	sort.Strings(models)

	b.WriteString("\n## By Model\n\n")
	b.WriteString("| Model | Calls | Input | Output | Cost |\n")
	b.WriteString("|-------|-------|-------|--------|------|\n")
	for _, model := range models {
		stats := byModel[model]
		fmt.Fprintf(&b, "| %s | %d | %d | %d | $%.4f |\n",
			model, stats.Calls, stats.InputTokens, stats.OutputTokens, stats.CostUSD)
	}

	byFamily := r.ByFamily()
	b.WriteString("\n## By Family\n\n")
	b.WriteString("| Family | Calls | Input | Output | Cost |\n")
	b.WriteString("|--------|-------|-------|--------|------|\n")
	for _, family := range cases.Families() {
		stats, ok := byFamily[family]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %d | $%.4f |\n",
			family, stats.Calls, stats.InputTokens, stats.OutputTokens, stats.CostUSD)
	}

	return b.String()
}
