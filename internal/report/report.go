// internal/report/report.go
// Package report renders run aggregates for humans: markdown comparison
// tables, a standalone HTML dashboard, styled terminal output, and raw
// JSON export. All renderers consume the same Comparison document.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/costs"
	"github.com/mwiater/modeleval/internal/summary"
)

// Comparison is the root document every renderer consumes. Families appear
// in canonical order; models appear sorted within each family.
type Comparison struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	RunID       string          `json:"runId,omitempty"`
	Families    []FamilySection `json:"families"`
	Costs       *costs.Export   `json:"costs,omitempty"`
}

// FamilySection is one family's comparison table: models as rows, the
// family's full metric registry as columns.
type FamilySection struct {
	Family  cases.Family      `json:"family"`
	Metrics []string          `json:"metrics"`
	Kinds   map[string]string `json:"kinds"`
	Rows    []ModelRow        `json:"rows"`
}

// ModelRow holds one model's rates for a family. A nil rate means the
// metric was never observed for that model and renders as absent, never
// as zero.
type ModelRow struct {
	Model string              `json:"model"`
	Cases int                 `json:"cases"`
	Rates map[string]*float64 `json:"rates"`
}

// Build assembles a Comparison from a run aggregate. costReport may be nil
// when the caller has no cost data, for example when rendering persisted
// results.
func Build(sum *summary.Summary, costReport *costs.Report, runID string) Comparison {
	comp := Comparison{GeneratedAt: time.Now().UTC(), RunID: runID}
	models := sum.Models()

	for _, family := range sum.FamiliesObserved() {
		section := FamilySection{
			Family:  family,
			Metrics: family.MetricKeys(),
			Kinds:   map[string]string{},
		}
		for _, metric := range section.Metrics {
			if kind, ok := cases.MetricKindOf(family, metric); ok && kind == cases.KindBool {
				section.Kinds[metric] = "bool"
			} else {
				section.Kinds[metric] = "number"
			}
		}

		for _, model := range models {
			row := ModelRow{Model: model, Rates: map[string]*float64{}}
			observed := false
			maxDen := 0.0
			for _, metric := range section.Metrics {
				if rate, ok := sum.Rate(model, family, metric); ok {
					r := rate
					row.Rates[metric] = &r
					observed = true
				}
				if _, den := sum.Counts(model, family, metric); den > maxDen {
					maxDen = den
				}
			}
			if !observed {
				continue
			}
			row.Cases = int(maxDen)
			section.Rows = append(section.Rows, row)
		}

		if len(section.Rows) > 0 {
			comp.Families = append(comp.Families, section)
		}
	}

	if costReport != nil {
		export := costReport.Export()
		comp.Costs = &export
	}
	return comp
}

// FormatRate renders one table cell: percentages for pass/fail metrics,
// plain numbers for averaged quantities, a dash for rates that were never
// observed.
func FormatRate(family cases.Family, metric string, rate *float64) string {
	if rate == nil {
		return "—"
	}
	if kind, ok := cases.MetricKindOf(family, metric); ok && kind == cases.KindBool {
		return fmt.Sprintf("%.1f%%", *rate*100)
	}
	return fmt.Sprintf("%.2f", *rate)
}

// JSON returns the indented serialized comparison.
func (c Comparison) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshaling comparison: %w", err)
	}
	return data, nil
}

// Markdown renders one comparison table per family plus a cost section
// when cost data is attached.
func (c Comparison) Markdown() string {
	var b strings.Builder
	b.WriteString("# Model Comparison\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", c.GeneratedAt.Format(time.RFC3339))
	if c.RunID != "" {
		fmt.Fprintf(&b, "Run: %s\n", c.RunID)
	}

	for _, section := range c.Families {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Family)
		b.WriteString("| Model | Cases |")
		for _, metric := range section.Metrics {
			fmt.Fprintf(&b, " %s |", metric)
		}
		b.WriteString("\n|---|---|")
		for range section.Metrics {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for _, row := range section.Rows {
			fmt.Fprintf(&b, "| %s | %d |", row.Model, row.Cases)
			for _, metric := range section.Metrics {
				fmt.Fprintf(&b, " %s |", FormatRate(section.Family, metric, row.Rates[metric]))
			}
			b.WriteString("\n")
		}
	}

	if c.Costs != nil {
		b.WriteString("\n")
		b.WriteString(costSection(c.Costs))
	}
	return b.String()
}

// costSection renders the attached cost export in the same table style.
func costSection(export *costs.Export) string {
	var b strings.Builder
	b.WriteString("## Costs\n\n")
	fmt.Fprintf(&b, "- **Total Cost:** $%.4f\n", export.Totals.CostUSD)
	fmt.Fprintf(&b, "- **API Calls:** %d\n", export.Totals.Calls)
	fmt.Fprintf(&b, "- **Input Tokens:** %d\n", export.Totals.InputTokens)
	fmt.Fprintf(&b, "- **Output Tokens:** %d\n", export.Totals.OutputTokens)

	models := make([]string, 0, len(export.ByModel))
	for model := range export.ByModel {
		models = append(models, model)
	}
	sort.Strings(models)

	b.WriteString("\n| Model | Calls | Input | Output | Cost |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, model := range models {
		stats := export.ByModel[model]
		fmt.Fprintf(&b, "| %s | %d | %d | %d | $%.4f |\n",
			model, stats.Calls, stats.InputTokens, stats.OutputTokens, stats.CostUSD)
	}
	return b.String()
}

var (
	familyHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	tableHeaderStyle  = lipgloss.NewStyle().Faint(true)
)

// Terminal renders the comparison as aligned, styled text for stdout.
func (c Comparison) Terminal() string {
	var b strings.Builder
	for _, section := range c.Families {
		b.WriteString(familyHeaderStyle.Render(string(section.Family)))
		b.WriteString("\n")

		modelWidth := len("Model")
		for _, row := range section.Rows {
			if w := lipgloss.Width(row.Model); w > modelWidth {
				modelWidth = w
			}
		}
		widths := make([]int, len(section.Metrics))
		for i, metric := range section.Metrics {
			widths[i] = lipgloss.Width(metric)
			if widths[i] < 7 {
				widths[i] = 7
			}
		}

		header := "  " + padRight("Model", modelWidth) + "  " + padLeft("Cases", 5)
		for i, metric := range section.Metrics {
			header += "  " + padLeft(metric, widths[i])
		}
		b.WriteString(tableHeaderStyle.Render(header))
		b.WriteString("\n")

		for _, row := range section.Rows {
			line := "  " + padRight(row.Model, modelWidth) + "  " + padLeft(fmt.Sprintf("%d", row.Cases), 5)
			for i, metric := range section.Metrics {
				line += "  " + padLeft(FormatRate(section.Family, metric, row.Rates[metric]), widths[i])
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if c.Costs != nil {
		b.WriteString(familyHeaderStyle.Render("costs"))
		b.WriteString("\n")
		fmt.Fprintf(&b, "  total $%.4f across %d calls (%d input / %d output tokens)\n",
			c.Costs.Totals.CostUSD, c.Costs.Totals.Calls,
			c.Costs.Totals.InputTokens, c.Costs.Totals.OutputTokens)
	}
	return b.String()
}

// padLeft right-aligns by display width, which keeps multi-byte cells
// such as the absent-rate dash lined up.
func padLeft(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}

func padRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
