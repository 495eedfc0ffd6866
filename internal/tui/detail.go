// internal/tui/detail.go

package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/util"
)

var (
	detailLabelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	detailFaintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	detailPassStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	detailFailStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	detailSectionStyle = lipgloss.NewStyle().Bold(true)
)

// verdict condenses a case result into a short status phrase for list rows.
func verdict(r cases.CaseResult) string {
	switch r.Family {
	case cases.FamilyHallucination:
		if safe, ok := r.Bool(cases.MetricSafe); ok {
			if safe {
				return "safe"
			}
			return "unsafe"
		}
	case cases.FamilyBrittleness:
		if rate, ok := r.Number(cases.MetricConsistencyRate); ok {
			return fmt.Sprintf("consistency %.2f", rate)
		}
	case cases.FamilyStructuredOutput:
		if valid, ok := r.Bool(cases.MetricSchemaValid); ok && valid {
			return "schema ok"
		}
		if recovered, ok := r.Bool(cases.MetricRetrySuccess); ok && recovered {
			return "recovered on retry"
		}
		return "schema violations"
	case cases.FamilyToolUse:
		if both, ok := r.Bool(cases.MetricBothCorrect); ok {
			if both {
				return "correct call"
			}
			return "wrong call"
		}
	}
	return "no metrics"
}

// formatMetricValue renders one metric for the detail view. Per-case boolean
// metrics are stored as 0/1, so they read better as yes/no.
func formatMetricValue(family cases.Family, name string, v float64) string {
	if kind, ok := cases.MetricKindOf(family, name); ok && kind == cases.KindBool {
		if v != 0 {
			return detailPassStyle.Render("yes")
		}
		return detailFailStyle.Render("no")
	}
	return fmt.Sprintf("%.2f", v)
}

// renderDetail renders one case result for the viewport, wrapped to width.
func renderDetail(r cases.CaseResult, width int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", detailLabelStyle.Render("Case:"), r.CaseID)
	fmt.Fprintf(&b, "%s %s\n", detailLabelStyle.Render("Family:"), r.Family)
	fmt.Fprintf(&b, "%s %s\n", detailLabelStyle.Render("Model:"), r.Model)
	if r.Timestamp != "" {
		fmt.Fprintf(&b, "%s %s\n", detailLabelStyle.Render("Recorded:"), r.Timestamp)
	}

	b.WriteString("\n" + detailSectionStyle.Render("Metrics") + "\n")
	for _, name := range r.Family.MetricKeys() {
		value, ok := r.Metrics[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-22s %s\n", name, formatMetricValue(r.Family, name, value))
	}

	if r.Details == nil {
		return b.String()
	}
	d := r.Details

	if len(d.Responses) > 0 {
		b.WriteString("\n" + detailSectionStyle.Render("Responses") + "\n")
		for i, response := range d.Responses {
			fmt.Fprintf(&b, "  %s\n", detailFaintStyle.Render(fmt.Sprintf("[%d]", i+1)))
			for _, line := range strings.Split(util.WrapToWidth(response, width-4), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}

	if d.ParseError != "" {
		b.WriteString("\n" + detailSectionStyle.Render("Parse Error") + "\n")
		fmt.Fprintf(&b, "  %s\n", detailFailStyle.Render(d.ParseError))
	}

	if len(d.Violations) > 0 {
		b.WriteString("\n" + detailSectionStyle.Render("Schema Violations") + "\n")
		for _, v := range d.Violations {
			fmt.Fprintf(&b, "  %s\n", formatViolation(v.Path, string(v.Kind), v.Expected, v.Actual))
		}
	}
	if len(d.RetryViolations) > 0 {
		b.WriteString("\n" + detailSectionStyle.Render("Retry Violations") + "\n")
		for _, v := range d.RetryViolations {
			fmt.Fprintf(&b, "  %s\n", formatViolation(v.Path, string(v.Kind), v.Expected, v.Actual))
		}
	}

	if len(d.AnswerClusters) > 0 {
		b.WriteString("\n" + detailSectionStyle.Render("Answer Clusters") + "\n")
		for _, cluster := range sortedClusters(d.AnswerClusters) {
			answer := util.TruncateRunes(cluster.answer, 60)
			fmt.Fprintf(&b, "  %dx %s\n", cluster.count, answer)
		}
	}

	if d.SelectedTool != "" {
		b.WriteString("\n" + detailSectionStyle.Render("Tool Call") + "\n")
		fmt.Fprintf(&b, "  %-12s %s\n", "tool", d.SelectedTool)
		keys := make([]string, 0, len(d.SuppliedArgs))
		for key := range d.SuppliedArgs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "  %-12s %v\n", key, d.SuppliedArgs[key])
		}
	}

	return b.String()
}

// formatViolation renders one schema violation line.
func formatViolation(path, kind, expected, actual string) string {
	line := fmt.Sprintf("%s (%s)", path, kind)
	if expected != "" {
		line += fmt.Sprintf(": expected %s", expected)
		if actual != "" {
			line += fmt.Sprintf(", got %s", actual)
		}
	}
	return line
}

// answerCluster pairs a normalized answer with how often it appeared.
type answerCluster struct {
	answer string
	count  int
}

// sortedClusters orders clusters by descending count, ties by answer.
func sortedClusters(clusters map[string]int) []answerCluster {
	out := make([]answerCluster, 0, len(clusters))
	for answer, count := range clusters {
		out = append(out, answerCluster{answer: answer, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].answer < out[j].answer
	})
	return out
}
