// internal/cli/list_entry.go
package modeleval

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mwiater/modeleval/internal/cases"
)

var (
	suiteTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	caseFamilyStyle = lipgloss.NewStyle().Faint(true)
)

// runListCases prints every loaded suite with its family counts and case
// IDs in a two-column layout.
func runListCases(cmd *cobra.Command, suitePaths []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("configuration is not loaded")
	}

	suites, err := loadConfiguredSuites(cfg, suitePaths)
	if err != nil {
		return err
	}

	for _, suite := range suites {
		cmd.Println(suiteTitleStyle.Render(fmt.Sprintf("%s (%d cases)", suite.Name, len(suite.Cases))))

		counts := suite.FamilyCounts()
		for _, family := range cases.Families() {
			if counts[family] == 0 {
				continue
			}
			cmd.Printf("  %-20s %d\n", family, counts[family])
		}
		cmd.Println()

		maxIDLength := 0
		for _, c := range suite.Cases {
			if len(c.ID) > maxIDLength {
				maxIDLength = len(c.ID)
			}
		}
		for _, c := range suite.Cases {
			padding := strings.Repeat(" ", maxIDLength-len(c.ID)+2)
			cmd.Printf("  %s%s%s\n", c.ID, padding, caseFamilyStyle.Render(string(c.Family)))
		}
		cmd.Println()
	}

	return nil
}
