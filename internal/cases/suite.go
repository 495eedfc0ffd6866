// internal/cases/suite.go
package cases

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is a named, loadable collection of cases.
type Suite struct {
	Name  string `json:"name" yaml:"name"`
	Cases []Case `json:"cases" yaml:"cases"`
}

// Validate checks the suite as a whole: at least one case, unique ids, and
// every case individually valid.
func (s *Suite) Validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite %q contains no cases", s.Name)
	}
	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("suite %q: %w", s.Name, err)
		}
		if seen[c.ID] {
			return fmt.Errorf("suite %q: duplicate case id %q", s.Name, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ByFamily returns the cases tagged with the given family, in suite order.
func (s *Suite) ByFamily(f Family) []Case {
	var out []Case
	for _, c := range s.Cases {
		if c.Family == f {
			out = append(out, c)
		}
	}
	return out
}

// FamilyCounts tallies cases per family.
func (s *Suite) FamilyCounts() map[Family]int {
	counts := map[Family]int{}
	for _, c := range s.Cases {
		counts[c.Family]++
	}
	return counts
}

// LoadSuite reads and validates a case suite from a YAML or JSON file.
func LoadSuite(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("error reading case suite: %w", err)
	}

	var suite Suite
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &suite); err != nil {
			return Suite{}, fmt.Errorf("error parsing case suite %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, &suite); err != nil {
			return Suite{}, fmt.Errorf("error parsing case suite %s: %w", path, err)
		}
	default:
		return Suite{}, fmt.Errorf("case suite %s: unsupported extension %q", path, ext)
	}

	if suite.Name == "" {
		base := filepath.Base(path)
		suite.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := suite.Validate(); err != nil {
		return Suite{}, err
	}
	return suite, nil
}

// LoadSuites loads every path in order, guarding against case ids that
// collide across files.
func LoadSuites(paths []string) ([]Suite, error) {
	suites := make([]Suite, 0, len(paths))
	seen := map[string]string{}
	for _, path := range paths {
		suite, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}
		for _, c := range suite.Cases {
			if prev, dup := seen[c.ID]; dup {
				return nil, fmt.Errorf("case id %q appears in both %q and %q", c.ID, prev, suite.Name)
			}
			seen[c.ID] = suite.Name
		}
		suites = append(suites, suite)
	}
	return suites, nil
}
