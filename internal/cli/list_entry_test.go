// internal/cli/list_entry_test.go
package modeleval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/modeleval/internal/appconfig"
)

func TestRunListCasesDefaultSuite(t *testing.T) {
	currentConfig = &appconfig.Config{}
	defer func() { currentConfig = nil }()

	cmd, b := newTestCommand()
	if err := runListCases(cmd, nil); err != nil {
		t.Fatalf("runListCases error: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "default (") {
		t.Fatalf("expected the default suite header, got:\n%s", out)
	}
	for _, want := range []string{"hallucination", "brittleness", "structured-output", "tool-use", "capital-of-france"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in listing, got:\n%s", want, out)
		}
	}
}

func TestRunListCasesSuiteOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mini.yaml")
	suiteYAML := `name: mini
cases:
  - id: founding-year
    family: hallucination
    prompts: ["What year was the company founded?"]
    hallucination:
      context: "Acme was founded in 2019."
      ground_truth: "2019"
      answer_in_context: true
`
	if err := os.WriteFile(path, []byte(suiteYAML), 0o644); err != nil {
		t.Fatalf("write suite: %v", err)
	}

	currentConfig = &appconfig.Config{}
	defer func() { currentConfig = nil }()

	cmd, b := newTestCommand()
	if err := runListCases(cmd, []string{path}); err != nil {
		t.Fatalf("runListCases error: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "mini (1 cases)") {
		t.Fatalf("expected override suite header, got:\n%s", out)
	}
	if !strings.Contains(out, "founding-year") {
		t.Fatalf("expected case id, got:\n%s", out)
	}
	if strings.Contains(out, "capital-of-france") {
		t.Fatalf("expected the default suite to be skipped, got:\n%s", out)
	}
}
