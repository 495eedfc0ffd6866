// internal/runner/results.go
package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/util"
)

// ResultsFile returns the JSONL path results for the given model append to.
func ResultsFile(resultsDir, model string) string {
	return filepath.Join(resultsDir, fmt.Sprintf("%s.jsonl", util.Slugify(model)))
}

// appendResult appends one result to the model's JSONL file, creating the
// results directory on first write.
func appendResult(resultsDir, model string, result cases.CaseResult) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("error creating results directory: %w", err)
	}

	file, err := os.OpenFile(ResultsFile(resultsDir, model), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(result); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}

// LoadResults reads every JSONL results file under dir and groups the
// records by the model recorded in each line. Models come back in sorted
// order so reports render deterministically.
func LoadResults(dir string) (map[string][]cases.CaseResult, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading results directory: %w", err)
	}

	byModel := map[string][]cases.CaseResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := loadResultsFile(path, byModel); err != nil {
			return nil, nil, err
		}
	}

	models := make([]string, 0, len(byModel))
	for model := range byModel {
		models = append(models, model)
	}
	sort.Strings(models)
	return byModel, models, nil
}

func loadResultsFile(path string, byModel map[string][]cases.CaseResult) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	// Detail payloads can push a line past the default scanner limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var result cases.CaseResult
		if err := json.Unmarshal([]byte(text), &result); err != nil {
			return fmt.Errorf("error parsing %s line %d: %w", path, line, err)
		}
		byModel[result.Model] = append(byModel[result.Model], result)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}
