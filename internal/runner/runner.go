// internal/runner/runner.go
// Package runner drives evaluation suites against providers. It renders the
// family prompts, collects completions including the structured-output
// retry, classifies them, and persists every result as it lands.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/modeleval/internal/appconfig"
	"github.com/mwiater/modeleval/internal/cases"
	"github.com/mwiater/modeleval/internal/costs"
	"github.com/mwiater/modeleval/internal/engine"
	"github.com/mwiater/modeleval/internal/logging"
	"github.com/mwiater/modeleval/internal/providers"
	"github.com/mwiater/modeleval/internal/summary"
)

// Runner executes cases against a single provider. The collector and cost
// report are shared aggregation state, so one Runner per provider may run
// concurrently against the same pair.
type Runner struct {
	cfg       *appconfig.Config
	engine    *engine.Engine
	collector *summary.Collector
	costs     *costs.Report
}

// New builds a Runner around shared aggregation state.
func New(cfg *appconfig.Config, eng *engine.Engine, collector *summary.Collector, costReport *costs.Report) *Runner {
	return &Runner{cfg: cfg, engine: eng, collector: collector, costs: costReport}
}

// RunStats reports one provider's pass over its selected cases.
type RunStats struct {
	Provider  string
	Model     string
	Completed int
	Errored   int
	Results   []cases.CaseResult
}

// SelectCases flattens suites into a single run order, keeping only cases
// tagged with one of the given families. An empty family list keeps
// everything.
func SelectCases(suites []cases.Suite, families []cases.Family) []cases.Case {
	keep := func(f cases.Family) bool {
		if len(families) == 0 {
			return true
		}
		for _, want := range families {
			if f == want {
				return true
			}
		}
		return false
	}

	var selected []cases.Case
	for _, suite := range suites {
		for _, c := range suite.Cases {
			if keep(c.Family) {
				selected = append(selected, c)
			}
		}
	}
	return selected
}

// Run executes the selected cases in order against one provider. A failed
// provider call marks the case errored and the pass continues; aggregation
// and persistence failures abort the pass.
func (r *Runner) Run(ctx context.Context, provider providers.Provider, selected []cases.Case) (RunStats, error) {
	stats := RunStats{Provider: provider.Name(), Model: provider.Model()}
	opts := r.completionOptions(provider)

	for i := range selected {
		c := &selected[i]
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		result, err := r.runCase(ctx, provider, c, opts)
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			stats.Errored++
			logging.LogEvent("case %s failed on %s: %v", c.ID, stats.Provider, err)
			continue
		}
		result.Timestamp = time.Now().UTC().Format(time.RFC3339)

		if err := r.collector.Record(result); err != nil {
			return stats, fmt.Errorf("case %s: %w", c.ID, err)
		}
		if err := appendResult(r.cfg.ResultsPath(), stats.Model, result); err != nil {
			return stats, err
		}
		stats.Completed++
		stats.Results = append(stats.Results, result)
	}
	return stats, nil
}

// completionOptions derives per-call options from the provider's
// configuration entry. Temperature stays zero for every family.
func (r *Runner) completionOptions(provider providers.Provider) providers.Options {
	pc, _ := r.cfg.ProviderNamed(provider.Name())
	return providers.Options{MaxTokens: pc.MaxOutputTokens()}
}

func (r *Runner) runCase(ctx context.Context, provider providers.Provider, c *cases.Case, opts providers.Options) (cases.CaseResult, error) {
	switch c.Family {
	case cases.FamilyHallucination:
		return r.runHallucination(ctx, provider, c, opts)
	case cases.FamilyBrittleness:
		return r.runBrittleness(ctx, provider, c, opts)
	case cases.FamilyStructuredOutput:
		return r.runStructured(ctx, provider, c, opts)
	case cases.FamilyToolUse:
		return r.runToolUse(ctx, provider, c, opts)
	default:
		return cases.CaseResult{}, fmt.Errorf("case %q: unknown family %q", c.ID, c.Family)
	}
}

func (r *Runner) runHallucination(ctx context.Context, provider providers.Provider, c *cases.Case, opts providers.Options) (cases.CaseResult, error) {
	comp, err := r.complete(ctx, provider, c, hallucinationMessages(c), opts)
	if err != nil {
		return cases.CaseResult{}, err
	}
	return r.engine.Classify(c, []providers.CompletionResult{comp})
}

func (r *Runner) runBrittleness(ctx context.Context, provider providers.Provider, c *cases.Case, opts providers.Options) (cases.CaseResult, error) {
	comps := make([]providers.CompletionResult, 0, len(c.Prompts))
	for _, prompt := range c.Prompts {
		comp, err := r.complete(ctx, provider, c, variationMessage(prompt), opts)
		if err != nil {
			return cases.CaseResult{}, err
		}
		comps = append(comps, comp)
	}
	return r.engine.Classify(c, comps)
}

// runStructured collects the primary completion and, when it fails schema
// validation, one corrective retry. A retry request that itself errors
// keeps the single-completion classification.
func (r *Runner) runStructured(ctx context.Context, provider providers.Provider, c *cases.Case, opts providers.Options) (cases.CaseResult, error) {
	opts.JSONMode = true
	first, err := r.complete(ctx, provider, c, structuredMessages(c), opts)
	if err != nil {
		return cases.CaseResult{}, err
	}

	result, err := r.engine.Classify(c, []providers.CompletionResult{first})
	if err != nil {
		return cases.CaseResult{}, err
	}
	if valid, ok := result.Bool(cases.MetricSchemaValid); ok && valid {
		return result, nil
	}

	retry, err := r.complete(ctx, provider, c, structuredRetryMessages(c, first.Content), opts)
	if err != nil {
		if ctx.Err() != nil {
			return cases.CaseResult{}, err
		}
		logging.LogEvent("case %s retry failed on %s: %v", c.ID, provider.Name(), err)
		return result, nil
	}
	return r.engine.Classify(c, []providers.CompletionResult{first, retry})
}

func (r *Runner) runToolUse(ctx context.Context, provider providers.Provider, c *cases.Case, opts providers.Options) (cases.CaseResult, error) {
	messages, err := toolMessages(c)
	if err != nil {
		return cases.CaseResult{}, err
	}
	comp, err := r.complete(ctx, provider, c, messages, opts)
	if err != nil {
		return cases.CaseResult{}, err
	}

	call, parseErr := parseToolCall(comp.Content)
	comp.ToolCall = call
	result, err := r.engine.Classify(c, []providers.CompletionResult{comp})
	if err != nil {
		return cases.CaseResult{}, err
	}
	if parseErr != "" && result.Details != nil {
		result.Details.ParseError = parseErr
	}
	return result, nil
}

// complete proxies one provider call and accounts its token cost.
func (r *Runner) complete(ctx context.Context, provider providers.Provider, c *cases.Case, messages []providers.Message, opts providers.Options) (providers.CompletionResult, error) {
	comp, err := provider.Complete(ctx, messages, opts)
	if err != nil {
		return comp, err
	}
	model := comp.Model
	if model == "" {
		model = provider.Model()
	}
	r.costs.Add(costs.NewRecord(model, c.Family, c.ID, comp.InputTokens, comp.OutputTokens, comp.CachedTokens))
	return comp, nil
}
