// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Results Dir:     %s\n", cfg.ResultsPath())
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	if len(cfg.Suites) > 0 {
		fmt.Fprintf(out, "  Suites:          %v\n", cfg.Suites)
	} else {
		fmt.Fprintln(out, "  Suites:          (built-in default suite)")
	}
	if len(cfg.RefusalMarkers) > 0 {
		fmt.Fprintf(out, "  Refusal Markers: %v\n", cfg.RefusalMarkers)
	}
	if cfg.Semantic.Enabled {
		fmt.Fprintf(out, "  Semantic Scorer: %s via %s\n", cfg.Semantic.EmbeddingModel(), cfg.Semantic.EmbeddingEndpoint())
	}

	fmt.Fprintf(out, "\nProviders (%d):\n", len(cfg.Providers))
	for _, pc := range cfg.Providers {
		fmt.Fprintf(out, "  %-20s type=%-9s model=%s", pc.Name, pc.Type, pc.ModelName())
		if endpoint := pc.Endpoint(); endpoint != "" {
			fmt.Fprintf(out, " url=%s", endpoint)
		}
		if env := pc.KeyEnvName(); env != "" {
			fmt.Fprintf(out, " key=$%s", env)
		}
		fmt.Fprintln(out)
	}
}
