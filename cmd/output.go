package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/sessionsim/internal/adapters/render/dashboard"
	"github.com/bnema/sessionsim/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type runReport struct {
	Target   string                `json:"target" yaml:"target"`
	Preset   string                `json:"preset" yaml:"preset"`
	Ticks    int                   `json:"ticks,omitempty" yaml:"ticks,omitempty"`
	Admitted int                   `json:"admitted,omitempty" yaml:"admitted,omitempty"`
	Retired  int                   `json:"retired,omitempty" yaml:"retired,omitempty"`
	Isolated int                   `json:"isolated,omitempty" yaml:"isolated,omitempty"`
	Analysis domain.TargetAnalysis `json:"analysis" yaml:"analysis"`
	Snapshot domain.Snapshot       `json:"snapshot" yaml:"snapshot"`
}

func validateOutput(format string, allowed ...string) error {
	for _, candidate := range allowed {
		if format == candidate {
			return nil
		}
	}
	return fmt.Errorf("unsupported output %q (want one of %s)", format, strings.Join(allowed, ", "))
}

func writeStructured(cmd *cobra.Command, format string, value any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case outputYAML:
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured output %q", format)
	}
}

func writeRunReport(cmd *cobra.Command, app *app, report runReport, format string, targetPopulation int) error {
	if format != outputText {
		return writeStructured(cmd, format, report)
	}

	rendered, err := app.renderer(report.Snapshot, dashboard.RenderOptions{
		Target:           report.Target,
		Preset:           report.Preset,
		Analysis:         report.Analysis,
		TargetPopulation: targetPopulation,
		MaxRegions:       8,
	})
	if err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
		return err
	}
	if report.Ticks > 0 {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nran %d ticks: admitted %d, retired %d, isolated %d\n",
			report.Ticks, report.Admitted, report.Retired, report.Isolated)
	}
	return err
}
