package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/spf13/cobra"
)

func newPresetCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Inspect and save engine presets",
	}

	cmd.AddCommand(
		newPresetListCmd(app),
		newPresetShowCmd(app),
		newPresetSaveCmd(app),
	)

	return cmd
}

func newPresetListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in and saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets, err := app.presets.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, preset := range presets {
				origin := "saved"
				if preset.Builtin {
					origin = "builtin"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-8s %6d sessions  %s\n",
					preset.Name, origin, preset.Config.TargetPopulation, preset.Description)
			}
			return nil
		},
	}
}

func newPresetShowCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a preset's engine settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output, outputJSON, outputYAML); err != nil {
				return err
			}

			preset, err := app.presets.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeStructured(cmd, output, toPresetView(preset))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format: json or yaml")

	return cmd
}

type presetSaveOptions struct {
	from             string
	description      string
	tickInterval     time.Duration
	targetPopulation int
	batchSize        int
	dwellBase        time.Duration
	dwellRange       time.Duration
	maxSessionAge    time.Duration
	conversionProb   float64
	arrivalEmitRate  float64
	adaptiveBatch    bool
	heartbeat        bool
}

func newPresetSaveCmd(app *app) *cobra.Command {
	opts := presetSaveOptions{}

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a preset derived from another one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := app.presets.Get(cmd.Context(), opts.from)
			if err != nil {
				return err
			}

			preset := domain.Preset{Name: args[0], Description: base.Description, Config: base.Config}
			flags := cmd.Flags()
			if flags.Changed("description") {
				preset.Description = opts.description
			}
			if flags.Changed("tick-interval") {
				preset.Config.TickInterval = opts.tickInterval
			}
			if flags.Changed("target-population") {
				preset.Config.TargetPopulation = opts.targetPopulation
			}
			if flags.Changed("batch-size") {
				preset.Config.BatchSize = opts.batchSize
			}
			if flags.Changed("dwell-base") {
				preset.Config.DwellBase = opts.dwellBase
			}
			if flags.Changed("dwell-range") {
				preset.Config.DwellRange = opts.dwellRange
			}
			if flags.Changed("max-session-age") {
				preset.Config.MaxSessionAge = opts.maxSessionAge
			}
			if flags.Changed("conversion-prob") {
				preset.Config.ConversionProb = opts.conversionProb
			}
			if flags.Changed("arrival-emit-rate") {
				preset.Config.ArrivalEmitRate = opts.arrivalEmitRate
			}
			if flags.Changed("adaptive-batch") {
				preset.Config.AdaptiveBatch = opts.adaptiveBatch
			}
			if flags.Changed("heartbeat") {
				preset.Config.HeartbeatWhenIdle = opts.heartbeat
			}

			if err := app.presets.Save(cmd.Context(), preset); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %s (from %s)\n", preset.Name, base.Name)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.from, "from", domain.DefaultPresetName, "Preset to start from")
	flags.StringVar(&opts.description, "description", "", "Description")
	flags.DurationVar(&opts.tickInterval, "tick-interval", 0, "Tick interval")
	flags.IntVar(&opts.targetPopulation, "target-population", 0, "Target population")
	flags.IntVar(&opts.batchSize, "batch-size", 0, "Sessions admitted per tick")
	flags.DurationVar(&opts.dwellBase, "dwell-base", 0, "Minimum dwell")
	flags.DurationVar(&opts.dwellRange, "dwell-range", 0, "Random dwell added on top of the base")
	flags.DurationVar(&opts.maxSessionAge, "max-session-age", 0, "Absolute session age ceiling (0 disables)")
	flags.Float64Var(&opts.conversionProb, "conversion-prob", 0, "Conversion probability per pulse")
	flags.Float64Var(&opts.arrivalEmitRate, "arrival-emit-rate", 0, "Fraction of arrivals that emit events")
	flags.BoolVar(&opts.adaptiveBatch, "adaptive-batch", false, "Halve the batch after an overrunning tick")
	flags.BoolVar(&opts.heartbeat, "heartbeat", false, "Emit engagement heartbeats on idle pulses")

	return cmd
}

type presetView struct {
	Name              string  `json:"name" yaml:"name"`
	Description       string  `json:"description,omitempty" yaml:"description,omitempty"`
	Builtin           bool    `json:"builtin" yaml:"builtin"`
	TickInterval      string  `json:"tick_interval" yaml:"tick_interval"`
	TargetPopulation  int     `json:"target_population" yaml:"target_population"`
	BatchSize         int     `json:"batch_size" yaml:"batch_size"`
	AdaptiveBatch     bool    `json:"adaptive_batch" yaml:"adaptive_batch"`
	Pages             string  `json:"pages" yaml:"pages"`
	Dwell             string  `json:"dwell" yaml:"dwell"`
	MaxSessionAge     string  `json:"max_session_age" yaml:"max_session_age"`
	Pulse             string  `json:"pulse" yaml:"pulse"`
	ScrollProb        float64 `json:"scroll_prob" yaml:"scroll_prob"`
	ImpressionProb    float64 `json:"impression_prob" yaml:"impression_prob"`
	ConversionProb    float64 `json:"conversion_prob" yaml:"conversion_prob"`
	NavigateProb      float64 `json:"navigate_prob" yaml:"navigate_prob"`
	HeartbeatWhenIdle bool    `json:"heartbeat_when_idle" yaml:"heartbeat_when_idle"`
	ArrivalImpression bool    `json:"arrival_impression" yaml:"arrival_impression"`
	ArrivalEmitRate   float64 `json:"arrival_emit_rate" yaml:"arrival_emit_rate"`
	ConversionValue   string  `json:"conversion_value" yaml:"conversion_value"`
	Regions           int     `json:"regions" yaml:"regions"`
	Paths             int     `json:"paths" yaml:"paths"`
}

func toPresetView(preset domain.Preset) presetView {
	cfg := preset.Config
	return presetView{
		Name:              preset.Name,
		Description:       preset.Description,
		Builtin:           preset.Builtin,
		TickInterval:      cfg.TickInterval.String(),
		TargetPopulation:  cfg.TargetPopulation,
		BatchSize:         cfg.BatchSize,
		AdaptiveBatch:     cfg.AdaptiveBatch,
		Pages:             fmt.Sprintf("%d-%d", cfg.PagesBase, cfg.PagesBase+cfg.PagesRange),
		Dwell:             fmt.Sprintf("%s + up to %s", cfg.DwellBase, cfg.DwellRange),
		MaxSessionAge:     cfg.MaxSessionAge.String(),
		Pulse:             fmt.Sprintf("%s + up to %s", cfg.PulseBase, cfg.PulseJitter),
		ScrollProb:        cfg.ScrollProb,
		ImpressionProb:    cfg.ImpressionProb,
		ConversionProb:    cfg.ConversionProb,
		NavigateProb:      cfg.NavigateProb,
		HeartbeatWhenIdle: cfg.HeartbeatWhenIdle,
		ArrivalImpression: cfg.ArrivalImpression,
		ArrivalEmitRate:   cfg.ArrivalEmitRate,
		ConversionValue:   fmt.Sprintf("%.2f-%.2f", cfg.ConversionValueMin, cfg.ConversionValueMax),
		Regions:           len(cfg.Locations),
		Paths:             len(cfg.Paths),
	}
}
