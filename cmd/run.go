package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/sessionsim/internal/adapters/render/dashboard"
	"github.com/bnema/sessionsim/internal/adapters/sink/jsonl"
	"github.com/bnema/sessionsim/internal/adapters/sink/logsink"
	"github.com/bnema/sessionsim/internal/adapters/sink/multi"
	"github.com/bnema/sessionsim/internal/application"
	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
	"github.com/spf13/cobra"
)

type runOptions struct {
	target     string
	preset     string
	ticks      int
	duration   time.Duration
	seed       uint64
	eventsFile string
	logEvents  bool
	live       bool
	output     string
}

func newRunCmd(app *app) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session population simulation",
		Long: "Run a simulation against a target.\n\n" +
			"--ticks runs offline on a simulated clock and is reproducible with --seed.\n" +
			"--duration and --live tick in real time at the preset's tick interval.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, app, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.target, "target", "", "Target URL (http or https)")
	flags.StringVar(&opts.preset, "preset", domain.DefaultPresetName, "Preset name")
	flags.IntVar(&opts.ticks, "ticks", 0, "Run this many ticks on a simulated clock")
	flags.DurationVar(&opts.duration, "duration", 0, "Run in real time for this long")
	flags.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	flags.StringVar(&opts.eventsFile, "events-file", "", "Append delivered events to this JSON lines file")
	flags.BoolVar(&opts.logEvents, "log-events", false, "Log every delivered event at info level")
	flags.BoolVar(&opts.live, "live", false, "Show a live dashboard until q is pressed")
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")

	_ = cmd.MarkFlagRequired("target")
	cmd.MarkFlagsMutuallyExclusive("ticks", "duration")
	cmd.MarkFlagsMutuallyExclusive("ticks", "live")

	return cmd
}

func runSimulation(cmd *cobra.Command, app *app, opts runOptions) error {
	if err := validateOutput(opts.output, outputText, outputJSON, outputYAML); err != nil {
		return err
	}
	if opts.ticks <= 0 && opts.duration <= 0 && !opts.live {
		return errors.New("one of --ticks, --duration or --live is required")
	}

	preset, err := app.presets.Get(cmd.Context(), opts.preset)
	if err != nil {
		return err
	}

	logger := app.logger(cmd.ErrOrStderr())
	sink, closeSink, err := buildSink(logger, opts)
	if err != nil {
		return err
	}
	defer closeSink()

	controller, err := application.NewController(application.ControllerOptions{
		Analyzer:        app.analyzer,
		Sink:            sink,
		Clock:           app.clock,
		Logger:          logger,
		AnalysisTimeout: app.analysisTimeout,
		Seed:            opts.seed,
	})
	if err != nil {
		return err
	}

	report := runReport{Target: opts.target, Preset: preset.Name}

	if opts.ticks > 0 {
		result, err := controller.RunFor(cmd.Context(), opts.target, preset, opts.ticks)
		if err != nil {
			return err
		}
		report.Ticks = result.Ticks
		report.Admitted = result.Admitted
		report.Retired = result.Retired
		report.Isolated = result.Isolated
		report.Analysis = result.Analysis
		report.Snapshot = result.Snapshot
		return writeRunReport(cmd, app, report, opts.output, preset.Config.TargetPopulation)
	}

	ctx := cmd.Context()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	snapshots, unsubscribe := controller.Subscribe()
	defer unsubscribe()

	if err := controller.Start(ctx, opts.target, preset); err != nil {
		return err
	}
	analysis, err := controller.Analysis()
	if err != nil {
		return err
	}
	report.Analysis = analysis

	if opts.live {
		_, err = dashboard.RunLive(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), snapshots, dashboard.RenderOptions{
			Target:           opts.target,
			Preset:           preset.Name,
			Analysis:         analysis,
			TargetPopulation: preset.Config.TargetPopulation,
			MaxRegions:       8,
		})
	} else {
		<-ctx.Done()
	}

	snapshot, snapErr := controller.Snapshot()
	if stopErr := controller.Stop(); stopErr != nil {
		return errors.Join(err, stopErr)
	}
	if err != nil {
		return fmt.Errorf("live dashboard: %w", err)
	}
	if snapErr != nil {
		return snapErr
	}

	if opts.live && opts.output == outputText {
		return nil
	}

	report.Snapshot = snapshot
	return writeRunReport(cmd, app, report, opts.output, preset.Config.TargetPopulation)
}

// buildSink always logs events; with --log-events they are raised from trace
// to info so they show at the default level.
func buildSink(logger *slog.Logger, opts runOptions) (ports.EventSink, func(), error) {
	var level *slog.Level
	if opts.logEvents {
		info := slog.LevelInfo
		level = &info
	}
	sinks := []ports.EventSink{logsink.New(logger, level)}

	closeSink := func() {}
	if opts.eventsFile != "" {
		file, err := jsonl.Open(opts.eventsFile)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, file)
		closeSink = func() {
			if err := file.Close(); err != nil {
				logger.Warn("close events file", "path", opts.eventsFile, "error", err)
			}
		}
	}

	return multi.New(sinks...), closeSink, nil
}
