package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	fileanalysis "github.com/bnema/sessionsim/internal/adapters/analysis/file"
	staticanalysis "github.com/bnema/sessionsim/internal/adapters/analysis/static"
	"github.com/bnema/sessionsim/internal/adapters/render/dashboard"
	tomlrepo "github.com/bnema/sessionsim/internal/adapters/repo/toml"
	"github.com/bnema/sessionsim/internal/application"
	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/logging"
	"github.com/bnema/sessionsim/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	presets         *application.PresetService
	analyzer        ports.TargetAnalyzer
	analysisTimeout time.Duration
	logLevel        string
	renderer        func(domain.Snapshot, dashboard.RenderOptions) (string, error)
	clock           ports.Clock
}

func wireApp() (*app, error) {
	cfg := viper.New()
	if err := tomlrepo.LoadConfig(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, err := tomlrepo.NewPresetRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire preset repository: %w", err)
	}

	var analyzer ports.TargetAnalyzer = staticanalysis.New("")
	if path := cfg.GetString(tomlrepo.AnalysisFileKey); path != "" {
		analyzer = fileanalysis.New(path)
	}

	clock := ports.SystemClock{}

	return &app{
		presets:         application.NewPresetService(repo, clock),
		analyzer:        analyzer,
		analysisTimeout: cfg.GetDuration(tomlrepo.AnalysisTimeoutKey),
		logLevel:        cfg.GetString(tomlrepo.LogLevelKey),
		renderer:        dashboard.Render,
		clock:           clock,
	}, nil
}

func (a *app) logger(w io.Writer) *slog.Logger {
	return logging.NewLogger(w, logging.Options{Level: a.logLevel, Prefix: "ssim"})
}
