package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	presetsPathKey  = "presets.path"
	presetsFileName = "presets.toml"
)

type PresetRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.PresetRepository = (*PresetRepository)(nil)

func NewPresetRepository(cfg *viper.Viper) (*PresetRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(presetsPathKey)
	if path == "" {
		if err := LoadConfig(cfg); err != nil {
			return nil, err
		}
		path = cfg.GetString(presetsPathKey)
	}
	if path == "" {
		return nil, errors.New("presets path is empty")
	}

	path, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &PresetRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *PresetRepository) Path() string {
	return r.path
}

func (r *PresetRepository) Save(ctx context.Context, preset domain.Preset) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toPresetSchema(preset)
	updated := false
	for i := range file.Presets {
		if file.Presets[i].Name == encoded.Name {
			file.Presets[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Presets = append(file.Presets, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return writeTOMLFile(r.path, file)
}

func (r *PresetRepository) GetByName(ctx context.Context, name string) (domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preset{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Preset{}, err
	}

	for _, entry := range file.Presets {
		if entry.Name == name {
			return fromPresetSchema(entry)
		}
	}

	return domain.Preset{}, domain.ErrPresetNotFound
}

func (r *PresetRepository) List(ctx context.Context) ([]domain.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	presets := make([]domain.Preset, 0, len(file.Presets))
	for _, entry := range file.Presets {
		preset, err := fromPresetSchema(entry)
		if err != nil {
			return nil, err
		}
		presets = append(presets, preset)
	}

	return presets, nil
}

func (r *PresetRepository) readSchema() (presetsFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return presetsFileSchema{}, nil
		}
		return presetsFileSchema{}, fmt.Errorf("read presets file: %w", err)
	}

	var file presetsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return presetsFileSchema{}, fmt.Errorf("decode presets file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return presetsFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func toPresetSchema(preset domain.Preset) presetSchema {
	cfg := preset.Config

	devices := make([]deviceSchema, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		devices = append(devices, deviceSchema{Class: d.Class, ScreenRes: d.ScreenRes, Viewport: d.Viewport})
	}

	locations := make([]locationSchema, 0, len(cfg.Locations))
	for _, loc := range cfg.Locations {
		locations = append(locations, locationSchema{
			Name:            loc.Name,
			Lat:             loc.Lat,
			Lng:             loc.Lng,
			ValueRate:       loc.ValueRate,
			Language:        loc.Language,
			AddressPrefixes: loc.AddressPrefixes,
		})
	}

	return presetSchema{
		Name:        preset.Name,
		Description: preset.Description,
		UpdatedAt:   formatTime(preset.UpdatedAt),
		Engine: engineSchema{
			TickInterval:           cfg.TickInterval.String(),
			TargetPopulation:       cfg.TargetPopulation,
			BatchSize:              cfg.BatchSize,
			AdaptiveBatch:          cfg.AdaptiveBatch,
			PagesBase:              cfg.PagesBase,
			PagesRange:             cfg.PagesRange,
			DwellBase:              cfg.DwellBase.String(),
			DwellRange:             cfg.DwellRange.String(),
			MaxSessionAge:          cfg.MaxSessionAge.String(),
			PulseBase:              cfg.PulseBase.String(),
			PulseJitter:            cfg.PulseJitter.String(),
			ScrollProb:             cfg.ScrollProb,
			ImpressionProb:         cfg.ImpressionProb,
			ConversionProb:         cfg.ConversionProb,
			NavigateProb:           cfg.NavigateProb,
			HeartbeatWhenIdle:      cfg.HeartbeatWhenIdle,
			ArrivalImpression:      cfg.ArrivalImpression,
			ArrivalEmitRate:        cfg.ArrivalEmitRate,
			ConversionValueMin:     cfg.ConversionValueMin,
			ConversionValueMax:     cfg.ConversionValueMax,
			ImpressionValueDivisor: cfg.ImpressionValueDivisor,
			RPSDivisor:             cfg.RPSDivisor,
			SampleCap:              cfg.SampleCap,
			LogLineProb:            cfg.LogLineProb,
			Jitter:                 cfg.Jitter,
			Paths:                  cfg.Paths,
			Referrers:              cfg.Referrers,
			Devices:                devices,
			Locations:              locations,
		},
	}
}

// fromPresetSchema fills empty durations and tables from the defaults so
// hand-written files can stay short. Numeric fields are taken as written.
func fromPresetSchema(schema presetSchema) (domain.Preset, error) {
	defaults := domain.DefaultEngineConfig()
	e := schema.Engine

	cfg := domain.EngineConfig{
		TargetPopulation:       e.TargetPopulation,
		BatchSize:              e.BatchSize,
		AdaptiveBatch:          e.AdaptiveBatch,
		PagesBase:              e.PagesBase,
		PagesRange:             e.PagesRange,
		ScrollProb:             e.ScrollProb,
		ImpressionProb:         e.ImpressionProb,
		ConversionProb:         e.ConversionProb,
		NavigateProb:           e.NavigateProb,
		HeartbeatWhenIdle:      e.HeartbeatWhenIdle,
		ArrivalImpression:      e.ArrivalImpression,
		ArrivalEmitRate:        e.ArrivalEmitRate,
		ConversionValueMin:     e.ConversionValueMin,
		ConversionValueMax:     e.ConversionValueMax,
		ImpressionValueDivisor: e.ImpressionValueDivisor,
		RPSDivisor:             e.RPSDivisor,
		SampleCap:              e.SampleCap,
		LogLineProb:            e.LogLineProb,
		Jitter:                 e.Jitter,
		Paths:                  e.Paths,
		Referrers:              e.Referrers,
	}

	durations := []struct {
		key      string
		raw      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"tick_interval", e.TickInterval, defaults.TickInterval, &cfg.TickInterval},
		{"dwell_base", e.DwellBase, defaults.DwellBase, &cfg.DwellBase},
		{"dwell_range", e.DwellRange, defaults.DwellRange, &cfg.DwellRange},
		{"max_session_age", e.MaxSessionAge, defaults.MaxSessionAge, &cfg.MaxSessionAge},
		{"pulse_base", e.PulseBase, defaults.PulseBase, &cfg.PulseBase},
		{"pulse_jitter", e.PulseJitter, defaults.PulseJitter, &cfg.PulseJitter},
	}
	for _, d := range durations {
		parsed, err := parseDuration(d.raw, d.fallback)
		if err != nil {
			return domain.Preset{}, fmt.Errorf("preset %s: parse %s: %w", schema.Name, d.key, err)
		}
		*d.dst = parsed
	}

	if len(cfg.Paths) == 0 {
		cfg.Paths = defaults.Paths
	}
	if len(cfg.Referrers) == 0 {
		cfg.Referrers = defaults.Referrers
	}

	if len(e.Devices) == 0 {
		cfg.Devices = defaults.Devices
	} else {
		cfg.Devices = make([]domain.Device, 0, len(e.Devices))
		for _, d := range e.Devices {
			cfg.Devices = append(cfg.Devices, domain.Device{Class: d.Class, ScreenRes: d.ScreenRes, Viewport: d.Viewport})
		}
	}

	if len(e.Locations) == 0 {
		cfg.Locations = defaults.Locations
	} else {
		cfg.Locations = make([]domain.Location, 0, len(e.Locations))
		for _, loc := range e.Locations {
			cfg.Locations = append(cfg.Locations, domain.Location{
				Name:            loc.Name,
				Lat:             loc.Lat,
				Lng:             loc.Lng,
				ValueRate:       loc.ValueRate,
				Language:        loc.Language,
				AddressPrefixes: loc.AddressPrefixes,
			})
		}
	}

	return domain.Preset{
		Name:        schema.Name,
		Description: schema.Description,
		Config:      cfg,
		UpdatedAt:   parseTime(schema.UpdatedAt),
	}, nil
}
