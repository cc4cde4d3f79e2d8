package domain

import (
	"fmt"
	"strings"
	"time"
)

type Preset struct {
	Name        string
	Description string
	Builtin     bool
	Config      EngineConfig
	UpdatedAt   time.Time
}

func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("preset name is required")
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("preset %s: %w", p.Name, err)
	}
	return nil
}

const DefaultPresetName = "default"

func BuiltinPresets() []Preset {
	small := DefaultEngineConfig()
	small.TargetPopulation = 100
	small.BatchSize = 10
	small.PagesBase = 3
	small.PagesRange = 3
	small.DwellBase = 90 * time.Second
	small.DwellRange = 60 * time.Second
	small.SampleCap = 100

	burst := DefaultEngineConfig()
	burst.TargetPopulation = 10000
	burst.BatchSize = 1000
	burst.AdaptiveBatch = true
	burst.ArrivalEmitRate = 0.1
	burst.ArrivalImpression = false

	longDwell := DefaultEngineConfig()
	longDwell.PagesBase = 6
	longDwell.PagesRange = 4
	longDwell.DwellBase = 5 * time.Minute
	longDwell.DwellRange = 3 * time.Minute
	longDwell.HeartbeatWhenIdle = true

	return []Preset{
		{Name: DefaultPresetName, Description: "balanced population with full arrival events", Builtin: true, Config: DefaultEngineConfig()},
		{Name: "small", Description: "100 sessions, short dwell, quick to inspect", Builtin: true, Config: small},
		{Name: "burst", Description: "large population with sampled arrival events and adaptive batching", Builtin: true, Config: burst},
		{Name: "long-dwell", Description: "deep visits with heartbeats between navigations", Builtin: true, Config: longDwell},
	}
}
