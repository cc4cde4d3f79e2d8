package toml

import "fmt"

const currentPresetsSchemaVersion = 1

type presetsFileSchema struct {
	Version int            `toml:"version"`
	Presets []presetSchema `toml:"presets"`
}

func (s *presetsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentPresetsSchemaVersion
	}
}

func (s presetsFileSchema) validateVersion() error {
	if s.Version > currentPresetsSchemaVersion {
		return fmt.Errorf("unsupported presets schema version %d (current %d)", s.Version, currentPresetsSchemaVersion)
	}

	return nil
}

type presetSchema struct {
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	UpdatedAt   string       `toml:"updated_at"`
	Engine      engineSchema `toml:"engine"`
}

type engineSchema struct {
	TickInterval     string `toml:"tick_interval"`
	TargetPopulation int    `toml:"target_population"`
	BatchSize        int    `toml:"batch_size"`
	AdaptiveBatch    bool   `toml:"adaptive_batch"`

	PagesBase     int    `toml:"pages_base"`
	PagesRange    int    `toml:"pages_range"`
	DwellBase     string `toml:"dwell_base"`
	DwellRange    string `toml:"dwell_range"`
	MaxSessionAge string `toml:"max_session_age"`

	PulseBase   string `toml:"pulse_base"`
	PulseJitter string `toml:"pulse_jitter"`

	ScrollProb        float64 `toml:"scroll_prob"`
	ImpressionProb    float64 `toml:"impression_prob"`
	ConversionProb    float64 `toml:"conversion_prob"`
	NavigateProb      float64 `toml:"navigate_prob"`
	HeartbeatWhenIdle bool    `toml:"heartbeat_when_idle"`

	ArrivalImpression bool    `toml:"arrival_impression"`
	ArrivalEmitRate   float64 `toml:"arrival_emit_rate"`

	ConversionValueMin     float64 `toml:"conversion_value_min"`
	ConversionValueMax     float64 `toml:"conversion_value_max"`
	ImpressionValueDivisor float64 `toml:"impression_value_divisor"`

	RPSDivisor  float64 `toml:"rps_divisor"`
	SampleCap   int     `toml:"sample_cap"`
	LogLineProb float64 `toml:"log_line_prob"`
	Jitter      float64 `toml:"jitter"`

	Paths     []string         `toml:"paths"`
	Referrers []string         `toml:"referrers"`
	Devices   []deviceSchema   `toml:"devices"`
	Locations []locationSchema `toml:"locations"`
}

type deviceSchema struct {
	Class     string `toml:"class"`
	ScreenRes string `toml:"screen_res"`
	Viewport  string `toml:"viewport"`
}

type locationSchema struct {
	Name            string   `toml:"name"`
	Lat             float64  `toml:"lat"`
	Lng             float64  `toml:"lng"`
	ValueRate       float64  `toml:"value_rate"`
	Language        string   `toml:"language"`
	AddressPrefixes []string `toml:"address_prefixes"`
}
