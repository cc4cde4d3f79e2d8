package domain

import (
	"fmt"
	"strings"
	"time"
)

// EngineConfig parameterizes one simulation run. Probabilities are compared
// against independent uniform draws in [0, 1).
type EngineConfig struct {
	TickInterval     time.Duration
	TargetPopulation int
	BatchSize        int
	AdaptiveBatch    bool

	PagesBase     int
	PagesRange    int
	DwellBase     time.Duration
	DwellRange    time.Duration
	MaxSessionAge time.Duration

	PulseBase   time.Duration
	PulseJitter time.Duration

	ScrollProb        float64
	ImpressionProb    float64
	ConversionProb    float64
	NavigateProb      float64
	HeartbeatWhenIdle bool

	ArrivalImpression bool
	ArrivalEmitRate   float64

	ConversionValueMin     float64
	ConversionValueMax     float64
	ImpressionValueDivisor float64

	RPSDivisor  float64
	SampleCap   int
	LogLineProb float64
	Jitter      float64

	Paths     []string
	Referrers []string
	Devices   []Device
	Locations []Location
}

func (c EngineConfig) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.TickInterval <= 0 {
		add("tick interval must be positive")
	}
	if c.TargetPopulation < 0 {
		add("target population must not be negative")
	}
	if c.BatchSize < 1 {
		add("batch size must be at least 1")
	}
	if c.PagesBase < 1 {
		add("pages base must be at least 1")
	}
	if c.PagesRange < 0 {
		add("pages range must not be negative")
	}
	if c.DwellBase <= 0 {
		add("dwell base must be positive")
	}
	if c.DwellRange < 0 {
		add("dwell range must not be negative")
	}
	if c.MaxSessionAge < 0 {
		add("max session age must not be negative")
	}
	if c.PulseBase < 0 || c.PulseJitter < 0 {
		add("pulse base and jitter must not be negative")
	}
	for name, p := range map[string]float64{
		"scroll":       c.ScrollProb,
		"impression":   c.ImpressionProb,
		"conversion":   c.ConversionProb,
		"navigate":     c.NavigateProb,
		"arrival emit": c.ArrivalEmitRate,
		"log line":     c.LogLineProb,
	} {
		if p < 0 || p > 1 {
			add("%s probability %.3f outside [0, 1]", name, p)
		}
	}
	if c.ConversionValueMin < 0 || c.ConversionValueMax < c.ConversionValueMin {
		add("conversion value range [%.2f, %.2f] is invalid", c.ConversionValueMin, c.ConversionValueMax)
	}
	if c.ImpressionValueDivisor <= 0 {
		add("impression value divisor must be positive")
	}
	if c.RPSDivisor <= 0 {
		add("rps divisor must be positive")
	}
	if c.SampleCap < 0 {
		add("sample cap must not be negative")
	}
	if c.Jitter < 0 {
		add("jitter must not be negative")
	}
	if len(c.Paths) == 0 {
		add("at least one path is required")
	}
	if len(c.Referrers) == 0 {
		add("at least one referrer is required")
	}
	if len(c.Devices) == 0 {
		add("at least one device is required")
	}
	if len(c.Locations) == 0 {
		add("at least one location is required")
	}
	for _, loc := range c.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			add("location name is required")
		}
		if len(loc.AddressPrefixes) == 0 {
			add("location %q has no address prefixes", loc.Name)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// DefaultLocations uses the RFC 5737 documentation blocks as address
// prefixes; addresses are display labels only.
func DefaultLocations() []Location {
	return []Location{
		{Name: "United States", Lat: 37, Lng: -95, ValueRate: 112.40, Language: "en-US", AddressPrefixes: []string{"192.0.2.", "198.51.100."}},
		{Name: "United Kingdom", Lat: 55, Lng: -3, ValueRate: 88.20, Language: "en-GB", AddressPrefixes: []string{"198.51.100.", "203.0.113."}},
		{Name: "Germany", Lat: 51, Lng: 10, ValueRate: 75.60, Language: "de-DE", AddressPrefixes: []string{"203.0.113."}},
		{Name: "Canada", Lat: 56, Lng: -106, ValueRate: 74.30, Language: "en-CA", AddressPrefixes: []string{"192.0.2."}},
	}
}

func DefaultDevices() []Device {
	return []Device{
		{Class: "desktop", ScreenRes: "1920x1080", Viewport: "1920x937"},
		{Class: "laptop", ScreenRes: "1366x768", Viewport: "1366x657"},
		{Class: "mobile", ScreenRes: "390x844", Viewport: "390x664"},
		{Class: "tablet", ScreenRes: "820x1180", Viewport: "820x1000"},
	}
}

func DefaultPaths() []string {
	return []string{"/", "/news", "/services", "/notifications", "/downloads", "/contact-us", "/about"}
}

func DefaultReferrers() []string {
	return []string{
		"https://search.example/?q=public+services",
		"https://search.example/?q=latest+notifications",
		"https://news.example/articles",
		"https://social.example/feed",
		"",
	}
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickInterval:           time.Second,
		TargetPopulation:       2000,
		BatchSize:              100,
		PagesBase:              4,
		PagesRange:             5,
		DwellBase:              3 * time.Minute,
		DwellRange:             5 * time.Minute,
		MaxSessionAge:          30 * time.Minute,
		PulseBase:              4 * time.Second,
		PulseJitter:            8 * time.Second,
		ScrollProb:             0.95,
		ImpressionProb:         0.8,
		ConversionProb:         0.018,
		NavigateProb:           0.09,
		HeartbeatWhenIdle:      false,
		ArrivalImpression:      true,
		ArrivalEmitRate:        1,
		ConversionValueMin:     2.45,
		ConversionValueMax:     6.55,
		ImpressionValueDivisor: 400,
		RPSDivisor:             2.8,
		SampleCap:              220,
		LogLineProb:            0.8,
		Jitter:                 0.75,
		Paths:                  DefaultPaths(),
		Referrers:              DefaultReferrers(),
		Devices:                DefaultDevices(),
		Locations:              DefaultLocations(),
	}
}
