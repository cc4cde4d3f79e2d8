package domain

import "time"

// TargetAnalysis is descriptive metadata about the simulated target. It only
// feeds display fields and event titles.
type TargetAnalysis struct {
	Title            string        `json:"title" yaml:"title" toml:"title"`
	ServerInfo       string        `json:"server_info" yaml:"server_info" toml:"server_info"`
	Technologies     []string      `json:"technologies" yaml:"technologies" toml:"technologies"`
	Score            int           `json:"score" yaml:"score" toml:"score"`
	Summary          string        `json:"summary" yaml:"summary" toml:"summary"`
	TrackingID       string        `json:"tracking_id,omitempty" yaml:"tracking_id,omitempty" toml:"tracking_id"`
	ExpectedLoadTime time.Duration `json:"expected_load_time" yaml:"expected_load_time" toml:"-"`
	Fallback         bool          `json:"fallback,omitempty" yaml:"fallback,omitempty" toml:"-"`
}

const DefaultTrackingID = "SIM-0000000000"

func FallbackAnalysis() TargetAnalysis {
	return TargetAnalysis{
		Title:            "Simulation Target",
		ServerInfo:       "unknown",
		Technologies:     []string{},
		Score:            0,
		Summary:          "Target analysis unavailable; using defaults.",
		TrackingID:       DefaultTrackingID,
		ExpectedLoadTime: 500 * time.Millisecond,
		Fallback:         true,
	}
}
