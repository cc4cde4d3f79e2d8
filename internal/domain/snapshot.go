package domain

import "time"

type NodeStatus string

const (
	NodeActive    NodeStatus = "active"
	NodeConverted NodeStatus = "converted"
)

type NodeView struct {
	ID      SessionID  `json:"id" yaml:"id"`
	Region  string     `json:"region" yaml:"region"`
	Lat     float64    `json:"lat" yaml:"lat"`
	Lng     float64    `json:"lng" yaml:"lng"`
	Address string     `json:"address" yaml:"address"`
	Status  NodeStatus `json:"status" yaml:"status"`
}

type Snapshot struct {
	Generation        uint64     `json:"generation" yaml:"generation"`
	Tick              uint64     `json:"tick" yaml:"tick"`
	At                time.Time  `json:"at" yaml:"at"`
	ActiveCount       int        `json:"active_count" yaml:"active_count"`
	RequestsPerSecond float64    `json:"requests_per_second" yaml:"requests_per_second"`
	TotalRequests     int64      `json:"total_requests" yaml:"total_requests"`
	DroppedEvents     int64      `json:"dropped_events" yaml:"dropped_events"`
	EstimatedValue    float64    `json:"estimated_value" yaml:"estimated_value"`
	SampledNodes      []NodeView `json:"sampled_nodes" yaml:"sampled_nodes"`
	LogLine           string     `json:"log_line,omitempty" yaml:"log_line,omitempty"`
	Log               []string   `json:"log" yaml:"log"`
}

type RunRecord struct {
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	Target     string    `json:"target" yaml:"target"`
	Preset     string    `json:"preset" yaml:"preset"`
	Generation uint64    `json:"generation" yaml:"generation"`
	Requests   int64     `json:"requests" yaml:"requests"`
}
