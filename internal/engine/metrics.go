package engine

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
)

// RunMetrics holds the additive counters of one run. Create a fresh instance
// per run; events stamped with another generation are ignored.
type RunMetrics struct {
	generation uint64
	requests   atomic.Int64
	dropped    atomic.Int64
	stale      atomic.Int64
	valueBits  atomic.Uint64
}

func NewRunMetrics(generation uint64) *RunMetrics {
	return &RunMetrics{generation: generation}
}

func (m *RunMetrics) Generation() uint64 {
	return m.generation
}

// Record accounts for a delivered event and reports whether it was counted.
func (m *RunMetrics) Record(event domain.Event) bool {
	if event.Generation != m.generation {
		m.stale.Add(1)
		return false
	}

	m.requests.Add(1)
	if event.Value != 0 {
		m.addValue(event.Value)
	}
	return true
}

func (m *RunMetrics) RecordDropped() {
	m.dropped.Add(1)
}

func (m *RunMetrics) addValue(delta float64) {
	for {
		old := m.valueBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if m.valueBits.CompareAndSwap(old, next) {
			return
		}
	}
}

func (m *RunMetrics) Requests() int64 {
	return m.requests.Load()
}

func (m *RunMetrics) Dropped() int64 {
	return m.dropped.Load()
}

func (m *RunMetrics) staleCount() int64 {
	return m.stale.Load()
}

func (m *RunMetrics) Value() float64 {
	return math.Float64frombits(m.valueBits.Load())
}

const logRingSize = 10

// Aggregator projects the store and run counters into display snapshots.
// Publish runs on the scheduler goroutine; Snapshot may be called from any
// goroutine and always returns the last published value.
type Aggregator struct {
	cfg domain.EngineConfig
	rnd *Random

	mu   sync.RWMutex
	last domain.Snapshot
	log  []string
	tick uint64
}

func NewAggregator(cfg domain.EngineConfig, rnd *Random) *Aggregator {
	return &Aggregator{cfg: cfg, rnd: rnd}
}

func (a *Aggregator) Publish(now time.Time, store *Store, metrics *RunMetrics) domain.Snapshot {
	active := store.Len()
	sample := store.Sample(a.cfg.SampleCap, a.rnd)

	nodes := make([]domain.NodeView, 0, len(sample))
	for _, s := range sample {
		nodes = append(nodes, nodeView(s))
	}

	var line string
	if len(sample) > 0 && a.rnd.Float64() < a.cfg.LogLineProb {
		line = logLine(Pick(a.rnd, sample))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.tick++
	if line != "" {
		a.log = append([]string{line}, a.log...)
		if len(a.log) > logRingSize {
			a.log = a.log[:logRingSize]
		}
	}

	a.last = domain.Snapshot{
		Generation:        metrics.Generation(),
		Tick:              a.tick,
		At:                now,
		ActiveCount:       active,
		RequestsPerSecond: math.Floor(float64(active) / a.cfg.RPSDivisor),
		TotalRequests:     metrics.Requests(),
		DroppedEvents:     metrics.Dropped(),
		EstimatedValue:    metrics.Value(),
		SampledNodes:      nodes,
		LogLine:           line,
		Log:               append([]string(nil), a.log...),
	}

	return copySnapshot(a.last)
}

func (a *Aggregator) Snapshot() domain.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return copySnapshot(a.last)
}

func copySnapshot(s domain.Snapshot) domain.Snapshot {
	s.SampledNodes = append([]domain.NodeView(nil), s.SampledNodes...)
	s.Log = append([]string(nil), s.Log...)
	return s
}

func nodeView(s domain.Session) domain.NodeView {
	status := domain.NodeActive
	if s.Converted {
		status = domain.NodeConverted
	}

	return domain.NodeView{
		ID:      s.ID,
		Region:  s.Region,
		Lat:     s.Lat,
		Lng:     s.Lng,
		Address: s.Address,
		Status:  status,
	}
}

func logLine(s domain.Session) string {
	converted := "no"
	if s.Converted {
		converted = "yes"
	}

	return fmt.Sprintf("%s | %s | %s | pages %d/%d | engaged %s | converted %s",
		s.Region, s.Device, s.CurrentPath, s.PagesVisited, s.TargetPages,
		s.TotalEngagement.Round(time.Second), converted)
}
