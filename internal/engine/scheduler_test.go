package engine

import (
	"testing"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFillsPopulationInBatches(t *testing.T) {
	sched, emitter := newTestScheduler(t, testConfig(), 1)

	for i := 1; i <= 10; i++ {
		report := sched.Tick(t0.Add(time.Duration(i) * time.Second))
		assert.Equal(t, 10, report.Admitted)
		assert.Zero(t, report.Retired)
		assert.Equal(t, i*10, sched.Store().Len())
	}

	report := sched.Tick(t0.Add(11 * time.Second))
	assert.Zero(t, report.Admitted)
	assert.Equal(t, 100, sched.Store().Len())

	arrivals := 0
	for _, event := range emitter.events {
		if event.Name == domain.EventPageView && event.Params["first_visit"] == "1" {
			arrivals++
		}
	}
	assert.Equal(t, 100, arrivals)
}

func TestSchedulerNeverOvershootsByMoreThanOneBatch(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 95
	cfg.BatchSize = 10
	cfg.DwellBase = 20 * time.Second
	cfg.DwellRange = 40 * time.Second
	sched, _ := newTestScheduler(t, cfg, 5)

	for i := 1; i <= 300; i++ {
		sched.Tick(t0.Add(time.Duration(i) * time.Second))
		require.LessOrEqual(t, sched.Store().Len(), cfg.TargetPopulation+cfg.BatchSize-1, "tick %d", i)
	}
}

func TestSchedulerRetiresAfterMinDwell(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	sched, emitter := newTestScheduler(t, cfg, 1)

	session := fixedSession("s-1", t0)
	session.MinDwell = 5000 * time.Millisecond
	require.NoError(t, sched.Store().Insert(session))

	report := sched.Tick(t0.Add(5000 * time.Millisecond))
	assert.Zero(t, report.Retired)
	assert.Equal(t, 1, sched.Store().Len())

	retiredAt := t0.Add(5001 * time.Millisecond)
	report = sched.Tick(retiredAt)
	assert.Equal(t, 1, report.Retired)
	assert.Zero(t, sched.Store().Len())

	terminal := 0
	for _, event := range emitter.forSession("s-1") {
		if event.Name == domain.EventUserEngagement {
			terminal++
			assert.True(t, event.Terminal)
			assert.Equal(t, retiredAt, event.At)
		}
	}
	assert.Equal(t, 1, terminal)

	before := len(emitter.forSession("s-1"))
	sched.Tick(retiredAt.Add(time.Minute))
	assert.Len(t, emitter.forSession("s-1"), before)
}

func TestSchedulerRetiresAtSafetyCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.MaxSessionAge = 10 * time.Second
	sched, emitter := newTestScheduler(t, cfg, 1)

	require.NoError(t, sched.Store().Insert(fixedSession("s-1", t0)))

	report := sched.Tick(t0.Add(11 * time.Second))
	assert.Equal(t, 1, report.Retired)
	events := emitter.forSession("s-1")
	require.NotEmpty(t, events)
	assert.True(t, events[len(events)-1].Terminal)
}

func TestSchedulerCapsNavigationAtTargetPages(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.PulseBase = 0
	cfg.PulseJitter = 0
	cfg.NavigateProb = 1
	sched, emitter := newTestScheduler(t, cfg, 1)

	session := fixedSession("s-1", t0)
	session.TargetPages = 3
	require.NoError(t, sched.Store().Insert(session))

	for i := 1; i <= 5; i++ {
		assert.Equal(t, 1, sched.Pulse(t0.Add(time.Duration(i)*time.Second)))
		stored, ok := sched.Store().Get("s-1")
		require.True(t, ok)
		assert.LessOrEqual(t, stored.PagesVisited, stored.TargetPages)
	}

	stored, _ := sched.Store().Get("s-1")
	assert.Equal(t, 3, stored.PagesVisited)

	pageViews := 0
	for _, event := range emitter.forSession("s-1") {
		if event.Name == domain.EventPageView {
			pageViews++
		}
	}
	assert.Equal(t, 2, pageViews)
}

func TestSchedulerPulseAccumulatesEngagement(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.PulseBase = 4 * time.Second
	cfg.PulseJitter = 0
	sched, _ := newTestScheduler(t, cfg, 1)

	require.NoError(t, sched.Store().Insert(fixedSession("s-1", t0)))

	assert.Zero(t, sched.Pulse(t0.Add(3*time.Second)))
	assert.Equal(t, 1, sched.Pulse(t0.Add(5*time.Second)))

	stored, _ := sched.Store().Get("s-1")
	assert.Equal(t, 5*time.Second, stored.TotalEngagement)
	assert.Equal(t, t0.Add(5*time.Second), stored.LastActivityAt)
	assert.Equal(t, 1, stored.Hits)

	assert.Zero(t, sched.Pulse(t0.Add(8*time.Second)))
	assert.Equal(t, 1, sched.Pulse(t0.Add(10*time.Second)))
	stored, _ = sched.Store().Get("s-1")
	assert.Equal(t, 10*time.Second, stored.TotalEngagement)
}

func TestSchedulerHeartbeatWhenNoNavigation(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.PulseBase = 0
	cfg.PulseJitter = 0
	cfg.NavigateProb = 0
	cfg.ScrollProb = 0
	cfg.ImpressionProb = 0
	cfg.ConversionProb = 0
	cfg.HeartbeatWhenIdle = true
	sched, emitter := newTestScheduler(t, cfg, 1)

	require.NoError(t, sched.Store().Insert(fixedSession("s-1", t0)))
	sched.Pulse(t0.Add(time.Second))

	events := emitter.forSession("s-1")
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventUserEngagement, events[0].Name)
	assert.False(t, events[0].Terminal)
}

func TestSchedulerConvertsAtMostOnce(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.PulseBase = 0
	cfg.PulseJitter = 0
	cfg.ConversionProb = 1
	sched, emitter := newTestScheduler(t, cfg, 1)

	require.NoError(t, sched.Store().Insert(fixedSession("s-1", t0)))
	for i := 1; i <= 20; i++ {
		sched.Pulse(t0.Add(time.Duration(i) * time.Second))
	}

	conversions := 0
	for _, event := range emitter.forSession("s-1") {
		if event.Name == domain.EventConversion {
			conversions++
		}
	}
	assert.Equal(t, 1, conversions)
	stored, _ := sched.Store().Get("s-1")
	assert.True(t, stored.Converted)
}

func TestSchedulerLifecycleInvariants(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 200
	cfg.BatchSize = 25
	cfg.DwellBase = 90 * time.Second
	cfg.DwellRange = 120 * time.Second
	cfg.ConversionProb = 0.3
	cfg.NavigateProb = 0.5
	sched, emitter := newTestScheduler(t, cfg, 77)

	type seen struct {
		engagement time.Duration
		pages      int
	}
	last := map[domain.SessionID]seen{}

	for i := 1; i <= 600; i++ {
		sched.Tick(t0.Add(time.Duration(i) * time.Second))
		sched.Store().Range(func(s *domain.Session) bool {
			prev, ok := last[s.ID]
			if ok {
				require.GreaterOrEqual(t, s.TotalEngagement, prev.engagement)
				require.GreaterOrEqual(t, s.PagesVisited, prev.pages)
			}
			require.LessOrEqual(t, s.PagesVisited, s.TargetPages)
			last[s.ID] = seen{engagement: s.TotalEngagement, pages: s.PagesVisited}
			return true
		})
	}

	terminals := map[domain.SessionID]int{}
	conversions := map[domain.SessionID]int{}
	afterTerminal := map[domain.SessionID]int{}
	for _, event := range emitter.events {
		if terminals[event.SessionID] > 0 {
			afterTerminal[event.SessionID]++
		}
		if event.Terminal {
			terminals[event.SessionID]++
		}
		if event.Name == domain.EventConversion {
			conversions[event.SessionID]++
		}
	}

	require.NotEmpty(t, terminals)
	for id, n := range terminals {
		assert.Equal(t, 1, n, "session %s terminal events", id)
		_, live := sched.Store().Get(id)
		assert.False(t, live, "retired session %s still live", id)
	}
	assert.Empty(t, afterTerminal)
	for id, n := range conversions {
		assert.LessOrEqual(t, n, 1, "session %s conversions", id)
	}
}

func TestSchedulerSnapshotIsStableBetweenTicks(t *testing.T) {
	cfg := testConfig()
	cfg.SampleCap = 30
	sched, _ := newTestScheduler(t, cfg, 1)

	for i := 1; i <= 5; i++ {
		sched.Tick(t0.Add(time.Duration(i) * time.Second))
	}

	first := sched.Aggregator().Snapshot()
	second := sched.Aggregator().Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, 50, first.ActiveCount)
	assert.LessOrEqual(t, len(first.SampledNodes), cfg.SampleCap)
	assert.Equal(t, float64(17), first.RequestsPerSecond)
	assert.Equal(t, uint64(5), first.Tick)
}

func TestSchedulerIsolatesMalformedSession(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	sched, emitter := newTestScheduler(t, cfg, 1)

	broken := fixedSession("broken", t0)
	broken.TargetPages = 0
	require.NoError(t, sched.Store().Insert(broken))
	require.NoError(t, sched.Store().Insert(fixedSession("ok", t0)))

	report := sched.Tick(t0.Add(time.Minute))

	assert.Equal(t, 1, report.Isolated)
	_, ok := sched.Store().Get("broken")
	assert.False(t, ok)
	_, ok = sched.Store().Get("ok")
	assert.True(t, ok)
	assert.Empty(t, emitter.forSession("broken"))
}

func TestSchedulerIsolatesPanickingSession(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 0
	cfg.PulseBase = 0
	cfg.PulseJitter = 0
	cfg.ScrollProb = 1
	sched, emitter := newTestScheduler(t, cfg, 1)
	emitter.panics = map[domain.SessionID]bool{"bad": true}

	require.NoError(t, sched.Store().Insert(fixedSession("bad", t0)))
	require.NoError(t, sched.Store().Insert(fixedSession("good", t0)))

	var report TickReport
	require.NotPanics(t, func() { report = sched.Tick(t0.Add(time.Second)) })

	assert.Equal(t, 1, report.Isolated)
	assert.Equal(t, 1, report.Pulsed)
	assert.NotEmpty(t, emitter.forSession("good"))
}

func TestSchedulerAdaptiveBatchShrinksOnOverrun(t *testing.T) {
	cfg := testConfig()
	cfg.TargetPopulation = 1000
	cfg.AdaptiveBatch = true
	sched, _ := newTestScheduler(t, cfg, 1)

	sched.since = func(time.Time) time.Duration { return 2 * cfg.TickInterval }
	assert.Equal(t, 10, sched.Tick(t0.Add(1*time.Second)).Batch)
	assert.Equal(t, 5, sched.Tick(t0.Add(2*time.Second)).Batch)
	assert.Equal(t, 2, sched.Tick(t0.Add(3*time.Second)).Batch)

	sched.since = func(time.Time) time.Duration { return time.Millisecond }
	assert.Equal(t, 1, sched.Tick(t0.Add(4*time.Second)).Batch)
	assert.Equal(t, 2, sched.Tick(t0.Add(5*time.Second)).Batch)
	report := sched.Tick(t0.Add(6 * time.Second))
	assert.Equal(t, 4, report.Batch)
	assert.Equal(t, 4, report.Admitted)
}

func TestSchedulerArrivalSampling(t *testing.T) {
	cfg := testConfig()
	cfg.ArrivalEmitRate = 0
	sched, emitter := newTestScheduler(t, cfg, 1)

	report := sched.Tick(t0.Add(time.Second))
	assert.Equal(t, 10, report.Admitted)
	for _, event := range emitter.events {
		assert.NotEqual(t, "1", event.Params["first_visit"])
	}
}

func TestNewSchedulerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0

	_, err := NewScheduler(cfg, Deps{Emitter: &recordingEmitter{}, Metrics: NewRunMetrics(1), Random: NewRandom(1)})
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}
