// Package engine implements the session population engine: a fixed-tick
// scheduler that retires, admits and advances simulated sessions and
// publishes aggregate snapshots.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
)

type TickReport struct {
	Retired  int
	Admitted int
	Pulsed   int
	Isolated int
	Batch    int
	Duration time.Duration
	Snapshot domain.Snapshot
}

type Deps struct {
	Store      *Store
	Factory    *Factory
	Emitter    Emitter
	Aggregator *Aggregator
	Metrics    *RunMetrics
	Random     *Random
	Logger     *slog.Logger
}

// Scheduler is the sole mutator of the store. Phases run strictly in the
// order Retire, Admit, Pulse, Publish and must be called from one goroutine.
type Scheduler struct {
	cfg        domain.EngineConfig
	store      *Store
	factory    *Factory
	emitter    Emitter
	aggregator *Aggregator
	metrics    *RunMetrics
	rnd        *Random
	logger     *slog.Logger

	batch    int
	isolated int
	since    func(time.Time) time.Duration
}

func NewScheduler(cfg domain.EngineConfig, deps Deps) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Emitter == nil || deps.Metrics == nil || deps.Random == nil {
		return nil, errors.New("scheduler requires an emitter, run metrics and a random source")
	}
	if deps.Store == nil {
		deps.Store = NewStore()
	}
	if deps.Factory == nil {
		deps.Factory = NewFactory(cfg, deps.Random)
	}
	if deps.Aggregator == nil {
		deps.Aggregator = NewAggregator(cfg, deps.Random)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Scheduler{
		cfg:        cfg,
		store:      deps.Store,
		factory:    deps.Factory,
		emitter:    deps.Emitter,
		aggregator: deps.Aggregator,
		metrics:    deps.Metrics,
		rnd:        deps.Random,
		logger:     deps.Logger.With("component", "scheduler"),
		batch:      cfg.BatchSize,
		since:      time.Since,
	}, nil
}

func (s *Scheduler) Store() *Store {
	return s.store
}

func (s *Scheduler) Aggregator() *Aggregator {
	return s.aggregator
}

// Tick runs one full pass of the four phases at the given instant.
func (s *Scheduler) Tick(now time.Time) TickReport {
	start := time.Now()
	isolatedBefore := s.isolated
	batch := s.batch

	report := TickReport{
		Retired:  s.Retire(now),
		Admitted: s.Admit(now),
		Pulsed:   s.Pulse(now),
		Batch:    batch,
	}
	report.Snapshot = s.Publish(now)
	report.Isolated = s.isolated - isolatedBefore
	report.Duration = s.since(start)

	s.adjustBatch(report.Duration)

	s.logger.Debug("tick complete",
		"active", report.Snapshot.ActiveCount,
		"retired", report.Retired,
		"admitted", report.Admitted,
		"pulsed", report.Pulsed,
		"isolated", report.Isolated,
		"duration", report.Duration,
	)

	return report
}

// Retire emits one terminal event for every expired session and removes it.
func (s *Scheduler) Retire(now time.Time) int {
	retired := 0
	s.store.Range(func(session *domain.Session) bool {
		err := s.guard(func() error {
			if err := session.Validate(); err != nil {
				return err
			}
			if !session.Expired(now, s.cfg.MaxSessionAge) {
				return nil
			}
			s.emitter.EmitTerminal(now, session)
			retired++
			return s.store.Delete(session.ID)
		})
		if err != nil {
			s.isolate(session.ID, "retire", err)
		}
		return true
	})
	return retired
}

// Admit inserts one batch of new sessions while the population is below
// target. The population therefore never exceeds target+batch-1.
func (s *Scheduler) Admit(now time.Time) int {
	if s.store.Len() >= s.cfg.TargetPopulation {
		return 0
	}

	admitted := 0
	for i := 0; i < s.batch; i++ {
		session, err := s.factory.NewSession(now)
		if err != nil {
			s.logger.Error("create session", "error", err)
			continue
		}
		if err := s.store.Insert(session); err != nil {
			// A collision would corrupt the existing session's lifecycle.
			s.logger.Error("admit session", "error", err)
			continue
		}
		admitted++

		if s.cfg.ArrivalEmitRate < 1 && s.rnd.Float64() >= s.cfg.ArrivalEmitRate {
			continue
		}
		stored, _ := s.store.Get(session.ID)
		s.emitter.Emit(now, stored, domain.EventPageView, map[string]string{"first_visit": "1", "session_start": "1"})
		if s.cfg.ArrivalImpression {
			s.emitter.Emit(now, stored, domain.EventImpression, nil)
		}
	}
	return admitted
}

// Pulse advances engagement on every live session whose idle time exceeds
// a freshly drawn threshold.
func (s *Scheduler) Pulse(now time.Time) int {
	pulsed := 0
	s.store.Range(func(session *domain.Session) bool {
		var fired bool
		err := s.guard(func() error {
			if err := session.Validate(); err != nil {
				return err
			}
			fired = s.pulseOne(now, session)
			return nil
		})
		if err != nil {
			s.isolate(session.ID, "pulse", err)
			return true
		}
		if fired {
			pulsed++
		}
		return true
	})
	return pulsed
}

func (s *Scheduler) pulseOne(now time.Time, session *domain.Session) bool {
	elapsed := now.Sub(session.LastActivityAt)
	threshold := s.cfg.PulseBase + time.Duration(s.rnd.Float64()*float64(s.cfg.PulseJitter))
	if elapsed <= threshold {
		return false
	}

	session.TotalEngagement += elapsed
	session.LastActivityAt = now
	session.Hits++

	if s.rnd.Float64() < s.cfg.ScrollProb {
		percent := min(100, 20+session.Hits*5)
		s.emitter.Emit(now, session, domain.EventScroll, map[string]string{"percent_scrolled": strconv.Itoa(percent)})
	}

	if s.rnd.Float64() < s.cfg.ImpressionProb {
		s.emitter.Emit(now, session, domain.EventImpression, nil)
	}

	if s.rnd.Float64() < s.cfg.ConversionProb && !session.Converted {
		session.Converted = true
		s.emitter.Emit(now, session, domain.EventConversion, nil)
	}

	navigated := false
	if session.CanNavigate() && s.rnd.Float64() < s.cfg.NavigateProb {
		session.PagesVisited++
		session.CurrentPath = Pick(s.rnd, s.cfg.Paths)
		s.emitter.Emit(now, session, domain.EventPageView, nil)
		navigated = true
	}

	if !navigated && s.cfg.HeartbeatWhenIdle {
		s.emitter.Emit(now, session, domain.EventUserEngagement, nil)
	}

	return true
}

func (s *Scheduler) Publish(now time.Time) domain.Snapshot {
	return s.aggregator.Publish(now, s.store, s.metrics)
}

func (s *Scheduler) adjustBatch(took time.Duration) {
	if took > s.cfg.TickInterval {
		s.logger.Warn("tick overran interval", "took", took, "interval", s.cfg.TickInterval, "active", s.store.Len())
		if s.cfg.AdaptiveBatch {
			s.batch = max(1, s.batch/2)
		}
		return
	}
	if s.cfg.AdaptiveBatch && s.batch < s.cfg.BatchSize {
		s.batch = min(s.cfg.BatchSize, s.batch*2)
	}
}

// guard turns a panic during one session's processing into an error so the
// rest of the tick proceeds.
func (s *Scheduler) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (s *Scheduler) isolate(id domain.SessionID, phase string, cause error) {
	s.isolated++
	s.logger.Warn("isolating malformed session", "session", id, "phase", phase, "error", cause)
	if _, ok := s.store.Get(id); ok {
		_ = s.store.Delete(id)
	}
}
