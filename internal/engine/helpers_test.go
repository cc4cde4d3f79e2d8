package engine

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/logging"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordingEmitter struct {
	mu     sync.Mutex
	events []domain.Event
	panics map[domain.SessionID]bool
}

func (r *recordingEmitter) Emit(now time.Time, session *domain.Session, name domain.EventName, extra map[string]string) {
	if r.panics[session.ID] {
		panic("emit exploded")
	}
	r.record(domain.Event{SessionID: session.ID, Name: name, At: now, Params: extra})
}

func (r *recordingEmitter) EmitTerminal(now time.Time, session *domain.Session) {
	r.record(domain.Event{
		SessionID: session.ID,
		Name:      domain.EventUserEngagement,
		Terminal:  true,
		At:        now,
		Params:    map[string]string{"engagement_ms": strconv.FormatInt(session.TotalEngagement.Milliseconds(), 10)},
	})
}

func (r *recordingEmitter) record(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) forSession(id domain.SessionID) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Event
	for _, event := range r.events {
		if event.SessionID == id {
			out = append(out, event)
		}
	}
	return out
}

func testConfig() domain.EngineConfig {
	cfg := domain.DefaultEngineConfig()
	cfg.TargetPopulation = 100
	cfg.BatchSize = 10
	cfg.DwellBase = time.Hour
	cfg.DwellRange = 0
	cfg.MaxSessionAge = 0
	return cfg
}

func newTestScheduler(t *testing.T, cfg domain.EngineConfig, seed uint64) (*Scheduler, *recordingEmitter) {
	t.Helper()

	emitter := &recordingEmitter{}
	sched, err := NewScheduler(cfg, Deps{
		Emitter: emitter,
		Metrics: NewRunMetrics(1),
		Random:  NewRandom(seed),
		Logger:  logging.Discard(),
	})
	require.NoError(t, err)
	return sched, emitter
}

func fixedSession(id string, created time.Time) domain.Session {
	return domain.Session{
		ID:             domain.SessionID(id),
		ClientID:       "000000001." + strconv.FormatInt(created.Unix(), 10),
		SessionKey:     strconv.FormatInt(created.Unix(), 10),
		CreatedAt:      created,
		LastActivityAt: created,
		MinDwell:       time.Hour,
		CurrentPath:    "/",
		PagesVisited:   1,
		TargetPages:    5,
		Region:         "Germany",
		Language:       "de-DE",
		Device:         "desktop",
		Address:        "203.0.113.7",
		ValueRate:      75.6,
	}
}
