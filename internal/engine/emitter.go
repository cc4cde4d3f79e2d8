package engine

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/ports"
)

const (
	protocolVersion  = "2"
	defaultQueueSize = 4096
)

// Emitter is the scheduler's view of event dispatch. Emit must never block
// and never fail back into the caller.
type Emitter interface {
	Emit(now time.Time, session *domain.Session, name domain.EventName, extra map[string]string)
	EmitTerminal(now time.Time, session *domain.Session)
}

type EmitterOptions struct {
	TargetURL  string
	Analysis   domain.TargetAnalysis
	Generation uint64
	QueueSize  int
	Logger     *slog.Logger
}

// BeaconEmitter builds events on the caller's goroutine and hands them to a
// dispatcher goroutine that delivers them to the sink. A full queue drops the
// event. Counters move only after a successful delivery.
type BeaconEmitter struct {
	cfg     domain.EngineConfig
	opts    EmitterOptions
	sink    ports.EventSink
	metrics *RunMetrics
	rnd     *Random
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan domain.Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Emitter = (*BeaconEmitter)(nil)

func NewBeaconEmitter(cfg domain.EngineConfig, sink ports.EventSink, metrics *RunMetrics, rnd *Random, opts EmitterOptions) *BeaconEmitter {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Analysis.TrackingID == "" {
		opts.Analysis.TrackingID = domain.DefaultTrackingID
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &BeaconEmitter{
		cfg:     cfg,
		opts:    opts,
		sink:    sink,
		metrics: metrics,
		rnd:     rnd,
		logger:  logger.With("component", "emitter", "generation", opts.Generation),
		queue:   make(chan domain.Event, opts.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	e.wg.Add(1)
	go e.dispatch()

	return e
}

func (e *BeaconEmitter) Emit(now time.Time, session *domain.Session, name domain.EventName, extra map[string]string) {
	e.enqueue(e.build(now, session, name, false, extra))
}

// EmitTerminal sends the final engagement event of a retiring session.
func (e *BeaconEmitter) EmitTerminal(now time.Time, session *domain.Session) {
	extra := map[string]string{"engagement_ms": strconv.FormatInt(session.TotalEngagement.Milliseconds(), 10)}
	e.enqueue(e.build(now, session, domain.EventUserEngagement, true, extra))
}

func (e *BeaconEmitter) build(now time.Time, session *domain.Session, name domain.EventName, terminal bool, extra map[string]string) domain.Event {
	params := map[string]string{
		"protocol":      protocolVersion,
		"tracking_id":   e.opts.Analysis.TrackingID,
		"client_id":     session.ClientID,
		"session_key":   session.SessionKey,
		"locale":        strings.ToLower(session.Language),
		"resolution":    session.ScreenRes,
		"viewport":      session.Viewport,
		"device":        session.Device,
		"page_count":    strconv.Itoa(session.PagesVisited),
		"hit":           strconv.Itoa(session.Hits),
		"event":         string(name),
		"location":      strings.TrimRight(e.opts.TargetURL, "/") + session.CurrentPath,
		"referrer":      session.Referrer,
		"title":         e.opts.Analysis.Title,
		"engagement_ms": strconv.FormatInt(session.TotalEngagement.Milliseconds(), 10),
	}
	for k, v := range extra {
		params[k] = v
	}

	return domain.Event{
		SessionID:  session.ID,
		ClientID:   session.ClientID,
		SessionKey: session.SessionKey,
		Name:       name,
		Terminal:   terminal,
		Params:     params,
		Value:      e.value(session, name),
		At:         now,
		Generation: e.opts.Generation,
	}
}

func (e *BeaconEmitter) value(session *domain.Session, name domain.EventName) float64 {
	if !name.Valued() {
		return 0
	}

	switch name {
	case domain.EventConversion:
		span := e.cfg.ConversionValueMax - e.cfg.ConversionValueMin
		return e.cfg.ConversionValueMin + e.rnd.Float64()*span
	case domain.EventImpression:
		return session.ValueRate / e.cfg.ImpressionValueDivisor
	default:
		return 0
	}
}

func (e *BeaconEmitter) enqueue(event domain.Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		return
	}

	select {
	case e.queue <- event:
	default:
		e.metrics.RecordDropped()
	}
}

func (e *BeaconEmitter) dispatch() {
	defer e.wg.Done()

	for event := range e.queue {
		if e.ctx.Err() != nil {
			continue
		}

		if err := e.sink.Deliver(e.ctx, event); err != nil {
			e.logger.Debug("event delivery failed", "event", event.Name, "session", event.SessionID, "error", err)
			continue
		}
		e.metrics.Record(event)
	}
}

// Close stops accepting events, abandons anything still queued and waits for
// the dispatcher to exit. It is safe to call more than once.
func (e *BeaconEmitter) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancel()
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
}

// Flush waits until every queued event has been handed to the sink and then
// closes the emitter. Used for bounded offline runs.
func (e *BeaconEmitter) Flush() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	e.wg.Wait()
	e.cancel()
}
