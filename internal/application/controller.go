package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/bnema/sessionsim/internal/engine"
	"github.com/bnema/sessionsim/internal/ports"
)

const historySize = 10

type ControllerOptions struct {
	Analyzer        ports.TargetAnalyzer
	Sink            ports.EventSink
	Clock           ports.Clock
	Logger          *slog.Logger
	AnalysisTimeout time.Duration
	// Seed fixes the random source of every run. Zero seeds each run from
	// the clock.
	Seed      uint64
	QueueSize int
}

type RunResult struct {
	Generation uint64
	Analysis   domain.TargetAnalysis
	Snapshot   domain.Snapshot
	Ticks      int
	Retired    int
	Admitted   int
	Isolated   int
}

// Controller owns at most one simulation run at a time. Each run gets a new
// generation number, a fresh store and fresh counters.
type Controller struct {
	analyzer  ports.TargetAnalyzer
	sink      ports.EventSink
	clock     ports.Clock
	logger    *slog.Logger
	timeout   time.Duration
	seed      uint64
	queueSize int

	mu         sync.Mutex
	generation uint64
	// busy is held from the moment Start or RunFor claims the controller
	// until the run is torn down. run is only set for background runs.
	busy       bool
	run        *activeRun
	history    []domain.RunRecord
	subs       map[int]chan domain.Snapshot
	nextSub    int
}

type activeRun struct {
	generation uint64
	cfg        domain.EngineConfig
	analysis   domain.TargetAnalysis
	scheduler  *engine.Scheduler
	emitter    *engine.BeaconEmitter
	metrics    *engine.RunMetrics
	last       domain.Snapshot
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Sink == nil {
		return nil, errors.New("controller requires an event sink")
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		analyzer:  opts.Analyzer,
		sink:      opts.Sink,
		clock:     opts.Clock,
		logger:    opts.Logger,
		timeout:   opts.AnalysisTimeout,
		seed:      opts.Seed,
		queueSize: opts.QueueSize,
		subs:      map[int]chan domain.Snapshot{},
	}, nil
}

// Start analyzes the target and begins ticking in the background at the
// preset's tick interval.
func (c *Controller) Start(ctx context.Context, targetURL string, preset domain.Preset) error {
	if err := c.claim(); err != nil {
		return err
	}

	run, err := c.prepare(ctx, targetURL, preset)
	if err != nil {
		c.release()
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	run.cancel = cancel
	run.done = make(chan struct{})

	c.mu.Lock()
	c.run = run
	c.mu.Unlock()

	c.logger.Info("simulation started",
		"target", targetURL,
		"preset", preset.Name,
		"generation", run.generation,
		"tick_interval", run.cfg.TickInterval,
		"target_population", run.cfg.TargetPopulation,
	)

	go c.loop(loopCtx, run)

	return nil
}

func (c *Controller) loop(ctx context.Context, run *activeRun) {
	defer close(run.done)

	ticker := time.NewTicker(run.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report := run.scheduler.Tick(c.clock.Now())
			c.publish(run, report.Snapshot)
		}
	}
}

func (c *Controller) publish(run *activeRun, snapshot domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != run {
		return
	}
	run.last = snapshot

	for _, ch := range c.subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Stop halts the ticker, waits for the loop to exit and discards the
// population. Queued events are abandoned.
func (c *Controller) Stop() error {
	c.mu.Lock()
	run := c.run
	c.run = nil
	c.mu.Unlock()

	if run == nil {
		return domain.ErrRunNotActive
	}

	run.cancel()
	<-run.done
	c.teardown(run)
	c.release()

	c.logger.Info("simulation stopped", "generation", run.generation, "requests", run.metrics.Requests())

	return nil
}

// RunFor executes a bounded run synchronously on a simulated clock that
// advances one tick interval per tick. Every queued event is delivered
// before the result is returned.
func (c *Controller) RunFor(ctx context.Context, targetURL string, preset domain.Preset, ticks int) (RunResult, error) {
	if ticks < 1 {
		return RunResult{}, fmt.Errorf("%w: ticks must be at least 1", domain.ErrInvalidConfig)
	}

	if err := c.claim(); err != nil {
		return RunResult{}, err
	}
	defer c.release()

	run, err := c.prepare(ctx, targetURL, preset)
	if err != nil {
		return RunResult{}, err
	}

	result := RunResult{Generation: run.generation, Analysis: run.analysis}
	now := c.clock.Now()
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			c.teardown(run)
			return RunResult{}, err
		}

		now = now.Add(run.cfg.TickInterval)
		report := run.scheduler.Tick(now)
		result.Ticks++
		result.Retired += report.Retired
		result.Admitted += report.Admitted
		result.Isolated += report.Isolated
	}

	run.emitter.Flush()

	snapshot := run.scheduler.Aggregator().Snapshot()
	snapshot.TotalRequests = run.metrics.Requests()
	snapshot.DroppedEvents = run.metrics.Dropped()
	snapshot.EstimatedValue = run.metrics.Value()
	result.Snapshot = snapshot

	c.teardown(run)

	return result, nil
}

func (c *Controller) prepare(ctx context.Context, targetURL string, preset domain.Preset) (*activeRun, error) {
	if err := validateTarget(targetURL); err != nil {
		return nil, err
	}
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	analysis := AnalyzeWithFallback(ctx, c.analyzer, targetURL, c.timeout, c.logger)

	startedAt := c.clock.Now()
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.history = append([]domain.RunRecord{{
		StartedAt:  startedAt,
		Target:     targetURL,
		Preset:     preset.Name,
		Generation: generation,
	}}, c.history...)
	if len(c.history) > historySize {
		c.history = c.history[:historySize]
	}
	c.mu.Unlock()

	seed := c.seed
	if seed == 0 {
		seed = uint64(startedAt.UnixNano())
	}

	cfg := preset.Config
	rnd := engine.NewRandom(seed)
	metrics := engine.NewRunMetrics(generation)
	logger := c.logger.With("generation", generation)
	emitter := engine.NewBeaconEmitter(cfg, c.sink, metrics, rnd, engine.EmitterOptions{
		TargetURL:  targetURL,
		Analysis:   analysis,
		Generation: generation,
		QueueSize:  c.queueSize,
		Logger:     c.logger,
	})

	scheduler, err := engine.NewScheduler(cfg, engine.Deps{
		Emitter: emitter,
		Metrics: metrics,
		Random:  rnd,
		Logger:  logger,
	})
	if err != nil {
		emitter.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &activeRun{
		generation: generation,
		cfg:        cfg,
		analysis:   analysis,
		scheduler:  scheduler,
		emitter:    emitter,
		metrics:    metrics,
	}, nil
}

func (c *Controller) claim() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return domain.ErrRunAlreadyActive
	}
	c.busy = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// teardown abandons queued events, discards the population and records the
// final request count. Flush first to keep queued events.
func (c *Controller) teardown(run *activeRun) {
	run.emitter.Close()
	run.scheduler.Store().Clear()
	c.finishRecord(run.generation, run.metrics.Requests())
}

func (c *Controller) finishRecord(generation uint64, requests int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.history {
		if c.history[i].Generation == generation {
			c.history[i].Requests = requests
			return
		}
	}
}

// Snapshot returns the latest snapshot of the active run.
func (c *Controller) Snapshot() (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil {
		return domain.Snapshot{}, domain.ErrRunNotActive
	}
	snapshot := c.run.last
	snapshot.SampledNodes = append([]domain.NodeView(nil), snapshot.SampledNodes...)
	snapshot.Log = append([]string(nil), snapshot.Log...)
	return snapshot, nil
}

func (c *Controller) Analysis() (domain.TargetAnalysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run == nil {
		return domain.TargetAnalysis{}, domain.ErrRunNotActive
	}
	return c.run.analysis, nil
}

// History lists the most recent run starts, newest first.
func (c *Controller) History() []domain.RunRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]domain.RunRecord(nil), c.history...)
}

// Subscribe delivers every snapshot the background loop publishes. A slow
// reader misses snapshots rather than stalling the loop. The returned
// function unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 1)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func validateTarget(targetURL string) error {
	trimmed := strings.TrimSpace(targetURL)
	if trimmed == "" {
		return fmt.Errorf("%w: target is required", domain.ErrInvalidTarget)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTarget, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", domain.ErrInvalidTarget)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%w: host is required", domain.ErrInvalidTarget)
	}

	return nil
}
