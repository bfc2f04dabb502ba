package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
)

const (
	defaultInterval = 30 * time.Second
	defaultWorkers  = 4
)

// Resolver is the part of the query surface the warmer drives.
type Resolver interface {
	GetSchedule(ctx context.Context, sport domaingames.Sport, period string) ([]domaingames.Game, error)
	GetLiveScores(ctx context.Context, sport domaingames.Sport) ([]domaingames.Game, error)
}

// CycleRecorder receives warm cycle outcomes; *metrics.Recorder satisfies it.
type CycleRecorder interface {
	RecordWarmCycle(duration time.Duration, err error)
}

// Poller keeps the current schedule and live board of each sport warm by resolving
// them on an interval. Every call goes through the resolver, so the source chain
// and in-flight sharing apply to warm-ups like any other caller.
type Poller struct {
	resolver Resolver
	sports   []domaingames.Sport
	workers  int
	logger   *slog.Logger
	metrics  CycleRecorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warm loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the warmer has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults. Invalid sport keys are dropped.
func New(resolver Resolver, sports []string, logger *slog.Logger, recorder CycleRecorder, interval time.Duration, workers int) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	parsed := make([]domaingames.Sport, 0, len(sports))
	for _, raw := range sports {
		sport, err := domaingames.ParseSport(raw)
		if err != nil {
			logging.Warn(logger, "warmer ignoring sport", logging.FieldSport, raw, "error", err)
			continue
		}
		parsed = append(parsed, sport)
	}
	return &Poller{
		resolver: resolver,
		sports:   parsed,
		workers:  workers,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins warming until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	ticker := time.NewTicker(p.interval)
	p.ticker = ticker
	p.startMu.Unlock()

	go func() {
		logging.Info(p.logger, "cache warmer started",
			slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()),
			slog.Int(logging.FieldCount, len(p.sports)),
		)
		p.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				logging.Info(p.logger, "cache warmer stopped")
				return
			case <-p.done:
				ticker.Stop()
				logging.Info(p.logger, "cache warmer stopped")
				return
			case <-ticker.C:
				p.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the warm loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

type warmTask struct {
	sport domaingames.Sport
	live  bool
}

func (p *Poller) warmOnce(ctx context.Context) {
	start := p.now()
	p.recordAttempt(start)

	err := p.runTasks(ctx)
	duration := p.now().Sub(start)
	if p.metrics != nil {
		p.metrics.RecordWarmCycle(duration, err)
	}
	if err != nil {
		logging.Error(p.logger, "cache warm cycle failed", err,
			slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
		)
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start)
	logging.Info(p.logger, "cache warm cycle complete",
		logging.FieldCount, len(p.sports)*2,
		logging.FieldDurationMS, duration.Milliseconds(),
	)
}

func (p *Poller) runTasks(ctx context.Context) error {
	tasks := make([]warmTask, 0, len(p.sports)*2)
	for _, sport := range p.sports {
		tasks = append(tasks, warmTask{sport: sport}, warmTask{sport: sport, live: true})
	}
	if len(tasks) == 0 {
		return nil
	}

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return errors.Wrap(err, "create warm pool")
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		failed   atomic.Int32
		firstErr error
		errOnce  sync.Once
	)
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := p.warm(ctx, task); err != nil {
				failed.Add(1)
				errOnce.Do(func() { firstErr = err })
			}
		}); err != nil {
			workers.Done()
			return errors.Wrap(err, "submit warm task")
		}
	}
	workers.Wait()

	if n := failed.Load(); n > 0 {
		return errors.Wrapf(firstErr, "%d of %d warm tasks failed", n, len(tasks))
	}
	return nil
}

func (p *Poller) warm(ctx context.Context, task warmTask) error {
	if task.live {
		_, err := p.resolver.GetLiveScores(ctx, task.sport)
		return err
	}
	_, err := p.resolver.GetSchedule(ctx, task.sport, "")
	return err
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the warmer's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Sports lists the sports being warmed.
func (p *Poller) Sports() []domaingames.Sport {
	return append([]domaingames.Sport(nil), p.sports...)
}
