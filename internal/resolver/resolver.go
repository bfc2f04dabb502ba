package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/sports-lines-service/internal/cache"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
	"github.com/preston-bernstein/sports-lines-service/internal/normalize"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/providers/fixture"
	"github.com/preston-bernstein/sports-lines-service/internal/snapshots"
)

// Recorder receives chain outcomes; *metrics.Recorder satisfies it.
type Recorder interface {
	RecordResolution(kind, state string, duration time.Duration)
	RecordStateFailure(state, reason string)
	RecordCacheLookup(kind string, hit bool)
	RecordNormalizeDrops(provider, sport string, dropped int)
}

// Options wires the tiers of the chain. Nil providers are skipped as failed states;
// a nil snapshot store behaves like snapshots.Nop.
type Options struct {
	Cache      *cache.Manager
	Snapshots  snapshots.Store
	Primary    providers.Provider
	Secondary  providers.Provider
	Fallback   *fixture.Dataset
	Normalizer *normalize.Normalizer
	Recorder   Recorder
	Logger     *slog.Logger
	Config     Config
}

// Resolver answers read queries through the source chain:
// cache, primary, secondary, snapshot, fallback dataset.
type Resolver struct {
	cache      *cache.Manager
	snapshots  snapshots.Store
	primary    providers.Provider
	secondary  providers.Provider
	fallback   *fixture.Dataset
	normalizer *normalize.Normalizer
	recorder   Recorder
	logger     *slog.Logger
	cfg        Config
	flight     singleflight.Group
	now        func() time.Time
}

// New builds a resolver, defaulting any tier that was not supplied.
func New(opts Options) *Resolver {
	cfg := opts.Config.withDefaults()
	r := &Resolver{
		cache:      opts.Cache,
		snapshots:  opts.Snapshots,
		primary:    opts.Primary,
		secondary:  opts.Secondary,
		fallback:   opts.Fallback,
		normalizer: opts.Normalizer,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
		cfg:        cfg,
		now:        time.Now,
	}
	if r.cache == nil {
		r.cache = cache.New(5 * time.Minute)
	}
	if r.snapshots == nil {
		r.snapshots = snapshots.Nop{}
	}
	if r.fallback == nil {
		r.fallback = fixture.New()
	}
	if r.normalizer == nil {
		r.normalizer = normalize.New(nil)
	}
	return r
}

// Cache exposes the memory tier for operational invalidation.
func (r *Resolver) Cache() *cache.Manager {
	return r.cache
}

// kindOps adapts the chain to one result type.
type kindOps[T any] struct {
	normalize func(ps []providers.Payload, provider string) (T, error)
	fallback  func() (T, error)
	clone     func(T) T
	// restore re-canonicalizes a decoded snapshot record; an empty record is a miss.
	restore   func(T) (T, error)
}

type resolution[T any] struct {
	value T
	state State
}

// resolve runs the chain for q. Concurrent callers for the same key share one walk; a
// caller that gives up gets its own ctx error while the walk continues for the others.
func resolve[T any](ctx context.Context, r *Resolver, q providers.Query, ops kindOps[T]) (T, error) {
	var zero T
	key := q.Key()
	start := r.now()

	if v, ok := r.cacheGet(q); ok {
		if typed, ok := v.(T); ok {
			r.recordResolution(q, StateCacheCheck, start)
			return ops.clone(typed), nil
		}
	}

	ch := r.flight.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.FlightTimeout)
		defer cancel()
		return walk(fctx, r, q, ops)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		out := res.Val.(resolution[T])
		r.recordResolution(q, out.state, start)
		return ops.clone(out.value), nil
	}
}

// walk is the body of a shared fetch. Each state is attempted at most once.
func walk[T any](ctx context.Context, r *Resolver, q providers.Query, ops kindOps[T]) (resolution[T], error) {
	if v, ok := r.cache.Get(q.Key(), r.ttlFor(q)); ok {
		if typed, ok := v.(T); ok {
			return resolution[T]{value: typed, state: StateCacheCheck}, nil
		}
	}

	for _, step := range []struct {
		state    State
		provider providers.Provider
	}{
		{StatePrimaryFetch, r.primary},
		{StateSecondaryFetch, r.secondary},
	} {
		value, err := fetchFrom(ctx, r, q, step.provider, ops)
		if err != nil {
			r.stateFailed(ctx, q, step.state, err)
			continue
		}
		r.cache.Set(q.Key(), value)
		if q.Kind != providers.KindLive {
			r.writeSnapshot(ctx, q, value)
		}
		return resolution[T]{value: value, state: step.state}, nil
	}

	if q.Kind != providers.KindLive {
		value, err := readSnapshot(ctx, r, q, ops)
		if err == nil {
			r.cache.Set(q.Key(), value)
			return resolution[T]{value: value, state: StateSnapshotRead}, nil
		}
		r.stateFailed(ctx, q, StateSnapshotRead, err)
	}

	value, err := ops.fallback()
	if err != nil {
		return resolution[T]{}, err
	}
	logging.Warn(logging.FromContext(ctx, r.logger), "serving fallback dataset",
		logging.FieldSport, string(q.Sport),
		logging.FieldKind, string(q.Kind),
		logging.FieldCacheKey, q.Key(),
	)
	return resolution[T]{value: value, state: StateFallbackDataset}, nil
}

func fetchFrom[T any](ctx context.Context, r *Resolver, q providers.Query, p providers.Provider, ops kindOps[T]) (T, error) {
	var zero T
	if p == nil {
		return zero, providers.TransportError("unconfigured", providers.ErrProviderUnavailable)
	}
	pctx, cancel := context.WithTimeout(ctx, r.cfg.ProviderTimeout)
	defer cancel()

	payloads, err := p.Fetch(pctx, q)
	if err != nil {
		if pctx.Err() != nil && !errors.Is(err, providers.ErrTransport) {
			err = providers.TransportError(p.Name(), err)
		}
		return zero, err
	}
	if len(payloads) == 0 {
		return zero, providers.EmptyResultError(p.Name())
	}
	return ops.normalize(payloads, p.Name())
}

func readSnapshot[T any](ctx context.Context, r *Resolver, q providers.Query, ops kindOps[T]) (T, error) {
	var value T
	sctx, cancel := context.WithTimeout(ctx, r.cfg.ProviderTimeout)
	defer cancel()

	raw, ok, err := r.snapshots.GetWithExpiry(sctx, q.Key())
	if err != nil {
		return value, providers.TransportError("snapshot", err)
	}
	if !ok {
		return value, providers.EmptyResultError("snapshot")
	}
	if err := sonic.Unmarshal(raw, &value); err != nil {
		return value, providers.UpstreamFormatError("snapshot", err)
	}
	return ops.restore(value)
}

func (r *Resolver) writeSnapshot(ctx context.Context, q providers.Query, value any) {
	raw, err := sonic.Marshal(value)
	if err == nil {
		sctx, cancel := context.WithTimeout(ctx, r.cfg.ProviderTimeout)
		err = r.snapshots.SetWithExpiry(sctx, q.Key(), raw, r.cfg.SnapshotTTL)
		cancel()
	}
	if err != nil {
		logging.Warn(logging.FromContext(ctx, r.logger), "snapshot write failed",
			logging.FieldCacheKey, q.Key(),
			"error", err,
		)
	}
}

func (r *Resolver) cacheGet(q providers.Query) (any, bool) {
	v, ok := r.cache.Get(q.Key(), r.ttlFor(q))
	if r.recorder != nil {
		r.recorder.RecordCacheLookup(string(q.Kind), ok)
	}
	return v, ok
}

// ttlFor gives live queries the short TTL; everything else uses the cache default.
func (r *Resolver) ttlFor(q providers.Query) time.Duration {
	if q.Kind == providers.KindLive {
		return r.cfg.LiveTTL
	}
	return 0
}

func (r *Resolver) stateFailed(ctx context.Context, q providers.Query, state State, err error) {
	reason := providers.Classify(err)
	logging.Warn(logging.FromContext(ctx, r.logger), "source chain state failed",
		logging.FieldState, state.String(),
		logging.FieldReason, reason,
		logging.FieldSport, string(q.Sport),
		logging.FieldKind, string(q.Kind),
		"error", err,
	)
	if r.recorder != nil {
		r.recorder.RecordStateFailure(state.String(), reason)
	}
}

func (r *Resolver) recordResolution(q providers.Query, state State, start time.Time) {
	if r.recorder != nil {
		r.recorder.RecordResolution(string(q.Kind), state.String(), r.now().Sub(start))
	}
}

func (r *Resolver) recordDrops(provider string, q providers.Query, dropped int) {
	if r.recorder != nil && dropped > 0 {
		r.recorder.RecordNormalizeDrops(provider, string(q.Sport), dropped)
	}
}
