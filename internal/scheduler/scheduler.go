package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	applogger "ListingPulse/pkg/logger"
)

// Status describes what a scheduler is doing right now.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusError   Status = "error"
)

// ErrSkipRun tells the scheduler a run found nothing to do. The previous
// snapshot and lastUpdated stay as they were; the next run is still scheduled.
var ErrSkipRun = errors.New("run skipped")

// Metrics is the slice of the metrics recorder the scheduler needs.
type Metrics interface {
	RecordRun(report, status string)
	RecordRunDuration(report string, seconds float64)
}

// Snapshot is a point-in-time copy of a scheduler's state, safe to serve
// while the next run is in flight.
type Snapshot[T any] struct {
	Status      Status    `json:"status"`
	Data        T         `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
	NextRunAt   time.Time `json:"nextRunAt"`
	Err         string    `json:"error,omitempty"`
}

// persisted is the envelope written to cache tiers, carrying the timestamp so
// a warm start can tell how stale the restored data is.
type persisted[T any] struct {
	Data        T         `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Scheduler recomputes a value at a fixed interval and keeps the freshest
// result available through restarts via an ordered chain of cache tiers.
// At most one recompute is in flight at a time; an overlapping trigger is
// dropped, not queued.
type Scheduler[T any] struct {
	name     string
	interval time.Duration
	compute  func(ctx context.Context) (T, error)
	tiers    []Tier
	logger   *applogger.Logger
	metrics  Metrics

	mu          sync.Mutex
	status      Status
	data        T
	lastUpdated time.Time
	nextRunAt   time.Time
	errMsg      string
	timer       *time.Timer
	stopped     bool
}

// New creates a Scheduler. tiers are consulted in order on warm start and
// written in order after every successful run; an empty chain disables
// persistence.
func New[T any](
	name string,
	interval time.Duration,
	compute func(ctx context.Context) (T, error),
	tiers []Tier,
	logger *applogger.Logger,
	metrics Metrics,
) *Scheduler[T] {
	return &Scheduler[T]{
		name:     name,
		interval: interval,
		compute:  compute,
		tiers:    tiers,
		logger:   logger,
		metrics:  metrics,
		status:   StatusIdle,
	}
}

// Start warm-starts from the tier chain, then kicks off the first recompute
// in the background. It returns immediately.
func (s *Scheduler[T]) Start(ctx context.Context) {
	s.restore(ctx)
	go s.RunOnce(ctx)
}

// Stop cancels the pending timer. A run already in flight finishes; it will
// not schedule a successor.
func (s *Scheduler[T]) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Trigger requests an immediate recompute. It is a no-op while a run is
// already in flight.
func (s *Scheduler[T]) Trigger(ctx context.Context) {
	go s.RunOnce(ctx)
}

// Snapshot returns a copy of the current state.
func (s *Scheduler[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Status:      s.status,
		Data:        s.data,
		LastUpdated: s.lastUpdated,
		NextRunAt:   s.nextRunAt,
		Err:         s.errMsg,
	}
}

// restore loads the freshest persisted snapshot from the first tier that has
// one. Failures just mean a cold start.
func (s *Scheduler[T]) restore(ctx context.Context) {
	for _, tier := range s.tiers {
		raw, err := tier.Load(ctx, s.name)
		if err != nil {
			continue
		}
		var env persisted[T]
		if err := json.Unmarshal(raw, &env); err != nil {
			if s.logger != nil {
				s.logger.Warn("discarding corrupt snapshot",
					applogger.String("scheduler", s.name),
					applogger.String("tier", tier.Name()),
					applogger.Error(err))
			}
			continue
		}
		s.mu.Lock()
		s.data = env.Data
		s.lastUpdated = env.LastUpdated
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Info("restored snapshot",
				applogger.String("scheduler", s.name),
				applogger.String("tier", tier.Name()),
				applogger.String("lastUpdated", env.LastUpdated.Format(time.RFC3339)))
		}
		return
	}
}

// RunOnce performs one recompute synchronously, persists the result, and arms
// the next timer. Callers racing an in-flight run return immediately.
func (s *Scheduler[T]) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.status == StatusRunning {
		s.mu.Unlock()
		return
	}
	s.status = StatusRunning
	s.mu.Unlock()

	started := time.Now()
	data, err := s.compute(ctx)
	elapsed := time.Since(started)

	s.mu.Lock()
	switch {
	case errors.Is(err, ErrSkipRun):
		// Nothing to do; keep whatever we had.
		s.status = StatusIdle
		s.errMsg = ""
		s.record("skipped", elapsed)
	case err != nil:
		s.status = StatusError
		s.errMsg = err.Error()
		s.record("error", elapsed)
		if s.logger != nil {
			s.logger.Error("recompute failed",
				applogger.String("scheduler", s.name), applogger.Error(err))
		}
	default:
		s.status = StatusIdle
		s.data = data
		s.lastUpdated = time.Now()
		s.errMsg = ""
		s.record("ok", elapsed)
		if s.logger != nil {
			s.logger.Info("recompute finished",
				applogger.String("scheduler", s.name),
				applogger.Duration("took", elapsed))
		}
	}
	s.mu.Unlock()

	if err == nil {
		s.persist(ctx)
	}
	s.schedule(ctx)
}

func (s *Scheduler[T]) record(status string, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRun(s.name, status)
	s.metrics.RecordRunDuration(s.name, elapsed.Seconds())
}

// persist writes the current snapshot to every tier. Tier failures are logged
// and ignored; the in-memory copy is the source of truth.
func (s *Scheduler[T]) persist(ctx context.Context) {
	s.mu.Lock()
	env := persisted[T]{Data: s.data, LastUpdated: s.lastUpdated}
	s.mu.Unlock()

	raw, err := json.Marshal(env)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("snapshot marshal failed",
				applogger.String("scheduler", s.name), applogger.Error(err))
		}
		return
	}
	for _, tier := range s.tiers {
		if err := tier.Store(ctx, s.name, raw); err != nil && s.logger != nil {
			s.logger.Warn("snapshot write failed",
				applogger.String("scheduler", s.name),
				applogger.String("tier", tier.Name()),
				applogger.Error(err))
		}
	}
}

func (s *Scheduler[T]) schedule(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.nextRunAt = time.Now().Add(s.interval)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, func() { s.RunOnce(ctx) })
}
