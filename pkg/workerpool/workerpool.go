// Package workerpool runs blocking calls on a fixed set of goroutines so
// callers can await a result without spawning unbounded work.
//
// Submissions are handed to workers over an unbuffered channel: when every
// worker is busy, Do blocks in FIFO order until one frees up. A caller whose
// context ends while still waiting withdraws without the task ever running.
// Once a worker accepts a task it runs to completion with a context detached
// from the caller's cancellation, and Do waits for its result.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/applytrack/pkg/lifecycle"
)

// ErrClosed is returned by Do after the pool has been closed.
var ErrClosed = errors.New("worker pool closed")

// Task is a unit of blocking work.
type Task func(ctx context.Context) error

type job struct {
	ctx    context.Context
	fn     Task
	result chan error
}

// Pool is a fixed-size set of workers.
type Pool struct {
	name    string
	workers int
	logger  *slog.Logger

	jobs      chan job
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
	group     errgroup.Group
	busy      atomic.Int64

	queuedGauge prometheus.Gauge
	busyGauge   prometheus.Gauge
	duration    prometheus.Histogram
}

// New creates a pool of the given size. Collectors are registered on reg
// with a pool=name label; a nil reg skips registration.
func New(name string, workers int, reg prometheus.Registerer, logger *slog.Logger) (*Pool, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workerpool %s: workers must be >= 1, got %d", name, workers)
	}

	labels := prometheus.Labels{"pool": name}

	p := &Pool{
		name:    name,
		workers: workers,
		logger:  logger.With("system", "workerpool", "pool", name),
		jobs:    make(chan job),
		done:    make(chan struct{}),
		queuedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "workerpool_queued_tasks",
			Help:        "Submissions waiting for a free worker.",
			ConstLabels: labels,
		}),
		busyGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "workerpool_busy_workers",
			Help:        "Workers currently running a task.",
			ConstLabels: labels,
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "workerpool_task_duration_seconds",
			Help:        "Task run time once accepted by a worker.",
			ConstLabels: labels,
			Buckets:     []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{p.queuedGauge, p.busyGauge, p.duration} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("workerpool %s: register metrics: %w", name, err)
			}
		}
	}

	return p, nil
}

// Workers returns the configured pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Busy returns the number of workers currently running a task.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Start launches the workers and registers a shutdown hook that closes the pool.
func (p *Pool) Start(lc *lifecycle.Coordinator) error {
	p.Run()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.Close()
	})

	return nil
}

// Run launches the workers. Subsequent calls have no effect.
func (p *Pool) Run() {
	p.startOnce.Do(func() {
		p.logger.Info("starting worker pool", "workers", p.workers)
		for range p.workers {
			p.group.Go(p.work)
		}
	})
}

// Close stops accepting work and waits for running tasks to finish.
// Callers still waiting for a worker receive ErrClosed.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.group.Wait()
		p.logger.Info("worker pool stopped")
	})
}

// Do submits fn and waits for it to finish, returning its error. If ctx ends
// before a worker accepts the task, Do returns ctx.Err() and fn never runs.
func (p *Pool) Do(ctx context.Context, fn Task) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}

	j := job{
		ctx:    context.WithoutCancel(ctx),
		fn:     fn,
		result: make(chan error, 1),
	}

	p.queuedGauge.Inc()
	select {
	case p.jobs <- j:
		p.queuedGauge.Dec()
	case <-ctx.Done():
		p.queuedGauge.Dec()
		return ctx.Err()
	case <-p.done:
		p.queuedGauge.Dec()
		return ErrClosed
	}

	return <-j.result
}

func (p *Pool) work() error {
	for {
		select {
		case <-p.done:
			return nil
		case j := <-p.jobs:
			j.result <- p.run(j)
		}
	}
}

func (p *Pool) run(j job) (err error) {
	p.busy.Add(1)
	p.busyGauge.Inc()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "panic", r)
			err = fmt.Errorf("workerpool %s: task panicked: %v", p.name, r)
		}
		p.duration.Observe(time.Since(start).Seconds())
		p.busyGauge.Dec()
		p.busy.Add(-1)
	}()

	return j.fn(j.ctx)
}
