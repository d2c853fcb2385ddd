package quotesync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// ErrSchedulerClosed is returned by Every after Shutdown.
var ErrSchedulerClosed = errors.New("scheduler is shut down")

// fixedInterval fires every d after the previous activation. Unlike cron.Every it is
// not rounded to whole seconds.
type fixedInterval time.Duration

func (f fixedInterval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(f))
}

// cronLogger adapts slog to cron.Logger. Cron's chatter goes to debug.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Handle identifies a recurring job registered with Every.
type Handle struct {
	id      cron.EntryID
	stopped atomic.Bool
}

// Stopped reports whether Stop was called for this handle.
func (h *Handle) Stopped() bool {
	return h.stopped.Load()
}

// Scheduler runs recurring jobs on fixed intervals on top of a cron runner.
// Runs of the same job may overlap when one takes longer than the interval.
type Scheduler struct {
	cron  *cron.Cron
	chain cron.Chain
	log   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup // immediate runs started by Every
}

// NewScheduler creates a stopped Scheduler. Call Start to begin ticking.
func NewScheduler(log *slog.Logger) *Scheduler {
	logger := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(logger)),
		chain:  cron.NewChain(cron.Recover(logger)),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins firing scheduled ticks.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Every runs fn once immediately and then every interval until Stop or Shutdown.
// fn receives a context that is cancelled on Shutdown.
func (s *Scheduler) Every(interval time.Duration, fn func(ctx context.Context)) (*Handle, error) {
	if interval <= 0 {
		return nil, apperrors.ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSchedulerClosed
	}

	h := &Handle{}
	job := s.chain.Then(cron.FuncJob(func() {
		if h.stopped.Load() || s.ctx.Err() != nil {
			return
		}
		fn(s.ctx)
	}))
	h.id = s.cron.Schedule(fixedInterval(interval), job)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()

	s.log.Debug("job scheduled", "entry", int(h.id), "interval", interval.String())
	return h, nil
}

// Stop removes future ticks of h. A run already in flight is left to finish.
func (s *Scheduler) Stop(h *Handle) {
	if h == nil || h.stopped.Swap(true) {
		return
	}
	s.cron.Remove(h.id)
	s.log.Debug("job stopped", "entry", int(h.id))
}

// Shutdown stops all ticking, cancels the context passed to jobs and waits for running
// jobs to return or for ctx to end, whichever comes first.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	stopped := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
