// Package dispatch runs closures on a single owner goroutine.
//
// Observable objects are not safe for concurrent use. Work that happens on
// other goroutines (timers, network handlers, long-running saves) posts its
// property updates to a Dispatcher so that every mutation of an object graph
// happens on the same logical owner.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned when work is posted before Start.
	ErrNotStarted = errors.New("dispatch: dispatcher not started")
	// ErrShutdown is returned when work is posted after Shutdown or Stop.
	ErrShutdown = errors.New("dispatch: dispatcher shut down")
)

const queueSize = 100

// Invoke task states.
const (
	taskQueued int32 = iota
	taskRunning
	taskAbandoned
)

// Dispatcher owns one worker goroutine that runs posted closures in order.
type Dispatcher struct {
	tasks  chan func()
	logger *zap.Logger
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	started  bool
	shutdown bool
}

// New creates a dispatcher. A nil logger discards diagnostics.
func New(logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		tasks:  make(chan func(), queueSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the worker. Calling it again is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return
	}
	d.wg.Add(1)
	go d.worker()
	d.started = true
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for {
		select {
		case <-d.ctx.Done():
			return
		case fn, ok := <-d.tasks:
			if !ok {
				return
			}
			d.run(fn)
		}
	}
}

func (d *Dispatcher) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatched task panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// Post queues fn to run on the worker without waiting for it.
func (d *Dispatcher) Post(fn func()) error {
	if fn == nil {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.started {
		return ErrNotStarted
	}
	if d.shutdown {
		return ErrShutdown
	}

	select {
	case d.tasks <- fn:
		return nil
	case <-d.ctx.Done():
		return ErrShutdown
	}
}

// Invoke runs fn on the worker and waits for it to finish or for ctx to end.
// It must not be called from the worker itself.
//
// When Invoke returns ctx.Err() or ErrShutdown, fn has not run and never
// will. Once fn has started, Invoke waits for it and returns its result.
func (d *Dispatcher) Invoke(ctx context.Context, fn func() error) error {
	var state atomic.Int32
	done := make(chan error, 1)
	err := d.Post(func() {
		if ctx.Err() != nil || !state.CompareAndSwap(taskQueued, taskRunning) {
			return
		}
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("dispatched task panicked: %v", r)
			}
			done <- err
		}()
		err = fn()
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
	case <-d.ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ErrShutdown
		}
	}
	return <-done
}

// Shutdown stops accepting work and waits for queued closures to finish.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if !d.started || d.shutdown {
		d.mu.Unlock()
		return
	}
	d.shutdown = true
	close(d.tasks)
	d.mu.Unlock()

	d.wg.Wait()
}

// Stop abandons queued work and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	d.cancel()

	d.mu.Lock()
	d.shutdown = true
	d.mu.Unlock()

	d.wg.Wait()
}
