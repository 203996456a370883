// Package lifecycle coordinates subsystem startup and shutdown for the service process.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Coordinator runs registered startup hooks concurrently, tracks whether they
// all succeeded, and fans shutdown out to hooks that wait on its context.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu       sync.RWMutex
	ready    bool
	failures []error
}

// New creates a Coordinator whose context is cancelled by Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook that runs immediately in its own goroutine.
// A non-nil error marks the process as not ready.
func (c *Coordinator) OnStartup(fn func() error) {
	c.startupWg.Go(func() {
		if err := fn(); err != nil {
			c.mu.Lock()
			c.failures = append(c.failures, err)
			c.mu.Unlock()
		}
	})
}

// OnShutdown registers a hook that runs in its own goroutine.
// Hooks block on <-c.Context().Done() before releasing resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// WaitForStartup blocks until every startup hook returns. The coordinator
// becomes ready only when none of them failed.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()

	c.mu.Lock()
	c.ready = len(c.failures) == 0
	c.mu.Unlock()
}

// Ready reports whether startup completed without failures.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Err returns the joined startup failures, or nil.
func (c *Coordinator) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return errors.Join(c.failures...)
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
