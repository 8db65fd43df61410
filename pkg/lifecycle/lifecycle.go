// Package lifecycle coordinates named startup and shutdown hooks.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	ready      atomic.Bool

	mu       sync.Mutex
	failures []error
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently with the coordinator's context. A returned
// error is recorded under name and keeps the coordinator from becoming ready.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.startupWg.Go(func() {
		if err := fn(c.ctx); err != nil {
			c.mu.Lock()
			c.failures = append(c.failures, fmt.Errorf("%s: %w", name, err))
			c.mu.Unlock()
		}
	})
}

// OnShutdown registers fn to run once the coordinator's context is cancelled.
// Hooks run concurrently and Shutdown waits for all of them.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(func() {
		<-c.ctx.Done()
		fn()
	})
}

// Ready returns true after all startup hooks completed without error.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed. It sets the
// ready flag when every hook succeeded and otherwise returns the joined
// failures.
func (c *Coordinator) WaitForStartup() error {
	c.startupWg.Wait()

	c.mu.Lock()
	err := errors.Join(c.failures...)
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	c.ready.Store(true)
	return nil
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
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
