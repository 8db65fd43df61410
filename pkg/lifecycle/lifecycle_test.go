package lifecycle_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/redline/pkg/lifecycle"
)

func TestStartupReady(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Int32
	for range 3 {
		lc.OnStartup("hook", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	if ran.Load() != 3 {
		t.Errorf("hooks run: got %d, want 3", ran.Load())
	}
	if !lc.Ready() {
		t.Error("coordinator should be ready")
	}
}

func TestStartupFailure(t *testing.T) {
	lc := lifecycle.New()
	errBoom := errors.New("boom")

	lc.OnStartup("ok", func(ctx context.Context) error { return nil })
	lc.OnStartup("reasoning", func(ctx context.Context) error { return errBoom })

	err := lc.WaitForStartup()
	if !errors.Is(err, errBoom) {
		t.Fatalf("error: got %v, want boom", err)
	}
	if !strings.Contains(err.Error(), "reasoning") {
		t.Errorf("error should name the hook: %v", err)
	}
	if lc.Ready() {
		t.Error("failed startup should not be ready")
	}
}

func TestShutdownRunsHooks(t *testing.T) {
	lc := lifecycle.New()

	var ran atomic.Bool
	lc.OnShutdown(func() { ran.Store(true) })

	if err := lc.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup: %v", err)
	}
	if ran.Load() {
		t.Fatal("shutdown hook ran before shutdown")
	}

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !ran.Load() {
		t.Error("shutdown hook should have run")
	}
	if lc.Ready() {
		t.Error("coordinator should not be ready after shutdown")
	}
	if lc.Context().Err() == nil {
		t.Error("context should be cancelled")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	defer close(release)

	lc.OnShutdown(func() { <-release })

	err := lc.Shutdown(20 * time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "shutdown timeout") {
		t.Errorf("error: got %v, want shutdown timeout", err)
	}
}
