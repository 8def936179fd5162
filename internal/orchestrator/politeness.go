package orchestrator

import (
	"context"
	"sync"
)

// HostGate caps the number of requests in flight against one host at
// once (spec §4.D: "at most 2 concurrent requests" per origin), a
// constraint the rate limiter's token bucket doesn't express on its
// own — a bucket can admit a burst of N requests that then all run
// concurrently if nothing else bounds them.
type HostGate struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

// NewHostGate builds an empty HostGate.
func NewHostGate() *HostGate {
	return &HostGate{gates: make(map[string]chan struct{})}
}

// Acquire blocks until a slot against host is free or ctx is done. The
// caller must call Release exactly once after a successful Acquire.
func (g *HostGate) Acquire(ctx context.Context, host string) error {
	ch := g.gateFor(host)
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees one slot against host.
func (g *HostGate) Release(host string) {
	ch := g.gateFor(host)
	select {
	case <-ch:
	default:
	}
}

func (g *HostGate) gateFor(host string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[host]
	if !ok {
		ch = make(chan struct{}, perHostConcurrency)
		g.gates[host] = ch
	}
	return ch
}
