package resilience

import (
	"fmt"
	"sync"
)

// SingleFlight deduplicates concurrent calls for the same key.
// The zero value is ready to use.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Do runs fn once per key among concurrent callers. shared reports
// whether the result came from another caller's run. A panic in fn is
// returned to every waiter as an error.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (v any, err error, shared bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	return c.val, c.err, false
}

// Result is what DoChan delivers.
type Result struct {
	Val    any
	Err    error
	Shared bool
}

// DoChan is Do without blocking the caller. The key is claimed before
// DoChan returns. The channel is buffered, so callers that stop listening
// do not leak the runner.
func (g *SingleFlight) DoChan(key string, fn func() (any, error)) <-chan Result {
	ch := make(chan Result, 1)

	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call)
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		go func() {
			c.wg.Wait()
			ch <- Result{Val: c.val, Err: c.err, Shared: true}
		}()
		return ch
	}

	c := &call{}
	c.wg.Add(1)
	g.calls[key] = c
	g.mu.Unlock()

	go func() {
		g.run(key, c, fn)
		ch <- Result{Val: c.val, Err: c.err}
	}()
	return ch
}

func (g *SingleFlight) run(key string, c *call, fn func() (any, error)) {
	defer func() {
		if rec := recover(); rec != nil {
			c.val = nil
			c.err = fmt.Errorf("singleflight %q panicked: %v", key, rec)
		}

		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		c.wg.Done()
	}()

	c.val, c.err = fn()
}

// InFlight reports the number of keys currently being loaded.
func (g *SingleFlight) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
