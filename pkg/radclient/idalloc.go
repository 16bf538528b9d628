package radclient

import (
	"context"
	"sync"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// idAllocator hands out 8-bit packet identifiers per destination
// (dest-address:port), advancing a monotonic counter that wraps at 256 and
// skipping any id with an in-flight request on that same destination.
// Blocking callers wait on a condition variable rather than failing
// immediately; Release must always be called, typically via defer, once
// the request/response cycle for that id completes or is cancelled.
type idAllocator struct {
	mu       sync.Mutex
	cond     *sync.Cond
	next     map[string]byte
	inFlight map[string]map[byte]bool
}

func newIDAllocator() *idAllocator {
	a := &idAllocator{
		next:     make(map[string]byte),
		inFlight: make(map[string]map[byte]bool),
	}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// Acquire blocks until an id not currently in flight for dest is
// available, or ctx is cancelled. The returned release func marks the id
// free again and must be called exactly once.
func (a *idAllocator) Acquire(ctx context.Context, dest string) (byte, func(), error) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			a.mu.Lock()
			a.cond.Broadcast()
			a.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	a.mu.Lock()
	defer a.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return 0, func() {}, radius.WrapError(radius.ErrIO, "id allocation cancelled", err)
		}
		inUse, ok := a.inFlight[dest]
		if !ok {
			inUse = make(map[byte]bool)
			a.inFlight[dest] = inUse
		}
		if len(inUse) >= 256 {
			a.cond.Wait()
			continue
		}
		id := a.next[dest]
		for inUse[id] {
			id++
		}
		inUse[id] = true
		a.next[dest] = id + 1
		return id, func() { a.release(dest, id) }, nil
	}
}

func (a *idAllocator) release(dest string, id byte) {
	a.mu.Lock()
	if inUse, ok := a.inFlight[dest]; ok {
		delete(inUse, id)
	}
	a.cond.Broadcast()
	a.mu.Unlock()
}
