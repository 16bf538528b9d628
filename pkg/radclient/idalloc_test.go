package radclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAllocatorNoConcurrentReuse(t *testing.T) {
	a := newIDAllocator()
	ctx := context.Background()

	const n = 64
	var mu sync.Mutex
	seen := make(map[byte]bool)
	releases := make([]func(), 0, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, release, err := a.Acquire(ctx, "server:1812")
			require.NoError(t, err)
			mu.Lock()
			assert.False(t, seen[id], "id %d handed out twice while in flight", id)
			seen[id] = true
			releases = append(releases, release)
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for _, release := range releases {
		release()
	}
}

func TestIDAllocatorIndependentPerDestination(t *testing.T) {
	a := newIDAllocator()
	ctx := context.Background()

	id1, release1, err := a.Acquire(ctx, "a:1812")
	require.NoError(t, err)
	defer release1()

	id2, release2, err := a.Acquire(ctx, "b:1812")
	require.NoError(t, err)
	defer release2()

	// Separate destinations draw from separate counters, so both start at
	// the same value rather than excluding each other.
	assert.Equal(t, id1, id2)
}

func TestIDAllocatorBlocksWhenExhausted(t *testing.T) {
	a := newIDAllocator()
	ctx := context.Background()

	releases := make([]func(), 0, 256)
	for i := 0; i < 256; i++ {
		_, release, err := a.Acquire(ctx, "server:1812")
		require.NoError(t, err)
		releases = append(releases, release)
	}

	acquired := make(chan byte, 1)
	go func() {
		id, release, err := a.Acquire(ctx, "server:1812")
		if err == nil {
			defer release()
			acquired <- id
		}
	}()

	select {
	case <-acquired:
		t.Fatal("acquire should block while all 256 ids are in flight")
	case <-time.After(100 * time.Millisecond):
	}

	releases[0]()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("acquire should resume after an id is released")
	}
	for _, release := range releases[1:] {
		release()
	}
}

func TestIDAllocatorAcquireCancellation(t *testing.T) {
	a := newIDAllocator()

	releases := make([]func(), 0, 256)
	for i := 0; i < 256; i++ {
		_, release, err := a.Acquire(context.Background(), "server:1812")
		require.NoError(t, err)
		releases = append(releases, release)
	}
	defer func() {
		for _, release := range releases {
			release()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, _, err := a.Acquire(ctx, "server:1812")
	require.Error(t, err)
}
