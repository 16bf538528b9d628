package radclient

import (
	"context"

	"github.com/nicholasamorim/radiusgo/pkg/radius"
)

// AsyncClient is the non-blocking counterpart to Client: SendPacketAsync
// suspends the caller instead of blocking a dedicated goroutine stack,
// and multiple outstanding requests may multiplex through the same
// Client, correlated by id per destination. Per-(destination,
// id) ordering is serialised by the id allocator; no ordering is promised
// across distinct ids.
type AsyncClient struct {
	*Client
}

// NewAsync wraps cfg in an AsyncClient.
func NewAsync(cfg Config) (*AsyncClient, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{Client: c}, nil
}

// Result is the value delivered on the channel SendPacketAsync returns.
type Result struct {
	Reply *radius.Packet
	Err   error
}

// SendPacketAsync starts pkt's send-with-retry cycle on its own goroutine
// and returns a channel that receives exactly one Result. Cancelling ctx
// aborts the in-flight attempt whether it is blocked on id allocation or
// on the socket read (the read socket is closed out from under it),
// releasing the reserved id and delivering a cancellation error distinct
// from Timeout.
func (a *AsyncClient) SendPacketAsync(ctx context.Context, pkt *radius.Packet) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		reply, err := a.SendPacket(ctx, pkt)
		ch <- Result{Reply: reply, Err: err}
	}()
	return ch
}

// Wait blocks until ch delivers its single Result, or ctx is cancelled
// first (in which case the underlying send may still be unwinding).
func (a *AsyncClient) Wait(ctx context.Context, ch <-chan Result) (*radius.Packet, error) {
	select {
	case r := <-ch:
		return r.Reply, r.Err
	case <-ctx.Done():
		return nil, radius.WrapError(radius.ErrIO, "wait cancelled", ctx.Err())
	}
}
