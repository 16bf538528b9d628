// Package bidict implements a small bidirectional map used throughout the
// dictionary and packet codec to translate between symbolic names and
// numeric RADIUS codes.
package bidict

import "fmt"

// BiDict is a bidirectional mapping between two comparable key spaces. Every
// entry can be looked up by its forward key or its backward key in O(1).
type BiDict[F comparable, B comparable] struct {
	forward  map[F]B
	backward map[B]F
}

// New returns an empty BiDict.
func New[F comparable, B comparable]() *BiDict[F, B] {
	return &BiDict[F, B]{
		forward:  make(map[F]B),
		backward: make(map[B]F),
	}
}

// Add registers the pair (one, two), overwriting any existing mapping that
// shares either key.
func (b *BiDict[F, B]) Add(one F, two B) {
	if old, ok := b.forward[one]; ok {
		delete(b.backward, old)
	}
	if old, ok := b.backward[two]; ok {
		delete(b.forward, old)
	}
	b.forward[one] = two
	b.backward[two] = one
}

// Len returns the number of entries.
func (b *BiDict[F, B]) Len() int {
	return len(b.forward)
}

// Forward looks up the backward key for a given forward key.
func (b *BiDict[F, B]) Forward(key F) (B, bool) {
	v, ok := b.forward[key]
	return v, ok
}

// Backward looks up the forward key for a given backward key.
func (b *BiDict[F, B]) Backward(key B) (F, bool) {
	v, ok := b.backward[key]
	return v, ok
}

// HasForward reports whether key exists as a forward key.
func (b *BiDict[F, B]) HasForward(key F) bool {
	_, ok := b.forward[key]
	return ok
}

// HasBackward reports whether key exists as a backward key.
func (b *BiDict[F, B]) HasBackward(key B) bool {
	_, ok := b.backward[key]
	return ok
}

// GetForward looks up the backward key for a forward key, panicking with a
// descriptive message if absent. Used where the caller has already checked
// HasForward.
func (b *BiDict[F, B]) GetForward(key F) B {
	v, ok := b.forward[key]
	if !ok {
		panic(fmt.Sprintf("bidict: missing forward key %v", key))
	}
	return v
}

// GetBackward looks up the forward key for a backward key, panicking with a
// descriptive message if absent.
func (b *BiDict[F, B]) GetBackward(key B) F {
	v, ok := b.backward[key]
	if !ok {
		panic(fmt.Sprintf("bidict: missing backward key %v", key))
	}
	return v
}

// DeleteForward removes the entry identified by its forward key, if present.
func (b *BiDict[F, B]) DeleteForward(key F) {
	if v, ok := b.forward[key]; ok {
		delete(b.forward, key)
		delete(b.backward, v)
	}
}

// Keys returns all forward keys in unspecified order.
func (b *BiDict[F, B]) Keys() []F {
	keys := make([]F, 0, len(b.forward))
	for k := range b.forward {
		keys = append(keys, k)
	}
	return keys
}
