package radserver

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// dedupeKey identifies one in-flight or recently-answered request for
// duplicate suppression: source address, packet id, and the request
// authenticator (two genuinely distinct retransmits of the same id from
// the same NAS can carry different authenticators; only an exact replay
// should be suppressed).
type dedupeKey struct {
	source        string
	id            byte
	authenticator [16]byte
}

type dedupeEntry struct {
	reply     []byte
	expiresAt time.Time
}

// dedupeCache is a capacity-bounded (source, id, request-authenticator) ->
// reply-bytes cache with explicit expiry, backing the accounting/CoA
// duplicate-suppression window. Capacity bounding via
// hashicorp/golang-lru/v2 keeps a misbehaving NAS that cycles through ids
// rapidly from growing the cache without bound; expiry is checked on
// lookup since the library has no built-in TTL in the version this module
// pins.
type dedupeCache struct {
	mu     sync.Mutex
	window time.Duration
	cache  *lru.Cache[dedupeKey, dedupeEntry]
}

func newDedupeCache(window time.Duration, size int) *dedupeCache {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[dedupeKey, dedupeEntry](size)
	return &dedupeCache{window: window, cache: c}
}

// Lookup returns the cached reply for key if present and not yet expired.
func (d *dedupeCache) Lookup(key dedupeKey) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		d.cache.Remove(key)
		return nil, false
	}
	return entry.reply, true
}

// Store records reply under key with the configured expiry window.
func (d *dedupeCache) Store(key dedupeKey, reply []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Add(key, dedupeEntry{reply: reply, expiresAt: time.Now().Add(d.window)})
}
