package packet

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// RegistryCodecCache memoizes the pre-encoded registry codec NBT blob
// GameJoin carries. The codec is identical for every
// client in a given world configuration, so encoding it once per distinct
// input and keying by content hash avoids re-running the NBT encoder on
// every join.
type RegistryCodecCache struct {
	mu      sync.RWMutex
	entries map[uint64][]byte
}

// NewRegistryCodecCache returns an empty cache.
func NewRegistryCodecCache() *RegistryCodecCache {
	return &RegistryCodecCache{entries: make(map[uint64][]byte)}
}

// Get returns the cached encoding of raw if present.
func (c *RegistryCodecCache) Get(raw []byte) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[xxhash.Sum64(raw)]
	return v, ok
}

// Put stores encoded under raw's content hash, evicting nothing: the
// codec's input set is bounded by the number of distinct world
// configurations the server runs, never by player count.
func (c *RegistryCodecCache) Put(raw, encoded []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[xxhash.Sum64(raw)] = encoded
}
