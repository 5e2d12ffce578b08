package service

import (
	"sync"

	"github.com/vios-project/vios/internal/store"
	"github.com/vios-project/vios/pkg/settings"
)

// captureState is a cache entry holding the reconstructed tree of the
// latest-restored revision for one system.
type captureState struct {
	tree settings.Tree
	rev  store.RevisionID
}

// stateCache keeps the last reconstructed state per system so consecutive
// commits don't replay the patch chain every time. Runs are short-lived,
// so entries live for the lifetime of the process; no eviction needed.
type stateCache struct {
	mu   sync.RWMutex
	data map[string]*captureState
}

func newStateCache() *stateCache {
	return &stateCache{
		data: make(map[string]*captureState, 8),
	}
}

// get returns nil on a miss.
func (c *stateCache) get(systemID string) *captureState {
	c.mu.RLock()
	entry := c.data[systemID]
	c.mu.RUnlock()
	return entry
}

// set overwrites (or creates) the entry.
func (c *stateCache) set(systemID string, state *captureState) {
	c.mu.Lock()
	c.data[systemID] = state
	c.mu.Unlock()
}
