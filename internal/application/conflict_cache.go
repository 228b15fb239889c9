package application

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/studio-scheduler/internal/scheduler"
)

// conflictCache stores recently computed conflict reports to avoid repeated
// detector execution for identical queries while availability and events
// remain unchanged. Any availability or event write invalidates it.
type conflictCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]conflictCacheEntry
}

type conflictCacheEntry struct {
	conflicts []scheduler.Conflict
	expiresAt time.Time
}

func newConflictCache(ttl time.Duration, maxEntries int, now func() time.Time) *conflictCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &conflictCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]conflictCacheEntry),
	}
}

func (c *conflictCache) Get(key string) ([]scheduler.Conflict, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneConflicts(entry.conflicts), true
}

func (c *conflictCache) Store(key string, conflicts []scheduler.Conflict) {
	if c == nil {
		return
	}
	cloned := cloneConflicts(conflicts)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = conflictCacheEntry{conflicts: cloned, expiresAt: expiry}
}

func (c *conflictCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]conflictCacheEntry)
	c.mu.Unlock()
}

func (c *conflictCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *conflictCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneConflicts(conflicts []scheduler.Conflict) []scheduler.Conflict {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]scheduler.Conflict, len(conflicts))
	copy(out, conflicts)
	return out
}

func buildConflictCacheKey(inviteeIDs []string, start, end time.Time) string {
	invitees := make([]string, len(inviteeIDs))
	copy(invitees, inviteeIDs)
	sort.Strings(invitees)

	builder := strings.Builder{}
	builder.WriteString(strings.Join(invitees, ","))
	builder.WriteString("|")
	builder.WriteString(start.UTC().Format(time.RFC3339Nano))
	builder.WriteString("|")
	builder.WriteString(end.UTC().Format(time.RFC3339Nano))
	return builder.String()
}
