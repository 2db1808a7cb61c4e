package cache

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/track"
)

// LRUCache holds up to Capacity tracks keyed by title and evicts the least
// recently used one when a new title arrives at a full cache.
//
// Every Get hit and every Put takes a fresh value from a strictly
// increasing counter, so no two occupied slots share an access time and the
// eviction victim is always unique.
//
// LRUCache is not safe for concurrent use.
type LRUCache struct {
	slots   []slot
	counter uint64

	stats Stats
}

// New creates a cache with the given number of slots.
func New(capacity int) *LRUCache {
	capacity = max(capacity, 0)
	return &LRUCache{
		slots: make([]slot, capacity),
		stats: Stats{Capacity: capacity},
	}
}

// Capacity returns the number of slots.
func (c *LRUCache) Capacity() int {
	return len(c.slots)
}

// Contains reports whether a track with the title is cached. It does not
// change the eviction order.
func (c *LRUCache) Contains(title string) bool {
	return c.findSlot(title) >= 0
}

// Get returns the cached track with the title, or nil. A hit marks the
// track as most recently used. The cache keeps ownership: the returned
// track is only valid until it is evicted or the cache is cleared.
func (c *LRUCache) Get(title string) track.AudioTrack {
	idx := c.findSlot(title)
	if idx < 0 {
		c.stats.Misses++
		return nil
	}

	c.stats.Hits++
	c.stats.LastAccess = time.Now()
	return c.slots[idx].access(c.tick())
}

// Put moves the track owned by h into the cache and reports whether another
// entry had to be evicted to make room.
//
// An empty handle is rejected. If a track with the same title is already
// cached, that entry is only marked as recently used and the supplied track
// is closed. In every accepted case h is left empty.
func (c *LRUCache) Put(h *track.Handle) bool {
	if !h.Valid() {
		return false
	}

	title := h.Get().Title()
	if idx := c.findSlot(title); idx >= 0 {
		c.slots[idx].access(c.tick())
		c.stats.Touches++
		c.stats.LastAccess = time.Now()
		h.Close()
		log.Debug("Cache touch", "title", title, "slot", idx)
		return false
	}

	evicted := false
	if c.isFull() {
		evicted = c.evictLRU()
	}

	idx := c.findEmptySlot()
	if idx < 0 {
		// Only reachable with zero capacity.
		log.Warn("Cache has no slots, dropping track", "title", title)
		h.Close()
		return evicted
	}

	c.slots[idx].store(h, c.tick())
	c.stats.Insertions++
	c.stats.LastAccess = time.Now()
	log.Debug("Cache insert", "title", title, "slot", idx, "evicted", evicted)
	return evicted
}

// evictLRU clears the occupied slot with the oldest access time. It reports
// false when there was nothing to evict.
func (c *LRUCache) evictLRU() bool {
	idx := c.findLRUSlot()
	if idx < 0 {
		return false
	}

	log.Debug("Cache evict", "title", c.slots[idx].title(), "slot", idx,
		"last_access", c.slots[idx].lastAccess)
	c.slots[idx].clear()
	c.stats.Evictions++
	c.stats.LastEvict = time.Now()
	return true
}

// Size returns the number of occupied slots.
func (c *LRUCache) Size() int {
	n := 0
	for i := range c.slots {
		if c.slots[i].occupied() {
			n++
		}
	}
	return n
}

// Clear closes every cached track.
func (c *LRUCache) Clear() {
	for i := range c.slots {
		c.slots[i].clear()
	}
}

// SetCapacity resizes the slot array. Growing keeps every entry. Shrinking
// cuts the array: entries in the removed slots are closed without going
// through the LRU policy, so the survivors are whatever sat in the first n
// slots.
func (c *LRUCache) SetCapacity(n int) {
	n = max(n, 0)
	if n == len(c.slots) {
		return
	}

	if n < len(c.slots) {
		for i := n; i < len(c.slots); i++ {
			if c.slots[i].occupied() {
				log.Debug("Cache shrink drops entry", "title", c.slots[i].title(), "slot", i)
				c.stats.Dropped++
			}
			c.slots[i].clear()
		}
		c.slots = c.slots[:n:n]
	} else {
		grown := make([]slot, n)
		copy(grown, c.slots)
		c.slots = grown
	}

	c.stats.Capacity = n
	log.Debug("Cache resized", "capacity", n)
}

// Titles returns the cached titles in slot order.
func (c *LRUCache) Titles() []string {
	titles := make([]string, 0, len(c.slots))
	for i := range c.slots {
		if c.slots[i].occupied() {
			titles = append(titles, c.slots[i].title())
		}
	}
	return titles
}

// Status returns a snapshot of every slot.
func (c *LRUCache) Status() []SlotStatus {
	status := make([]SlotStatus, len(c.slots))
	for i := range c.slots {
		s := &c.slots[i]
		status[i] = SlotStatus{
			Index:    i,
			Occupied: s.occupied(),
			Title:    s.title(),
		}
		if status[i].Occupied {
			status[i].LastAccess = s.lastAccess
		}
	}
	return status
}

// DisplayStatus writes a plain text listing of the slots to w.
func (c *LRUCache) DisplayStatus(w io.Writer) {
	fmt.Fprintf(w, "[LRUCache] Status: %d/%d slots used\n", c.Size(), c.Capacity())
	for _, s := range c.Status() {
		if s.Occupied {
			fmt.Fprintf(w, "  Slot %d: %s (last access: %d)\n", s.Index, s.Title, s.LastAccess)
		} else {
			fmt.Fprintf(w, "  Slot %d: [EMPTY]\n", s.Index)
		}
	}
}

// Stats returns cache statistics.
func (c *LRUCache) Stats() Stats {
	stats := c.stats
	stats.Capacity = len(c.slots)
	stats.Size = c.Size()

	if stats.Hits+stats.Misses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Hits+stats.Misses)
	}
	return stats
}

func (c *LRUCache) tick() uint64 {
	c.counter++
	return c.counter
}

func (c *LRUCache) isFull() bool {
	return c.Size() >= len(c.slots)
}

func (c *LRUCache) findSlot(title string) int {
	for i := range c.slots {
		if c.slots[i].occupied() && c.slots[i].title() == title {
			return i
		}
	}
	return -1
}

func (c *LRUCache) findEmptySlot() int {
	for i := range c.slots {
		if !c.slots[i].occupied() {
			return i
		}
	}
	return -1
}

func (c *LRUCache) findLRUSlot() int {
	idx := -1
	var oldest uint64
	for i := range c.slots {
		if !c.slots[i].occupied() {
			continue
		}
		if idx < 0 || c.slots[i].lastAccess < oldest {
			idx = i
			oldest = c.slots[i].lastAccess
		}
	}
	return idx
}
