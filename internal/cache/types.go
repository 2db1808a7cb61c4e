package cache

import "time"

// Stats holds cache counters. They are diagnostics only and never affect
// eviction.
type Stats struct {
	// Configuration
	Capacity int // Number of slots

	// Current state
	Size int // Occupied slots

	// Performance metrics
	Hits       int64   // Get calls that found the title, deck fetches included
	Misses     int64   // Get calls that did not
	Insertions int64   // Tracks stored by Put
	Touches    int64   // Put calls for a title already cached
	Evictions  int64   // Entries removed by the LRU policy
	Dropped    int64   // Entries lost by shrinking the capacity
	HitRate    float64 // hits / (hits + misses)

	// Timing
	LastAccess time.Time // Last Get hit or Put
	LastEvict  time.Time // Last LRU eviction
}

// SlotStatus describes one slot for diagnostics.
type SlotStatus struct {
	Index      int
	Occupied   bool
	Title      string
	LastAccess uint64
}
