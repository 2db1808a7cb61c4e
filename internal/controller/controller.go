package controller

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/cache"
	"github.com/dgnsrekt/djcache/internal/track"
)

// ErrCloneFailed is returned when a track cannot be cloned for caching. The
// cache is left untouched.
var ErrCloneFailed = errors.New("track clone failed")

// Outcome is the result of loading a track into the cache.
type Outcome int

const (
	// Miss means the track was cloned and stored in a free slot.
	Miss Outcome = iota

	// Hit means the track was already cached and is now most recently used.
	Hit

	// MissEvicted means the track was stored after evicting another one.
	MissEvicted
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "HIT"
	case Miss:
		return "MISS"
	case MissEvicted:
		return "MISS+EVICT"
	default:
		return "UNKNOWN"
	}
}

// Code returns 1 for a hit, 0 for a miss and -1 for a miss with eviction.
func (o Outcome) Code() int {
	switch o {
	case Hit:
		return 1
	case MissEvicted:
		return -1
	default:
		return 0
	}
}

// Load is what LoadTrackToCache did for one track.
type Load struct {
	Title      string
	Outcome    Outcome
	LoadReport string // empty on a hit
	GridReport string // empty on a hit
}

// Service fronts the deck cache.
type Service struct {
	cache *cache.LRUCache
}

// NewService creates a controller with a cache of the given size.
func NewService(cacheSize int) *Service {
	return &Service{cache: cache.New(cacheSize)}
}

// Cache returns the underlying cache.
func (s *Service) Cache() *cache.LRUCache {
	return s.cache
}

// LoadTrackToCache makes sure a prepared copy of t is cached. A cached
// title is refreshed; otherwise t is cloned, the clone is loaded and
// analyzed, and it is stored in the cache. t itself is never stored.
func (s *Service) LoadTrackToCache(t track.AudioTrack) (Load, error) {
	title := t.Title()
	if s.cache.Get(title) != nil {
		log.Debug("Cache hit", "title", title)
		return Load{Title: title, Outcome: Hit}, nil
	}

	clone := t.Clone()
	if !clone.Valid() {
		log.Error("Cloning track for cache failed", "title", title)
		return Load{Title: title}, fmt.Errorf("%w: %q", ErrCloneFailed, title)
	}

	c := clone.Get()
	l := Load{
		Title:      title,
		Outcome:    Miss,
		LoadReport: c.Load(),
		GridReport: c.AnalyzeBeatgrid(),
	}

	if s.cache.Put(clone) {
		l.Outcome = MissEvicted
	}
	log.Debug("Cache load", "title", title, "outcome", l.Outcome)
	return l, nil
}

// SetCacheSize changes the cache capacity.
func (s *Service) SetCacheSize(n int) {
	s.cache.SetCapacity(n)
}

// TrackFromCache returns the cached track with the title and marks it as
// recently used. The cache keeps ownership.
func (s *Service) TrackFromCache(title string) track.AudioTrack {
	return s.cache.Get(title)
}

// DisplayCacheStatus writes the cache status to w.
func (s *Service) DisplayCacheStatus(w io.Writer) {
	fmt.Fprintln(w, "=== Cache Status ===")
	s.cache.DisplayStatus(w)
	fmt.Fprintln(w, "====================")
}

// Close releases every cached track.
func (s *Service) Close() {
	s.cache.Clear()
}
