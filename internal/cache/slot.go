package cache

import "github.com/dgnsrekt/djcache/internal/track"

// slot is one cache entry. It is occupied exactly when its handle owns a
// track.
type slot struct {
	h          *track.Handle
	lastAccess uint64
}

func (s *slot) occupied() bool {
	return s.h.Valid()
}

// store moves h into the slot and stamps it.
func (s *slot) store(h *track.Handle, t uint64) {
	s.h.Close()
	s.h = h.Take()
	s.lastAccess = t
}

// access stamps the slot and returns its track.
func (s *slot) access(t uint64) track.AudioTrack {
	s.lastAccess = t
	return s.h.Get()
}

// clear closes the owned track and empties the slot.
func (s *slot) clear() {
	s.h.Close()
	s.h = nil
	s.lastAccess = 0
}

func (s *slot) title() string {
	if !s.occupied() {
		return ""
	}
	return s.h.Get().Title()
}
