package library

import (
	"fmt"
	"io"

	"github.com/dgnsrekt/djcache/internal/track"
)

// Playlist is an ordered list of tracks owned by the playlist.
type Playlist struct {
	name   string
	tracks []*track.Handle
}

// NewPlaylist creates an empty playlist.
func NewPlaylist(name string) *Playlist {
	return &Playlist{name: name}
}

// Name returns the playlist name.
func (p *Playlist) Name() string { return p.name }

// Len returns the number of tracks.
func (p *Playlist) Len() int { return len(p.tracks) }

// IsEmpty reports whether the playlist has no tracks.
func (p *Playlist) IsEmpty() bool { return len(p.tracks) == 0 }

// Add moves the track owned by h to the end of the playlist. Empty handles
// are ignored.
func (p *Playlist) Add(h *track.Handle) {
	if !h.Valid() {
		return
	}
	p.tracks = append(p.tracks, h.Take())
}

// Find returns the first track with the given title, or nil.
func (p *Playlist) Find(title string) track.AudioTrack {
	for _, h := range p.tracks {
		if h.Get().Title() == title {
			return h.Get()
		}
	}
	return nil
}

// Tracks returns the tracks in order. The playlist keeps ownership.
func (p *Playlist) Tracks() []track.AudioTrack {
	tracks := make([]track.AudioTrack, len(p.tracks))
	for i, h := range p.tracks {
		tracks[i] = h.Get()
	}
	return tracks
}

// TotalDuration returns the summed duration in seconds.
func (p *Playlist) TotalDuration() int {
	total := 0
	for _, h := range p.tracks {
		total += h.Get().Duration()
	}
	return total
}

// Display writes one line per track to w.
func (p *Playlist) Display(w io.Writer) {
	for i, h := range p.tracks {
		t := h.Get()
		fmt.Fprintf(w, "  %d. %s [%s] %d BPM, %ds\n", i+1, t.Title(), t.Kind(), t.BPM(), t.Duration())
	}
}

// Close closes every track.
func (p *Playlist) Close() {
	for _, h := range p.tracks {
		h.Close()
	}
	p.tracks = nil
}
