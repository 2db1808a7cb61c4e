package library

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/dgnsrekt/djcache/internal/track"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions caps the result of Suggest.
const maxSuggestions = 5

var (
	// ErrIndexOutOfRange is reported for playlist indices outside the
	// library.
	ErrIndexOutOfRange = errors.New("track index out of range")

	// ErrCloneFailed is reported when a library track cannot be cloned.
	ErrCloneFailed = errors.New("track clone failed")
)

// Prepared is a track that was cloned, loaded and analyzed for a playlist.
type Prepared struct {
	Index      int // 1-based library index
	Title      string
	LoadReport string
	GridReport string
}

// Skip records a playlist index that could not be added.
type Skip struct {
	Index int // 1-based library index as given
	Err   error
}

// LoadResult describes the outcome of LoadPlaylistFromIndices.
type LoadResult struct {
	Name     string
	Prepared []Prepared
	Skipped  []Skip
}

// Service owns the library tracks and the current playlist.
type Service struct {
	library  []*track.Handle
	playlist *Playlist
}

// NewService creates a service with an empty library.
func NewService() *Service {
	return &Service{playlist: NewPlaylist("")}
}

// BuildLibrary creates one library track per entry. Entries that cannot be
// built are logged and skipped; the number of tracks added is returned.
func (s *Service) BuildLibrary(entries []session.TrackInfo) int {
	added := 0
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			log.Warn("Skipping library entry", "title", e.Title, "error", err)
			continue
		}
		t, err := track.New(info)
		if err != nil {
			log.Warn("Skipping library entry", "title", e.Title, "error", err)
			continue
		}

		s.AddTrack(track.NewHandle(t))
		added++

		switch info.Kind {
		case track.KindMP3:
			log.Info("MP3Track created", "title", e.Title, "bitrate", fmt.Sprintf("%d kbps", e.ExtraParam1))
		case track.KindWAV:
			log.Info("WAVTrack created", "title", e.Title, "format", fmt.Sprintf("%dHz/%dbit", e.ExtraParam1, e.ExtraParam2))
		}
	}
	log.Info("Track library built", "tracks", added)
	return added
}

// AddTrack moves the track owned by h into the library.
func (s *Service) AddTrack(h *track.Handle) {
	if !h.Valid() {
		return
	}
	s.library = append(s.library, h.Take())
}

// Library returns the library tracks in order. The service keeps ownership.
func (s *Service) Library() []track.AudioTrack {
	tracks := make([]track.AudioTrack, len(s.library))
	for i, h := range s.library {
		tracks[i] = h.Get()
	}
	return tracks
}

// Playlist returns the current playlist.
func (s *Service) Playlist() *Playlist {
	return s.playlist
}

// LoadPlaylistFromIndices replaces the current playlist with clones of the
// library tracks at the given 1-based indices. Each clone is loaded and
// analyzed before it is added. Indices outside the library and failed
// clones are skipped; the remaining indices are still processed.
func (s *Service) LoadPlaylistFromIndices(name string, indices []int) LoadResult {
	log.Info("Loading playlist", "name", name)

	s.playlist.Close()
	s.playlist = NewPlaylist(name)
	result := LoadResult{Name: name}

	for _, idx := range indices {
		if idx < 1 || idx > len(s.library) {
			log.Warn("Track index out of bounds, skipping", "index", idx, "library", len(s.library))
			result.Skipped = append(result.Skipped, Skip{Index: idx, Err: ErrIndexOutOfRange})
			continue
		}

		clone := s.library[idx-1].Get().Clone()
		if !clone.Valid() {
			log.Error("Cloning track failed", "index", idx)
			result.Skipped = append(result.Skipped, Skip{Index: idx, Err: ErrCloneFailed})
			continue
		}

		t := clone.Get()
		p := Prepared{
			Index:      idx,
			Title:      t.Title(),
			LoadReport: t.Load(),
			GridReport: t.AnalyzeBeatgrid(),
		}
		s.playlist.Add(clone)
		result.Prepared = append(result.Prepared, p)
		log.Debug("Added track to playlist", "title", p.Title, "playlist", name)
	}

	log.Info("Playlist loaded", "name", name, "tracks", s.playlist.Len())
	return result
}

// FindTrack returns the playlist track with the exact title, or nil.
func (s *Service) FindTrack(title string) track.AudioTrack {
	return s.playlist.Find(title)
}

// Suggest returns library titles that fuzzily match the query, best first.
func (s *Service) Suggest(query string) []string {
	titles := make([]string, len(s.library))
	for i, h := range s.library {
		titles[i] = h.Get().Title()
	}

	matches := fuzzy.Find(query, titles)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// TrackTitles returns the titles of the current playlist.
func (s *Service) TrackTitles() []string {
	titles := make([]string, 0, s.playlist.Len())
	for _, t := range s.playlist.Tracks() {
		titles = append(titles, t.Title())
	}
	return titles
}

// DisplayLibrary writes the current playlist to w.
func (s *Service) DisplayLibrary(w io.Writer) {
	fmt.Fprintf(w, "=== DJ Library Playlist: %s ===\n", s.playlist.Name())
	if s.playlist.IsEmpty() {
		fmt.Fprintln(w, "Playlist is empty.")
		return
	}
	s.playlist.Display(w)
	fmt.Fprintf(w, "Total duration: %d seconds\n", s.playlist.TotalDuration())
}

// Close closes the playlist and every library track.
func (s *Service) Close() {
	s.playlist.Close()
	for _, h := range s.library {
		h.Close()
	}
	s.library = nil
}
