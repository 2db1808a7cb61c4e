package dj

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/cache"
	"github.com/dgnsrekt/djcache/internal/controller"
	"github.com/dgnsrekt/djcache/internal/library"
	"github.com/dgnsrekt/djcache/internal/mixer"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/google/uuid"
)

// Event is one playlist track as it went through the cache and the decks.
type Event struct {
	Title   string
	Outcome controller.Outcome
	Deck    int
	Synced  bool
	FromBPM int
	ToBPM   int
	Err     error
}

// Summary collects the result of playing one playlist.
type Summary struct {
	RunID    string
	Session  string
	Playlist string
	Started  time.Time
	Finished time.Time

	Prepared []library.Prepared
	Events   []Event
	Skipped  []library.Skip

	Hits        int
	Misses      int
	Evictions   int
	DeckLoads   int
	Transitions int
	Syncs       int
	Errors      int

	Cache []cache.SlotStatus
	Stats cache.Stats
}

// Session plays playlists from a session config.
type Session struct {
	cfg        *session.Config
	library    *library.Service
	controller *controller.Service
	mixer      *mixer.Engine
}

// New builds the library, cache and decks described by cfg.
func New(cfg *session.Config) *Session {
	s := &Session{
		cfg:        cfg,
		library:    library.NewService(),
		controller: controller.NewService(cfg.CacheSize),
		mixer: mixer.New(mixer.Options{
			AutoSync:     cfg.AutoSync,
			BPMTolerance: cfg.BPMTolerance,
		}),
	}
	s.library.BuildLibrary(cfg.Library)
	return s
}

// Config returns the session config.
func (s *Session) Config() *session.Config { return s.cfg }

// Library returns the library service.
func (s *Session) Library() *library.Service { return s.library }

// Controller returns the cache controller.
func (s *Session) Controller() *controller.Service { return s.controller }

// Mixer returns the mixing engine.
func (s *Session) Mixer() *mixer.Engine { return s.mixer }

// Play loads the named playlist and plays it track by track. Per-track
// failures are recorded in the summary and do not stop the run.
func (s *Session) Play(name string) (Summary, error) {
	p, err := s.cfg.Playlist(name)
	if err != nil {
		return Summary{}, err
	}

	sum := s.Start(name)
	log.Info("Playing playlist", "playlist", name, "run", sum.RunID)

	res := s.library.LoadPlaylistFromIndices(name, p.Tracks)
	sum.Prepared = res.Prepared
	sum.Skipped = res.Skipped

	for _, t := range s.library.Playlist().Tracks() {
		sum.Record(s.PlayTrack(t.Title()))
	}

	s.Finish(&sum)
	log.Info("Playlist finished", "playlist", name,
		"hits", sum.Hits, "misses", sum.Misses, "evictions", sum.Evictions, "errors", sum.Errors)
	return sum, nil
}

// PlayTrack sends the playlist track with the given title through the cache
// and onto a deck. When the title is not in the current playlist the
// library is searched instead.
func (s *Session) PlayTrack(title string) Event {
	ev := Event{Title: title, Deck: -1}

	t := s.library.FindTrack(title)
	if t == nil {
		for _, lt := range s.library.Library() {
			if lt.Title() == title {
				t = lt
				break
			}
		}
	}
	if t == nil {
		ev.Err = fmt.Errorf("%w: %q", ErrUnknownTrack, title)
		if hints := s.library.Suggest(title); len(hints) > 0 {
			log.Warn("Unknown track", "title", title, "did_you_mean", hints)
		}
		return ev
	}

	load, err := s.controller.LoadTrackToCache(t)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Outcome = load.Outcome

	cached := s.controller.TrackFromCache(title)
	if cached == nil {
		ev.Err = fmt.Errorf("%w: %q", ErrNotCached, title)
		return ev
	}

	tr, err := s.mixer.LoadTrackToDeck(cached)
	if err != nil {
		ev.Err = err
		return ev
	}
	ev.Deck = tr.Deck
	ev.Synced = tr.Synced()
	ev.FromBPM = tr.OriginalBPM
	ev.ToBPM = tr.SyncedBPM
	return ev
}

var (
	// ErrUnknownTrack is recorded when a title is in neither the playlist
	// nor the library.
	ErrUnknownTrack = errors.New("unknown track")

	// ErrNotCached is recorded when a track disappears from the cache
	// between loading and decking. It only happens with a zero capacity.
	ErrNotCached = errors.New("track not cached")
)

// Start returns an empty summary for tracks played one at a time with
// PlayTrack.
func (s *Session) Start(playlist string) Summary {
	return Summary{
		RunID:    uuid.NewString(),
		Session:  s.cfg.Name,
		Playlist: playlist,
		Started:  time.Now(),
	}
}

// Finish stamps the summary with the end time and the current cache state.
func (s *Session) Finish(sum *Summary) {
	sum.Finished = time.Now()
	sum.Cache = s.controller.Cache().Status()
	sum.Stats = s.controller.Cache().Stats()
}

// Record adds an event to the summary and updates the counters.
func (sum *Summary) Record(ev Event) {
	sum.Events = append(sum.Events, ev)
	if ev.Err != nil {
		sum.Errors++
		return
	}

	switch ev.Outcome {
	case controller.Hit:
		sum.Hits++
	case controller.Miss:
		sum.Misses++
	case controller.MissEvicted:
		sum.Misses++
		sum.Evictions++
	}
	if ev.Deck >= 0 {
		sum.DeckLoads++
		if sum.DeckLoads > 1 {
			sum.Transitions++
		}
	}
	if ev.Synced {
		sum.Syncs++
	}
}

// HitRate returns hits / (hits + misses) over the loads in the summary,
// or 0 before the first successful load.
func (sum Summary) HitRate() float64 {
	n := sum.Hits + sum.Misses
	if n == 0 {
		return 0
	}
	return float64(sum.Hits) / float64(n)
}

// Duration returns how long the run took.
func (sum Summary) Duration() time.Duration {
	return sum.Finished.Sub(sum.Started)
}

// DisplayStatus writes the cache and deck status to w.
func (s *Session) DisplayStatus(w io.Writer) {
	s.controller.DisplayCacheStatus(w)
	s.mixer.DisplayDeckStatus(w)
}

// Close releases every track owned by the session.
func (s *Session) Close() {
	s.mixer.Close()
	s.controller.Close()
	s.library.Close()
}
