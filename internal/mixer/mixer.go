package mixer

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/track"
)

// DeckCount is the number of decks.
const DeckCount = 2

// ErrCloneFailed is returned when a track cannot be cloned onto a deck.
var ErrCloneFailed = errors.New("track clone failed")

// Options configure an Engine.
type Options struct {
	AutoSync     bool
	BPMTolerance int
}

// Transition describes one LoadTrackToDeck call.
type Transition struct {
	Deck        int
	Title       string
	Unloaded    string // title unloaded from the previously active deck
	OriginalBPM int
	SyncedBPM   int // zero when no sync happened
	LoadReport  string
	GridReport  string
}

// Synced reports whether the track tempo was changed.
func (t Transition) Synced() bool {
	return t.SyncedBPM != 0
}

// Engine owns the decks.
type Engine struct {
	decks  [DeckCount]*track.Handle
	active int

	autoSync     bool
	bpmTolerance int
}

// New creates an engine with empty decks.
func New(opts Options) *Engine {
	e := &Engine{
		autoSync:     opts.AutoSync,
		bpmTolerance: max(opts.BPMTolerance, 0),
	}
	log.Debug("Mixing engine initialized", "decks", DeckCount, "auto_sync", e.autoSync, "bpm_tolerance", e.bpmTolerance)
	return e
}

// AutoSync reports whether tempo sync is enabled.
func (e *Engine) AutoSync() bool { return e.autoSync }

// SetAutoSync enables or disables tempo sync.
func (e *Engine) SetAutoSync(on bool) { e.autoSync = on }

// BPMTolerance returns the largest tempo difference that still mixes.
func (e *Engine) BPMTolerance() int { return e.bpmTolerance }

// SetBPMTolerance changes the tolerance; negative values are treated as 0.
func (e *Engine) SetBPMTolerance(n int) { e.bpmTolerance = max(n, 0) }

// ActiveDeck returns the index of the active deck.
func (e *Engine) ActiveDeck() int { return e.active }

// Deck returns the track on deck i, or nil.
func (e *Engine) Deck(i int) track.AudioTrack {
	if i < 0 || i >= DeckCount {
		return nil
	}
	return e.decks[i].Get()
}

// LoadTrackToDeck clones t onto a deck and returns the deck index.
//
// With both decks empty the clone goes to deck 0, which becomes active.
// Otherwise the clone goes to the inactive deck, is synced to the active
// deck when auto sync is on and the tempos are within tolerance, and then
// becomes active while the previously active deck is unloaded.
func (e *Engine) LoadTrackToDeck(t track.AudioTrack) (Transition, error) {
	clone := t.Clone()
	if !clone.Valid() {
		log.Error("Track failed to clone", "title", t.Title())
		return Transition{Deck: -1, Title: t.Title()}, fmt.Errorf("%w: %q", ErrCloneFailed, t.Title())
	}

	c := clone.Get()
	tr := Transition{
		Title:       c.Title(),
		OriginalBPM: c.BPM(),
		LoadReport:  c.Load(),
		GridReport:  c.AnalyzeBeatgrid(),
	}

	if !e.decks[0].Valid() && !e.decks[1].Valid() {
		e.decks[0] = clone.Take()
		e.active = 0
		tr.Deck = 0
		log.Info("Track loaded", "title", tr.Title, "deck", 0)
		return tr, nil
	}

	target := 1 - e.active
	log.Debug("Deck switch", "target", target)

	if e.decks[target].Valid() {
		log.Debug("Unloading target deck", "deck", target, "title", e.decks[target].Get().Title())
		e.decks[target].Close()
	}

	if e.autoSync && e.CanMixTracks(c) {
		e.SyncBPM(c)
		tr.SyncedBPM = c.BPM()
	}

	e.decks[target] = clone.Take()
	tr.Deck = target
	log.Info("Track loaded", "title", tr.Title, "deck", target)

	if prev := e.decks[e.active]; prev.Valid() {
		tr.Unloaded = prev.Get().Title()
		log.Info("Unloading previous deck", "deck", e.active, "title", tr.Unloaded)
		prev.Close()
	}

	e.active = target
	return tr, nil
}

// CanMixTracks reports whether t is within the BPM tolerance of the active
// deck. It is false when the active deck is empty.
func (e *Engine) CanMixTracks(t track.AudioTrack) bool {
	active := e.decks[e.active].Get()
	if active == nil || t == nil {
		return false
	}
	diff := active.BPM() - t.BPM()
	if diff < 0 {
		diff = -diff
	}
	return diff <= e.bpmTolerance
}

// SyncBPM sets t's tempo to the average of its own and the active deck's.
func (e *Engine) SyncBPM(t track.AudioTrack) {
	active := e.decks[e.active].Get()
	if active == nil || t == nil {
		return
	}
	original := t.BPM()
	avg := (active.BPM() + original) / 2
	t.SetBPM(avg)
	log.Info("Syncing BPM", "title", t.Title(), "from", original, "to", avg)
}

// DisplayDeckStatus writes the deck contents to w.
func (e *Engine) DisplayDeckStatus(w io.Writer) {
	fmt.Fprintln(w, "=== Deck Status ===")
	for i := range e.decks {
		if t := e.decks[i].Get(); t != nil {
			fmt.Fprintf(w, "Deck %d: %s\n", i, t.Title())
		} else {
			fmt.Fprintf(w, "Deck %d: [EMPTY]\n", i)
		}
	}
	fmt.Fprintf(w, "Active Deck: %d\n", e.active)
	fmt.Fprintln(w, "===================")
}

// Close unloads both decks.
func (e *Engine) Close() {
	for i := range e.decks {
		e.decks[i].Close()
	}
}
