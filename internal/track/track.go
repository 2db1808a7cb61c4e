package track

import (
	"hash/fnv"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
)

// DefaultWaveformSamples is the waveform length used by the format
// constructors.
const DefaultWaveformSamples = 1000

// Track is the metadata and waveform buffer of a single audio item.
//
// A Track owns its waveform. Copies made with Copy or Assign never share the
// buffer; Move and MoveFrom hand it over and leave the source empty.
type Track struct {
	title    string
	artists  []string
	duration int // seconds
	bpm      int

	// waveform is nil once the track has been moved from or closed.
	waveform []float64
}

// NewTrack creates a track with a waveform of exactly samples elements.
func NewTrack(title string, artists []string, duration, bpm, samples int) *Track {
	if duration < 0 {
		duration = 0
	}
	if samples < 0 {
		samples = 0
	}

	t := &Track{
		title:    title,
		artists:  slices.Clone(artists),
		duration: duration,
		bpm:      bpm,
		waveform: make([]float64, samples),
	}
	fillWaveform(t.waveform, title)

	log.Debug("Track created", "title", title, "artists", artists, "samples", samples)
	return t
}

// fillWaveform writes placeholder samples in [-1, 1). The values are derived
// from the title so two tracks with the same title get the same waveform.
func fillWaveform(buf []float64, seed string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()
	rng := rand.New(rand.NewPCG(sum, sum>>1|1))
	for i := range buf {
		buf[i] = rng.Float64()*2 - 1
	}
}

// Copy returns a deep copy of t.
func (t *Track) Copy() *Track {
	c := &Track{}
	c.copyFields(t)
	return c
}

// Assign makes t a deep copy of src. The previous waveform of t is released
// first. Assigning a track to itself does nothing.
func (t *Track) Assign(src *Track) {
	if t == src || src == nil {
		return
	}
	t.release()
	t.copyFields(src)
}

func (t *Track) copyFields(src *Track) {
	t.title = src.title
	t.artists = slices.Clone(src.artists)
	t.duration = src.duration
	t.bpm = src.bpm
	if src.waveform != nil {
		t.waveform = make([]float64, len(src.waveform))
		copy(t.waveform, src.waveform)
	} else {
		t.waveform = nil
	}
}

// Move returns a new track that takes over t's metadata and waveform. t is
// left without a waveform and may only be reused through Assign or MoveFrom.
func (t *Track) Move() *Track {
	m := &Track{}
	m.MoveFrom(t)
	return m
}

// MoveFrom takes over src's metadata and waveform, releasing t's previous
// waveform first. src is left without a waveform. Moving a track into
// itself does nothing.
func (t *Track) MoveFrom(src *Track) {
	if t == src || src == nil {
		return
	}
	t.release()

	t.title = src.title
	t.artists = src.artists
	t.duration = src.duration
	t.bpm = src.bpm
	t.waveform = src.waveform

	src.artists = nil
	src.waveform = nil
}

// Close releases the waveform. It is safe to call more than once and on a
// moved-from track.
func (t *Track) Close() {
	if t == nil {
		return
	}
	if t.waveform != nil {
		log.Debug("Track released", "title", t.title)
	}
	t.release()
}

func (t *Track) release() {
	t.waveform = nil
}

// WaveformCopy copies the first count samples into dst. Nothing is copied
// when dst is nil, when t has no waveform, when count exceeds the waveform
// length or when dst cannot hold count samples.
func (t *Track) WaveformCopy(dst []float64, count int) {
	if dst == nil || t.waveform == nil || count < 0 {
		return
	}
	if count > len(t.waveform) || count > len(dst) {
		return
	}
	copy(dst[:count], t.waveform[:count])
}

// Title returns the track title. Titles are used as cache keys.
func (t *Track) Title() string { return t.title }

// Artists returns a copy of the artist list.
func (t *Track) Artists() []string { return slices.Clone(t.artists) }

// Duration returns the length of the track in seconds.
func (t *Track) Duration() int { return t.duration }

// BPM returns the track tempo.
func (t *Track) BPM() int { return t.bpm }

// SetBPM changes the track tempo.
func (t *Track) SetBPM(bpm int) { t.bpm = bpm }

// WaveformLen returns the number of samples owned by the track.
func (t *Track) WaveformLen() int { return len(t.waveform) }

// HasWaveform reports whether the track still owns a waveform buffer.
func (t *Track) HasWaveform() bool { return t.waveform != nil }

// Base returns t itself; it lets the format types expose their embedded
// Track through the AudioTrack interface.
func (t *Track) Base() *Track { return t }

// estimatedBeats is the beat count shared by every format's beat grid
// analysis.
func (t *Track) estimatedBeats() int {
	return int(float64(t.duration) / 60.0 * float64(t.bpm))
}
