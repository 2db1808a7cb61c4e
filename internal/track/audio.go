package track

import (
	"fmt"
	"strings"
)

// AudioTrack is the capability shared by every track format. The cache, the
// library and the decks only ever deal with this interface.
type AudioTrack interface {
	Title() string
	Artists() []string
	Duration() int
	BPM() int
	SetBPM(bpm int)

	// Kind reports the concrete format.
	Kind() Kind

	// Base exposes the shared metadata and waveform.
	Base() *Track

	// Load simulates loading the track and returns a report.
	Load() string

	// AnalyzeBeatgrid simulates beat detection and returns a report.
	AnalyzeBeatgrid() string

	// PrecisionFactor is the beat grid confidence of the format, 1.0 for
	// lossless audio.
	PrecisionFactor() float64

	// QualityScore returns a score in [0, 100].
	QualityScore() float64

	// Clone returns a deep copy of the same concrete format.
	Clone() *Handle

	// Close releases the waveform.
	Close()
}

// Kind identifies a track format.
type Kind int

const (
	// KindMP3 is a lossy compressed track.
	KindMP3 Kind = iota

	// KindWAV is an uncompressed PCM track.
	KindWAV
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMP3:
		return "MP3"
	case KindWAV:
		return "WAV"
	default:
		return "Unknown"
	}
}

// ParseKind parses a format name such as "mp3" or "WAV".
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MP3":
		return KindMP3, nil
	case "WAV":
		return KindWAV, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Info describes a track to be created by New. The meaning of the two extra
// parameters depends on the kind: bitrate and has-tags (0/1) for MP3,
// sample rate and bit depth for WAV.
type Info struct {
	Kind     Kind
	Title    string
	Artists  []string
	Duration int
	BPM      int
	Extra1   int
	Extra2   int
}

// New creates a track of the requested kind.
func New(info Info) (AudioTrack, error) {
	switch info.Kind {
	case KindMP3:
		return NewMP3Track(info.Title, info.Artists, info.Duration, info.BPM, info.Extra1, info.Extra2 != 0), nil
	case KindWAV:
		return NewWAVTrack(info.Title, info.Artists, info.Duration, info.BPM, info.Extra1, info.Extra2), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(info.Kind))
	}
}
