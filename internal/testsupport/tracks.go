// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/dgnsrekt/djcache/internal/track"
)

// BrokenTrack is an MP3 track whose Clone always returns an empty handle.
type BrokenTrack struct {
	*track.MP3Track
}

// NewBrokenTrack creates a BrokenTrack with the given title and tempo.
func NewBrokenTrack(title string, bpm int) *BrokenTrack {
	return &BrokenTrack{MP3Track: track.NewMP3Track(title, nil, 120, bpm, 192, false)}
}

// Clone fails.
func (*BrokenTrack) Clone() *track.Handle {
	return track.NewHandle(nil)
}

// WAV returns a CD quality WAV track.
func WAV(title string, bpm int) *track.WAVTrack {
	return track.NewWAVTrack(title, []string{"Test Artist"}, 180, bpm, 44100, 16)
}

// MP3 returns a 320 kbps MP3 track with tags.
func MP3(title string, bpm int) *track.MP3Track {
	return track.NewMP3Track(title, []string{"Test Artist"}, 180, bpm, 320, true)
}

// Library returns a small mixed library: two MP3 and two WAV entries.
func Library() []session.TrackInfo {
	return []session.TrackInfo{
		{Title: "Alpha", Artists: []string{"A"}, Duration: 240, BPM: 120, Type: "MP3", ExtraParam1: 320, ExtraParam2: 1},
		{Title: "Bravo", Artists: []string{"B"}, Duration: 300, BPM: 124, Type: "WAV", ExtraParam1: 44100, ExtraParam2: 16},
		{Title: "Charlie", Artists: []string{"C"}, Duration: 210, BPM: 128, Type: "MP3", ExtraParam1: 192, ExtraParam2: 0},
		{Title: "Delta", Artists: []string{"D"}, Duration: 360, BPM: 140, Type: "WAV", ExtraParam1: 96000, ExtraParam2: 24},
	}
}

// WriteSession writes a session file into a temporary directory and returns
// its path.
func WriteSession(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
