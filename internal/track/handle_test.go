package track

import (
	"errors"
	"strings"
	"testing"
)

func TestClone_PreservesFormat(t *testing.T) {
	var orig AudioTrack = NewWAVTrack("Studio", []string{"x"}, 180, 124, 96000, 24)

	h := orig.Clone()
	defer h.Close()

	c := h.Must()
	if c == orig {
		t.Fatal("Clone returned the receiver")
	}
	if _, ok := c.(*WAVTrack); !ok {
		t.Fatalf("clone type = %T, want *WAVTrack", c)
	}
	if c.PrecisionFactor() != 1.0 {
		t.Errorf("PrecisionFactor = %v, want 1.0", c.PrecisionFactor())
	}
	if !strings.Contains(c.AnalyzeBeatgrid(), "Precision factor: 1.0") {
		t.Error("cloned WAV lost its beat grid report")
	}

	c.Base().waveform[0] = 5
	if orig.Base().waveform[0] == 5 {
		t.Error("clone shares the waveform with the original")
	}
}

func TestClone_MP3(t *testing.T) {
	orig := NewMP3Track("Lossy", nil, 180, 124, 192, true)
	h := orig.Clone()
	defer h.Close()

	c, ok := h.Get().(*MP3Track)
	if !ok {
		t.Fatalf("clone type = %T, want *MP3Track", h.Get())
	}
	if c.Bitrate() != 192 || !c.HasTags() || c.Title() != "Lossy" {
		t.Errorf("clone fields differ: %+v", c)
	}
}

func TestHandle_Empty(t *testing.T) {
	var nilHandle *Handle
	for _, h := range []*Handle{NewHandle(nil), {}, nilHandle} {
		if h.Valid() {
			t.Error("empty handle reports valid")
		}
		if h.Get() != nil {
			t.Error("empty handle returned a track")
		}
		if h.Release() != nil {
			t.Error("empty handle released a track")
		}
		h.Close()
	}
}

func TestHandle_MustPanicsWhenEmpty(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrEmptyHandle) {
			t.Fatalf("recovered %v, want ErrEmptyHandle", r)
		}
	}()
	NewHandle(nil).Must()
}

func TestHandle_Release(t *testing.T) {
	tr := NewMP3Track("r", nil, 10, 100, 128, false)
	h := NewHandle(tr)

	got := h.Release()
	if got != tr {
		t.Fatal("Release returned a different track")
	}
	if h.Valid() {
		t.Error("handle still valid after Release")
	}
	if !tr.HasWaveform() {
		t.Error("Release closed the track")
	}
	got.Close()
}

func TestHandle_Take(t *testing.T) {
	tr := NewMP3Track("t", nil, 10, 100, 128, false)
	src := NewHandle(tr)

	dst := src.Take()

	if src.Valid() {
		t.Error("source still valid after Take")
	}
	if dst.Get() != tr {
		t.Error("Take did not move the track")
	}
}

func TestHandle_Reset(t *testing.T) {
	old := NewWAVTrack("old", nil, 10, 100, 44100, 16)
	next := NewWAVTrack("next", nil, 10, 100, 44100, 16)
	h := NewHandle(old)
	src := NewHandle(next)

	h.Reset(src)

	if old.HasWaveform() {
		t.Error("Reset did not close the previous track")
	}
	if h.Get() != next || src.Valid() {
		t.Error("Reset did not transfer ownership")
	}

	h.Reset(h)
	if h.Get() != next || !next.HasWaveform() {
		t.Error("self-reset changed the handle")
	}
}

func TestHandle_ResetNil(t *testing.T) {
	tr := NewWAVTrack("kept", nil, 10, 100, 44100, 16)
	src := NewHandle(tr)

	var h *Handle
	h.Reset(src)

	if src.Get() != tr || !tr.HasWaveform() {
		t.Error("Reset on a nil handle touched the source")
	}
}

func TestHandle_Close(t *testing.T) {
	tr := NewWAVTrack("c", nil, 10, 100, 44100, 16)
	h := NewHandle(tr)

	h.Close()
	h.Close()

	if h.Valid() || tr.HasWaveform() {
		t.Error("Close did not destroy the track")
	}
}
