package controller

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgnsrekt/djcache/internal/testsupport"
	"github.com/dgnsrekt/djcache/internal/track"
)

func TestService_LoadTrackToCache(t *testing.T) {
	s := NewService(2)
	defer s.Close()

	a := testsupport.WAV("A", 120)
	b := testsupport.MP3("B", 128)
	c := testsupport.WAV("C", 130)

	tests := []struct {
		name string
		in   track.AudioTrack
		want Outcome
		code int
	}{
		{"first A", a, Miss, 0},
		{"first B", b, Miss, 0},
		{"repeat A", a, Hit, 1},
		{"C evicts B", c, MissEvicted, -1},
		{"B again evicts A", b, MissEvicted, -1},
	}

	for _, tc := range tests {
		l, err := s.LoadTrackToCache(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if l.Outcome != tc.want || l.Outcome.Code() != tc.code {
			t.Errorf("%s: outcome %v (%d), want %v (%d)", tc.name, l.Outcome, l.Outcome.Code(), tc.want, tc.code)
		}
		if tc.want == Hit && l.LoadReport != "" {
			t.Errorf("%s: hit should not reload the track", tc.name)
		}
		if tc.want != Hit && l.LoadReport == "" {
			t.Errorf("%s: miss should load the clone", tc.name)
		}
	}

	if got := strings.Join(s.Cache().Titles(), ","); got != "B,C" && got != "C,B" {
		t.Errorf("cached titles = %s, want B and C", got)
	}
}

func TestService_CachesClone(t *testing.T) {
	s := NewService(2)
	defer s.Close()
	orig := testsupport.WAV("A", 120)

	if _, err := s.LoadTrackToCache(orig); err != nil {
		t.Fatal(err)
	}

	cached := s.TrackFromCache("A")
	if cached == nil {
		t.Fatal("track not cached")
	}
	if cached == track.AudioTrack(orig) {
		t.Fatal("cache holds the caller's track instead of a clone")
	}

	s.SetCacheSize(0)
	if !orig.HasWaveform() {
		t.Error("dropping the cached clone closed the original")
	}
}

func TestService_CloneFailure(t *testing.T) {
	s := NewService(1)
	defer s.Close()
	if _, err := s.LoadTrackToCache(testsupport.WAV("A", 120)); err != nil {
		t.Fatal(err)
	}

	_, err := s.LoadTrackToCache(testsupport.NewBrokenTrack("Broken", 120))
	if !errors.Is(err, ErrCloneFailed) {
		t.Fatalf("error = %v, want ErrCloneFailed", err)
	}
	if s.Cache().Size() != 1 || !s.Cache().Contains("A") {
		t.Error("failed clone changed the cache")
	}
}

func TestService_SetCacheSize(t *testing.T) {
	s := NewService(1)
	defer s.Close()

	s.SetCacheSize(3)
	for _, title := range []string{"A", "B", "C"} {
		l, err := s.LoadTrackToCache(testsupport.MP3(title, 120))
		if err != nil {
			t.Fatal(err)
		}
		if l.Outcome != Miss {
			t.Errorf("%s: outcome %v, want MISS", title, l.Outcome)
		}
	}
	if s.Cache().Size() != 3 {
		t.Errorf("Size = %d, want 3", s.Cache().Size())
	}
}

func TestService_DisplayCacheStatus(t *testing.T) {
	s := NewService(1)
	defer s.Close()
	if _, err := s.LoadTrackToCache(testsupport.MP3("A", 120)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	s.DisplayCacheStatus(&buf)
	if !strings.Contains(buf.String(), "Slot 0: A") {
		t.Errorf("unexpected status:\n%s", buf.String())
	}
}

func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{Hit: "HIT", Miss: "MISS", MissEvicted: "MISS+EVICT", Outcome(7): "UNKNOWN"} {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(o), o.String(), want)
		}
	}
}
