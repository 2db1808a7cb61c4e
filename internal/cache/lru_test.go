package cache

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/dgnsrekt/djcache/internal/track"
)

func newHandle(title string, bpm int) *track.Handle {
	return track.NewHandle(track.NewWAVTrack(title, []string{"artist"}, 180, bpm, 44100, 16))
}

func TestLRUCache_BasicOperations(t *testing.T) {
	c := New(2)

	if c.Contains("A") || c.Get("A") != nil {
		t.Fatal("empty cache reports a hit")
	}

	h := newHandle("A", 120)
	if evicted := c.Put(h); evicted {
		t.Error("Put into free space reported an eviction")
	}
	if h.Valid() {
		t.Error("Put left the handle owning the track")
	}

	if !c.Contains("A") {
		t.Fatal("Contains returned false for a cached title")
	}
	got := c.Get("A")
	if got == nil || got.Title() != "A" || got.BPM() != 120 {
		t.Fatalf("Get returned %v", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUCache_PutEmptyHandle(t *testing.T) {
	c := New(2)
	var nilHandle *track.Handle

	if c.Put(track.NewHandle(nil)) || c.Put(nilHandle) {
		t.Error("Put of an empty handle returned true")
	}
	if c.Size() != 0 {
		t.Errorf("Size = %d after rejected puts", c.Size())
	}
}

func TestLRUCache_CapacityTwoScenario(t *testing.T) {
	c := New(2)

	if c.Put(newHandle("A", 120)) {
		t.Error("put A evicted")
	}
	if c.Put(newHandle("B", 128)) {
		t.Error("put B evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}

	if !c.Put(newHandle("C", 130)) {
		t.Error("put C into a full cache did not evict")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
	if c.Contains("A") {
		t.Error("A was least recently used and should be gone")
	}
	if !c.Contains("B") || !c.Contains("C") {
		t.Error("B and C should be cached")
	}
}

func TestLRUCache_GetRefreshesOrder(t *testing.T) {
	c := New(2)
	c.Put(newHandle("A", 120))
	c.Put(newHandle("B", 128))

	c.Get("A")

	if !c.Put(newHandle("C", 130)) {
		t.Fatal("expected an eviction")
	}
	if c.Contains("B") {
		t.Error("B should have been evicted after A was read")
	}
	if !c.Contains("A") {
		t.Error("A was read last and should survive")
	}
}

func TestLRUCache_ContainsDoesNotRefresh(t *testing.T) {
	c := New(2)
	c.Put(newHandle("A", 120))
	c.Put(newHandle("B", 128))

	c.Contains("A")
	c.Put(newHandle("C", 130))

	if c.Contains("A") {
		t.Error("Contains changed the eviction order")
	}
}

func TestLRUCache_PutExistingTitle(t *testing.T) {
	c := New(2)
	c.Put(newHandle("A", 120))
	c.Put(newHandle("B", 128))

	dup := track.NewWAVTrack("A", nil, 1, 99, 44100, 16)
	h := track.NewHandle(dup)
	if c.Put(h) {
		t.Error("duplicate put reported an eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
	if h.Valid() || dup.HasWaveform() {
		t.Error("duplicate track was not discarded")
	}
	if got := c.Get("A"); got.BPM() != 120 {
		t.Errorf("duplicate replaced the cached track: bpm = %d", got.BPM())
	}

	// A was touched by the duplicate put, so B is now the oldest.
	c.Put(newHandle("C", 130))
	if c.Contains("B") || !c.Contains("A") {
		t.Error("duplicate put did not refresh A")
	}
}

func TestLRUCache_EvictionClosesTrack(t *testing.T) {
	c := New(1)
	a := track.NewMP3Track("A", nil, 100, 120, 320, true)
	c.Put(track.NewHandle(a))

	c.Put(newHandle("B", 128))

	if a.HasWaveform() {
		t.Error("evicted track was not closed")
	}
}

func TestLRUCache_EvictLRUEmpty(t *testing.T) {
	c := New(3)
	if c.evictLRU() {
		t.Error("evictLRU on an empty cache reported an eviction")
	}
}

func TestLRUCache_DeepCopyFidelity(t *testing.T) {
	orig := track.NewWAVTrack("Orig", []string{"x"}, 180, 124, 44100, 16)
	want := make([]float64, orig.WaveformLen())
	orig.WaveformCopy(want, len(want))

	c := New(2)
	c.Put(orig.Clone())

	got := c.Get("Orig")
	if got == nil {
		t.Fatal("clone not cached")
	}
	if got.Title() != orig.Title() || got.BPM() != orig.BPM() || got.Duration() != orig.Duration() {
		t.Error("cached metadata differs from the original")
	}

	buf := make([]float64, got.Base().WaveformLen())
	got.Base().WaveformCopy(buf, len(buf))
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("sample %d differs", i)
		}
	}

	got.Close()
	check := make([]float64, len(want))
	orig.WaveformCopy(check, len(check))
	if !orig.HasWaveform() || check[0] != want[0] {
		t.Error("closing the cached clone affected the original")
	}
}

func TestLRUCache_Clear(t *testing.T) {
	c := New(3)
	tracks := make([]*track.WAVTrack, 3)
	for i := range tracks {
		tracks[i] = track.NewWAVTrack(fmt.Sprintf("t%d", i), nil, 10, 100, 44100, 16)
		c.Put(track.NewHandle(tracks[i]))
	}

	c.Clear()

	if c.Size() != 0 {
		t.Errorf("Size = %d after Clear", c.Size())
	}
	for _, tr := range tracks {
		if tr.HasWaveform() {
			t.Errorf("%s not closed by Clear", tr.Title())
		}
	}
}

func TestLRUCache_SetCapacity(t *testing.T) {
	t.Run("same capacity", func(t *testing.T) {
		c := New(2)
		c.Put(newHandle("A", 120))
		c.SetCapacity(2)
		if c.Capacity() != 2 || !c.Contains("A") {
			t.Error("no-op resize changed the cache")
		}
	})

	t.Run("grow keeps entries and order", func(t *testing.T) {
		c := New(2)
		c.Put(newHandle("A", 120))
		c.Put(newHandle("B", 128))

		c.SetCapacity(3)
		if c.Capacity() != 3 || c.Size() != 2 {
			t.Fatalf("capacity=%d size=%d", c.Capacity(), c.Size())
		}
		if c.Put(newHandle("C", 130)) {
			t.Error("put into grown free space evicted")
		}
		if !c.Put(newHandle("D", 132)) {
			t.Fatal("put into full grown cache did not evict")
		}
		if c.Contains("A") {
			t.Error("A should be the LRU victim after growing")
		}
	})

	t.Run("shrink truncates in slot order", func(t *testing.T) {
		c := New(3)
		a := track.NewWAVTrack("A", nil, 10, 100, 44100, 16)
		b := track.NewWAVTrack("B", nil, 10, 100, 44100, 16)
		c.Put(track.NewHandle(a))
		c.Put(track.NewHandle(b))
		c.Put(newHandle("C", 130))

		// Reading C makes it most recently used, but truncation ignores
		// recency.
		c.Get("C")
		c.SetCapacity(1)

		if c.Size() != 1 || c.Capacity() != 1 {
			t.Fatalf("size=%d capacity=%d, want 1/1", c.Size(), c.Capacity())
		}
		if !c.Contains("A") {
			t.Error("the first slot should survive a shrink")
		}
		if b.HasWaveform() {
			t.Error("truncated entry was not closed")
		}
		stats := c.Stats()
		if stats.Dropped != 2 || stats.Evictions != 0 {
			t.Errorf("dropped=%d evictions=%d, want 2/0", stats.Dropped, stats.Evictions)
		}
	})

	t.Run("zero capacity", func(t *testing.T) {
		c := New(1)
		c.SetCapacity(0)
		h := newHandle("A", 120)
		if c.Put(h) {
			t.Error("put into zero-capacity cache reported an eviction")
		}
		if c.Size() != 0 || h.Valid() {
			t.Error("zero-capacity cache kept the track")
		}
	})
}

func TestLRUCache_NeverExceedsCapacity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c := New(4)

	for i := 0; i < 500; i++ {
		title := fmt.Sprintf("t%d", rng.IntN(10))
		if rng.IntN(2) == 0 {
			c.Put(newHandle(title, 120))
		} else {
			c.Get(title)
		}
		if c.Size() > c.Capacity() {
			t.Fatalf("step %d: size %d exceeds capacity %d", i, c.Size(), c.Capacity())
		}

		seen := map[string]bool{}
		for _, title := range c.Titles() {
			if seen[title] {
				t.Fatalf("step %d: title %q cached twice", i, title)
			}
			seen[title] = true
		}
	}
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	c := New(3)
	for _, title := range []string{"A", "B", "C"} {
		c.Put(newHandle(title, 120))
	}
	c.Get("A")
	c.Get("B")

	if !c.Put(newHandle("D", 120)) {
		t.Fatal("expected eviction")
	}
	if c.Contains("C") {
		t.Error("C was least recently used")
	}
	for _, title := range []string{"A", "B", "D"} {
		if !c.Contains(title) {
			t.Errorf("%s should be cached", title)
		}
	}
}

func TestLRUCache_Stats(t *testing.T) {
	c := New(1)
	c.Put(newHandle("A", 120))
	c.Get("A")
	c.Get("missing")
	c.Put(newHandle("B", 120))

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("HitRate = %f, want 0.5", stats.HitRate)
	}
	if stats.Insertions != 2 || stats.Evictions != 1 {
		t.Errorf("insertions=%d evictions=%d, want 2/1", stats.Insertions, stats.Evictions)
	}
}

func TestLRUCache_DisplayStatus(t *testing.T) {
	c := New(2)
	c.Put(newHandle("A", 120))

	before := c.Status()
	var buf bytes.Buffer
	c.DisplayStatus(&buf)
	out := buf.String()

	if !strings.Contains(out, "1/2 slots used") {
		t.Errorf("missing usage line:\n%s", out)
	}
	if !strings.Contains(out, "Slot 0: A (last access: 1)") {
		t.Errorf("missing occupied slot:\n%s", out)
	}
	if !strings.Contains(out, "Slot 1: [EMPTY]") {
		t.Errorf("missing empty slot:\n%s", out)
	}

	after := c.Status()
	if before[0] != after[0] {
		t.Error("DisplayStatus changed slot state")
	}
}
