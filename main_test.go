package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/djcache/internal/dj"
	"github.com/dgnsrekt/djcache/internal/library"
	"github.com/dgnsrekt/djcache/internal/report"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/dgnsrekt/djcache/internal/testsupport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func TestSessionPath(t *testing.T) {
	viper.Set("session", "")

	tests := []struct {
		arg     string
		wantErr bool
	}{
		{"set.yml", false},
		{"set.TOML", false},
		{"set.json", false},
		{"set.txt", true},
		{"", true},
	}
	for _, tc := range tests {
		var args []string
		if tc.arg != "" {
			args = []string{tc.arg}
		}
		_, err := sessionPath(args)
		if (err != nil) != tc.wantErr {
			t.Errorf("sessionPath(%q) error = %v, wantErr %v", tc.arg, err, tc.wantErr)
		}
	}
}

func TestCacheSizeOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yml")
	if err := os.WriteFile(path, []byte("cache_size: 2\nlibrary: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	playlist = ""
	viper.Set("style", "auto")

	for _, tc := range []struct {
		size    string
		wantErr bool
	}{
		{"3", false},
		{"0", true},
		{"-1", true},
	} {
		cmd := &cobra.Command{}
		cmd.Flags().IntVarP(&cacheSize, "cache-size", "c", session.DefaultCacheSize, "")
		if err := cmd.Flags().Set("cache-size", tc.size); err != nil {
			t.Fatal(err)
		}

		if err := validateOptions(cmd); (err != nil) != tc.wantErr {
			t.Errorf("validateOptions with cache size %s: error = %v, wantErr %v", tc.size, err, tc.wantErr)
		}

		cfg, err := loadSession(cmd, path)
		if tc.wantErr {
			if !errors.Is(err, session.ErrInvalidSession) {
				t.Errorf("loadSession with cache size %s: error = %v, want ErrInvalidSession", tc.size, err)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if cfg.CacheSize != 3 {
			t.Errorf("CacheSize = %d, want 3", cfg.CacheSize)
		}
	}
}

func TestArchiveReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	sum := dj.Summary{
		RunID:    "0123456789abcdef",
		Playlist: "Peak Time",
		Started:  time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC),
	}

	path, err := archiveReport(dir, sum, "# report\n")
	if err != nil {
		t.Fatal(err)
	}
	if want := "20240501-223000-peak-time-01234567.md.zst"; filepath.Base(path) != want {
		t.Errorf("archive name = %s, want %s", filepath.Base(path), want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close() //nolint:errcheck
	md, err := report.ReadArchive(f)
	if err != nil {
		t.Fatal(err)
	}
	if md != "# report\n" {
		t.Errorf("archived markdown = %q", md)
	}
}

func TestRenderLibrary(t *testing.T) {
	lib := library.NewService()
	defer lib.Close()
	lib.BuildLibrary(testsupport.Library())

	out := renderLibrary(lib)
	for _, want := range []string{"Alpha", "Delta", "MP3", "WAV", "4 tracks", "18:30"} {
		if !strings.Contains(out, want) {
			t.Errorf("library table missing %q:\n%s", want, out)
		}
	}

	cfg := &session.Config{Playlists: []session.Playlist{{Name: "warm up", Tracks: []int{1, 9}}}}
	out = renderPlaylists(cfg, lib)
	if !strings.Contains(out, "Warm Up") || !strings.Contains(out, "#9 (missing)") {
		t.Errorf("unexpected playlists table:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	for secs, want := range map[int]string{0: "0:00", 59: "0:59", 61: "1:01", 3600: "60:00"} {
		if got := formatDuration(secs); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", secs, got, want)
		}
	}
}
