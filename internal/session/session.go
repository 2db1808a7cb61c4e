package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/track"
	"github.com/dgnsrekt/djcache/utils"
	"github.com/spf13/viper"
)

// Defaults applied to settings the session file leaves out.
const (
	DefaultCacheSize    = 3
	DefaultBPMTolerance = 5
)

var (
	// ErrInvalidSession is returned when a session file fails validation.
	ErrInvalidSession = errors.New("invalid session")

	// ErrUnknownPlaylist is returned when a playlist name is not defined.
	ErrUnknownPlaylist = errors.New("unknown playlist")
)

// TrackInfo is one library entry. ExtraParam1 and ExtraParam2 are bitrate
// and has-tags (0/1) for MP3 tracks, sample rate and bit depth for WAV
// tracks.
type TrackInfo struct {
	Title       string   `mapstructure:"title"`
	Artists     []string `mapstructure:"artists"`
	Duration    int      `mapstructure:"duration"`
	BPM         int      `mapstructure:"bpm"`
	Type        string   `mapstructure:"type"`
	ExtraParam1 int      `mapstructure:"extra_param1"`
	ExtraParam2 int      `mapstructure:"extra_param2"`
}

// Info converts the entry into the form the track factory expects.
func (ti TrackInfo) Info() (track.Info, error) {
	kind, err := track.ParseKind(ti.Type)
	if err != nil {
		return track.Info{}, err
	}
	return track.Info{
		Kind:     kind,
		Title:    ti.Title,
		Artists:  ti.Artists,
		Duration: ti.Duration,
		BPM:      ti.BPM,
		Extra1:   ti.ExtraParam1,
		Extra2:   ti.ExtraParam2,
	}, nil
}

// Playlist names a sequence of 1-based library indices.
type Playlist struct {
	Name   string `mapstructure:"name"`
	Tracks []int  `mapstructure:"tracks"`
}

// Config is a parsed session file.
type Config struct {
	Name         string      `mapstructure:"name"`
	CacheSize    int         `mapstructure:"cache_size"`
	AutoSync     bool        `mapstructure:"auto_sync"`
	BPMTolerance int         `mapstructure:"bpm_tolerance"`
	Library      []TrackInfo `mapstructure:"library"`
	Playlists    []Playlist  `mapstructure:"playlists"`

	// Path is the file the config was read from.
	Path string `mapstructure:"-"`
}

// Playlist returns the playlist with the given name.
func (c *Config) Playlist(name string) (Playlist, error) {
	for _, p := range c.Playlists {
		if p.Name == name {
			return p, nil
		}
	}
	return Playlist{}, fmt.Errorf("%w: %q", ErrUnknownPlaylist, name)
}

// PlaylistNames returns the playlist names in file order.
func (c *Config) PlaylistNames() []string {
	names := make([]string, 0, len(c.Playlists))
	for _, p := range c.Playlists {
		names = append(names, p.Name)
	}
	return names
}

// Load reads and validates a session file. The format follows the file
// extension (yaml, yml, toml or json); files without one are read as YAML.
func Load(path string) (*Config, error) {
	expanded := utils.ExpandPath(path)

	v := viper.New()
	v.SetConfigFile(expanded)
	if filepath.Ext(expanded) == "" {
		v.SetConfigType("yaml")
	}
	v.SetDefault("cache_size", DefaultCacheSize)
	v.SetDefault("bpm_tolerance", DefaultBPMTolerance)
	v.SetDefault("auto_sync", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read session file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse session file: %w", err)
	}
	cfg.Path = expanded
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Session loaded", "path", expanded, "tracks", len(cfg.Library), "playlists", len(cfg.Playlists))
	return &cfg, nil
}

// Validate checks the settings and every library entry. Playlist indices
// are not checked here: out of range indices are skipped when the playlist
// is loaded.
func (c *Config) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("%w: cache_size must be at least 1, got %d", ErrInvalidSession, c.CacheSize)
	}
	if c.BPMTolerance < 0 {
		return fmt.Errorf("%w: bpm_tolerance must not be negative, got %d", ErrInvalidSession, c.BPMTolerance)
	}

	for i, ti := range c.Library {
		if ti.Title == "" {
			return fmt.Errorf("%w: library entry %d has no title", ErrInvalidSession, i+1)
		}
		if ti.Duration < 0 {
			return fmt.Errorf("%w: %q has a negative duration", ErrInvalidSession, ti.Title)
		}
		if _, err := track.ParseKind(ti.Type); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidSession, ti.Title, err)
		}
	}

	seen := make(map[string]bool, len(c.Playlists))
	for _, p := range c.Playlists {
		if p.Name == "" {
			return fmt.Errorf("%w: playlist without a name", ErrInvalidSession)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate playlist %q", ErrInvalidSession, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}
