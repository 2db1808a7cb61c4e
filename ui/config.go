package ui

import (
	"time"

	"github.com/dgnsrekt/djcache/internal/session"
)

// Config contains TUI-specific configuration.
type Config struct {
	// Session to run. Its Path is watched for changes.
	Session *session.Config

	// Reload reads the session again after the file changed. When nil the
	// file is loaded with session.Load.
	Reload func() (*session.Config, error)

	// Playlist played on startup, if set.
	Playlist string

	GlamourMaxWidth uint
	GlamourStyle    string `env:"GLAMOUR_STYLE"`

	StatusTimeout time.Duration `env:"DJCACHE_STATUS_TIMEOUT" envDefault:"3s"`
	WatchSession  bool          `env:"DJCACHE_WATCH_SESSION"  envDefault:"true"`
	AltScreen     bool          `env:"DJCACHE_ALT_SCREEN"     envDefault:"true"`
	EnableMouse   bool          `env:"DJCACHE_MOUSE"`
}
