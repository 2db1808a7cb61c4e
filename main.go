// Package main provides the entry point for the djcache CLI application.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/dj"
	"github.com/dgnsrekt/djcache/internal/report"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/dgnsrekt/djcache/ui"
	"github.com/dgnsrekt/djcache/utils"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	playlist     string
	cacheSize    int
	autoSync     bool
	bpmTolerance int
	tui          bool
	archiveDir   string
	style        string
	width        uint
	verbose      bool

	rootCmd = &cobra.Command{
		Use:   "djcache [SESSION]",
		Short: "Play DJ sessions through an LRU track cache",
		Long: paragraph(
			fmt.Sprintf("\nPlay DJ session playlists through a %s and a pair of decks.", keyword("fixed-size LRU track cache")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"yaml", "yml", "toml", "json"}, cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if style != styles.AutoStyle && styles.DefaultStyles[style] == nil {
		style = utils.ExpandPath(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	width = viper.GetUint("width")
	tui = viper.GetBool("tui")
	verbose = viper.GetBool("verbose")
	playlist = viper.GetString("playlist")
	archiveDir = viper.GetString("archive")

	if verbose {
		enableVerboseLog()
	}

	if cmd.Flags().Changed("cache-size") && cacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", cacheSize)
	}
	if cmd.Flags().Changed("bpm-tolerance") && bpmTolerance < 0 {
		return fmt.Errorf("bpm tolerance must not be negative, got %d", bpmTolerance)
	}
	if tui && archiveDir != "" {
		return errors.New("cannot archive reports in tui mode")
	}

	// validate the glamour style
	style = viper.GetString("style")
	if err := validateStyle(style); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = styles.NoTTYStyle
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

// sessionPath resolves the session file from the argument or the config.
func sessionPath(args []string) (string, error) {
	path := viper.GetString("session")
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return "", errors.New("missing session file: pass one as argument or set 'session' in the config")
	}
	path = utils.ExpandPath(path)
	if !utils.IsSessionFile(path) {
		return "", fmt.Errorf("%s is not a session file (use .yaml, .yml, .toml or .json)", path)
	}
	return path, nil
}

// loadSession reads the session file and applies command line overrides.
func loadSession(cmd *cobra.Command, path string) (*session.Config, error) {
	cfg, err := session.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("cache-size") {
		cfg.CacheSize = cacheSize
	}
	if cmd.Flags().Changed("auto-sync") {
		cfg.AutoSync = autoSync
	}
	if cmd.Flags().Changed("bpm-tolerance") {
		cfg.BPMTolerance = bpmTolerance
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if playlist != "" {
		if _, err := cfg.Playlist(playlist); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func execute(cmd *cobra.Command, args []string) error {
	path, err := sessionPath(args)
	if err != nil {
		return err
	}
	cfg, err := loadSession(cmd, path)
	if err != nil {
		return err
	}

	if tui {
		return runTUI(cfg)
	}
	return executeCLI(cfg, cmd.OutOrStdout())
}

func executeCLI(cfg *session.Config, w io.Writer) error {
	s := dj.New(cfg)
	defer s.Close()

	names := cfg.PlaylistNames()
	if playlist != "" {
		names = []string{playlist}
	}
	if len(names) == 0 {
		return fmt.Errorf("session %q defines no playlists", cfg.Name)
	}

	for _, name := range names {
		sum, err := s.Play(name)
		if err != nil {
			return err
		}

		fmt.Fprintln(w, heading("Playlist "+name))
		for _, p := range sum.Prepared {
			fmt.Fprintf(w, "%s %s\n", keyword("▶"), p.Title)
			fmt.Fprintln(w, faint(strings.TrimRight(p.LoadReport, "\n")))
			fmt.Fprintln(w, faint(strings.TrimRight(p.GridReport, "\n")))
		}
		fmt.Fprintln(w)
		s.DisplayStatus(w)

		md := report.Markdown(sum)
		out, err := report.Render(md, style, int(width)) //nolint:gosec
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, out); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}

		if archiveDir != "" {
			path, err := archiveReport(archiveDir, sum, md)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "Archived report to:", path)
		}
	}
	return nil
}

// archiveReport writes md as a zstd compressed file under dir.
func archiveReport(dir string, sum dj.Summary, md string) (string, error) {
	dir = utils.ExpandPath(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return "", fmt.Errorf("unable to create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.md.zst",
		sum.Started.Format("20060102-150405"),
		strings.ReplaceAll(strings.ToLower(sum.Playlist), " ", "-"),
		sum.RunID[:8],
	)
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := report.WriteArchive(f, md); err != nil {
		return "", err
	}
	log.Info("Archived report", "path", path, "run", sum.RunID)
	return path, nil
}

func runTUI(sc *session.Config) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or auto if unset
	if err := validateStyle(cfg.GlamourStyle); err != nil {
		cfg.GlamourStyle = style
	}

	cfg.Session = sc
	cfg.Playlist = playlist
	cfg.GlamourMaxWidth = width

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
	rootCmd.Flags().StringVarP(&playlist, "playlist", "p", "", "play only the named playlist")
	rootCmd.Flags().IntVarP(&cacheSize, "cache-size", "c", session.DefaultCacheSize, "number of cache slots (overrides the session)")
	rootCmd.Flags().BoolVar(&autoSync, "auto-sync", false, "sync BPM on deck transitions (overrides the session)")
	rootCmd.Flags().IntVar(&bpmTolerance, "bpm-tolerance", session.DefaultBPMTolerance, "largest BPM gap that still syncs (overrides the session)")
	rootCmd.Flags().BoolVarP(&tui, "tui", "t", false, "run the session interactively")
	rootCmd.Flags().StringVar(&archiveDir, "archive", "", "directory to write zstd compressed run reports to")
	rootCmd.Flags().StringVarP(&style, "style", "s", styles.AutoStyle, "style name or JSON path")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap reports at width (set to 0 to disable)")

	// Config bindings
	_ = viper.BindPFlag("playlist", rootCmd.Flags().Lookup("playlist"))
	_ = viper.BindPFlag("tui", rootCmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("archive", rootCmd.Flags().Lookup("archive"))
	_ = viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	viper.SetDefault("style", styles.AutoStyle)
	viper.SetDefault("width", 0)
	viper.SetDefault("session", "")

	rootCmd.AddCommand(configCmd, libraryCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "djcache")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "djcache")}, dirs...)
	}

	if c := os.Getenv("DJCACHE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("djcache")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("djcache")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "djcache.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

