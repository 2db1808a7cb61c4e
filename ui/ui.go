// Package ui provides the interactive session view for djcache.
package ui

import (
	"bytes"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/djcache/internal/dj"
	"github.com/dgnsrekt/djcache/internal/report"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
)

const (
	interactivePlaylist = "interactive"
	ellipsis            = "…"
)

// NewProgram returns a new Tea program.
func NewProgram(cfg Config) *tea.Program {
	log.Debug(
		"Starting djcache tui",
		"session", cfg.Session.Name,
		"playlist", cfg.Playlist,
		"watch", cfg.WatchSession,
	)

	var opts []tea.ProgramOption
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg), opts...)
}

type (
	errMsg                  struct{ err error }
	sessionChangedMsg       struct{}
	statusMessageTimeoutMsg struct{ id int }
	copiedMsg               struct{ err error }
	reportRenderedMsg       string
)

func (e errMsg) Error() string { return e.err.Error() }

// state is the top-level application state.
type state int

const (
	stateBrowse state = iota
	stateReport
)

func (s state) String() string {
	return map[state]string{
		stateBrowse: "browsing library",
		stateReport: "showing report",
	}[s]
}

type model struct {
	cfg      Config
	keys     keyMap
	help     help.Model
	state    state
	fatalErr error

	width  int
	height int

	session *dj.Session
	titles  []string
	cursor  int
	summary dj.Summary
	last    *dj.Event

	report viewport.Model

	statusMessage   string
	statusMessageID int

	watcher *fsnotify.Watcher
}

func newModel(cfg Config) model {
	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle {
		if termenv.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}
	if cfg.StatusTimeout <= 0 {
		cfg.StatusTimeout = 3 * time.Second
	}

	m := model{
		cfg:    cfg,
		keys:   newKeyMap(),
		help:   help.New(),
		state:  stateBrowse,
		report: viewport.New(0, 0),
	}
	m.start(cfg.Session)

	if cfg.WatchSession && cfg.Session.Path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			log.Error("error creating fsnotify watcher", "error", err)
		} else {
			m.watcher = w
		}
	}
	return m
}

// start builds a session from sc and plays the configured playlist, if any.
func (m *model) start(sc *session.Config) {
	if m.session != nil {
		m.session.Close()
	}
	m.cfg.Session = sc
	m.session = dj.New(sc)
	m.last = nil

	m.titles = m.titles[:0]
	for _, t := range m.session.Library().Library() {
		m.titles = append(m.titles, t.Title())
	}
	m.cursor = min(m.cursor, max(len(m.titles)-1, 0))

	m.summary = m.session.Start(interactivePlaylist)
	if m.cfg.Playlist == "" {
		return
	}
	sum, err := m.session.Play(m.cfg.Playlist)
	if err != nil {
		log.Warn("Could not play startup playlist", "playlist", m.cfg.Playlist, "error", err)
		m.fatalErr = err
		return
	}
	m.summary = sum
	if n := len(sum.Events); n > 0 {
		m.last = &m.summary.Events[n-1]
	}
}

func (m model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watchSession
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.quit()
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ForceQuit):
			return m, m.quit()

		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case m.state == stateReport:
			if key.Matches(msg, m.keys.CloseModal) || key.Matches(msg, m.keys.Report) {
				m.state = stateBrowse
				return m, nil
			}
			var cmd tea.Cmd
			m.report, cmd = m.report.Update(msg)
			return m, cmd

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.titles)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Load):
			cmds = append(cmds, m.loadSelected())

		case key.Matches(msg, m.keys.Grow):
			cmds = append(cmds, m.resizeCache(1))

		case key.Matches(msg, m.keys.Shrink):
			cmds = append(cmds, m.resizeCache(-1))

		case key.Matches(msg, m.keys.Clear):
			m.session.Controller().Cache().Clear()
			cmds = append(cmds, m.showStatusMessage("Cache cleared"))

		case key.Matches(msg, m.keys.AutoSync):
			mx := m.session.Mixer()
			mx.SetAutoSync(!mx.AutoSync())
			cmds = append(cmds, m.showStatusMessage(fmt.Sprintf("Auto-sync %s", onOff(mx.AutoSync()))))

		case key.Matches(msg, m.keys.Copy):
			cmds = append(cmds, copyToClipboard(m.statusText()))

		case key.Matches(msg, m.keys.Report):
			cmds = append(cmds, m.renderReport())
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.report.Width = msg.Width
		m.report.Height = max(msg.Height-statusBarHeight, 0)

	case reportRenderedMsg:
		m.report.SetContent(string(msg))
		m.report.GotoTop()
		m.state = stateReport

	case copiedMsg:
		if msg.err != nil {
			log.Debug("system clipboard unavailable", "error", msg.err)
		}
		cmds = append(cmds, m.showStatusMessage("Copied cache status"))

	case sessionChangedMsg:
		cmds = append(cmds, m.reload(), m.watchSession)

	case statusMessageTimeoutMsg:
		if msg.id == m.statusMessageID {
			m.statusMessage = ""
		}

	case errMsg:
		log.Error("tui error", "error", msg.err)
		cmds = append(cmds, m.showStatusMessage("Error: "+msg.Error()))
	}

	return m, tea.Batch(cmds...)
}

// loadSelected sends the selected library track through the cache and onto
// a deck.
func (m *model) loadSelected() tea.Cmd {
	if len(m.titles) == 0 {
		return nil
	}

	ev := m.session.PlayTrack(m.titles[m.cursor])
	m.summary.Record(ev)
	m.last = &m.summary.Events[len(m.summary.Events)-1]

	if ev.Err != nil {
		return m.showStatusMessage("Error: " + ev.Err.Error())
	}
	msg := fmt.Sprintf("%s: %s, deck %d", ev.Title, ev.Outcome, ev.Deck)
	if ev.Synced {
		msg += fmt.Sprintf(", synced %d → %d BPM", ev.FromBPM, ev.ToBPM)
	}
	return m.showStatusMessage(msg)
}

func (m *model) resizeCache(delta int) tea.Cmd {
	c := m.session.Controller()
	n := max(c.Cache().Capacity()+delta, 0)
	if n == c.Cache().Capacity() {
		return nil
	}
	c.SetCacheSize(n)
	return m.showStatusMessage(fmt.Sprintf("Cache capacity %d", n))
}

func (m *model) reload() tea.Cmd {
	load := m.cfg.Reload
	if load == nil {
		path := m.cfg.Session.Path
		load = func() (*session.Config, error) { return session.Load(path) }
	}

	sc, err := load()
	if err != nil {
		log.Warn("Session reload failed", "error", err)
		return m.showStatusMessage("Reload failed: " + err.Error())
	}
	m.start(sc)
	log.Info("Session reloaded", "path", sc.Path)
	return m.showStatusMessage("Session reloaded")
}

func (m *model) showStatusMessage(msg string) tea.Cmd {
	m.statusMessageID++
	m.statusMessage = msg
	id := m.statusMessageID
	return tea.Tick(m.cfg.StatusTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{id: id}
	})
}

// statusText is the plain text cache and deck status.
func (m model) statusText() string {
	var b bytes.Buffer
	m.session.DisplayStatus(&b)
	return b.String()
}

func (m model) renderReport() tea.Cmd {
	sum := m.summary
	m.session.Finish(&sum)
	md := report.Markdown(sum)
	style, width := m.cfg.GlamourStyle, int(m.cfg.GlamourMaxWidth) //nolint:gosec
	if m.width > 0 && (width == 0 || width > m.width) {
		width = m.width
	}

	return func() tea.Msg {
		out, err := report.Render(md, style, width)
		if err != nil {
			return errMsg{err}
		}
		return reportRenderedMsg(out)
	}
}

func (m *model) quit() tea.Cmd {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	m.session.Close()
	return tea.Quit
}

func copyToClipboard(s string) tea.Cmd {
	return func() tea.Msg {
		// Copy using OSC 52
		termenv.Copy(s)
		// Copy using native system clipboard
		return copiedMsg{err: clipboard.WriteAll(s)}
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
