package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/djcache/internal/mixer"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const (
	statusBarHeight = 1
	minPaneWidth    = 24
)

var (
	fuchsia   = lipgloss.Color("#EE6FF8")
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	dimGray   = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ECFD65")).
			Background(fuchsia).
			Bold(true).
			Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dimGray).
			Padding(0, 1)

	paneTitleStyle = lipgloss.NewStyle().Foreground(fuchsia).Bold(true).Render
	selectedStyle  = lipgloss.NewStyle().Foreground(fuchsia).Render
	cachedStyle    = lipgloss.NewStyle().Foreground(mintGreen).Render
	faintStyle     = lipgloss.NewStyle().Foreground(dimGray).Render
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Render
)

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr)
	}

	var b strings.Builder
	switch m.state {
	case stateReport:
		fmt.Fprint(&b, m.report.View()+"\n")
	default:
		fmt.Fprint(&b, m.panesView()+"\n")
	}

	m.statusBarView(&b)

	if m.help.ShowAll {
		fmt.Fprint(&b, "\n"+m.help.View(m.keys))
	}
	return b.String()
}

func (m model) panesView() string {
	total := m.width
	if total == 0 {
		total = 80
	}
	// Two panes with a border and padding of two cells on each side.
	inner := max(total/2-4, minPaneWidth)

	left := paneStyle.Width(inner).Render(m.libraryView(inner))
	right := paneStyle.Width(inner).Render(m.cacheView(inner) + "\n\n" + m.decksView(inner))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m model) libraryView(width int) string {
	var b strings.Builder
	fmt.Fprintln(&b, paneTitleStyle("Library"))

	cache := m.session.Controller().Cache()
	mx := m.session.Mixer()

	if len(m.titles) == 0 {
		fmt.Fprint(&b, faintStyle("No tracks in session."))
		return b.String()
	}

	for i, title := range m.titles {
		cursor := "  "
		if i == m.cursor {
			cursor = selectedStyle("> ")
		}

		marker := " "
		if cache.Contains(title) {
			marker = cachedStyle("●")
		}
		deck := ""
		for d := 0; d < mixer.DeckCount; d++ {
			if t := mx.Deck(d); t != nil && t.Title() == title {
				deck = faintStyle(fmt.Sprintf(" [%d]", d))
			}
		}

		name := truncate.StringWithTail(title, uint(max(width-8, 1)), ellipsis) //nolint:gosec
		if i == m.cursor {
			name = selectedStyle(name)
		}
		fmt.Fprintf(&b, "%s%s %s%s", cursor, marker, name, deck)
		if i < len(m.titles)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m model) cacheView(width int) string {
	var b strings.Builder
	cache := m.session.Controller().Cache()
	stats := cache.Stats()

	fmt.Fprintf(&b, "%s %s\n", paneTitleStyle("Cache"),
		faintStyle(fmt.Sprintf("%d/%d", stats.Size, stats.Capacity)))

	titleWidth := max(width-16, 4)
	for _, s := range cache.Status() {
		label := fmt.Sprintf("%2d ", s.Index)
		if !s.Occupied {
			fmt.Fprintln(&b, faintStyle(label+"empty"))
			continue
		}
		title := runewidth.Truncate(s.Title, titleWidth, ellipsis)
		title = runewidth.FillRight(title, titleWidth)
		fmt.Fprintf(&b, "%s%s %s\n", label, title, faintStyle(fmt.Sprintf("t=%d", s.LastAccess)))
	}

	sum := m.summary
	fmt.Fprint(&b, faintStyle(fmt.Sprintf("hits %d  misses %d  evictions %d  hit rate %.0f%%",
		sum.Hits, sum.Misses, sum.Evictions, sum.HitRate()*100)))
	return b.String()
}

func (m model) decksView(width int) string {
	var b strings.Builder
	mx := m.session.Mixer()

	sync := "off"
	if mx.AutoSync() {
		sync = fmt.Sprintf("on, ±%d BPM", mx.BPMTolerance())
	}
	fmt.Fprintf(&b, "%s %s\n", paneTitleStyle("Decks"), faintStyle("auto-sync "+sync))

	for d := 0; d < mixer.DeckCount; d++ {
		t := mx.Deck(d)
		if t == nil {
			fmt.Fprintln(&b, faintStyle(fmt.Sprintf("%d  empty", d)))
			continue
		}
		line := fmt.Sprintf("%d  %s  %d BPM", d, t.Title(), t.BPM())
		line = truncate.StringWithTail(line, uint(max(width-9, 1)), ellipsis) //nolint:gosec
		if d == mx.ActiveDeck() {
			line = cachedStyle(line) + faintStyle(" live")
		}
		fmt.Fprintln(&b, line)
	}

	if m.last != nil {
		fmt.Fprint(&b, "\n"+m.lastEventView())
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m model) lastEventView() string {
	ev := m.last
	if ev.Err != nil {
		return errorStyle(ev.Err.Error())
	}
	s := fmt.Sprintf("last: %s %s", ev.Title, ev.Outcome)
	if ev.Synced {
		s += fmt.Sprintf(" (%d → %d BPM)", ev.FromBPM, ev.ToBPM)
	}
	return faintStyle(s)
}

func (m model) statusBarView(b *strings.Builder) {
	showStatusMessage := m.statusMessage != ""

	logo := logoStyle(" djcache ")

	helpNote := statusBarHelpStyle(" ? Help ")

	var note string
	if showStatusMessage {
		note = m.statusMessage
	} else {
		note = fmt.Sprintf("%s · %s", m.cfg.Session.Name, m.state)
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	// Empty space
	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = statusBarMessageStyle(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	fmt.Fprintf(b, "%s%s%s%s",
		logo,
		note,
		emptySpace,
		helpNote,
	)
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s\n\n  %s\n",
		errorStyle("Error: "+err.Error()),
		faintStyle("Press any key to exit."),
	)
}
