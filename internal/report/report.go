package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/dgnsrekt/djcache/internal/dj"
	"github.com/dustin/go-humanize"
)

// Markdown renders a summary as a markdown document.
func Markdown(sum dj.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s: %s\n\n", sum.Session, sum.Playlist)
	fmt.Fprintf(&b, "Run `%s`, started %s, took %s.\n\n",
		sum.RunID, humanize.Time(sum.Started), sum.Duration().Round(1e6))

	b.WriteString("## Tracks\n\n")
	b.WriteString("| # | Title | Cache | Deck | BPM |\n")
	b.WriteString("|---|-------|-------|------|-----|\n")
	for i, ev := range sum.Events {
		cacheCol, deckCol, bpmCol := ev.Outcome.String(), fmt.Sprint(ev.Deck), "-"
		if ev.Err != nil {
			cacheCol, deckCol = "ERROR", "-"
		}
		if ev.Synced {
			bpmCol = fmt.Sprintf("%d → %d", ev.FromBPM, ev.ToBPM)
		} else if ev.FromBPM != 0 {
			bpmCol = fmt.Sprint(ev.FromBPM)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", i+1, escape(ev.Title), cacheCol, deckCol, bpmCol)
	}
	b.WriteString("\n")

	if len(sum.Skipped) > 0 {
		b.WriteString("## Skipped\n\n")
		for _, sk := range sum.Skipped {
			fmt.Fprintf(&b, "- index %d: %v\n", sk.Index, sk.Err)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Cache hits: %d\n", sum.Hits)
	fmt.Fprintf(&b, "- Cache misses: %d (%d with eviction)\n", sum.Misses, sum.Evictions)
	fmt.Fprintf(&b, "- Deck loads: %d, transitions: %d, BPM syncs: %d\n", sum.DeckLoads, sum.Transitions, sum.Syncs)
	fmt.Fprintf(&b, "- Errors: %d\n", sum.Errors)
	fmt.Fprintf(&b, "- Hit rate: %.0f%%\n\n", sum.HitRate()*100)

	b.WriteString("## Cache\n\n")
	fmt.Fprintf(&b, "%d/%d slots used.\n\n", sum.Stats.Size, sum.Stats.Capacity)
	for _, s := range sum.Cache {
		if s.Occupied {
			fmt.Fprintf(&b, "- Slot %d: %s (last access %d)\n", s.Index, escape(s.Title), s.LastAccess)
		} else {
			fmt.Fprintf(&b, "- Slot %d: empty\n", s.Index)
		}
	}

	return b.String()
}

// escape keeps titles from breaking table cells or emphasis.
func escape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

// Render renders markdown for the terminal with the given glamour style.
// "auto" picks a style from the terminal background; a style that is not a
// built-in name is read as a JSON style path.
func Render(md, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		styleOption(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("unable to render markdown: %w", err)
	}
	return out, nil
}

func styleOption(style string) glamour.TermRendererOption {
	switch {
	case style == "" || style == styles.AutoStyle:
		return glamour.WithAutoStyle()
	case styles.DefaultStyles[style] != nil:
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStylePath(style)
	}
}
