package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgnsrekt/djcache/internal/library"
	"github.com/dgnsrekt/djcache/internal/session"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var libraryCmd = &cobra.Command{
	Use:     "library [SESSION]",
	Short:   "List the tracks and playlists of a session",
	Long:    paragraph(fmt.Sprintf("\n%s the track library of a session with format, BPM and quality scores.", keyword("List"))),
	Example: paragraph("djcache library\ndjcache library path/to/session.yml"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := sessionPath(args)
		if err != nil {
			return err
		}
		cfg, err := session.Load(path)
		if err != nil {
			return err
		}

		lib := library.NewService()
		defer lib.Close()
		lib.BuildLibrary(cfg.Library)

		fmt.Fprintln(cmd.OutOrStdout(), renderLibrary(lib))
		fmt.Fprintln(cmd.OutOrStdout(), renderPlaylists(cfg, lib))
		return nil
	},
}

func renderLibrary(lib *library.Service) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Library")
	tw.AppendHeader(table.Row{"#", "Title", "Artists", "Format", "Length", "BPM", "Quality", "Precision"})

	total := 0
	for i, t := range lib.Library() {
		total += t.Duration()
		tw.AppendRow(table.Row{
			i + 1,
			t.Title(),
			strings.Join(t.Artists(), ", "),
			t.Kind().String(),
			formatDuration(t.Duration()),
			t.BPM(),
			fmt.Sprintf("%.0f", t.QualityScore()),
			fmt.Sprintf("%.2f", t.PrecisionFactor()),
		})
	}
	tw.AppendFooter(table.Row{"", humanize.Comma(int64(len(lib.Library()))) + " tracks", "", "", formatDuration(total)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 8, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderPlaylists(cfg *session.Config, lib *library.Service) string {
	caser := cases.Title(language.English)
	tracks := lib.Library()

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Playlists")
	tw.AppendHeader(table.Row{"Playlist", "Tracks"})

	for _, p := range cfg.Playlists {
		titles := make([]string, 0, len(p.Tracks))
		for _, idx := range p.Tracks {
			if idx < 1 || idx > len(tracks) {
				titles = append(titles, faint("#"+strconv.Itoa(idx)+" (missing)"))
				continue
			}
			titles = append(titles, tracks[idx-1].Title())
		}
		tw.AppendRow(table.Row{caser.String(p.Name), strings.Join(titles, ", ")})
	}
	return tw.Render()
}

// formatDuration formats seconds as m:ss.
func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
