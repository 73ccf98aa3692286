package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"wikitrail/trail/internal/ctxlog"
	"wikitrail/trail/internal/tui"
)

var exploreCmd = &cobra.Command{
	Use:   "explore [SEED...]",
	Short: "Explore topics interactively in the terminal",
	Long: `Explore opens a terminal view of the link graph grown from the seed topics.
Move with the arrow keys to trace a topic back to its seed, press enter to
expand it, x to remove it, and / to add a new seed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if logFile == "" {
			// The terminal belongs to the UI.
			ctx = ctxlog.WithLogger(ctx, ctxlog.Discard())
		}

		src, release, err := openSource()
		if err != nil {
			return err
		}
		defer release()

		surface := tui.NewSurface()
		x, stop := newExplorer(ctx, src, surface)
		defer stop()
		x.Seed(args...)

		p := tea.NewProgram(tui.NewModel(ctx, x, surface), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running explorer: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
