package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wikitrail/trail/internal/linkdb"
)

var linkdbCmd = &cobra.Command{
	Use:   "linkdb",
	Short: "Manage the offline link dump",
}

var linkdbLoadCmd = &cobra.Command{
	Use:   "load FILE...",
	Short: "Load tab-separated page and redirect records into the link dump",
	Long: `Load reads files of tab-separated records into the link dump, creating it
if needed. Each line is one of

  page<TAB>Title<TAB>Link<TAB>Link...
  redirect<TAB>From<TAB>To

The dump is written to --db, $WIKITRAIL_DB, or ./.wikitrail.db.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := dbPath
		if path == "" {
			path = os.Getenv("WIKITRAIL_DB")
		}
		if path == "" {
			path = ".wikitrail.db"
		}

		d, err := linkdb.OpenDB(path)
		if err != nil {
			return err
		}
		defer d.Close()
		if err := d.EnsureSchema(); err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, name := range args {
			f, err := os.Open(name)
			if err != nil {
				return err
			}
			n, err := d.Load(cmd.Context(), f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintf(w, "  %s %s: %d records\n", good.Sprint("✓"), name, n)
		}
		return printLinkDBStats(cmd, d)
	},
}

var linkdbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count pages, redirects, and links in the link dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := OpenDatabase()
		if err != nil {
			return err
		}
		defer d.Close()
		return printLinkDBStats(cmd, d)
	},
}

func printLinkDBStats(cmd *cobra.Command, d *linkdb.DB) error {
	st, err := d.Stats(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  %s\n", subtle.Sprint(d.Path))
	fmt.Fprintf(w, "  Pages: %s  Redirects: %s  Links: %s\n",
		info.Sprint(st.Pages), info.Sprint(st.Redirects), info.Sprint(st.Links))
	return nil
}

func init() {
	linkdbCmd.AddCommand(linkdbLoadCmd, linkdbStatsCmd)
	rootCmd.AddCommand(linkdbCmd)
}
