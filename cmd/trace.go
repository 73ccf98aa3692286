package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wikitrail/trail/internal/normalize"
)

var traceFormat string

type traceReport struct {
	Topic string   `json:"topic" yaml:"topic"`
	Path  []string `json:"path" yaml:"path"`
	Links []string `json:"links" yaml:"links"`
}

var traceCmd = &cobra.Command{
	Use:   "trace TOPIC",
	Short: "Crawl from the seeds, then show how TOPIC was reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, _, release, err := crawlFromFlags(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		id := normalize.ID(args[0])
		if _, ok := x.Node(id); !ok {
			return fmt.Errorf("%q was not reached within depth %d", args[0], crawlDepth)
		}
		res, err := x.Select(id)
		if err != nil {
			return err
		}

		report := traceReport{Topic: args[0]}
		for _, nid := range res.Nodes {
			n, _ := x.Node(nid)
			report.Path = append(report.Path, n.Name)
		}
		report.Links = res.Edges

		w := cmd.OutOrStdout()
		if done, err := writeFormatted(w, traceFormat, report); done || err != nil {
			return err
		}
		if len(report.Path) == 0 {
			warn.Fprintf(w, "  %s has no path back to a seed\n", args[0])
			return nil
		}
		fmt.Fprintf(w, "  %s\n", brand.Sprint(strings.Join(report.Path, subtle.Sprint(" › "))))
		fmt.Fprintf(w, "  %s\n", subtle.Sprintf("%d hops", len(report.Path)-1))
		return nil
	},
}

func init() {
	addCrawlFlags(traceCmd)
	traceCmd.Flags().StringVar(&traceFormat, "format", "text", "Output format: text, json, yaml")
	rootCmd.AddCommand(traceCmd)
}
