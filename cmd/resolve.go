package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveFormat string

type resolveReport struct {
	Topic     string   `json:"topic" yaml:"topic"`
	Canonical string   `json:"canonical" yaml:"canonical"`
	Links     []string `json:"links" yaml:"links"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve TOPIC",
	Short: "Look up one topic at the link source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, release, err := openSource()
		if err != nil {
			return err
		}
		defer release()

		res, err := src.Resolve(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("resolving %q: %w", args[0], err)
		}

		report := resolveReport{Topic: args[0], Canonical: res.CanonicalName, Links: res.Links}
		w := cmd.OutOrStdout()
		if done, err := writeFormatted(w, resolveFormat, report); done || err != nil {
			return err
		}

		fmt.Fprintf(w, "  %s", brand.Sprint(res.CanonicalName))
		if res.CanonicalName != args[0] {
			fmt.Fprintf(w, " %s", subtle.Sprintf("(from %s)", args[0]))
		}
		fmt.Fprintf(w, "\n  %d links\n", len(res.Links))
		for i, l := range res.Links {
			fmt.Fprintf(w, "  %s %s\n", subtle.Sprintf("%3d", i+1), l)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "text", "Output format: text, json, yaml")
	rootCmd.AddCommand(resolveCmd)
}
