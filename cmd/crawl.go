package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"wikitrail/trail/internal/ctxlog"
	"wikitrail/trail/internal/explorer"
	"wikitrail/trail/internal/linksource"
)

var (
	crawlSeeds  []string
	crawlDepth  int
	crawlFormat string
)

// crawlSummary counts what a breadth-first crawl did.
type crawlSummary struct {
	Seeds    []string `json:"seeds" yaml:"seeds"`
	Depth    int      `json:"depth" yaml:"depth"`
	Expanded int      `json:"expanded" yaml:"expanded"`
	Renamed  int      `json:"renamed" yaml:"renamed"`
	Merged   int      `json:"merged" yaml:"merged"`
	NotFound int      `json:"not_found" yaml:"not_found"`
	Failed   int      `json:"failed" yaml:"failed"`
	Stale    int      `json:"stale" yaml:"stale"`
	Nodes    int      `json:"nodes" yaml:"nodes"`
	Edges    int      `json:"edges" yaml:"edges"`
	Elapsed  string   `json:"elapsed" yaml:"elapsed"`
}

type expansion struct {
	out explorer.Outcome
	err error
}

// crawl seeds x and expands breadth-first for depth levels. Each level's
// frontier runs with at most concurrency expansions in flight. Failed
// expansions are logged and counted; only cancellation stops the crawl.
func crawl(ctx context.Context, x *explorer.Explorer, seeds []string, depth, concurrency int) (crawlSummary, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	sum := crawlSummary{Seeds: seeds, Depth: depth}

	x.Seed(seeds...)
	frontier := x.Roots()
	expanded := make(map[string]bool)

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var batch []string
		for _, id := range frontier {
			if !expanded[id] {
				expanded[id] = true
				batch = append(batch, id)
			}
		}

		results := make([]expansion, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, id := range batch {
			g.Go(func() error {
				out, err := x.Expand(gctx, id)
				if err != nil && ctx.Err() != nil {
					return ctx.Err()
				}
				results[i] = expansion{out: out, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return sum, err
		}

		var next []string
		for i, r := range results {
			switch {
			case errors.Is(r.err, linksource.ErrNotFound):
				sum.NotFound++
				logger.Info("no page", "node", batch[i])
			case r.err != nil:
				sum.Failed++
				logger.Warn("expansion failed", "node", batch[i], "error", r.err)
			case r.out.Stale:
				sum.Stale++
			default:
				sum.Expanded++
				expanded[r.out.ID] = true
				switch r.out.Rename.Kind {
				case explorer.Renamed:
					sum.Renamed++
				case explorer.Merged:
					sum.Merged++
				}
				next = append(next, r.out.AddedNodes...)
			}
		}
		logger.Debug("crawl level done", "level", level, "expanded", len(batch), "next", len(next))
		frontier = next
	}

	snap := x.Snapshot()
	sum.Nodes = len(snap.Nodes)
	sum.Edges = len(snap.Edges)
	sum.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return sum, nil
}

// crawlFromFlags opens the configured source and runs a crawl from the
// --seed and --depth flags. release frees the source.
func crawlFromFlags(ctx context.Context) (x *explorer.Explorer, sum crawlSummary, release func(), err error) {
	if len(crawlSeeds) == 0 {
		return nil, sum, nil, fmt.Errorf("at least one --seed is required")
	}
	src, closeSrc, err := openSource()
	if err != nil {
		return nil, sum, nil, err
	}
	x, stop := newExplorer(ctx, src, nil)
	release = func() {
		stop()
		closeSrc()
	}
	sum, err = crawl(ctx, x, crawlSeeds, crawlDepth, cfg.Explore.Concurrency)
	if err != nil {
		release()
		return nil, sum, nil, err
	}
	return x, sum, release, nil
}

func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&crawlSeeds, "seed", nil, "Seed topic (repeatable)")
	cmd.Flags().IntVar(&crawlDepth, "depth", 2, "Number of expansion levels")
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Expand seed topics breadth-first and summarize the graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sum, release, err := crawlFromFlags(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		w := cmd.OutOrStdout()
		if done, err := writeFormatted(w, crawlFormat, sum); done || err != nil {
			return err
		}
		printCrawlSummary(cmd, sum)
		return nil
	},
}

func printCrawlSummary(cmd *cobra.Command, sum crawlSummary) {
	w := cmd.OutOrStdout()
	heading(w, "CRAWL")
	fmt.Fprintf(w, "  Seeds: %v  Depth: %d  Elapsed: %s\n", sum.Seeds, sum.Depth, sum.Elapsed)
	fmt.Fprintf(w, "  Topics: %s  Links: %s\n", info.Sprint(sum.Nodes), info.Sprint(sum.Edges))
	fmt.Fprintf(w, "  Expanded: %s", good.Sprint(sum.Expanded))
	if sum.Renamed > 0 || sum.Merged > 0 {
		fmt.Fprintf(w, "  (renamed %d, merged %d)", sum.Renamed, sum.Merged)
	}
	fmt.Fprintln(w)
	if sum.NotFound > 0 {
		fmt.Fprintf(w, "  Missing pages: %s\n", warn.Sprint(sum.NotFound))
	}
	if sum.Failed > 0 {
		fmt.Fprintf(w, "  Failed: %s\n", bad.Sprint(sum.Failed))
	}
	fmt.Fprintln(w)
}

func init() {
	addCrawlFlags(crawlCmd)
	crawlCmd.Flags().StringVar(&crawlFormat, "format", "text", "Output format: text, json, yaml")
	rootCmd.AddCommand(crawlCmd)
}
