package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"wikitrail/trail/internal/graph"
	"wikitrail/trail/internal/normalize"
)

var (
	statsFormat       string
	statsBranch       string
	statsRelated      string
	statsTopN         int
	statsHubThreshold int
)

type statsReport struct {
	Crawl    crawlSummary          `json:"crawl" yaml:"crawl"`
	Analysis *graph.AnalysisReport `json:"analysis" yaml:"analysis"`
	Related  []graph.RelatedNode   `json:"related,omitempty" yaml:"related,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Crawl from the seeds and analyze the graph: topology, reach, bridges, health score",
	RunE: func(cmd *cobra.Command, args []string) error {
		x, sum, release, err := crawlFromFlags(cmd.Context())
		if err != nil {
			return err
		}
		defer release()

		snap := graph.SnapshotFromExplorer(x.Snapshot())
		if statsBranch != "" {
			id := normalize.ID(statsBranch)
			if _, ok := snap.Nodes[id]; !ok {
				return fmt.Errorf("branch %q is not in the graph", statsBranch)
			}
			snap = snap.FilterToBranch(id)
		}

		report := statsReport{
			Crawl: sum,
			Analysis: graph.Analyze(snap, &graph.AnalyzerConfig{
				HubThreshold: statsHubThreshold,
				TopN:         statsTopN,
			}),
		}
		if statsRelated != "" {
			id := normalize.ID(statsRelated)
			if _, ok := snap.Nodes[id]; !ok {
				return fmt.Errorf("%q is not in the graph", statsRelated)
			}
			report.Related = graph.FindRelated(snap, id, statsTopN, 0.1)
		}

		w := cmd.OutOrStdout()
		if done, err := writeFormatted(w, statsFormat, report); done || err != nil {
			return err
		}
		printCrawlSummary(cmd, sum)
		printHumanReadable(w, report, snap)
		return nil
	},
}

func init() {
	addCrawlFlags(statsCmd)
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "Output format: text, json, yaml")
	statsCmd.Flags().StringVar(&statsBranch, "branch", "", "Scope analysis to this topic and its descendants")
	statsCmd.Flags().StringVar(&statsRelated, "related", "", "List topics whose links overlap this topic's")
	statsCmd.Flags().IntVar(&statsTopN, "top-n", 10, "Number of top items to show per section")
	statsCmd.Flags().IntVar(&statsHubThreshold, "hub-threshold", 10, "Minimum degree to consider a topic a hub")
	rootCmd.AddCommand(statsCmd)
}

func printHumanReadable(w io.Writer, sr statsReport, snap *graph.GraphSnapshot) {
	report := sr.Analysis

	// Health bar
	barLen := min(int(report.HealthScore*20), 20)
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	scoreColor := good
	switch {
	case report.HealthScore < 0.4:
		scoreColor = bad
	case report.HealthScore < 0.7:
		scoreColor = warn
	}
	fmt.Fprintf(w, "  Graph Health: %s  [%s]\n", scoreColor.Sprintf("%.0f%%", report.HealthScore*100), bar)
	subtle.Fprintf(w, "  breakdown: connectivity=%.2f components=%.2f reach=%.2f fragility=%.2f\n",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Components,
		report.HealthBreakdown.Reach,
		report.HealthBreakdown.Fragility)

	// Topology
	t := report.Topology
	heading(w, "TOPOLOGY")
	fmt.Fprintf(w, "  Topics: %d  Links: %d  Seeds: %d  Components: %d\n", t.TotalNodes, t.TotalEdges, t.NumRoots, t.NumComponents)
	fmt.Fprintf(w, "  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)

	if t.OrphanCount > 0 {
		fmt.Fprintf(w, "  Orphans: %s disconnected topics\n", warn.Sprint(t.OrphanCount))
		limit := min(len(t.OrphanIDs), 5)
		for _, id := range t.OrphanIDs[:limit] {
			fmt.Fprintf(w, "    - %s\n", truncName(snap.Name(id), 50))
		}
		if t.OrphanCount > 5 {
			fmt.Fprintf(w, "    ... and %d more\n", t.OrphanCount-5)
		}
	}

	fmt.Fprintln(w, "\n  Levels:")
	for _, l := range t.Levels {
		fmt.Fprintf(w, "    %5d: %4d\n", l.Level, l.Count)
	}

	// Degree distribution
	fmt.Fprintln(w, "\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := max(int(math.Log2(float64(b.Count)))+2, 1)
			fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, info.Sprint(strings.Repeat("=", barWidth)))
		}
	}

	// Hubs
	if len(t.Hubs) > 0 {
		fmt.Fprintln(w, "\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Fprintf(w, "    degree=%d (in=%d, out=%d)  %s\n",
				hub.Degree, hub.InDegree, hub.OutDegree, truncName(hub.Name, 40))
		}
	}

	// Reach
	r := report.Reach
	heading(w, "REACH")
	fmt.Fprintf(w, "  %d topics trace back to a seed  max depth %d  avg %.1f\n", r.Reachable, r.MaxDepth, r.AvgDepth)
	if r.DetachedCount > 0 {
		fmt.Fprintf(w, "  %s topics have no path to a seed:\n", warn.Sprint(r.DetachedCount))
		for _, d := range r.Detached[:min(len(r.Detached), 10)] {
			fmt.Fprintf(w, "    level %d  %s\n", d.Level, truncName(d.Name, 40))
		}
	}

	// Bridges
	br := report.Bridges
	if br.APCount > 0 || br.BridgeCount > 0 || len(br.FragileConnections) > 0 {
		heading(w, "STRUCTURAL FRAGILITY")
		if br.APCount > 0 {
			fmt.Fprintf(w, "  %d articulation points (removal disconnects graph):\n", br.APCount)
			for _, ap := range br.ArticulationPoints[:min(len(br.ArticulationPoints), 10)] {
				fmt.Fprintf(w, "    %s (splits into %d)\n", truncName(ap.Name, 40), ap.ComponentsIfRemoved)
			}
		}
		if br.BridgeCount > 0 {
			fmt.Fprintf(w, "  %d bridge links (removal disconnects graph):\n", br.BridgeCount)
			for _, be := range br.BridgeEdges[:min(len(br.BridgeEdges), 10)] {
				fmt.Fprintf(w, "    %s -> %s\n", truncName(be.FromName, 30), truncName(be.ToName, 30))
			}
		}
		if len(br.FragileConnections) > 0 {
			fmt.Fprintf(w, "  %d fragile branch connections (<=2 links):\n", len(br.FragileConnections))
			for _, fc := range br.FragileConnections[:min(len(br.FragileConnections), 10)] {
				s := ""
				if fc.CrossEdges != 1 {
					s = "s"
				}
				fmt.Fprintf(w, "    %s <-> %s (%d link%s)\n",
					truncName(snap.Name(fc.BranchA), 25), truncName(snap.Name(fc.BranchB), 25), fc.CrossEdges, s)
			}
		}
	}

	if len(sr.Related) > 0 {
		heading(w, "RELATED")
		for _, rn := range sr.Related {
			fmt.Fprintf(w, "    %.2f  %s %s\n", rn.Similarity, truncName(rn.Name, 40), subtle.Sprintf("(%d shared)", rn.Shared))
		}
	}

	fmt.Fprintln(w)
}
