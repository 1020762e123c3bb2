package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/pipeline"
)

var (
	statsGraph  string
	statsMetric string
	statsTop    int
)

func init() {
	statsCmd.Flags().StringVarP(&statsGraph, "graph", "g", "", "Graph to analyse (default: every built graph)")
	statsCmd.Flags().StringVarP(&statsMetric, "metric", "m", string(algorithms.MetricDegree),
		"Ranking metric: degree, in-degree, out-degree, betweenness, eigenvector or pagerank")
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "Number of nodes to rank (0 = all)")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Degree statistics and the most central nodes",
	Long: `Build and analyse the configured graphs, then print their degree
distribution and the nodes ranked highest by one centrality metric.
Nothing is written to the export directory.

Examples:
  atlas stats --graph wiki --metric betweenness --top 20
  atlas stats -m pagerank --human`,
	RunE: runStats,
}

// StatsResponse is the output of the stats command for one graph
type StatsResponse struct {
	Graph   string                  `json:"graph"`
	Nodes   int                     `json:"nodes"`
	Edges   int                     `json:"edges"`
	Degree  *algorithms.DegreeStats `json:"degree"`
	Metric  string                  `json:"metric"`
	Central []algorithms.RankedNode `json:"central"`
	// Skipped explains why the metric does not apply to this graph
	Skipped string `json:"skipped,omitempty"`
}

// graphStats summarises one graph. A metric that does not apply to the
// graph, such as in-degree on an undirected graph, is reported as skipped.
func graphStats(name string, g *graph.Graph, metric string, top int) (StatsResponse, error) {
	degree, err := algorithms.DegreeStatistics(g)
	if err != nil {
		return StatsResponse{}, err
	}
	resp := StatsResponse{
		Graph:  name,
		Nodes:  g.NodeCount(),
		Edges:  g.EdgeCount(),
		Degree: degree,
		Metric: metric,
	}
	central, err := algorithms.MostCentral(g, metric, top)
	var unsupported *algorithms.UnsupportedMetricError
	switch {
	case errors.As(err, &unsupported):
		resp.Skipped = unsupported.Error()
	case err != nil:
		return StatsResponse{}, err
	default:
		resp.Central = central
	}
	return resp, nil
}

func runStats(cmd *cobra.Command, args []string) error {
	if _, err := algorithms.ParseMetric(statsMetric); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	cfg, logger := mustLoadConfig()

	graphs, err := pipeline.Graphs(cmd.Context(), cfg, pipeline.Options{Logger: logger})
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	names := sortedKeys(graphs)
	if statsGraph != "" {
		if _, ok := graphs[statsGraph]; !ok {
			exitWithError(ExitError, "unknown graph %q (have %v)", statsGraph, names)
		}
		names = []string{statsGraph}
	}

	responses := make([]StatsResponse, 0, len(names))
	for _, name := range names {
		resp, err := graphStats(name, graphs[name], statsMetric, statsTop)
		if err != nil {
			exitWithError(ExitDataError, "%s: %v", name, err)
		}
		responses = append(responses, resp)
	}

	if !humanOutput {
		return outputJSON(responses)
	}
	for _, r := range responses {
		printStatsHuman(r)
	}
	return nil
}

func printStatsHuman(r StatsResponse) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("%s: %d nodes, %d edges", r.Graph, r.Nodes, r.Edges)))
	printSummary("degree", r.Degree.Degree)
	fmt.Println(field("clustering", fmt.Sprintf("%.3f", r.Degree.Clustering)))
	if r.Degree.In != nil {
		printSummary("in-degree", *r.Degree.In)
		printSummary("out-degree", *r.Degree.Out)
	}
	fmt.Println()
	if r.Skipped != "" {
		fmt.Println(field(r.Metric, "skipped: "+r.Skipped))
		fmt.Println()
		return
	}
	fmt.Println(headerStyle.Render("Top nodes by " + r.Metric))
	for i, n := range r.Central {
		fmt.Printf("  %3d. %-32s %.6g\n", i+1, n.Node, n.Score)
	}
	fmt.Println()
}

func printSummary(name string, s algorithms.Summary) {
	fmt.Println(field(name, fmt.Sprintf("mean %.2f  median %.1f  mode %d  min %d (%s)  max %d (%s)",
		s.Mean, s.Median, s.Mode, s.Min, s.MinNode, s.Max, s.MaxNode)))
}
