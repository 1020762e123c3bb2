package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-atlas/pkg/export"
	"github.com/dd0wney/cluso-atlas/pkg/pipeline"
)

var communitiesReport string

func init() {
	communitiesCmd.Flags().StringVar(&communitiesReport, "report", "", "Report to read (default: the export directory's report.json)")
	rootCmd.AddCommand(communitiesCmd)
}

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Show the communities and legends of the last run",
	Long: `Read the report written by "atlas run" and print, per graph, every
community detection with its modularity and the size of each label.

Examples:
  atlas communities --human
  atlas communities --report out/report.json`,
	RunE: runCommunities,
}

// CommunitiesResponse lists the detections and legends of one graph
type CommunitiesResponse struct {
	Graph       string                          `json:"graph"`
	Communities []pipeline.CommunitySummary     `json:"communities"`
	Legends     map[string][]export.LegendEntry `json:"legends,omitempty"`
}

func runCommunities(cmd *cobra.Command, args []string) error {
	path := communitiesReport
	if path == "" {
		cfg, _ := mustLoadConfig()
		path = filepath.Join(cfg.Export.Dir, pipeline.ReportFile)
	}
	report, err := pipeline.ReadReport(path)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		out := make([]CommunitiesResponse, 0, len(report.Graphs))
		for _, g := range report.Graphs {
			out = append(out, CommunitiesResponse{Graph: g.Name, Communities: g.Communities, Legends: g.Legends})
		}
		return outputJSON(out)
	}

	fmt.Println(titleStyle.Render("Communities of run " + report.RunID))
	for _, g := range report.Graphs {
		fmt.Println()
		fmt.Println(headerStyle.Render(g.Name))
		for _, c := range g.Communities {
			fmt.Println(field("attribute", c.Attribute))
			fmt.Println(field("modularity", fmt.Sprintf("%.4f at level %d of %d (resolution %g, seed %d)",
				c.Modularity, c.Level, c.Levels, c.Resolution, c.Seed)))
			fmt.Println(field("labels", fmt.Sprintf("%d communities in %d buckets", c.Communities, c.Buckets)))
			for _, entry := range g.Legends[c.Attribute] {
				fmt.Printf("    %-20s %d\n", entry.Class, entry.Count)
			}
		}
	}
	return nil
}
