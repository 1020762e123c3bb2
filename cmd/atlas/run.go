package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-atlas/pkg/metrics"
	"github.com/dd0wney/cluso-atlas/pkg/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Build both graphs, assign categories and communities, lay them out,
compute statistics and write the views and report to the export directory.

Examples:
  atlas run
  atlas run -c configs/forum.yaml --human`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger := mustLoadConfig()

	report, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{
		Logger:  logger,
		Metrics: metrics.DefaultRegistry(),
	})
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if !humanOutput {
		return outputJSON(report)
	}
	fmt.Println(titleStyle.Render(fmt.Sprintf("atlas run %s", report.RunID)))
	fmt.Println(field("duration", report.Duration.Round(time.Millisecond)))
	fmt.Println()
	for _, g := range report.Graphs {
		fmt.Println(renderGraph(g))
	}
	return nil
}
