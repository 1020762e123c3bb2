package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without running anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := mustLoadConfig()
		if humanOutput {
			fmt.Printf("%s is valid: %d community runs, layout %s, cache %s\n",
				configPath, len(cfg.Communities), cfg.Layout.Algorithm, cfg.Cache.Backend)
			return nil
		}
		return outputJSON(StatusResponse{Status: "valid", Path: configPath})
	},
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
