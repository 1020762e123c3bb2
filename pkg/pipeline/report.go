package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/export"
	"github.com/dd0wney/cluso-atlas/pkg/ingest"
)

// Report summarises one run
type Report struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration_ns"`
	Graphs    []*GraphReport `json:"graphs"`
}

// Graph returns the report of the named graph, or nil
func (r *Report) Graph(name string) *GraphReport {
	for _, g := range r.Graphs {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// GraphReport summarises the processing of one graph
type GraphReport struct {
	Name     string `json:"name"`
	Directed bool   `json:"directed"`
	// BuiltNodes and BuiltEdges are the sizes before component filtering
	BuiltNodes int `json:"built_nodes"`
	BuiltEdges int `json:"built_edges"`
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`

	Build       *ingest.BuildStats                 `json:"build"`
	Categories  []string                           `json:"categories,omitempty"`
	Communities []CommunitySummary                 `json:"communities,omitempty"`
	Degree      *algorithms.DegreeStats            `json:"degree,omitempty"`
	Central     map[string][]algorithms.RankedNode `json:"central,omitempty"`
	Legends     map[string][]export.LegendEntry    `json:"legends,omitempty"`
	CrossTabs   []*export.Table                    `json:"crosstabs,omitempty"`
	Skipped     map[string]string                  `json:"skipped_attributes,omitempty"`
	ViewPath    string                             `json:"view_path,omitempty"`
}

// CommunitySummary describes the chosen level of one detection run
type CommunitySummary struct {
	Attribute   string  `json:"attribute"`
	Resolution  float64 `json:"resolution"`
	Seed        uint64  `json:"seed"`
	Level       int     `json:"level"`
	Levels      int     `json:"levels"`
	Modularity  float64 `json:"modularity"`
	Communities int     `json:"communities"`
	Buckets     int     `json:"buckets"`
	// Joint is set when the labels were also projected onto the other graph
	Joint bool `json:"joint,omitempty"`
	// Overlap counts, per label, the members present in the other graph
	Overlap map[string]int `json:"overlap,omitempty"`
}

func summarize(r *algorithms.CommunityResult) CommunitySummary {
	chosen := r.Chosen()
	return CommunitySummary{
		Attribute:   r.Attribute,
		Resolution:  r.Resolution,
		Seed:        r.Seed,
		Level:       chosen.Level,
		Levels:      len(r.Levels),
		Modularity:  chosen.Modularity,
		Communities: chosen.Communities,
		Buckets:     chosen.Buckets,
	}
}

// WriteFile writes the report as indented JSON, creating parent directories
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadReport loads a report written by WriteFile
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return &r, nil
}
