// Package config loads and validates the YAML file that drives an atlas run.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/ingest"
	"github.com/dd0wney/cluso-atlas/pkg/layoutcache"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
	"github.com/dd0wney/cluso-atlas/pkg/visualization"
)

// Graph selectors for community runs
const (
	GraphLink      = "link"
	GraphCoMention = "comention"
	GraphJoint     = "joint"
)

// Config is the full description of one run
type Config struct {
	Inputs      Inputs                  `yaml:"inputs"`
	Link        LinkGraph               `yaml:"link"`
	CoMention   CoMentionGraph          `yaml:"comention"`
	Categories  Categories              `yaml:"categories"`
	Communities []CommunityRun          `yaml:"communities" validate:"dive"`
	Layout      Layout                  `yaml:"layout"`
	Cache       layoutcache.CacheConfig `yaml:"cache"`
	Export      Export                  `yaml:"export"`
	Stats       Stats                   `yaml:"stats"`
	Logging     Logging                 `yaml:"logging"`
	Metrics     Metrics                 `yaml:"metrics"`
}

// Inputs names the data files. Relative paths resolve against the
// directory of the config file.
type Inputs struct {
	Aliases    string `yaml:"aliases" validate:"required"`
	Documents  string `yaml:"documents"`
	Posts      string `yaml:"posts"`
	Categories string `yaml:"categories"`
}

// LinkGraph configures the document link graph
type LinkGraph struct {
	Name string `yaml:"name" validate:"required"`
	// Undirected folds reciprocal links before analysis
	Undirected       bool `yaml:"undirected"`
	LargestComponent bool `yaml:"largest_component"`
}

// CoMentionGraph configures the forum co-mention graph
type CoMentionGraph struct {
	ingest.CoMentionOptions `yaml:",inline"`
	LargestComponent        bool `yaml:"largest_component"`
}

// Categories selects which mapping axes are applied. An empty list applies
// every axis in the mapping file.
type Categories struct {
	Axes []string `yaml:"axes" validate:"dive,required"`
}

// CommunityRun is one Louvain detection
type CommunityRun struct {
	Graph           string  `yaml:"graph" validate:"required,oneof=link comention joint"`
	Resolution      float64 `yaml:"resolution" validate:"gt=0"`
	OthersThreshold int     `yaml:"others_threshold" validate:"gte=0"`
	Weighted        bool    `yaml:"weighted"`
	Seed            uint64  `yaml:"seed"`
	Level           int     `yaml:"level" validate:"gte=-1"`
	Prefix          string  `yaml:"prefix" validate:"required"`
	TagResolution   bool    `yaml:"tag_resolution"`
}

// DefaultCommunityRun mirrors algorithms.DefaultCommunityOptions on the link graph
func DefaultCommunityRun() CommunityRun {
	d := algorithms.DefaultCommunityOptions()
	return CommunityRun{
		Graph:           GraphLink,
		Resolution:      d.Resolution,
		OthersThreshold: d.OthersThreshold,
		Weighted:        d.Weighted,
		Level:           d.Level,
		Prefix:          d.Prefix,
	}
}

// UnmarshalYAML fills keys missing from the document with DefaultCommunityRun
func (r *CommunityRun) UnmarshalYAML(node *yaml.Node) error {
	type plain CommunityRun
	p := plain(DefaultCommunityRun())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = CommunityRun(p)
	return nil
}

// Options converts the run into detection options
func (r CommunityRun) Options(logger logging.Logger) algorithms.CommunityOptions {
	return algorithms.CommunityOptions{
		Resolution:      r.Resolution,
		OthersThreshold: r.OthersThreshold,
		Weighted:        r.Weighted,
		Seed:            r.Seed,
		Prefix:          r.Prefix,
		TagResolution:   r.TagResolution,
		Level:           r.Level,
		Logger:          logger,
	}
}

func (r CommunityRun) String() string {
	return fmt.Sprintf("%s@%g", r.Graph, r.Resolution)
}

// Layout configures node placement and how long cached placements stay valid.
// A zero MaxAge never expires.
type Layout struct {
	visualization.LayoutConfig `yaml:",inline"`
	MaxAge                     time.Duration `yaml:"max_age"`
}

// CrossTab names a pair of discrete node attributes to tabulate
type CrossTab struct {
	Rows string `yaml:"rows" validate:"required"`
	Cols string `yaml:"cols" validate:"required"`
}

// Export configures the rendered views. Category and community attributes
// produced by the run are exported in addition to NodeAttributes.
type Export struct {
	Dir            string     `yaml:"dir" validate:"required"`
	NodeAttributes []string   `yaml:"node_attributes" validate:"dive,required"`
	EdgeAttributes []string   `yaml:"edge_attributes" validate:"dive,required"`
	CrossTabs      []CrossTab `yaml:"crosstabs" validate:"dive"`
}

// Stats configures the statistics report
type Stats struct {
	Metrics []string `yaml:"metrics" validate:"dive,required"`
	Top     int      `yaml:"top" validate:"gte=0"`
}

// Logging configures the structured logger
type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Metrics configures the Prometheus textfile written at the end of a run
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Default returns a configuration that only lacks input paths
func Default() *Config {
	return &Config{
		Link: LinkGraph{
			Name:             "wiki",
			Undirected:       true,
			LargestComponent: true,
		},
		CoMention: CoMentionGraph{
			CoMentionOptions: ingest.DefaultCoMentionOptions(),
			LargestComponent: true,
		},
		Layout: Layout{LayoutConfig: visualization.DefaultLayoutConfig()},
		Cache:  layoutcache.CacheConfig{Backend: layoutcache.BackendNone},
		Export: Export{
			Dir:            "out",
			NodeAttributes: []string{ingest.AttrContentLength, ingest.AttrPostCount},
		},
		Stats: Stats{
			Metrics: []string{string(algorithms.MetricDegree), string(algorithms.MetricBetweenness)},
			Top:     10,
		},
		Logging: Logging{Level: "info"},
	}
}

// HasLink reports whether the link graph is built
func (c *Config) HasLink() bool {
	return c.Inputs.Documents != ""
}

// HasCoMention reports whether the co-mention graph is built
func (c *Config) HasCoMention() bool {
	return c.Inputs.Posts != ""
}
