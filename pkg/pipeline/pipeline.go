// Package pipeline runs the full atlas: it builds the link and co-mention
// graphs, labels them with categories and communities, lays them out,
// computes statistics and writes the exported views.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-atlas/pkg/config"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/ingest"
	"github.com/dd0wney/cluso-atlas/pkg/layoutcache"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
	"github.com/dd0wney/cluso-atlas/pkg/metrics"
	"github.com/dd0wney/cluso-atlas/pkg/visualization"
)

// Stage names used in logs and metrics
const (
	StageLoad        = "load"
	StageBuild       = "build"
	StageAnalyse     = "analyse"
	StageCategories  = "categories"
	StageCommunities = "communities"
	StageLayout      = "layout"
	StageStatistics  = "statistics"
	StageExport      = "export"
)

// ReportFile is the name of the run summary written to the export directory
const ReportFile = "report.json"

// Options carries the run's collaborators. Every field is optional.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
	// Cache replaces the cache described by the config
	Cache layoutcache.Cache
	// Now overrides the clock used for cache freshness
	Now func() time.Time
}

// state is the evolving snapshot of one graph
type state struct {
	g         *graph.Graph
	report    *GraphReport
	generated []string
	positions visualization.Positions
}

func (s *state) addGenerated(attrs ...string) {
	for _, attr := range attrs {
		if !slices.Contains(s.generated, attr) {
			s.generated = append(s.generated, attr)
		}
	}
}

type pipeline struct {
	cfg     *config.Config
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
	cache   layoutcache.Cache

	aliases *ingest.AliasTable
	docs    []ingest.Document
	posts   []ingest.Post

	link      *state
	comention *state
}

// Run executes every stage in order. Graph builds, layouts and exports run
// concurrently across the two graphs. The first failing stage aborts the run.
func Run(ctx context.Context, cfg *config.Config, opts Options) (report *Report, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	p := &pipeline{
		cfg:     cfg,
		opts:    opts,
		logger:  logging.OrNop(opts.Logger).With(logging.Component("pipeline"), logging.RunID(runID)),
		metrics: opts.Metrics,
		cache:   opts.Cache,
	}
	report = &Report{RunID: runID, StartedAt: time.Now().UTC()}

	timer := logging.StartTimer(p.logger, "Run finished")
	defer func() {
		var elapsed time.Duration
		if err != nil {
			elapsed = timer.EndError(err)
		} else {
			elapsed = timer.End()
		}
		if report != nil {
			report.Duration = elapsed
		}
		p.metrics.RecordRun(elapsed, err)
		p.metrics.UpdateSystemMetrics()
		if path := cfg.Metrics.Textfile; path != "" && p.metrics != nil {
			if werr := p.metrics.WriteTextfile(path); werr != nil {
				p.logger.Warn("Failed to write metrics textfile", logging.Path(path), logging.Error(werr))
			}
		}
	}()

	if p.cache == nil {
		p.cache, err = layoutcache.Open(ctx, cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("open layout cache: %w", err)
		}
		if p.cache != nil {
			defer p.cache.Close()
		}
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageLoad, p.load},
		{StageBuild, p.build},
		{StageAnalyse, p.analyse},
		{StageCategories, p.categories},
		{StageCommunities, p.communities},
		{StageLayout, p.layout},
		{StageStatistics, p.statistics},
		{StageExport, p.export},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	for _, s := range p.states() {
		report.Graphs = append(report.Graphs, s.report)
	}
	report.Duration = timer.Elapsed()
	path := filepath.Join(cfg.Export.Dir, ReportFile)
	if err := report.WriteFile(path); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	p.logger.Info("Wrote report", logging.Path(path), logging.Count(len(report.Graphs)))
	return report, nil
}

// states lists the built graphs, link graph first
func (p *pipeline) states() []*state {
	var out []*state
	if p.link != nil {
		out = append(out, p.link)
	}
	if p.comention != nil {
		out = append(out, p.comention)
	}
	return out
}

// timed runs fn as one stage of graph, recording its duration and outcome
func (p *pipeline) timed(graphName, stage string, fn func() error) error {
	timer := logging.StartTimer(p.logger, "Stage finished", logging.Graph(graphName), logging.Stage(stage))
	err := fn()
	var elapsed time.Duration
	if err != nil {
		elapsed = timer.EndError(err)
	} else {
		elapsed = timer.End()
	}
	p.metrics.RecordStage(graphName, stage, elapsed, err)
	return err
}

// eachGraph runs fn for every built graph concurrently
func (p *pipeline) eachGraph(ctx context.Context, stage string, fn func(context.Context, *state) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range p.states() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.timed(s.g.Name(), stage, func() error { return fn(gctx, s) })
		})
	}
	return g.Wait()
}

// Graphs runs the load, build and analyse stages only and returns the
// analysed graphs by name
func Graphs(ctx context.Context, cfg *config.Config, opts Options) (map[string]*graph.Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p := &pipeline{
		cfg:     cfg,
		opts:    opts,
		logger:  logging.OrNop(opts.Logger).With(logging.Component("pipeline")),
		metrics: opts.Metrics,
	}
	for _, step := range []struct {
		name string
		fn   func(context.Context) error
	}{
		{StageLoad, p.load},
		{StageBuild, p.build},
		{StageAnalyse, p.analyse},
	} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}

	out := make(map[string]*graph.Graph)
	for _, s := range p.states() {
		out[s.g.Name()] = s.g
	}
	return out, nil
}
