package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-atlas/pkg/aggregate"
	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/category"
	"github.com/dd0wney/cluso-atlas/pkg/config"
	"github.com/dd0wney/cluso-atlas/pkg/export"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/ingest"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
	"github.com/dd0wney/cluso-atlas/pkg/visualization"
)

// Graph size stages
const (
	sizeBuilt    = "built"
	sizeAnalysed = "analysed"
)

// weightAttr exposes edge weights to the exporter as a regular attribute
const weightAttr = "weight"

// load reads the alias table and both corpora concurrently
func (p *pipeline) load(_ context.Context) error {
	in := p.cfg.Inputs
	var g errgroup.Group
	g.Go(func() (err error) {
		p.aliases, err = ingest.LoadAliases(in.Aliases)
		return err
	})
	if p.cfg.HasLink() {
		g.Go(func() (err error) {
			p.docs, err = ingest.LoadDocuments(in.Documents)
			return err
		})
	}
	if p.cfg.HasCoMention() {
		g.Go(func() (err error) {
			p.posts, err = ingest.LoadPosts(in.Posts)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.logger.Info("Loaded inputs",
		logging.Int("aliases", p.aliases.Len()),
		logging.Int("documents", len(p.docs)),
		logging.Int("posts", len(p.posts)))
	return nil
}

// build constructs the link and co-mention graphs concurrently
func (p *pipeline) build(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.HasLink() {
		name := p.cfg.Link.Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.timed(name, StageBuild, func() error {
				built, stats := ingest.BuildLinkGraph(p.docs, p.aliases, ingest.LinkOptions{Name: name, Logger: p.logger})
				p.link = p.newState(built, stats)
				return nil
			})
		})
	}
	if p.cfg.HasCoMention() {
		opts := p.cfg.CoMention.CoMentionOptions
		opts.Logger = p.logger
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return p.timed(opts.Name, StageBuild, func() error {
				built, stats := ingest.BuildCoMentionGraph(p.posts, p.aliases, opts)
				p.comention = p.newState(built, stats)
				return nil
			})
		})
	}
	return g.Wait()
}

func (p *pipeline) newState(g *graph.Graph, stats *ingest.BuildStats) *state {
	rejected := make(map[string]int, len(stats.Rejected))
	for reason, n := range stats.Rejected {
		rejected[string(reason)] = n
	}
	p.metrics.RecordIngest(g.Name(), stats.Accepted, rejected, stats.AliasMisses, stats.DroppedEdges)
	p.metrics.RecordGraphSize(g.Name(), sizeBuilt, g.NodeCount(), g.EdgeCount())
	if misses := stats.TopMisses(5); len(misses) > 0 {
		p.logger.Debug("Most frequent unresolved names", logging.Graph(g.Name()), logging.String("names", strings.Join(misses, ", ")))
	}
	return &state{
		g: g,
		report: &GraphReport{
			Name:       g.Name(),
			Directed:   g.Directed(),
			BuiltNodes: g.NodeCount(),
			BuiltEdges: g.EdgeCount(),
			Build:      stats,
			Skipped:    make(map[string]string),
		},
	}
}

// analyse folds the link graph to undirected and keeps the largest
// component where configured
func (p *pipeline) analyse(ctx context.Context) error {
	return p.eachGraph(ctx, StageAnalyse, func(_ context.Context, s *state) error {
		largest := p.cfg.CoMention.LargestComponent
		if s == p.link {
			largest = p.cfg.Link.LargestComponent
			if p.cfg.Link.Undirected {
				s.g = s.g.Undirected()
			}
		}
		if largest {
			before := s.g.NodeCount()
			s.g = s.g.LargestComponent()
			if dropped := before - s.g.NodeCount(); dropped > 0 {
				p.logger.Info("Dropped nodes outside the largest component",
					logging.Graph(s.g.Name()), logging.Count(dropped))
			}
		}
		s.report.Directed = s.g.Directed()
		s.report.Nodes = s.g.NodeCount()
		s.report.Edges = s.g.EdgeCount()
		p.metrics.RecordGraphSize(s.g.Name(), sizeAnalysed, s.g.NodeCount(), s.g.EdgeCount())
		return nil
	})
}

// categories assigns every configured mapping axis to both graphs. The
// raw categories always come from the documents.
func (p *pipeline) categories(ctx context.Context) error {
	if p.cfg.Inputs.Categories == "" {
		return nil
	}
	mappings, err := category.LoadMappings(p.cfg.Inputs.Categories)
	if err != nil {
		return err
	}
	axes, err := selectAxes(mappings, p.cfg.Categories.Axes)
	if err != nil {
		return err
	}
	src := category.FromDocuments(p.docs, p.aliases)

	return p.eachGraph(ctx, StageCategories, func(_ context.Context, s *state) error {
		labelled, err := category.AssignAxes(s.g, src, axes)
		if err != nil {
			return err
		}
		s.g = labelled
		for _, axis := range category.AxisNames(axes) {
			attr := category.AttributeName(axis)
			s.addGenerated(attr)
			s.report.Categories = append(s.report.Categories, attr)
		}
		return nil
	})
}

func selectAxes(all map[string]*category.Mapping, wanted []string) (map[string]*category.Mapping, error) {
	if len(wanted) == 0 {
		return all, nil
	}
	out := make(map[string]*category.Mapping, len(wanted))
	for _, axis := range wanted {
		m, ok := all[axis]
		if !ok {
			return nil, fmt.Errorf("category axis %q not found in mappings (have %s)",
				axis, strings.Join(category.AxisNames(all), ", "))
		}
		out[axis] = m
	}
	return out, nil
}

// communities runs every configured detection in order. Runs are
// sequential because each one extends the graph the next one sees.
func (p *pipeline) communities(_ context.Context) error {
	for _, run := range p.cfg.Communities {
		var err error
		switch run.Graph {
		case config.GraphLink:
			err = p.timed(p.link.g.Name(), StageCommunities, func() error { return p.detect(p.link, run) })
		case config.GraphCoMention:
			err = p.timed(p.comention.g.Name(), StageCommunities, func() error { return p.detect(p.comention, run) })
		case config.GraphJoint:
			err = p.timed(config.GraphJoint, StageCommunities, func() error { return p.detectJoint(run) })
		}
		if err != nil {
			return fmt.Errorf("run %s: %w", run, err)
		}
	}
	return nil
}

func (p *pipeline) detect(s *state, run config.CommunityRun) error {
	result, err := algorithms.DetectCommunities(s.g, run.Options(p.logger))
	if err != nil {
		return err
	}
	s.g = result.Graph
	s.addGenerated(result.Attribute)
	s.report.Communities = append(s.report.Communities, summarize(result))
	p.recordCommunities(result)
	return nil
}

func (p *pipeline) detectJoint(run config.CommunityRun) error {
	opts := run.Options(p.logger)
	joint, err := algorithms.DetectJointCommunities(p.link.g, p.comention.g, opts, opts)
	if err != nil {
		return err
	}
	p.link.g, p.comention.g = joint.A.Graph, joint.B.Graph
	for _, s := range []*state{p.link, p.comention} {
		s.addGenerated(joint.A.Attribute, joint.B.Attribute)
	}

	a, b := summarize(joint.A), summarize(joint.B)
	a.Joint, b.Joint = true, true
	a.Overlap = algorithms.Overlap(joint.A, p.comention.g)
	b.Overlap = algorithms.Overlap(joint.B, p.link.g)
	p.link.report.Communities = append(p.link.report.Communities, a)
	p.comention.report.Communities = append(p.comention.report.Communities, b)
	p.recordCommunities(joint.A)
	p.recordCommunities(joint.B)
	return nil
}

func (p *pipeline) recordCommunities(r *algorithms.CommunityResult) {
	chosen := r.Chosen()
	p.metrics.RecordCommunities(r.Graph.Name(), r.Attribute, chosen.Modularity, chosen.Communities, chosen.Buckets)
}

// layout places both graphs, reusing cached placements where possible
func (p *pipeline) layout(ctx context.Context) error {
	engine := &visualization.Engine{
		Config:  p.cfg.Layout.LayoutConfig,
		Cache:   p.cache,
		MaxAge:  p.cfg.Layout.MaxAge,
		Logger:  p.logger,
		Metrics: p.metrics,
		Now:     p.opts.Now,
	}
	return p.eachGraph(ctx, StageLayout, func(ctx context.Context, s *state) error {
		positions, err := engine.Compute(ctx, s.g)
		if err != nil {
			return err
		}
		s.positions = positions
		return nil
	})
}

// statistics summarises degrees and ranks nodes by every configured metric.
// Directional metrics are skipped on undirected graphs.
func (p *pipeline) statistics(ctx context.Context) error {
	return p.eachGraph(ctx, StageStatistics, func(_ context.Context, s *state) error {
		degree, err := algorithms.DegreeStatistics(s.g)
		if err != nil {
			return err
		}
		s.report.Degree = degree
		s.report.Central = make(map[string][]algorithms.RankedNode, len(p.cfg.Stats.Metrics))

		for _, metric := range p.cfg.Stats.Metrics {
			ranked, err := algorithms.MostCentral(s.g, metric, p.cfg.Stats.Top)
			var unsupported *algorithms.UnsupportedMetricError
			switch {
			case errors.As(err, &unsupported):
				p.logger.Info("Skipping metric", logging.Graph(s.g.Name()),
					logging.String("metric", metric), logging.Error(err))
				continue
			case err != nil:
				return fmt.Errorf("%s centrality: %w", metric, err)
			}
			s.report.Central[metric] = ranked
		}
		return nil
	})
}

// export writes one view per graph plus the configured cross tabulations.
// Attributes that are empty or inconsistent on a graph are skipped for
// that graph only.
func (p *pipeline) export(ctx context.Context) error {
	dir := p.cfg.Export.Dir
	return p.eachGraph(ctx, StageExport, func(_ context.Context, s *state) error {
		nodeAttrs := mergeAttrs(p.cfg.Export.NodeAttributes, s.generated)
		edgeAttrs := p.cfg.Export.EdgeAttributes
		g := s.g
		if slices.Contains(edgeAttrs, weightAttr) {
			g = withWeights(g)
		}

		props, skipped := profile(g, nodeAttrs, edgeAttrs)
		for attr, reason := range skipped {
			s.report.Skipped[attr] = reason
			p.logger.Warn("Attribute not exported", logging.Graph(g.Name()),
				logging.Attribute(attr), logging.String("reason", reason))
		}

		view, err := export.Build(g, s.positions, props)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, g.Name()+".json")
		if err := view.WriteFile(path); err != nil {
			return err
		}
		s.report.ViewPath = path

		s.report.Legends = make(map[string][]export.LegendEntry)
		for _, attr := range s.generated {
			if prof, ok := props.Nodes[attr]; !ok || prof.Kind != aggregate.Discrete {
				continue
			}
			legend, err := view.Legend(attr)
			if err != nil {
				return err
			}
			s.report.Legends[attr] = legend
		}

		for _, ct := range p.cfg.Export.CrossTabs {
			table, err := export.CrossTab(g, ct.Rows, ct.Cols)
			var empty *aggregate.EmptyAttributeError
			switch {
			case errors.As(err, &empty):
				p.logger.Debug("Skipping cross tabulation", logging.Graph(g.Name()),
					logging.String("rows", ct.Rows), logging.String("cols", ct.Cols), logging.Error(err))
				continue
			case err != nil:
				return err
			}
			s.report.CrossTabs = append(s.report.CrossTabs, table)
		}
		return nil
	})
}

// profile builds the properties of every attribute that can be exported,
// returning the others with the reason they were left out
func profile(g *graph.Graph, nodeAttrs, edgeAttrs []string) (*aggregate.Properties, map[string]string) {
	props := &aggregate.Properties{
		Nodes: make(map[string]*aggregate.Profile),
		Edges: make(map[string]*aggregate.Profile),
	}
	skipped := make(map[string]string)

	for _, attr := range nodeAttrs {
		p, err := checkedProfile(attr, aggregate.ScopeNodes, aggregate.NodeEntries(g, attr))
		if err != nil {
			skipped[attr] = err.Error()
			continue
		}
		props.Nodes[attr] = p
		props.NodeOrder = append(props.NodeOrder, attr)
	}
	for _, attr := range edgeAttrs {
		p, err := checkedProfile(attr, aggregate.ScopeEdges, aggregate.EdgeEntries(g, attr))
		if err != nil {
			skipped["edge:"+attr] = err.Error()
			continue
		}
		props.Edges[attr] = p
		props.EdgeOrder = append(props.EdgeOrder, attr)
	}
	return props, skipped
}

// checkedProfile profiles attr and reduces every entry once, so that a
// value contradicting the profile fails here rather than mid-export
func checkedProfile(attr string, scope aggregate.Scope, entries []aggregate.Entry) (*aggregate.Profile, error) {
	p, err := aggregate.NewProfile(attr, scope, entries)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := p.Representative(e.Entity, e.Value); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func withWeights(g *graph.Graph) *graph.Graph {
	edges := g.Edges()
	weights := make(map[[2]string]graph.Value, len(edges))
	for _, e := range edges {
		weights[[2]string{e.Source, e.Target}] = graph.Scalar(e.Weight)
	}
	return g.WithEdgeAttribute(weightAttr, weights, graph.Empty())
}

func mergeAttrs(configured, generated []string) []string {
	out := append([]string(nil), configured...)
	for _, attr := range generated {
		if !slices.Contains(out, attr) {
			out = append(out, attr)
		}
	}
	return out
}
