package visualization

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/layoutcache"
	"github.com/dd0wney/cluso-atlas/pkg/logging"
	"github.com/dd0wney/cluso-atlas/pkg/metrics"
)

// Cache outcomes reported to metrics
const (
	outcomeHit        = "hit"
	outcomeMiss       = "miss"
	outcomeStale      = "stale"
	outcomeIncomplete = "incomplete"
	outcomeError      = "error"
	outcomeStored     = "stored"
)

// Engine computes layouts and reuses cached ones. A nil Cache disables
// caching. A cached entry is reused only while it is fresh and places
// every node of the graph; otherwise the layout is recomputed and stored.
type Engine struct {
	Config  LayoutConfig
	Cache   layoutcache.Cache
	MaxAge  time.Duration
	Logger  logging.Logger
	Metrics *metrics.Registry

	// Now overrides the clock in tests
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Compute returns the layout of g. Cache failures are logged and never fail
// the computation.
func (e *Engine) Compute(ctx context.Context, g *graph.Graph) (Positions, error) {
	logger := logging.OrNop(e.Logger).With(logging.Component("layout"), logging.Graph(g.Name()))

	layout, err := NewLayout(e.Config)
	if err != nil {
		return nil, err
	}

	if e.Cache == nil {
		return e.run(layout, g, logger)
	}

	key := CacheKey(g, e.Config)
	entry, err := e.Cache.Get(ctx, key)
	switch {
	case err == nil && !entry.Fresh(e.MaxAge, e.now()):
		e.Metrics.RecordLayoutCache(g.Name(), outcomeStale)
		logger.Info("Cached layout is stale", logging.String("key", key))
	case err == nil:
		if positions, ok := fromEntry(g, entry); ok {
			e.Metrics.RecordLayoutCache(g.Name(), outcomeHit)
			logger.Debug("Reusing cached layout", logging.String("key", key))
			return positions, nil
		}
		e.Metrics.RecordLayoutCache(g.Name(), outcomeIncomplete)
		logger.Warn("Cached layout does not cover the graph", logging.String("key", key))
	case errors.Is(err, layoutcache.ErrMiss):
		e.Metrics.RecordLayoutCache(g.Name(), outcomeMiss)
	default:
		e.Metrics.RecordLayoutCache(g.Name(), outcomeError)
		logger.Warn("Layout cache lookup failed", logging.String("key", key), logging.Error(err))
	}

	positions, err := e.run(layout, g, logger)
	if err != nil {
		return nil, err
	}

	if err := e.Cache.Put(ctx, toEntry(g, key, positions, e.now())); err != nil {
		e.Metrics.RecordLayoutCache(g.Name(), outcomeError)
		logger.Warn("Failed to store layout", logging.String("key", key), logging.Error(err))
	} else {
		e.Metrics.RecordLayoutCache(g.Name(), outcomeStored)
	}
	return positions, nil
}

func (e *Engine) run(layout Layout, g *graph.Graph, logger logging.Logger) (Positions, error) {
	algorithm := string(e.Config.Algorithm)
	if algorithm == "" {
		algorithm = string(AlgorithmForce)
	}
	timer := logging.StartTimer(logger, "Computed layout",
		logging.String("algorithm", algorithm), logging.Count(g.NodeCount()))

	positions, err := layout.ComputeLayout(g)
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	e.Metrics.RecordLayout(g.Name(), algorithm, timer.End())
	return positions, nil
}

func fromEntry(g *graph.Graph, entry *layoutcache.Entry) (Positions, bool) {
	positions := make(Positions, len(entry.Placements))
	for _, p := range entry.Placements {
		positions[p.Node] = Position{X: p.X, Y: p.Y}
	}
	for _, name := range g.NodeNames() {
		if _, ok := positions[name]; !ok {
			return nil, false
		}
	}
	return positions, true
}

func toEntry(g *graph.Graph, key string, positions Positions, now time.Time) *layoutcache.Entry {
	names := g.NodeNames()
	placements := make([]layoutcache.Placement, 0, len(names))
	for _, name := range names {
		p := positions[name]
		placements = append(placements, layoutcache.Placement{Node: name, X: p.X, Y: p.Y})
	}
	return &layoutcache.Entry{
		Key:        key,
		Graph:      g.Name(),
		CreatedAt:  now.UTC(),
		Placements: placements,
	}
}

// CacheKey derives a cache key from the graph's identity, its nodes and
// weighted edges, and every layout parameter. Any change to one of them
// yields a different key.
func CacheKey(g *graph.Graph, config LayoutConfig) string {
	h := sha256.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeUint := func(u uint64) {
		binary.BigEndian.PutUint64(buf[:], u)
		h.Write(buf[:])
	}
	writeFloat := func(f float64) {
		writeUint(math.Float64bits(f))
	}

	writeString(g.Name())
	if g.Directed() {
		writeUint(1)
	} else {
		writeUint(0)
	}

	writeUint(uint64(g.NodeCount()))
	for _, name := range g.NodeNames() {
		writeString(name)
	}
	edges := g.Edges()
	writeUint(uint64(len(edges)))
	for _, e := range edges {
		writeString(e.Source)
		writeString(e.Target)
		writeFloat(e.Weight)
	}

	algorithm := config.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmForce
	}
	writeString(string(algorithm))
	writeFloat(config.Width)
	writeFloat(config.Height)
	writeUint(uint64(config.Iterations))
	writeFloat(config.Padding)
	writeUint(config.Seed)
	if config.Weighted {
		writeUint(1)
	} else {
		writeUint(0)
	}

	return g.Name() + "-" + hex.EncodeToString(h.Sum(nil)[:16])
}
