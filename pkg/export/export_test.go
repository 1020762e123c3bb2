package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-atlas/pkg/aggregate"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
	"github.com/dd0wney/cluso-atlas/pkg/visualization"
)

func setupLabelledGraph(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder("reddit", false)
	b.AddNode("caffeine", graph.Attributes{
		"effect":    graph.Labels("Stimulants"),
		"community": graph.Label("L0-0"),
		"score":     graph.Scalars(2, 4),
	})
	b.AddNode("modafinil", graph.Attributes{
		"effect":    graph.Labels("Stimulants", "Nootropics"),
		"community": graph.Label("L0-0"),
		"score":     graph.Scalar(10),
	})
	b.AddNode("l-theanine", graph.Attributes{
		"effect":    graph.Labels("Amino acids"),
		"community": graph.Label("L0-1"),
		"score":     graph.Scalar(0),
	})
	b.AddNode("melatonin", graph.Attributes{
		"effect":    graph.Labels(),
		"community": graph.Label("L0-1"),
		"score":     graph.Empty(),
	})
	b.AddEdge("caffeine", "modafinil", 3)
	b.AddEdge("caffeine", "l-theanine", 1)
	b.AddEdge("l-theanine", "melatonin", 2)
	return b.Build()
}

func nodeByID(t *testing.T, v *View, id string) Element {
	t.Helper()
	for _, n := range v.Nodes {
		if n.ID() == id {
			return n
		}
	}
	t.Fatalf("node %s not exported", id)
	return Element{}
}

func TestBuild_NodesCarryRepresentativesAndClasses(t *testing.T) {
	g := setupLabelledGraph(t)
	props, err := aggregate.Build(g, []string{"effect", "community", "score"}, []string{"weight"})
	require.NoError(t, err)

	positions := visualization.Positions{
		"caffeine":   {X: 1, Y: 2},
		"modafinil":  {X: 3, Y: 4},
		"l-theanine": {X: 5, Y: 6},
		"melatonin":  {X: 7, Y: 8},
	}
	view, err := Build(g, positions, props)
	require.NoError(t, err)
	require.Len(t, view.Nodes, 4)
	require.Len(t, view.Edges, 3)

	caffeine := nodeByID(t, view, "caffeine")
	assert.Equal(t, "Stimulants L0-0", caffeine.Classes)
	assert.Equal(t, 3.0, caffeine.Data["score"])
	assert.InDelta(t, 0.3, caffeine.Data["score"+ColorSuffix], 1e-12)
	require.NotNil(t, caffeine.Position)
	assert.Equal(t, visualization.Position{X: 1, Y: 2}, *caffeine.Position)
	assert.True(t, caffeine.Locked)

	theanine := nodeByID(t, view, "l-theanine")
	assert.Equal(t, "Amino_acids", theanine.Data["effect"])

	melatonin := nodeByID(t, view, "melatonin")
	assert.Equal(t, aggregate.NoneLabel, melatonin.Data["effect"])
	assert.Equal(t, 0.0, melatonin.Data["score"], "empty continuous values map to the minimum")

	edge := view.Edges[0]
	assert.Equal(t, "caffeine", edge.Data["source"])
	assert.Equal(t, "modafinil", edge.Data["target"])
	assert.Equal(t, 3.0, edge.Data["weight"])
	assert.InDelta(t, 1.0, edge.Data["weight"+ColorSuffix], 1e-12)
}

func TestBuild_WithoutPositions(t *testing.T) {
	view, err := Build(setupLabelledGraph(t), nil, nil)
	require.NoError(t, err)

	for _, n := range view.Nodes {
		assert.Nil(t, n.Position)
		assert.Empty(t, n.Classes)
	}
}

func TestBuild_MissingPosition(t *testing.T) {
	_, err := Build(setupLabelledGraph(t), visualization.Positions{"caffeine": {}}, nil)
	assert.True(t, errors.Is(err, ErrMissingPosition), "got %v", err)
}

func TestLegend(t *testing.T) {
	g := setupLabelledGraph(t)
	props, err := aggregate.Build(g, []string{"effect", "score"}, nil)
	require.NoError(t, err)
	view, err := Build(g, nil, props)
	require.NoError(t, err)

	legend, err := view.Legend("effect")
	require.NoError(t, err)
	assert.Equal(t, []LegendEntry{
		{Class: "Stimulants", Count: 2},
		{Class: "Amino_acids", Count: 1},
		{Class: "None", Count: 1},
	}, legend)

	_, err = view.Legend("score")
	assert.Error(t, err, "continuous attributes have no legend")

	_, err = view.Legend("unknown")
	var empty *aggregate.EmptyAttributeError
	assert.True(t, errors.As(err, &empty))
}

func TestWriteJSON(t *testing.T) {
	g := setupLabelledGraph(t)
	props, err := aggregate.Build(g, []string{"community"}, nil)
	require.NoError(t, err)
	view, err := Build(g, nil, props)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, view.WriteJSON(&buf))

	var decoded struct {
		Graph string `json:"graph"`
		Nodes []struct {
			Data    map[string]any `json:"data"`
			Classes string         `json:"classes"`
		} `json:"nodes"`
		Properties struct {
			NodeAttributes map[string]struct {
				Kind   string   `json:"kind"`
				Labels []string `json:"labels"`
			} `json:"node_attributes"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "reddit", decoded.Graph)
	assert.Len(t, decoded.Nodes, 4)
	assert.Equal(t, "L0-0", decoded.Nodes[0].Classes)
	assert.Equal(t, []string{"L0-0", "L0-1"}, decoded.Properties.NodeAttributes["community"].Labels)

	path := filepath.Join(t.TempDir(), "views", "reddit.json")
	require.NoError(t, view.WriteFile(path))
}

func TestCrossTab(t *testing.T) {
	table, err := CrossTab(setupLabelledGraph(t), "community", "effect")
	require.NoError(t, err)

	assert.Equal(t, []string{"L0-0", "L0-1"}, table.Rows)
	assert.Equal(t, []string{"Amino_acids", "None", "Stimulants"}, table.Cols)
	assert.Equal(t, 2, table.Count("L0-0", "Stimulants"))
	assert.Equal(t, 1, table.Count("L0-1", "None"))
	assert.Equal(t, 0, table.Count("L0-0", "None"))
	assert.Equal(t, 0, table.Count("L9", "None"))

	shares := table.RowShares()
	assert.Equal(t, []float64{0, 0, 1}, shares[0])
	assert.Equal(t, []float64{0.5, 0.5, 0}, shares[1])
}

func TestCrossTab_RejectsContinuous(t *testing.T) {
	_, err := CrossTab(setupLabelledGraph(t), "community", "score")
	assert.Error(t, err)
}
