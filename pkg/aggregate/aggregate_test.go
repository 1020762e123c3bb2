package aggregate

import (
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// setupSubstanceGraph creates a small graph with list, label and scalar
// attributes in the shapes the loaders produce.
func setupSubstanceGraph(t *testing.T) *graph.Graph {
	t.Helper()

	b := graph.NewBuilder("substances", false)
	b.AddNode("caffeine", graph.Attributes{
		"categories": graph.Empty(),
		"scores":     graph.Scalars(1, 3),
		"effect":     graph.Label("mild stimulant"),
	})
	b.AddNode("nicotine", graph.Attributes{
		"categories": graph.Labels("Stimulants", "Alkaloids"),
		"scores":     graph.Scalars(10),
		"effect":     graph.Label("stimulant"),
	})
	b.AddNode("theanine", graph.Attributes{
		"categories": graph.Labels("Amino acids"),
		"scores":     graph.Scalar(-4),
		"effect":     graph.Label("calming"),
	})
	b.AddEdge("caffeine", "nicotine", 3)
	b.AddEdge("caffeine", "theanine", 1)
	return b.Build()
}

func TestBuild_ClassifiesAttributes(t *testing.T) {
	g := setupSubstanceGraph(t)

	props, err := Build(g, []string{"categories", "scores", "effect"}, []string{"weight"})
	require.NoError(t, err)

	categories := props.Nodes["categories"]
	assert.Equal(t, Discrete, categories.Kind)
	// the empty list on caffeine shows up as None
	assert.Equal(t, []string{"Amino_acids", NoneLabel, "Stimulants"}, categories.Labels)

	scores := props.Nodes["scores"]
	assert.Equal(t, Continuous, scores.Kind)
	assert.Equal(t, -4.0, scores.Min)
	assert.Equal(t, 10.0, scores.Max)

	weight := props.Edges["weight"]
	assert.Equal(t, Continuous, weight.Kind)
	assert.Equal(t, 1.0, weight.Min)
	assert.Equal(t, 3.0, weight.Max)

	assert.Equal(t, []string{"categories", "scores", "effect"}, props.NodeOrder)
}

func TestBuild_EmptyAttribute(t *testing.T) {
	b := graph.NewBuilder("empty", false)
	b.AddNode("a", graph.Attributes{"ids": graph.Empty()})
	b.AddNode("b", graph.Attributes{"ids": graph.Empty()})

	_, err := Build(b.Build(), []string{"ids"}, nil)

	var emptyErr *EmptyAttributeError
	require.True(t, errors.As(err, &emptyErr), "expected EmptyAttributeError, got %v", err)
	assert.Equal(t, "ids", emptyErr.Attribute)
	assert.Equal(t, ScopeNodes, emptyErr.Scope)
}

func TestBuild_MixedAttribute(t *testing.T) {
	b := graph.NewBuilder("mixed", false)
	b.AddNode("a", graph.Attributes{"score": graph.Scalar(1)})
	b.AddNode("b", graph.Attributes{"score": graph.Label("high")})

	_, err := Build(b.Build(), []string{"score"}, nil)

	var mixed *MixedAttributeError
	require.True(t, errors.As(err, &mixed), "expected MixedAttributeError, got %v", err)
	assert.Equal(t, "b", mixed.Entity)
	assert.Equal(t, Continuous, mixed.Kind)
}

func TestProfile_Representative(t *testing.T) {
	g := setupSubstanceGraph(t)
	props, err := Build(g, []string{"categories", "scores", "effect"}, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		attr string
		node string
		want graph.Value
	}{
		{"empty discrete list", "categories", "caffeine", graph.Label(NoneLabel)},
		{"first label of list", "categories", "nicotine", graph.Label("Stimulants")},
		{"spaces replaced", "effect", "caffeine", graph.Label("mild_stimulant")},
		{"mean of list", "scores", "caffeine", graph.Scalar(2)},
		{"scalar pass-through", "scores", "theanine", graph.Scalar(-4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := props.NodeValues(g, tt.attr)
			require.NoError(t, err)
			assert.True(t, values[tt.node].Equal(tt.want), "got %v, want %v", values[tt.node], tt.want)
		})
	}
}

func TestProfile_EmptyContinuousMapsToMin(t *testing.T) {
	p := &Profile{Name: "scores", Scope: ScopeNodes, Kind: Continuous, Min: 2, Max: 5}

	v, err := p.Representative("x", graph.Empty())
	require.NoError(t, err)
	assert.True(t, v.Equal(graph.Scalar(2)))

	v, err = p.Representative("y", graph.Scalar(9))
	require.NoError(t, err)
	assert.True(t, v.Equal(graph.Scalar(5)), "expected clipping to max, got %v", v)
}

func TestProfile_Normalize(t *testing.T) {
	p := &Profile{Kind: Continuous, Min: 0, Max: 10}
	assert.Equal(t, 0.5, p.Normalize(5))
	assert.Equal(t, 1.0, p.Normalize(50))
	assert.Equal(t, 0.0, p.Normalize(-3))

	flat := &Profile{Kind: Continuous, Min: 4, Max: 4}
	assert.Equal(t, 0.0, flat.Normalize(4))
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "Amino_acids", ClassName("Amino acids"))
	assert.Equal(t, "a_b_c", ClassName("a\tb c"))
	assert.Equal(t, "plain", ClassName("plain"))
}

func TestAggregateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("continuous representatives stay within range", prop.ForAll(
		func(seqs [][]float64) bool {
			b := graph.NewBuilder("continuous", false)
			for i, seq := range seqs {
				b.AddNode(nodeName(i), graph.Attributes{"x": graph.Scalars(seq...)})
			}
			g := b.Build()

			props, err := Build(g, []string{"x"}, nil)
			if err != nil {
				// all sequences empty
				var emptyErr *EmptyAttributeError
				return errors.As(err, &emptyErr)
			}
			p := props.Nodes["x"]
			values, err := props.NodeValues(g, "x")
			if err != nil {
				return false
			}
			for _, v := range values {
				x, ok := v.Scalar()
				if !ok || x < p.Min || x > p.Max {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.SliceOf(gen.Float64Range(-1e6, 1e6))),
	))

	properties.Property("discrete representatives are class-safe members of the label set", prop.ForAll(
		func(labels [][]string) bool {
			b := graph.NewBuilder("discrete", false)
			for i, ls := range labels {
				words := make([]string, len(ls))
				for j, l := range ls {
					// force at least one multi-word label
					words[j] = "class " + l
				}
				b.AddNode(nodeName(i), graph.Attributes{"c": graph.Labels(words...)})
			}
			g := b.Build()

			props, err := Build(g, []string{"c"}, nil)
			if err != nil {
				var emptyErr *EmptyAttributeError
				return errors.As(err, &emptyErr)
			}
			p := props.Nodes["c"]
			values, err := props.NodeValues(g, "c")
			if err != nil {
				return false
			}
			for _, v := range values {
				label, ok := v.Label()
				if !ok || !p.HasLabel(label) || strings.Contains(label, " ") {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(6, gen.SliceOf(gen.AlphaString())),
	))

	properties.TestingRun(t)
}

func nodeName(i int) string {
	return "n" + string(rune('a'+i))
}
