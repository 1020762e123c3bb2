package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-atlas/pkg/algorithms"
	"github.com/dd0wney/cluso-atlas/pkg/pipeline"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(14)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

func field(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

// renderGraph summarises one graph report as a bordered box
func renderGraph(g *pipeline.GraphReport) string {
	lines := []string{
		headerStyle.Render(g.Name),
		field("nodes", fmt.Sprintf("%d (built %d)", g.Nodes, g.BuiltNodes)),
		field("edges", fmt.Sprintf("%d (built %d)", g.Edges, g.BuiltEdges)),
		field("directed", g.Directed),
	}
	if g.Build != nil {
		lines = append(lines,
			field("accepted", g.Build.Accepted),
			field("rejected", g.Build.TotalRejected()),
			field("alias misses", g.Build.AliasMisses))
	}
	for _, c := range g.Communities {
		kind := "communities"
		if c.Joint {
			kind = "joint"
		}
		lines = append(lines, field(kind, fmt.Sprintf("%s: %d buckets, Q=%.3f, level %d/%d, seed %d",
			c.Attribute, c.Buckets, c.Modularity, c.Level, c.Levels, c.Seed)))
	}
	if g.Degree != nil {
		d := g.Degree.Degree
		lines = append(lines, field("degree", fmt.Sprintf("mean %.2f, median %.1f, max %d (%s)", d.Mean, d.Median, d.Max, d.MaxNode)),
			field("clustering", fmt.Sprintf("%.3f", g.Degree.Clustering)))
	}
	for _, metric := range sortedKeys(g.Central) {
		lines = append(lines, field(metric, rankedList(g.Central[metric], 5)))
	}
	if g.ViewPath != "" {
		lines = append(lines, field("view", g.ViewPath))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func rankedList(nodes []algorithms.RankedNode, n int) string {
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	parts := make([]string, len(nodes))
	for i, r := range nodes {
		parts[i] = fmt.Sprintf("%s (%.3g)", r.Node, r.Score)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
