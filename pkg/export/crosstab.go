package export

import (
	"fmt"

	"github.com/dd0wney/cluso-atlas/pkg/aggregate"
	"github.com/dd0wney/cluso-atlas/pkg/graph"
)

// Table counts nodes by the pair of labels they carry for two discrete
// attributes, e.g. community against root category
type Table struct {
	RowAttr string   `json:"row_attribute"`
	ColAttr string   `json:"column_attribute"`
	Rows    []string `json:"rows"`
	Cols    []string `json:"columns"`
	Counts  [][]int  `json:"counts"`
}

// CrossTab builds the overlap table between two discrete node attributes.
// Both attributes are reduced to their representative labels first.
func CrossTab(g *graph.Graph, rowAttr, colAttr string) (*Table, error) {
	props, err := aggregate.Build(g, []string{rowAttr, colAttr}, nil)
	if err != nil {
		return nil, err
	}
	rowProfile, colProfile := props.Nodes[rowAttr], props.Nodes[colAttr]
	for _, p := range []*aggregate.Profile{rowProfile, colProfile} {
		if p.Kind != aggregate.Discrete {
			return nil, fmt.Errorf("attribute %s is %s, cross tabulation needs discrete attributes", p.Name, p.Kind)
		}
	}

	rows, err := props.NodeValues(g, rowAttr)
	if err != nil {
		return nil, err
	}
	cols, err := props.NodeValues(g, colAttr)
	if err != nil {
		return nil, err
	}

	t := &Table{
		RowAttr: rowAttr,
		ColAttr: colAttr,
		Rows:    rowProfile.Labels,
		Cols:    colProfile.Labels,
		Counts:  make([][]int, len(rowProfile.Labels)),
	}
	rowIdx := indexOf(t.Rows)
	colIdx := indexOf(t.Cols)
	for i := range t.Counts {
		t.Counts[i] = make([]int, len(t.Cols))
	}
	for _, name := range g.NodeNames() {
		r, _ := rows[name].Label()
		c, _ := cols[name].Label()
		t.Counts[rowIdx[r]][colIdx[c]]++
	}
	return t, nil
}

// Count returns the number of nodes labelled row and col
func (t *Table) Count(row, col string) int {
	for i, r := range t.Rows {
		if r != row {
			continue
		}
		for j, c := range t.Cols {
			if c == col {
				return t.Counts[i][j]
			}
		}
	}
	return 0
}

// RowShares returns each row's counts as fractions of the row total
func (t *Table) RowShares() [][]float64 {
	shares := make([][]float64, len(t.Counts))
	for i, row := range t.Counts {
		total := 0
		for _, c := range row {
			total += c
		}
		shares[i] = make([]float64, len(row))
		if total == 0 {
			continue
		}
		for j, c := range row {
			shares[i][j] = float64(c) / float64(total)
		}
	}
	return shares
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
