package results

import (
	"pacer/internal/bench"
	"pacer/internal/stats"
)

// Stats is one spec's derived statistics for one round. It is recomputed
// from the full sample history every time, never mutated incrementally.
type Stats struct {
	Spec    bench.Spec               `json:"spec"`
	Samples []float64                `json:"samples"`
	Mean    float64                  `json:"mean"`
	MeanCI  stats.ConfidenceInterval `json:"mean_ci"`
}

// Cell is one pairwise comparison: row spec vs column spec.
type Cell struct {
	Difference stats.Difference `json:"difference"`
	Resolution stats.Resolution `json:"resolution"`
}

// Row is one spec's stats plus its comparison against every other spec by
// matrix index. The diagonal cell is nil.
type Row struct {
	Stats Stats   `json:"stats"`
	Cells []*Cell `json:"cells"`
}

// Outcome is the terminal state of the sampling run that produced a matrix.
type Outcome string

const (
	// OutcomeResolved means every pairwise comparison cleared its horizons.
	OutcomeResolved Outcome = "resolved"
	// OutcomeTimedOut means the sampling budget ran out with comparisons
	// still open; their cells carry Resolved=false so reporting can mark
	// them unsure. It is a valid completion, not a failure.
	OutcomeTimedOut Outcome = "timed-out"
)

// Matrix is the final N×N comparison table.
type Matrix struct {
	Outcome Outcome `json:"outcome"`
	Rows    []Row   `json:"rows"`
}

// PairKey addresses one ordered comparison by matrix indices.
type PairKey struct {
	A, B int
}

// Build assembles the matrix from per-spec stats and the ordered pairwise
// cells. Pure assembly: no recomputation, no retained references, so calling
// it twice on the same input yields structurally identical output.
func Build(outcome Outcome, rs []Stats, cells map[PairKey]Cell) Matrix {
	rows := make([]Row, len(rs))
	for i, s := range rs {
		row := Row{Stats: s, Cells: make([]*Cell, len(rs))}
		for j := range rs {
			if i == j {
				continue
			}
			if c, ok := cells[PairKey{A: i, B: j}]; ok {
				cc := c
				row.Cells[j] = &cc
			}
		}
		rows[i] = row
	}
	return Matrix{Outcome: outcome, Rows: rows}
}

// Unresolved reports the matrix indices of specs still involved in at least
// one unresolved comparison.
func (m Matrix) Unresolved() []int {
	open := make(map[int]bool)
	for i, row := range m.Rows {
		for j, cell := range row.Cells {
			if cell != nil && !cell.Resolution.Resolved {
				open[i] = true
				open[j] = true
			}
		}
	}
	var idx []int
	for i := range m.Rows {
		if open[i] {
			idx = append(idx, i)
		}
	}
	return idx
}
