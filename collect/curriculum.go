package collect

import (
	"math/rand"
	"sort"

	"github.com/Gimmyalex/logicrl/core"
)

// Cell is one (domain, difficulty) slot of the curriculum.
type Cell struct {
	Domain     core.Domain
	Difficulty int
}

// Weights maps curriculum cells to sampling weight. Weights need not be
// normalized; Pick works with relative mass.
type Weights map[Cell]float64

// adaptiveFloor keeps mastered cells in rotation so the policy cannot
// forget them entirely.
const adaptiveFloor = 0.05

// StaticWeights spreads mass uniformly over every difficulty of the given
// domains.
func StaticWeights(domains []core.Domain) Weights {
	w := make(Weights)
	for _, d := range domains {
		for diff := core.MinDifficulty; diff <= core.MaxDifficulty; diff++ {
			w[Cell{Domain: d, Difficulty: diff}] = 1
		}
	}
	return w
}

// AdaptiveWeights skews sampling toward cells the policy still gets wrong.
// A cell's weight is its failure rate plus a small floor; cells without a
// measured success rate keep full weight.
func AdaptiveWeights(domains []core.Domain, success map[Cell]float64) Weights {
	w := make(Weights)
	for _, d := range domains {
		for diff := core.MinDifficulty; diff <= core.MaxDifficulty; diff++ {
			cell := Cell{Domain: d, Difficulty: diff}
			rate, ok := success[cell]
			if !ok {
				w[cell] = 1
				continue
			}
			w[cell] = (1 - rate) + adaptiveFloor
		}
	}
	return w
}

// Pick draws one cell proportionally to weight. Cells are visited in a
// stable sorted order so the same rng stream always yields the same pick.
func (w Weights) Pick(rng *rand.Rand) Cell {
	cells := make([]Cell, 0, len(w))
	mass := func(c Cell) float64 { return w[c] }
	total := 0.0
	for cell, weight := range w {
		if weight <= 0 {
			continue
		}
		cells = append(cells, cell)
		total += weight
	}
	if len(cells) == 0 {
		// All mass zero: degrade to uniform over every cell.
		for cell := range w {
			cells = append(cells, cell)
			total++
		}
		mass = func(Cell) float64 { return 1 }
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Domain != cells[j].Domain {
			return cells[i].Domain < cells[j].Domain
		}
		return cells[i].Difficulty < cells[j].Difficulty
	})

	target := rng.Float64() * total
	acc := 0.0
	for _, cell := range cells {
		acc += mass(cell)
		if target < acc {
			return cell
		}
	}
	// Float roundoff can leave target at the very top of the range.
	return cells[len(cells)-1]
}
