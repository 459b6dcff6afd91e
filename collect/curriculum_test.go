package collect

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
)

func TestStaticWeights_UniformOverCells(t *testing.T) {
	w := StaticWeights(core.Domains)
	assert.Len(t, w, len(core.Domains)*(core.MaxDifficulty-core.MinDifficulty+1))
	for cell, weight := range w {
		assert.Equal(t, 1.0, weight, "cell %v", cell)
	}
}

func TestAdaptiveWeights_SkewsTowardFailures(t *testing.T) {
	hard := Cell{Domain: core.DomainMovement, Difficulty: 5}
	easy := Cell{Domain: core.DomainSyllogism, Difficulty: 1}
	success := map[Cell]float64{hard: 0.1, easy: 1.0}

	w := AdaptiveWeights(core.Domains, success)
	assert.InDelta(t, 0.9+adaptiveFloor, w[hard], 1e-12)
	assert.InDelta(t, adaptiveFloor, w[easy], 1e-12)
	// Cells without a measured rate keep full weight.
	assert.Equal(t, 1.0, w[Cell{Domain: core.DomainAgreement, Difficulty: 3}])
	assert.Greater(t, w[hard], w[easy])
}

func TestWeights_PickDeterministicPerStream(t *testing.T) {
	w := StaticWeights(core.Domains)

	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.Equal(t, w.Pick(a), w.Pick(b))
	}
}

func TestWeights_PickRespectsMass(t *testing.T) {
	only := Cell{Domain: core.DomainPropositional, Difficulty: 2}
	w := Weights{
		only: 1,
		{Domain: core.DomainSyllogism, Difficulty: 1}: 0,
	}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Equal(t, only, w.Pick(rng))
	}
}

func TestWeights_PickCoversAllCells(t *testing.T) {
	w := StaticWeights([]core.Domain{core.DomainSyllogism})
	rng := rand.New(rand.NewSource(3))
	seen := make(map[Cell]int)
	for i := 0; i < 2000; i++ {
		seen[w.Pick(rng)]++
	}
	require.Len(t, seen, core.MaxDifficulty)
	for cell, n := range seen {
		assert.Greater(t, n, 200, "cell %v drawn too rarely", cell)
	}
}

func TestWeights_PickZeroMassFallsBackToUniform(t *testing.T) {
	w := Weights{
		{Domain: core.DomainSyllogism, Difficulty: 1}: 0,
		{Domain: core.DomainMovement, Difficulty: 2}:  0,
	}
	rng := rand.New(rand.NewSource(5))
	seen := make(map[Cell]bool)
	for i := 0; i < 100; i++ {
		seen[w.Pick(rng)] = true
	}
	assert.Len(t, seen, 2)
}
