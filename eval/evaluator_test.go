package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/policy/mock"
	"github.com/Gimmyalex/logicrl/taskgen"
	"github.com/Gimmyalex/logicrl/verify"
)

func newEvaluator(t *testing.T, accuracy float64) (*Evaluator, *core.ScoreHistory, *Holdout) {
	t.Helper()
	holdout, err := BuildHoldout(taskgen.New(), core.Domains, 4, 42)
	require.NoError(t, err)
	history := core.NewScoreHistory()
	e := NewEvaluator(holdout, mock.New(1, accuracy), verify.New(), history)
	return e, history, holdout
}

func TestEvaluator_PerfectPolicyScoresOne(t *testing.T) {
	e, history, holdout := newEvaluator(t, 1.0)

	summary, err := e.Evaluate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Pass)
	assert.Equal(t, 1.0, summary.Overall)
	assert.Len(t, summary.Cells, len(holdout.Sets))
	for _, cell := range summary.Cells {
		assert.Equal(t, cell.Total, cell.Correct)
		assert.Equal(t, 1.0, cell.Rate())
	}
	assert.Equal(t, 1, history.Len())
}

func TestEvaluator_HopelessPolicyScoresZero(t *testing.T) {
	e, _, _ := newEvaluator(t, 0)

	summary, err := e.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.Overall)
}

func TestEvaluator_GreedyPassIsReproducible(t *testing.T) {
	// A frozen policy evaluated twice on the same corpus must score
	// identically; that is the property plateau detection relies on.
	e, history, _ := newEvaluator(t, 0.6)

	a, err := e.Evaluate(context.Background())
	require.NoError(t, err)
	b, err := e.Evaluate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Overall, b.Overall)
	assert.Equal(t, a.Cells, b.Cells)
	assert.Equal(t, 2, b.Pass)
	assert.Equal(t, 2, history.Len())
}

func TestEvaluator_QuickEvaluateDoesNotTouchHistory(t *testing.T) {
	e, history, holdout := newEvaluator(t, 0.5)

	summary, err := e.QuickEvaluate(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, history.Len())

	total := 0
	for _, cell := range summary.Cells {
		assert.LessOrEqual(t, cell.Total, 2)
		total += cell.Total
	}
	assert.Equal(t, 2*len(holdout.Sets), total)
}

func TestSummary_SuccessByCell(t *testing.T) {
	s := Summary{Cells: []CellScore{
		{Domain: core.DomainSyllogism, Difficulty: 1, Correct: 3, Total: 4},
		{Domain: core.DomainSyllogism, Difficulty: 2, Correct: 1, Total: 4},
	}}
	rates := s.SuccessByCell()
	assert.Equal(t, 0.75, rates[core.DomainSyllogism][1])
	assert.Equal(t, 0.25, rates[core.DomainSyllogism][2])
}

func TestSummary_Report(t *testing.T) {
	s := Summary{
		Pass:    2,
		Overall: 0.5,
		Cells: []CellScore{
			{Domain: core.DomainMovement, Difficulty: 3, Correct: 2, Total: 4},
			{Domain: core.DomainAgreement, Difficulty: 1, Correct: 4, Total: 4},
		},
	}
	report := s.Report()
	assert.Contains(t, report, "evaluation pass 2")
	assert.Contains(t, report, "overall 0.5000")
	assert.Contains(t, report, "agreement")
	assert.Contains(t, report, "movement")
}
