package taskgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
)

func TestGenPropositional_AnswerIsBoolean(t *testing.T) {
	gen := New()
	for seed := int64(0); seed < 100; seed++ {
		for diff := core.MinDifficulty; diff <= core.MaxDifficulty; diff++ {
			task, err := gen.Generate(core.DomainPropositional, diff, seed)
			require.NoError(t, err)
			assert.Contains(t, []string{"true", "false"}, task.GroundTruth)
			assert.Contains(t, task.Question, "Suppose")
			assert.Contains(t, task.Question, "Answer true or false.")
		}
	}
}

// Steps must regenerate the exact evaluation trace of the task: the final
// step is the whole formula and its value matches the ground truth.
func TestSteps_TraceEndsAtGroundTruth(t *testing.T) {
	gen := New()
	for seed := int64(0); seed < 100; seed++ {
		for diff := 2; diff <= core.MaxDifficulty; diff++ {
			task, err := gen.Generate(core.DomainPropositional, diff, seed)
			require.NoError(t, err)

			steps, err := Steps(task)
			require.NoError(t, err)
			require.NotEmpty(t, steps)

			last := steps[len(steps)-1]
			assert.Contains(t, task.Question, last.Formula,
				"final step must be the formula asked about")
			want := task.GroundTruth == "true"
			assert.Equal(t, want, last.Value)
		}
	}
}

func TestSteps_Deterministic(t *testing.T) {
	gen := New()
	task, err := gen.Generate(core.DomainPropositional, 3, 77)
	require.NoError(t, err)

	a, err := Steps(task)
	require.NoError(t, err)
	b, err := Steps(task)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSteps_WrongDomain(t *testing.T) {
	gen := New()
	task, err := gen.Generate(core.DomainSyllogism, 2, 1)
	require.NoError(t, err)
	_, err = Steps(task)
	assert.Error(t, err)
}

func TestExpr_Semantics(t *testing.T) {
	env := map[string]bool{"P": true, "Q": false}
	p, q := atom{name: "P"}, atom{name: "Q"}

	assert.True(t, p.eval(env))
	assert.False(t, notExpr{e: p}.eval(env))
	assert.False(t, andExpr{l: p, r: q}.eval(env))
	assert.True(t, orExpr{l: p, r: q}.eval(env))
	assert.False(t, impliesExpr{l: p, r: q}.eval(env))
	assert.True(t, impliesExpr{l: q, r: p}.eval(env))

	assert.Equal(t, "(if P then Q)", impliesExpr{l: p, r: q}.String())
	assert.Equal(t, "(not (P and Q))", notExpr{e: andExpr{l: p, r: q}}.String())
}
