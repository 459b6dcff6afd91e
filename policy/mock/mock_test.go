package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/taskgen"
	"github.com/Gimmyalex/logicrl/verify"
)

func sampleTask(t *testing.T, domain core.Domain, seed int64) core.Task {
	t.Helper()
	task, err := taskgen.New().Generate(domain, 3, seed)
	require.NoError(t, err)
	return task
}

func TestPolicy_GreedyIsDeterministic(t *testing.T) {
	p := New(1, 0.5)
	task := sampleTask(t, core.DomainSyllogism, 42)

	a, ratio, err := p.Sample(context.Background(), task, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ratio)

	b, _, err := p.Sample(context.Background(), task, false)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPolicy_PerfectAccuracyAlwaysCorrect(t *testing.T) {
	p := New(1, 1.0)
	v := verify.New()
	for seed := int64(0); seed < 20; seed++ {
		for _, domain := range core.Domains {
			task := sampleTask(t, domain, seed)
			action, _, err := p.Sample(context.Background(), task, false)
			require.NoError(t, err)
			assert.True(t, v.Verify(task, action).Correct())
		}
	}
}

func TestPolicy_WrongAnswersActuallyWrong(t *testing.T) {
	p := New(1, 0)
	v := verify.New()
	for seed := int64(0); seed < 20; seed++ {
		for _, domain := range core.Domains {
			task := sampleTask(t, domain, seed)
			action, _, err := p.Sample(context.Background(), task, false)
			require.NoError(t, err)
			assert.Equal(t, -1.0, v.Verify(task, action).Reward,
				"%s: %q must not match %q", domain, action.Answer, task.GroundTruth)
		}
	}
}

func TestPolicy_StochasticRatioIsOnPolicy(t *testing.T) {
	p := New(1, 0.5)
	_, ratio, err := p.Sample(context.Background(), sampleTask(t, core.DomainAgreement, 1), true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, ratio)
}

func TestPolicy_ImprovementConverges(t *testing.T) {
	p := New(1, 0, WithImprovement(0.1))
	task := sampleTask(t, core.DomainPropositional, 5)

	for i := 0; i < 20; i++ {
		_, _, err := p.Sample(context.Background(), task, true)
		require.NoError(t, err)
	}
	// After 20 improving samples the accuracy is pinned at 1.
	action, _, err := p.Sample(context.Background(), task, false)
	require.NoError(t, err)
	assert.Equal(t, task.GroundTruth, action.Answer)
}

func TestPolicy_InjectedFailures(t *testing.T) {
	p := New(1, 0.5, WithFailures(3))
	task := sampleTask(t, core.DomainMovement, 9)

	var failures int
	for i := 0; i < 9; i++ {
		if _, _, err := p.Sample(context.Background(), task, true); err != nil {
			failures++
		}
	}
	assert.Equal(t, 3, failures)

	// Greedy sampling never fails.
	_, _, err := p.Sample(context.Background(), task, false)
	assert.NoError(t, err)
}

func TestOptimizer_RecordsUpdates(t *testing.T) {
	o := NewOptimizer()
	require.NoError(t, o.Apply(context.Background(), core.Update{Loss: -0.5}))
	require.NoError(t, o.Apply(context.Background(), core.Update{Loss: 0.25}))

	updates := o.Updates()
	require.Len(t, updates, 2)
	assert.Equal(t, -0.5, updates[0].Loss)
	assert.Equal(t, 0.25, updates[1].Loss)
}
