package core

import "context"

// Generator produces task instances on demand. Total over every valid
// (domain, difficulty) pair and deterministic given the seed.
type Generator interface {
	Generate(domain Domain, difficulty int, seed int64) (Task, error)
}

// Verifier scores a candidate action against a task's ground truth.
// Verify must be a pure function of its inputs: no randomness, no mutable
// external state, reentrant from any number of workers.
type Verifier interface {
	Verify(task Task, action Action) VerificationResult
}

// Policy is the external policy model boundary. Sample draws one action for
// the task; stochastic=true during training rollouts, false (greedy) during
// evaluation. The returned importance ratio is meaningful only when
// stochastic=true and is 1.0 for an on-policy sample.
type Policy interface {
	Sample(ctx context.Context, task Task, stochastic bool) (Action, float64, error)
}

// Optimizer consumes batch updates. Parameter storage and the actual
// gradient step live outside this system.
type Optimizer interface {
	Apply(ctx context.Context, u Update) error
}
