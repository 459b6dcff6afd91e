// Package mock provides a scripted policy and optimizer for offline runs
// and tests. The policy knows the ground truth and answers correctly with a
// configurable (optionally improving) accuracy.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"

	"github.com/Gimmyalex/logicrl/core"
)

// Policy implements core.Policy.
type Policy struct {
	mu       sync.Mutex
	rng      *rand.Rand
	accuracy float64
	improve  float64 // accuracy gained per stochastic sample, capped at 1
	failEach int     // every failEach-th stochastic call errors; 0 disables
	calls    int
}

// Option configures the mock policy.
type Option func(*Policy)

// WithImprovement makes accuracy grow by delta per training sample,
// simulating learning.
func WithImprovement(delta float64) Option {
	return func(p *Policy) { p.improve = delta }
}

// WithFailures makes every n-th training sample return an error, for
// exercising incomplete-group handling.
func WithFailures(n int) Option {
	return func(p *Policy) { p.failEach = n }
}

// New creates a mock policy with the given base accuracy.
func New(seed int64, accuracy float64, opts ...Option) *Policy {
	p := &Policy{rng: rand.New(rand.NewSource(seed)), accuracy: accuracy}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sample answers with the ground truth at the current accuracy. Stochastic
// samples draw from the policy's own rng and count toward improvement;
// greedy samples are a deterministic function of the task, as a frozen
// model's argmax would be.
func (p *Policy) Sample(_ context.Context, task core.Task, stochastic bool) (core.Action, float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !stochastic {
		correct := taskFraction(task) < p.accuracy
		return p.answer(task, correct), 0, nil
	}

	p.calls++
	if p.failEach > 0 && p.calls%p.failEach == 0 {
		return core.Action{}, 0, fmt.Errorf("mock policy: injected failure on call %d", p.calls)
	}
	correct := p.rng.Float64() < p.accuracy
	if p.improve > 0 {
		p.accuracy += p.improve
		if p.accuracy > 1 {
			p.accuracy = 1
		}
	}
	return p.answer(task, correct), 1.0, nil
}

func (p *Policy) answer(task core.Task, correct bool) core.Action {
	if correct {
		return core.Action{Answer: task.GroundTruth}
	}
	return core.Action{Answer: wrongAnswer(task)}
}

// wrongAnswer produces a plausible but semantically wrong answer per domain.
func wrongAnswer(task core.Task) string {
	gt := task.GroundTruth
	switch task.Domain {
	case core.DomainSyllogism:
		if strings.HasPrefix(gt, "no ") {
			return "some " + strings.TrimPrefix(gt, "no ")
		}
		return "no " + strings.TrimPrefix(gt, "all ")
	case core.DomainPropositional:
		if gt == "true" {
			return "false"
		}
		return "true"
	case core.DomainAgreement:
		if strings.HasSuffix(gt, "s") {
			return strings.TrimSuffix(gt, "s")
		}
		return gt + "s"
	case core.DomainMovement:
		// A classic movement error: dropping do-support.
		return strings.Replace(gt, "who did the", "who the", 1)
	}
	return "unknown"
}

// taskFraction maps a task to a stable value in [0,1).
func taskFraction(task core.Task) float64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d", task.Domain, task.Difficulty, task.Seed)
	return float64(h.Sum64()%10000) / 10000
}

// Optimizer records updates; parameter steps happen outside this system.
type Optimizer struct {
	mu      sync.Mutex
	updates []core.Update
}

func NewOptimizer() *Optimizer { return &Optimizer{} }

func (o *Optimizer) Apply(_ context.Context, u core.Update) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.updates = append(o.updates, u)
	return nil
}

// Updates returns a copy of the recorded updates.
func (o *Optimizer) Updates() []core.Update {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]core.Update, len(o.updates))
	copy(out, o.updates)
	return out
}
