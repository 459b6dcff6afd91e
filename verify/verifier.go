// Package verify scores candidate actions against a task's known ground
// truth. Verification is deterministic and total: identical inputs always
// yield identical results, malformed actions score -1, and nothing here
// consults mutable external state.
package verify

import (
	"fmt"
	"hash/fnv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Gimmyalex/logicrl/core"
)

// Oracle is an optional external syntax-validity checker. Its verdict is
// appended to the explanation as an annotation and never feeds the reward,
// so the determinism of scoring survives a non-deterministic oracle.
type Oracle interface {
	Validate(sentence string) (bool, error)
}

// StepScorer is a pluggable rubric that mines an action's reasoning for
// partial credit. It returns the fraction of correct intermediate steps and
// whether the reasoning was parseable at all.
type StepScorer interface {
	Score(task core.Task, action core.Action) (fraction float64, parseable bool)
}

// Verifier implements core.Verifier. Zero-value-free: use New.
type Verifier struct {
	oracle Oracle
	steps  StepScorer
	cache  *lru.Cache[uint64, core.VerificationResult]
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithOracle attaches a syntax oracle for explanation annotations.
func WithOracle(o Oracle) Option { return func(v *Verifier) { v.oracle = o } }

// WithStepScorer attaches a partial-credit rubric.
func WithStepScorer(s StepScorer) Option { return func(v *Verifier) { v.steps = s } }

// WithCache memoizes results in an LRU of the given size. Safe because
// Verify is a pure function of its inputs.
func WithCache(size int) Option {
	return func(v *Verifier) {
		cache, err := lru.New[uint64, core.VerificationResult](size)
		if err != nil {
			panic(fmt.Sprintf("verify: bad cache size %d: %v", size, err))
		}
		v.cache = cache
	}
}

func New(opts ...Option) *Verifier {
	v := &Verifier{}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify scores one (task, action) pair. It never fails: every input maps
// to a result.
func (v *Verifier) Verify(task core.Task, action core.Action) core.VerificationResult {
	var key uint64
	if v.cache != nil {
		key = cacheKey(task, action)
		if res, ok := v.cache.Get(key); ok {
			return res
		}
	}

	res := v.score(task, action)

	if v.oracle != nil && strings.TrimSpace(action.Answer) != "" {
		if ok, err := v.oracle.Validate(action.Answer); err == nil {
			res.Explanation += "; syntax: " + syntaxWord(ok)
		}
	}

	if v.cache != nil {
		v.cache.Add(key, res)
	}
	return res
}

func (v *Verifier) score(task core.Task, action core.Action) core.VerificationResult {
	if strings.TrimSpace(action.Answer) == "" {
		return core.VerificationResult{Reward: -1, Explanation: "malformed action"}
	}

	if Normalize(action.Answer) == Normalize(task.GroundTruth) {
		return core.VerificationResult{Reward: 1, Explanation: correctExplanation(task.Domain)}
	}

	if v.steps != nil && task.Domain == core.DomainPropositional {
		if fraction, ok := v.steps.Score(task, action); ok {
			if fraction <= 0 {
				return core.VerificationResult{Reward: -1, Explanation: "incorrect answer; no intermediate step correct"}
			}
			return core.VerificationResult{
				Reward:      fraction,
				Explanation: fmt.Sprintf("incorrect answer; partial credit %.4f for intermediate steps", fraction),
			}
		}
	}

	return core.VerificationResult{Reward: -1, Explanation: wrongExplanation(task.Domain)}
}

func correctExplanation(d core.Domain) string {
	switch d {
	case core.DomainSyllogism:
		return "correct conclusion; valid syllogistic form"
	case core.DomainPropositional:
		return "correct truth-value evaluation"
	case core.DomainAgreement:
		return "correct agreement: licensed verb form"
	case core.DomainMovement:
		return "correct movement: question form matches the grammar"
	}
	return "correct answer"
}

func wrongExplanation(d core.Domain) string {
	switch d {
	case core.DomainSyllogism:
		return "conclusion not entailed by the premises"
	case core.DomainPropositional:
		return "incorrect truth-value evaluation"
	case core.DomainAgreement:
		return "verb form not licensed by the subject"
	case core.DomainMovement:
		return "question form violates the movement grammar"
	}
	return "incorrect answer"
}

func syntaxWord(ok bool) string {
	if ok {
		return "well-formed"
	}
	return "ill-formed"
}

// Normalize folds case and collapses whitespace so scoring ignores surface
// formatting.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func cacheKey(task core.Task, action core.Action) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%s|%s", task.Domain, task.Difficulty, task.Seed,
		Normalize(action.Answer), action.Reasoning)
	return h.Sum64()
}
