package core

import (
	"sync"
	"time"
)

// Domain identifies one of the four task grammars.
type Domain string

const (
	DomainSyllogism     Domain = "syllogism"
	DomainPropositional Domain = "propositional"
	DomainAgreement     Domain = "agreement"
	DomainMovement      Domain = "movement"
)

// Domains lists every supported domain in canonical order.
var Domains = []Domain{DomainSyllogism, DomainPropositional, DomainAgreement, DomainMovement}

// Valid reports whether d is one of the supported domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainSyllogism, DomainPropositional, DomainAgreement, DomainMovement:
		return true
	}
	return false
}

// Difficulty bounds. The difficulty knob scales a generator-specific
// complexity measure (premise count, nesting depth, attractor count,
// embedding depth) monotonically.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Task is one procedurally generated logic problem. Immutable once created:
// the same (domain, difficulty, seed) triple always regenerates the same task.
type Task struct {
	Domain      Domain `json:"domain"`
	Difficulty  int    `json:"difficulty"`
	Question    string `json:"question"`
	GroundTruth string `json:"ground_truth"`
	Seed        int64  `json:"seed"`
}

// Action is one candidate answer produced by the policy model.
// Reasoning is an optional rationale; it is never scored directly but the
// verifier may mine it for partial credit.
type Action struct {
	Reasoning string `json:"reasoning,omitempty"`
	Answer    string `json:"answer"`
}

// VerificationResult is the verifier's judgement of one (task, action) pair.
// Reward is +1 for a correct answer, -1 for an incorrect or malformed one,
// or a value in (0,1) when a step-wise rubric granted partial credit.
type VerificationResult struct {
	Reward      float64 `json:"reward"`
	Explanation string  `json:"explanation"`
}

// Correct reports whether the action fully matched the ground truth.
func (r VerificationResult) Correct() bool { return r.Reward > 0.999 }

// Episode is one rollout: a task, a sampled action, and its verification.
// Ratio is the importance ratio (new-policy / old-policy likelihood of the
// action) supplied by the policy model; exactly 1.0 when on-policy.
type Episode struct {
	Task   Task               `json:"task"`
	Action Action             `json:"action"`
	Result VerificationResult `json:"result"`
	Ratio  float64            `json:"ratio"`
}

// Group holds G rollouts of the same task. All episodes share the task
// (same question, same ground truth); only the actions differ. Groups are
// immutable once assembled.
type Group struct {
	Task     Task      `json:"task"`
	Episodes []Episode `json:"episodes"`
}

// Size returns the number of episodes in the group.
func (g Group) Size() int { return len(g.Episodes) }

// Rewards returns the episode rewards in collection order.
func (g Group) Rewards() []float64 {
	out := make([]float64, len(g.Episodes))
	for i, ep := range g.Episodes {
		out[i] = ep.Result.Reward
	}
	return out
}

// EvaluationSet is a frozen slice of hold-out tasks for one
// (domain, difficulty) cell, built once per run from seeds disjoint from
// any training seed and reused across evaluation passes.
type EvaluationSet struct {
	Domain     Domain `json:"domain"`
	Difficulty int    `json:"difficulty"`
	Tasks      []Task `json:"tasks"`
}

// ScoreEntry is one aggregate evaluation score with its wall-clock stamp.
type ScoreEntry struct {
	Score float64   `json:"score"`
	At    time.Time `json:"at"`
}

// ScoreHistory is an append-only log of per-pass evaluation scores. It is
// owned by one training run and passed explicitly; entries are never
// rewritten or removed. Safe for concurrent use.
type ScoreHistory struct {
	mu      sync.RWMutex
	entries []ScoreEntry
}

func NewScoreHistory() *ScoreHistory { return &ScoreHistory{} }

// Append records one evaluation score.
func (h *ScoreHistory) Append(score float64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, ScoreEntry{Score: score, At: at})
}

// Entries returns a copy of the recorded scores in append order.
func (h *ScoreHistory) Entries() []ScoreEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]ScoreEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded scores.
func (h *ScoreHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Last returns the most recent entry, if any.
func (h *ScoreHistory) Last() (ScoreEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.entries) == 0 {
		return ScoreEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Restore replaces the log contents with previously persisted entries.
// Used only when resuming a stalled run.
func (h *ScoreHistory) Restore(entries []ScoreEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]ScoreEntry(nil), entries...)
}

// Update is the per-batch artifact handed to the external optimizer: the
// scalar surrogate loss plus the per-episode advantage weights it needs to
// scale token gradients.
type Update struct {
	Loss       float64     `json:"loss"`
	Advantages [][]float64 `json:"advantages"` // indexed [group][episode]
	Groups     []Group     `json:"-"`
}
