// Package eval measures policy quality on frozen hold-out sets and watches
// the resulting score curve for plateaus.
package eval

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Gimmyalex/logicrl/core"
)

// Holdout is the frozen evaluation corpus for one run: one EvaluationSet
// per (domain, difficulty) cell, generated from the hold-out seed stream
// and never regenerated mid-run.
type Holdout struct {
	RunSeed     int64                `json:"run_seed"`
	SizePerCell int                  `json:"size_per_cell"`
	Domains     []core.Domain        `json:"domains"`
	Sets        []core.EvaluationSet `json:"sets"`
}

// BuildHoldout generates the hold-out sets for the given domains. Cells are
// filled in canonical order (domain, then difficulty ascending) so the same
// run seed always produces byte-identical sets.
func BuildHoldout(gen core.Generator, domains []core.Domain, sizePerCell int, runSeed int64) (*Holdout, error) {
	if sizePerCell < 1 {
		return nil, fmt.Errorf("hold-out size per cell must be positive, got %d", sizePerCell)
	}
	h := &Holdout{RunSeed: runSeed, SizePerCell: sizePerCell, Domains: append([]core.Domain(nil), domains...)}
	var cursor uint64
	for _, domain := range domains {
		for diff := core.MinDifficulty; diff <= core.MaxDifficulty; diff++ {
			set := core.EvaluationSet{Domain: domain, Difficulty: diff, Tasks: make([]core.Task, 0, sizePerCell)}
			for k := 0; k < sizePerCell; k++ {
				task, err := gen.Generate(domain, diff, core.HoldoutSeed(runSeed, cursor))
				cursor++
				if err != nil {
					return nil, fmt.Errorf("hold-out cell %s/%d: %w", domain, diff, err)
				}
				set.Tasks = append(set.Tasks, task)
			}
			h.Sets = append(h.Sets, set)
		}
	}
	return h, nil
}

// domainList returns the domains the corpus was built over, in build order.
// Corpora persisted before the domain list was recorded derive it from the
// canonical cell ordering instead.
func (h *Holdout) domainList() []core.Domain {
	if len(h.Domains) > 0 {
		return h.Domains
	}
	var out []core.Domain
	for _, set := range h.Sets {
		if len(out) == 0 || out[len(out)-1] != set.Domain {
			out = append(out, set.Domain)
		}
	}
	return out
}

func equalDomains(a, b []core.Domain) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TaskCount returns the total number of hold-out tasks across all cells.
func (h *Holdout) TaskCount() int {
	n := 0
	for _, set := range h.Sets {
		n += len(set.Tasks)
	}
	return n
}

// Fingerprint returns a stable hash of the whole corpus, useful for
// asserting that a resumed run evaluates against the exact same tasks.
func (h *Holdout) Fingerprint() string {
	raw, err := json.Marshal(h)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
