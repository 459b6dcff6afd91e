// Package grpo computes group-relative advantages and the clipped surrogate
// loss. Normalizing each reward against the other rollouts of the same task
// replaces a learned value baseline; the cost is that every group needs at
// least two episodes.
package grpo

import (
	"fmt"
	"math"

	"github.com/Gimmyalex/logicrl/core"
)

// Config holds the loss hyperparameters.
type Config struct {
	ClipFraction float64 // trust-region clip c, e.g. 0.2
	Epsilon      float64 // advantage denominator epsilon, e.g. 1e-8
}

// DefaultConfig mirrors the usual GRPO settings.
func DefaultConfig() Config {
	return Config{ClipFraction: 0.2, Epsilon: 1e-8}
}

// Diagnostics summarizes one loss computation.
type Diagnostics struct {
	Groups           int
	Episodes         int
	DegenerateGroups int     // groups where every reward was identical
	MeanReward       float64 // across all episodes in the batch
	ClippedFraction  float64 // episodes where the clipped branch was taken
}

// Advantages returns the group-relative advantages (r_i - mean) / (std +
// eps) using the population standard deviation. A group whose rewards are
// all identical is degenerate: every advantage is zero, which correctly
// signals that the group carries no learning gradient.
func Advantages(g core.Group, eps float64) (adv []float64, degenerate bool, err error) {
	if g.Size() < 2 {
		return nil, false, fmt.Errorf("group for %s seed %d: %w", g.Task.Domain, g.Task.Seed, core.ErrGroupTooSmall)
	}
	rewards := g.Rewards()

	mean := 0.0
	for _, r := range rewards {
		mean += r
	}
	mean /= float64(len(rewards))

	variance := 0.0
	for _, r := range rewards {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rewards))
	std := math.Sqrt(variance)

	adv = make([]float64, len(rewards))
	for i, r := range rewards {
		adv[i] = (r - mean) / (std + eps)
	}
	return adv, std == 0, nil
}

// ComputeLoss evaluates the clipped surrogate objective over a batch of
// groups: per episode min(rho*A, clip(rho, 1-c, 1+c)*A), loss = negative
// mean across all episodes. Importance ratios come from each episode;
// a zero ratio is treated as on-policy (1.0).
func ComputeLoss(groups []core.Group, cfg Config) (loss float64, advantages [][]float64, diag Diagnostics, err error) {
	if len(groups) == 0 {
		return 0, nil, diag, fmt.Errorf("empty batch")
	}

	advantages = make([][]float64, len(groups))
	surrogateSum := 0.0
	rewardSum := 0.0
	clipped := 0

	for gi, g := range groups {
		adv, degenerate, aerr := Advantages(g, cfg.Epsilon)
		if aerr != nil {
			return 0, nil, diag, aerr
		}
		if degenerate {
			diag.DegenerateGroups++
		}
		advantages[gi] = adv

		for ei, ep := range g.Episodes {
			rho := ep.Ratio
			if rho == 0 {
				rho = 1.0
			}
			clippedRho := clamp(rho, 1-cfg.ClipFraction, 1+cfg.ClipFraction)
			surr := math.Min(rho*adv[ei], clippedRho*adv[ei])
			if clippedRho != rho && clippedRho*adv[ei] < rho*adv[ei] {
				clipped++
			}
			surrogateSum += surr
			rewardSum += ep.Result.Reward
			diag.Episodes++
		}
		diag.Groups++
	}

	loss = -surrogateSum / float64(diag.Episodes)
	diag.MeanReward = rewardSum / float64(diag.Episodes)
	diag.ClippedFraction = float64(clipped) / float64(diag.Episodes)
	return loss, advantages, diag, nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
