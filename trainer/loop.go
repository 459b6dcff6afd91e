package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gimmyalex/logicrl/collect"
	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/eval"
	"github.com/Gimmyalex/logicrl/grpo"
	"github.com/Gimmyalex/logicrl/pkg/metrics"
)

// Trainer runs the batch loop: collect groups, compute the surrogate loss,
// hand the update to the optimizer, and periodically evaluate. Stop
// decisions happen only at batch boundaries.
type Trainer struct {
	cfg       Config
	collector *collect.Collector
	optimizer core.Optimizer
	evaluator *eval.Evaluator
	plateau   *eval.PlateauDetector
	store     *eval.Store
	history   *core.ScoreHistory
	metrics   *metrics.Training
	log       *slog.Logger

	lastSummary *eval.Summary
}

// Deps carries the trainer's collaborators, built by the caller so tests
// can substitute any of them.
type Deps struct {
	Collector *collect.Collector
	Optimizer core.Optimizer
	Evaluator *eval.Evaluator
	Plateau   *eval.PlateauDetector
	Store     *eval.Store
	History   *core.ScoreHistory
	Metrics   *metrics.Training
	Logger    *slog.Logger
}

func New(cfg Config, deps Deps) (*Trainer, error) {
	if deps.Collector == nil || deps.Optimizer == nil || deps.Evaluator == nil || deps.Plateau == nil {
		return nil, fmt.Errorf("trainer requires collector, optimizer, evaluator and plateau detector")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Trainer{
		cfg:       cfg,
		collector: deps.Collector,
		optimizer: deps.Optimizer,
		evaluator: deps.Evaluator,
		plateau:   deps.Plateau,
		store:     deps.Store,
		history:   deps.History,
		metrics:   deps.Metrics,
		log:       log,
	}, nil
}

// Result summarizes a finished run.
type Result struct {
	Batches    int
	Plateaued  bool
	FinalScore float64
	EvalPasses int
}

// Run executes batches until the plateau detector trips, MaxBatches is
// reached, or the context is cancelled. An evaluation pass runs before the
// first batch to anchor the score curve, then every EvalInterval batches.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	var res Result

	if err := t.evaluatePass(ctx, &res); err != nil {
		return res, err
	}
	if res.Plateaued {
		// A resumed run can arrive already plateaued through the seeded
		// score history; training more batches would not move the curve.
		t.log.Info("plateau detected at anchor evaluation, stopping", "score", res.FinalScore)
		t.saveHistory()
		return res, nil
	}

	lossCfg := grpo.Config{ClipFraction: t.cfg.ClipFraction, Epsilon: t.cfg.AdvantageEpsilon}

	for batch := 1; t.cfg.MaxBatches == 0 || batch <= t.cfg.MaxBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		groups, stats, err := t.collector.CollectBatch(ctx, collect.BatchSpec{
			Groups:      t.cfg.BatchGroups,
			TokenBudget: t.cfg.TargetBatchTokens,
			Weights:     t.weights(),
		})
		if err != nil {
			return res, fmt.Errorf("batch %d collection: %w", batch, err)
		}
		if len(groups) == 0 {
			t.log.Warn("batch produced no complete groups", "batch", batch, "dropped", stats.Dropped)
			continue
		}

		loss, advantages, diag, err := grpo.ComputeLoss(groups, lossCfg)
		if err != nil {
			return res, fmt.Errorf("batch %d loss: %w", batch, err)
		}

		if err := t.optimizer.Apply(ctx, core.Update{Loss: loss, Advantages: advantages, Groups: groups}); err != nil {
			return res, fmt.Errorf("batch %d optimizer: %w", batch, err)
		}
		res.Batches = batch

		t.log.Info("batch complete",
			"batch", batch,
			"groups", diag.Groups,
			"episodes", diag.Episodes,
			"dropped", stats.Dropped,
			"tokens", stats.Tokens,
			"loss", loss,
			"mean_reward", diag.MeanReward,
			"clipped_fraction", diag.ClippedFraction,
			"degenerate_groups", diag.DegenerateGroups,
		)
		if t.metrics != nil {
			t.metrics.Loss.Set(loss)
			t.metrics.ClippedFraction.Set(diag.ClippedFraction)
			t.metrics.DegenerateGroups.Add(float64(diag.DegenerateGroups))
		}

		if batch%t.cfg.EvalInterval != 0 {
			continue
		}
		if err := t.evaluatePass(ctx, &res); err != nil {
			return res, err
		}
		if res.Plateaued {
			t.log.Info("plateau detected, stopping", "batch", batch, "score", res.FinalScore)
			break
		}
	}

	t.saveHistory()
	return res, nil
}

func (t *Trainer) saveHistory() {
	if t.store == nil || t.history == nil {
		return
	}
	if err := t.store.SaveHistory(t.history); err != nil {
		t.log.Warn("score history not persisted", "error", err)
	}
}

func (t *Trainer) evaluatePass(ctx context.Context, res *Result) error {
	summary, err := t.evaluator.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	t.lastSummary = &summary
	res.EvalPasses++
	res.FinalScore = summary.Overall
	res.Plateaued = t.plateau.Observe(summary.Overall)

	t.log.Info("evaluation pass", "pass", summary.Pass, "overall", summary.Overall)
	if t.store != nil {
		if err := t.store.SaveSummary(summary); err != nil {
			t.log.Warn("summary not persisted", "pass", summary.Pass, "error", err)
		}
	}
	return nil
}

// weights returns the curriculum weights for the next batch. Adaptive mode
// reuses the latest evaluation pass; before the first pass (or in static
// mode) every cell has equal mass.
func (t *Trainer) weights() collect.Weights {
	domains := t.cfg.DomainList()
	if t.cfg.Curriculum != "adaptive" || t.lastSummary == nil {
		return collect.StaticWeights(domains)
	}
	success := make(map[collect.Cell]float64)
	for _, cell := range t.lastSummary.Cells {
		success[collect.Cell{Domain: cell.Domain, Difficulty: cell.Difficulty}] = cell.Rate()
	}
	return collect.AdaptiveWeights(domains, success)
}
