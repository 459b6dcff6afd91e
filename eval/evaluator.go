package eval

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/pkg/metrics"
	"github.com/Gimmyalex/logicrl/pkg/tracing"
)

// CellScore is the success rate of one (domain, difficulty) cell in a
// single evaluation pass.
type CellScore struct {
	Domain     core.Domain `json:"domain"`
	Difficulty int         `json:"difficulty"`
	Correct    int         `json:"correct"`
	Total      int         `json:"total"`
}

// Rate returns the cell success rate in [0,1].
func (c CellScore) Rate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Total)
}

// Summary aggregates one evaluation pass.
type Summary struct {
	Pass    int         `json:"pass"`
	Overall float64     `json:"overall"`
	Cells   []CellScore `json:"cells"`
	At      time.Time   `json:"at"`
}

// Evaluator runs the policy greedily over the hold-out corpus. Evaluation
// never mutates the policy and never contributes training signal.
type Evaluator struct {
	holdout  *Holdout
	policy   core.Policy
	verifier core.Verifier
	history  *core.ScoreHistory
	tracer   *tracing.Tracer
	metrics  *metrics.Training
	passes   int
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

func WithTracer(t *tracing.Tracer) EvaluatorOption    { return func(e *Evaluator) { e.tracer = t } }
func WithMetrics(m *metrics.Training) EvaluatorOption { return func(e *Evaluator) { e.metrics = m } }

func NewEvaluator(holdout *Holdout, policy core.Policy, verifier core.Verifier, history *core.ScoreHistory, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		holdout:  holdout,
		policy:   policy,
		verifier: verifier,
		history:  history,
		tracer:   tracing.NewNoop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs one full pass over every hold-out cell, appends the overall
// success rate to the score history, and returns the per-cell breakdown.
// The policy samples greedily so a pass is reproducible.
func (e *Evaluator) Evaluate(ctx context.Context) (Summary, error) {
	e.passes++
	ctx, span := e.tracer.StartEvalSpan(ctx, e.passes)
	defer span.End()

	summary := Summary{Pass: e.passes, At: time.Now()}
	totalCorrect, total := 0, 0
	for _, set := range e.holdout.Sets {
		cell := CellScore{Domain: set.Domain, Difficulty: set.Difficulty}
		for _, task := range set.Tasks {
			action, _, err := e.policy.Sample(ctx, task, false)
			if err != nil {
				return Summary{}, fmt.Errorf("evaluation pass %d: %w", e.passes, err)
			}
			cell.Total++
			if e.verifier.Verify(task, action).Correct() {
				cell.Correct++
			}
		}
		totalCorrect += cell.Correct
		total += cell.Total
		summary.Cells = append(summary.Cells, cell)
		if e.metrics != nil {
			e.metrics.EvalCell.WithLabelValues(string(cell.Domain), strconv.Itoa(cell.Difficulty)).Set(cell.Rate())
		}
	}
	if total > 0 {
		summary.Overall = float64(totalCorrect) / float64(total)
	}

	e.history.Append(summary.Overall, summary.At)
	if e.metrics != nil {
		e.metrics.EvalSuccess.Set(summary.Overall)
		e.metrics.EvalPasses.Inc()
	}
	return summary, nil
}

// QuickEvaluate samples only the first perCell tasks of every cell. The
// subset is a fixed prefix, so repeated quick passes stay comparable with
// each other; the score is not appended to the history.
func (e *Evaluator) QuickEvaluate(ctx context.Context, perCell int) (Summary, error) {
	summary := Summary{At: time.Now()}
	totalCorrect, total := 0, 0
	for _, set := range e.holdout.Sets {
		n := perCell
		if n > len(set.Tasks) {
			n = len(set.Tasks)
		}
		cell := CellScore{Domain: set.Domain, Difficulty: set.Difficulty}
		for _, task := range set.Tasks[:n] {
			action, _, err := e.policy.Sample(ctx, task, false)
			if err != nil {
				return Summary{}, err
			}
			cell.Total++
			if e.verifier.Verify(task, action).Correct() {
				cell.Correct++
			}
		}
		totalCorrect += cell.Correct
		total += cell.Total
		summary.Cells = append(summary.Cells, cell)
	}
	if total > 0 {
		summary.Overall = float64(totalCorrect) / float64(total)
	}
	return summary, nil
}

// SuccessByCell returns the summary's per-cell rates keyed for curriculum
// reweighting.
func (s Summary) SuccessByCell() map[core.Domain]map[int]float64 {
	out := make(map[core.Domain]map[int]float64)
	for _, cell := range s.Cells {
		if out[cell.Domain] == nil {
			out[cell.Domain] = make(map[int]float64)
		}
		out[cell.Domain][cell.Difficulty] = cell.Rate()
	}
	return out
}

// Report renders a plain-text evaluation table, one row per cell plus the
// overall rate.
func (s Summary) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "evaluation pass %d  overall %.4f\n", s.Pass, s.Overall)
	cells := append([]CellScore(nil), s.Cells...)
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Domain != cells[j].Domain {
			return cells[i].Domain < cells[j].Domain
		}
		return cells[i].Difficulty < cells[j].Difficulty
	})
	for _, cell := range cells {
		fmt.Fprintf(&b, "  %-14s d%d  %3d/%-3d  %.4f\n", cell.Domain, cell.Difficulty, cell.Correct, cell.Total, cell.Rate())
	}
	return b.String()
}
