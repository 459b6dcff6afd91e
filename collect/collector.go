// Package collect assembles rollout groups: one task fanned out to G
// independent policy samples, each verified, joined into an immutable
// Group. Episodes and groups are embarrassingly parallel; the batch append
// point is the only shared mutable state.
package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/pkg/metrics"
	"github.com/Gimmyalex/logicrl/pkg/tokens"
	"github.com/Gimmyalex/logicrl/pkg/tracing"
)

// Collector draws tasks, samples the policy and verifies the results.
type Collector struct {
	gen       core.Generator
	verifier  core.Verifier
	policy    core.Policy
	groupSize int
	runSeed   int64

	encoder tokens.Encoder
	tracer  *tracing.Tracer
	metrics *metrics.Training
	log     *slog.Logger
	workers int

	seedCursor atomic.Uint64

	pickMu sync.Mutex
	pickRN *rand.Rand
}

// Option configures a Collector.
type Option func(*Collector)

func WithEncoder(e tokens.Encoder) Option    { return func(c *Collector) { c.encoder = e } }
func WithTracer(t *tracing.Tracer) Option    { return func(c *Collector) { c.tracer = t } }
func WithMetrics(m *metrics.Training) Option { return func(c *Collector) { c.metrics = m } }
func WithLogger(l *slog.Logger) Option       { return func(c *Collector) { c.log = l } }
func WithWorkers(n int) Option               { return func(c *Collector) { c.workers = n } }

// New builds a collector. Group size below two is rejected: a single
// rollout cannot form a within-group baseline.
func New(gen core.Generator, verifier core.Verifier, policy core.Policy, groupSize int, runSeed int64, opts ...Option) (*Collector, error) {
	if groupSize < 2 {
		return nil, core.ErrGroupTooSmall
	}
	c := &Collector{
		gen:       gen,
		verifier:  verifier,
		policy:    policy,
		groupSize: groupSize,
		runSeed:   runSeed,
		encoder:   tokens.NewHeuristicEncoder(),
		tracer:    tracing.NewNoop(),
		log:       slog.Default(),
		workers:   4,
		pickRN:    rand.New(rand.NewSource(runSeed)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CollectGroup draws one task and gathers G verified episodes for it. The
// policy calls run concurrently and may complete in any order; the group is
// complete only after all G calls return. Any failed call discards the
// whole group via IncompleteGroupError.
func (c *Collector) CollectGroup(ctx context.Context, domain core.Domain, difficulty int, seed int64) (core.Group, error) {
	task, err := c.gen.Generate(domain, difficulty, seed)
	if err != nil {
		return core.Group{}, err
	}

	ctx, span := c.tracer.StartGroupSpan(ctx, string(domain), difficulty, c.groupSize)
	defer span.End()

	episodes := make([]core.Episode, c.groupSize)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < c.groupSize; i++ {
		i := i
		eg.Go(func() error {
			action, ratio, err := c.policy.Sample(egCtx, task, true)
			if err != nil {
				return err
			}
			episodes[i] = core.Episode{
				Task:   task,
				Action: action,
				Result: c.verifier.Verify(task, action),
				Ratio:  ratio,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return core.Group{}, &core.IncompleteGroupError{Task: task, Want: c.groupSize, Err: err}
	}

	if c.metrics != nil {
		c.metrics.GroupsCollected.WithLabelValues(string(domain), strconv.Itoa(difficulty)).Inc()
		for _, ep := range episodes {
			c.metrics.EpisodeReward.WithLabelValues(string(domain)).Observe(ep.Result.Reward)
		}
	}
	return core.Group{Task: task, Episodes: episodes}, nil
}

// BatchSpec describes one training batch.
type BatchSpec struct {
	Groups      int     // target number of groups
	TokenBudget int     // stop early once the batch holds this many tokens; 0 disables
	Weights     Weights // curriculum cell weights
}

// BatchStats reports what collection actually did.
type BatchStats struct {
	Dropped int
	Tokens  int
}

// CollectBatch assembles an ordered batch of groups across the weighted
// (domain, difficulty) cells. Incomplete groups are dropped and logged as
// recoverable skips; generation errors abort the batch.
func (c *Collector) CollectBatch(ctx context.Context, spec BatchSpec) ([]core.Group, BatchStats, error) {
	if len(spec.Weights) == 0 {
		return nil, BatchStats{}, fmt.Errorf("batch needs curriculum weights")
	}

	var (
		mu     sync.Mutex
		groups []core.Group
		stats  BatchStats
		fatal  error
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)

	for i := 0; i < spec.Groups; i++ {
		mu.Lock()
		budgetHit := spec.TokenBudget > 0 && stats.Tokens >= spec.TokenBudget
		mu.Unlock()
		if budgetHit || egCtx.Err() != nil {
			break
		}

		cell := c.pickCell(spec.Weights)
		seed := core.TrainSeed(c.runSeed, c.seedCursor.Add(1))

		eg.Go(func() error {
			group, err := c.CollectGroup(egCtx, cell.Domain, cell.Difficulty, seed)
			if err != nil {
				var incomplete *core.IncompleteGroupError
				if errors.As(err, &incomplete) {
					c.log.Warn("group dropped", "domain", cell.Domain, "difficulty", cell.Difficulty, "error", err)
					if c.metrics != nil {
						c.metrics.GroupsDropped.WithLabelValues(string(cell.Domain), strconv.Itoa(cell.Difficulty)).Inc()
					}
					mu.Lock()
					stats.Dropped++
					mu.Unlock()
					return nil
				}
				return err
			}

			nTokens := c.groupTokens(group)
			mu.Lock()
			groups = append(groups, group)
			stats.Tokens += nTokens
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		fatal = err
	}
	if fatal != nil {
		return nil, stats, fatal
	}
	if c.metrics != nil {
		c.metrics.BatchTokens.Observe(float64(stats.Tokens))
	}
	return groups, stats, nil
}

func (c *Collector) pickCell(w Weights) Cell {
	c.pickMu.Lock()
	defer c.pickMu.Unlock()
	return w.Pick(c.pickRN)
}

func (c *Collector) groupTokens(g core.Group) int {
	n, _ := c.encoder.Count(g.Task.Question)
	for _, ep := range g.Episodes {
		a, _ := c.encoder.Count(ep.Action.Answer)
		r, _ := c.encoder.Count(ep.Action.Reasoning)
		n += a + r
	}
	return n
}
