// Command trainer runs the full training loop: group collection against a
// policy endpoint (or the built-in mock), loss computation, optimizer
// updates, and periodic hold-out evaluation until the score plateaus.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gimmyalex/logicrl/collect"
	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/eval"
	"github.com/Gimmyalex/logicrl/oracle/wasm"
	"github.com/Gimmyalex/logicrl/pkg/logging"
	"github.com/Gimmyalex/logicrl/pkg/metrics"
	"github.com/Gimmyalex/logicrl/pkg/tokens"
	"github.com/Gimmyalex/logicrl/pkg/tracing"
	"github.com/Gimmyalex/logicrl/policy"
	"github.com/Gimmyalex/logicrl/policy/mock"
	"github.com/Gimmyalex/logicrl/policy/openaicompat"
	"github.com/Gimmyalex/logicrl/taskgen"
	"github.com/Gimmyalex/logicrl/trainer"
	"github.com/Gimmyalex/logicrl/verify"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "trainer: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := trainer.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.WithRun(fmt.Sprintf("seed-%d", cfg.RunSeed)).Slog()

	tracer := tracing.NewNoop()
	if cfg.TracingEndpoint != "" {
		tracer, err = tracing.NewTracer(tracing.Config{
			ServiceName:    "logicrl-trainer",
			ServiceVersion: "dev",
			JaegerEndpoint: cfg.TracingEndpoint,
			Environment:    "local",
		})
		if err != nil {
			return err
		}
	}

	training := metrics.NewTraining()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := taskgen.New()
	verifyOpts := []verify.Option{
		verify.WithStepScorer(verify.PropositionalSteps{}),
		verify.WithCache(4096),
	}
	if cfg.OracleWASMPath != "" {
		oracle, err := wasm.LoadFile(cfg.OracleWASMPath)
		if err != nil {
			return fmt.Errorf("load syntax oracle: %w", err)
		}
		defer oracle.Close(context.Background())
		verifyOpts = append(verifyOpts, verify.WithOracle(oracle))
		log.Info("syntax oracle loaded", "path", cfg.OracleWASMPath)
	}
	verifier := verify.New(verifyOpts...)

	pol, err := buildPolicy(cfg)
	if err != nil {
		return err
	}

	store := eval.NewStore(cfg.ArtifactsDir)
	holdout, err := store.EnsureHoldout(gen, cfg.DomainList(), cfg.HoldoutSizePerTask, cfg.RunSeed)
	if err != nil {
		return err
	}
	log.Info("hold-out ready", "tasks", holdout.TaskCount(), "fingerprint", holdout.Fingerprint())

	history := core.NewScoreHistory()
	if prev, err := store.LoadHistory(); err == nil {
		history = prev
		log.Info("score history restored", "entries", history.Len())
	}
	plateau := eval.NewPlateauDetector(cfg.PlateauPatience, cfg.PlateauThreshold)
	if entries := history.Entries(); len(entries) > 0 {
		scores := make([]float64, len(entries))
		for i, e := range entries {
			scores[i] = e.Score
		}
		plateau.Seed(scores)
	}

	evaluator := eval.NewEvaluator(holdout, pol, verifier, history,
		eval.WithTracer(tracer), eval.WithMetrics(training))

	collector, err := collect.New(gen, verifier, pol, cfg.GroupSize, cfg.RunSeed,
		collect.WithEncoder(tokens.NewEncoder(cfg.TokenEncoder)),
		collect.WithTracer(tracer),
		collect.WithMetrics(training),
		collect.WithLogger(log),
		collect.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return err
	}

	t, err := trainer.New(cfg, trainer.Deps{
		Collector: collector,
		Optimizer: mock.NewOptimizer(),
		Evaluator: evaluator,
		Plateau:   plateau,
		Store:     store,
		History:   history,
		Metrics:   training,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	res, err := t.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("run finished",
		"batches", res.Batches,
		"eval_passes", res.EvalPasses,
		"plateaued", res.Plateaued,
		"final_score", res.FinalScore,
	)
	return nil
}

// buildPolicy wires the configured policy behind rate limiting and a
// circuit breaker. The mock policy runs bare: it cannot fail the way a
// remote endpoint can.
func buildPolicy(cfg trainer.Config) (core.Policy, error) {
	switch cfg.PolicyMode {
	case "mock":
		return mock.New(cfg.RunSeed, 0.3, mock.WithImprovement(0.002)), nil
	case "openai":
		client := openaicompat.New(openaicompat.Config{
			BaseURL: cfg.PolicyBaseURL,
			APIKey:  os.Getenv("POLICY_API_KEY"),
			Model:   cfg.PolicyModel,
		})
		limited := policy.NewRateLimited(client, cfg.PolicyRPS, cfg.PolicyBurst)
		return policy.NewBreaker(limited, "policy-endpoint"), nil
	default:
		return nil, fmt.Errorf("unknown policy_mode %q", cfg.PolicyMode)
	}
}
