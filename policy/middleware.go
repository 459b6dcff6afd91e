package policy

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/Gimmyalex/logicrl/core"
)

// RateLimited bounds the sampling rate against the policy endpoint, the one
// long-latency external call in the pipeline.
type RateLimited struct {
	next    core.Policy
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter of samplesPerSec and the given
// burst.
func NewRateLimited(next core.Policy, samplesPerSec float64, burst int) *RateLimited {
	return &RateLimited{next: next, limiter: rate.NewLimiter(rate.Limit(samplesPerSec), burst)}
}

func (p *RateLimited) Sample(ctx context.Context, task core.Task, stochastic bool) (core.Action, float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return core.Action{}, 0, err
	}
	return p.next.Sample(ctx, task, stochastic)
}

// Breaker opens after sustained sampling failures so a dead inference
// endpoint fails fast instead of stalling every group.
type Breaker struct {
	next    core.Policy
	breaker *gobreaker.CircuitBreaker
}

type sampleOut struct {
	action core.Action
	ratio  float64
}

// NewBreaker wraps next with a circuit breaker. The breaker opens when at
// least five calls were made in the interval and half of them failed.
func NewBreaker(next core.Policy, name string) *Breaker {
	return &Breaker{
		next: next,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
			},
		}),
	}
}

func (p *Breaker) Sample(ctx context.Context, task core.Task, stochastic bool) (core.Action, float64, error) {
	out, err := p.breaker.Execute(func() (interface{}, error) {
		action, ratio, err := p.next.Sample(ctx, task, stochastic)
		if err != nil {
			return nil, err
		}
		return sampleOut{action: action, ratio: ratio}, nil
	})
	if err != nil {
		return core.Action{}, 0, err
	}
	res := out.(sampleOut)
	return res.action, res.ratio, nil
}
