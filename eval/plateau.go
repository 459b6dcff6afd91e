package eval

import "sync"

// PlateauDetector watches the evaluation score curve and reports when the
// last `patience` scores all sit inside a band of width `threshold`. The
// signal is sticky: once tripped it stays tripped, so a late noisy uptick
// cannot resurrect a stalled run.
type PlateauDetector struct {
	mu        sync.Mutex
	patience  int
	threshold float64
	recent    []float64
	stopped   bool
}

// NewPlateauDetector builds a detector. Patience is the window length in
// evaluation passes; threshold is the maximum score range still counted as
// flat.
func NewPlateauDetector(patience int, threshold float64) *PlateauDetector {
	if patience < 2 {
		patience = 2
	}
	return &PlateauDetector{patience: patience, threshold: threshold}
}

// Observe records one evaluation score and returns whether training should
// stop. The window must be full before a plateau can be declared.
func (p *PlateauDetector) Observe(score float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return true
	}
	p.recent = append(p.recent, score)
	if len(p.recent) > p.patience {
		p.recent = p.recent[len(p.recent)-p.patience:]
	}
	if len(p.recent) < p.patience {
		return false
	}
	lo, hi := p.recent[0], p.recent[0]
	for _, s := range p.recent[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	if hi-lo <= p.threshold {
		p.stopped = true
	}
	return p.stopped
}

// Stopped reports whether a plateau has been declared.
func (p *PlateauDetector) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// Seed preloads the window with previously persisted scores, for resuming
// a run without losing plateau context.
func (p *PlateauDetector) Seed(scores []float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.recent = append([]float64(nil), scores...)
	if len(p.recent) > p.patience {
		p.recent = p.recent[len(p.recent)-p.patience:]
	}
}
