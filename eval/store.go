package eval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/Gimmyalex/logicrl/core"
)

// Store persists evaluation artifacts (hold-out corpus, score history,
// pass summaries) as JSON under a run directory. Writes go through a
// temp-file rename so a crashed write never leaves a torn artifact.
type Store struct {
	dir    string
	ensure singleflight.Group
}

func NewStore(dir string) *Store { return &Store{dir: dir} }

const (
	holdoutFile = "holdout.json"
	historyFile = "score_history.json"
)

// SaveHoldout writes the hold-out corpus.
func (s *Store) SaveHoldout(h *Holdout) error {
	return s.writeJSON(holdoutFile, h)
}

// LoadHoldout reads a previously persisted hold-out corpus.
func (s *Store) LoadHoldout() (*Holdout, error) {
	var h Holdout
	if err := s.readJSON(holdoutFile, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// EnsureHoldout loads the persisted corpus when one exists and matches the
// requested configuration, or builds and persists a fresh one. A persisted
// corpus with a different run seed, cell size or domain list is an error,
// not something to silently regenerate: mixing scores across corpora would
// corrupt the plateau signal. Concurrent callers share one build.
func (s *Store) EnsureHoldout(gen core.Generator, domains []core.Domain, sizePerCell int, runSeed int64) (*Holdout, error) {
	v, err, _ := s.ensure.Do(holdoutFile, func() (interface{}, error) {
		existing, err := s.LoadHoldout()
		switch {
		case err == nil:
			if existing.RunSeed != runSeed || existing.SizePerCell != sizePerCell {
				return nil, fmt.Errorf("persisted hold-out has seed=%d size=%d, want seed=%d size=%d: %w",
					existing.RunSeed, existing.SizePerCell, runSeed, sizePerCell, core.ErrEvaluationSetMismatch)
			}
			if have := existing.domainList(); !equalDomains(have, domains) {
				return nil, fmt.Errorf("persisted hold-out covers domains %v, want %v: %w",
					have, domains, core.ErrEvaluationSetMismatch)
			}
			return existing, nil
		case os.IsNotExist(err):
			// fall through to build
		default:
			return nil, err
		}
		built, err := BuildHoldout(gen, domains, sizePerCell, runSeed)
		if err != nil {
			return nil, err
		}
		if err := s.SaveHoldout(built); err != nil {
			return nil, err
		}
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Holdout), nil
}

// SaveHistory writes the score history entries.
func (s *Store) SaveHistory(h *core.ScoreHistory) error {
	return s.writeJSON(historyFile, h.Entries())
}

// LoadHistory reads persisted score entries into a fresh history.
func (s *Store) LoadHistory() (*core.ScoreHistory, error) {
	var entries []core.ScoreEntry
	if err := s.readJSON(historyFile, &entries); err != nil {
		return nil, err
	}
	h := core.NewScoreHistory()
	h.Restore(entries)
	return h, nil
}

// SaveSummary writes one evaluation pass summary to its own file, plus the
// rendered report next to it for reading without tooling.
func (s *Store) SaveSummary(summary Summary) error {
	if err := s.writeJSON(fmt.Sprintf("eval_pass_%04d.json", summary.Pass), summary); err != nil {
		return err
	}
	return s.writeFile(fmt.Sprintf("eval_pass_%04d.txt", summary.Pass), []byte(summary.Report()))
}

func (s *Store) writeJSON(name string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return s.writeFile(name, raw)
}

func (s *Store) writeFile(name string, raw []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) readJSON(name string, v interface{}) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
