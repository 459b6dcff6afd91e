package eval

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/taskgen"
)

func TestStore_HoldoutRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	built, err := BuildHoldout(taskgen.New(), core.Domains, 4, 42)
	require.NoError(t, err)
	require.NoError(t, store.SaveHoldout(built))

	loaded, err := store.LoadHoldout()
	require.NoError(t, err)
	assert.Equal(t, built, loaded)
	assert.Equal(t, built.Fingerprint(), loaded.Fingerprint())
}

func TestStore_EnsureHoldoutBuildsOnce(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.EnsureHoldout(taskgen.New(), core.Domains, 3, 7)
	require.NoError(t, err)

	second, err := store.EnsureHoldout(taskgen.New(), core.Domains, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestStore_EnsureHoldoutRejectsMismatch(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.EnsureHoldout(taskgen.New(), core.Domains, 3, 7)
	require.NoError(t, err)

	_, err = store.EnsureHoldout(taskgen.New(), core.Domains, 3, 8)
	assert.ErrorIs(t, err, core.ErrEvaluationSetMismatch, "different run seed")

	_, err = store.EnsureHoldout(taskgen.New(), core.Domains, 5, 7)
	assert.ErrorIs(t, err, core.ErrEvaluationSetMismatch, "different cell size")

	_, err = store.EnsureHoldout(taskgen.New(), []core.Domain{core.DomainSyllogism}, 3, 7)
	assert.ErrorIs(t, err, core.ErrEvaluationSetMismatch, "different domain set")
}

func TestStore_HistoryRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	h := core.NewScoreHistory()
	h.Append(0.25, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	h.Append(0.5, time.Date(2026, 1, 2, 4, 4, 5, 0, time.UTC))
	require.NoError(t, store.SaveHistory(h))

	loaded, err := store.LoadHistory()
	require.NoError(t, err)
	assert.Equal(t, h.Entries(), loaded.Entries())
}

func TestStore_SaveSummary(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	summary := Summary{
		Pass:    3,
		Overall: 0.75,
		Cells:   []CellScore{{Domain: core.DomainSyllogism, Difficulty: 1, Correct: 3, Total: 4}},
	}
	require.NoError(t, store.SaveSummary(summary))

	raw, err := os.ReadFile(filepath.Join(dir, "eval_pass_0003.json"))
	require.NoError(t, err)
	var loaded Summary
	require.NoError(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, summary.Pass, loaded.Pass)
	assert.Equal(t, summary.Overall, loaded.Overall)

	report, err := os.ReadFile(filepath.Join(dir, "eval_pass_0003.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "evaluation pass 3")
	assert.Contains(t, string(report), string(core.DomainSyllogism))
}

func TestStore_LoadMissingFileFails(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.LoadHoldout()
	assert.Error(t, err)
	_, err = store.LoadHistory()
	assert.Error(t, err)
}
