package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomain_Valid(t *testing.T) {
	for _, d := range Domains {
		assert.True(t, d.Valid(), "domain %s", d)
	}
	assert.False(t, Domain("arithmetic").Valid())
	assert.False(t, Domain("").Valid())
}

func TestVerificationResult_Correct(t *testing.T) {
	assert.True(t, VerificationResult{Reward: 1}.Correct())
	assert.False(t, VerificationResult{Reward: 0.5}.Correct())
	assert.False(t, VerificationResult{Reward: -1}.Correct())
}

func TestGroup_Rewards(t *testing.T) {
	g := Group{Episodes: []Episode{
		{Result: VerificationResult{Reward: 1}},
		{Result: VerificationResult{Reward: -1}},
		{Result: VerificationResult{Reward: 0.25}},
	}}
	assert.Equal(t, 3, g.Size())
	assert.Equal(t, []float64{1, -1, 0.25}, g.Rewards())
}

func TestScoreHistory_AppendAndEntries(t *testing.T) {
	h := NewScoreHistory()
	assert.Equal(t, 0, h.Len())
	_, ok := h.Last()
	assert.False(t, ok)

	now := time.Now()
	h.Append(0.1, now)
	h.Append(0.2, now.Add(time.Minute))

	assert.Equal(t, 2, h.Len())
	entries := h.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 0.1, entries[0].Score)
	assert.Equal(t, 0.2, entries[1].Score)

	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, 0.2, last.Score)

	// Entries hands out a copy; mutating it must not touch the log.
	entries[0].Score = 99
	assert.Equal(t, 0.1, h.Entries()[0].Score)
}

func TestScoreHistory_Restore(t *testing.T) {
	h := NewScoreHistory()
	h.Append(0.9, time.Now())

	restored := []ScoreEntry{{Score: 0.1}, {Score: 0.2}}
	h.Restore(restored)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 0.1, h.Entries()[0].Score)
}

func TestTask_JSONRoundTrip(t *testing.T) {
	task := Task{
		Domain:      DomainSyllogism,
		Difficulty:  3,
		Question:    "All students are people. What follows?",
		GroundTruth: "all students are people.",
		Seed:        42,
	}
	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var back Task
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, task, back)
}

func TestIncompleteGroupError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &IncompleteGroupError{Task: Task{Domain: DomainMovement, Seed: 7}, Want: 8, Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "movement")
}
