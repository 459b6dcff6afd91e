package core

import (
	"errors"
	"fmt"
)

// ErrGroupTooSmall rejects groups that cannot form a within-group baseline.
var ErrGroupTooSmall = errors.New("group needs at least two episodes")

// ErrEvaluationSetMismatch is fatal: resuming a run against a hold-out
// definition different from the persisted one silently invalidates score
// comparability.
var ErrEvaluationSetMismatch = errors.New("evaluation set mismatch")

// GenerationError reports an invalid (domain, difficulty) request. Fatal to
// that request only.
type GenerationError struct {
	Domain     Domain
	Difficulty int
	Reason     string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("cannot generate %s task at difficulty %d: %s", e.Domain, e.Difficulty, e.Reason)
}

// IncompleteGroupError marks a group where fewer than G policy calls
// succeeded. The group is discarded and the training loop continues.
type IncompleteGroupError struct {
	Task Task
	Want int
	Err  error
}

func (e *IncompleteGroupError) Error() string {
	return fmt.Sprintf("incomplete group for %s seed %d (wanted %d episodes): %v", e.Task.Domain, e.Task.Seed, e.Want, e.Err)
}

func (e *IncompleteGroupError) Unwrap() error { return e.Err }
