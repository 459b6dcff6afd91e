package verify

import (
	"regexp"
	"strings"

	"github.com/Gimmyalex/logicrl/core"
	"github.com/Gimmyalex/logicrl/taskgen"
)

// PropositionalSteps scores propositional reasoning against the evaluation
// trace regenerated from the task seed. A reasoning line counts as one
// claimed step when it has the shape
//
//	[step N:] <sub-formula> = true|false
//
// and it is correct when the sub-formula appears in the trace with that
// value. The final answer counts as the last step, so with a wrong answer
// the fraction is always strictly below 1 and the reward stays inside (0,1).
type PropositionalSteps struct{}

var stepLine = regexp.MustCompile(`(?i)^(?:step\s*\d+\s*:\s*)?(.+?)\s*=\s*(true|false)\s*$`)

func (PropositionalSteps) Score(task core.Task, action core.Action) (float64, bool) {
	steps, err := taskgen.Steps(task)
	if err != nil {
		return 0, false
	}

	trace := make(map[string]bool, len(steps))
	for _, st := range steps {
		trace[Normalize(st.Formula)] = st.Value
	}

	claimed := 0
	matched := make(map[string]bool)
	for _, line := range strings.Split(action.Reasoning, "\n") {
		m := stepLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		claimed++
		formula := Normalize(m[1])
		want, known := trace[formula]
		if known && want == strings.EqualFold(m[2], "true") {
			matched[formula] = true
		}
	}
	if claimed == 0 {
		return 0, false
	}

	// The whole-formula value is the final step; the answer being wrong is
	// what brought us here, so it contributes a guaranteed miss.
	total := len(steps) + 1
	correct := len(matched)
	if Normalize(action.Answer) == Normalize(task.GroundTruth) {
		correct++
	}
	return float64(correct) / float64(total), true
}
