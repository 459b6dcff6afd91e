// Package policy defines the external policy-model boundary: prompt
// rendering, response parsing, and client middleware. The core depends only
// on core.Policy; any implementation here (HTTP-served model or scripted
// stub) satisfies it.
package policy

import (
	"fmt"
	"strings"

	"github.com/Gimmyalex/logicrl/core"
)

// Prompt renders the instruction surface for a task. One fixed template per
// domain so training and evaluation prompts are identical.
func Prompt(task core.Task) string {
	switch task.Domain {
	case core.DomainSyllogism:
		return fmt.Sprintf("Solve this syllogism:\n%s\n\nAnswer:", task.Question)
	case core.DomainPropositional:
		return fmt.Sprintf("Evaluate this propositional formula:\n%s\n\nAnswer:", task.Question)
	case core.DomainAgreement:
		return fmt.Sprintf("Fix the agreement in this sentence:\n%s\n\nAnswer:", task.Question)
	case core.DomainMovement:
		return fmt.Sprintf("Transform this sentence:\n%s\n\nAnswer:", task.Question)
	}
	return fmt.Sprintf("Solve:\n%s\n\nAnswer:", task.Question)
}

// ParseAction turns raw model text into an Action: the first non-empty line
// is the answer, everything after it is the rationale. Rationale lines keep
// their line breaks so step-wise rubrics can parse them.
func ParseAction(response string) core.Action {
	var answer string
	var reasoning []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if answer == "" {
			answer = line
			continue
		}
		reasoning = append(reasoning, line)
	}
	if answer == "" {
		answer = strings.TrimSpace(response)
	}
	return core.Action{Answer: answer, Reasoning: strings.Join(reasoning, "\n")}
}
