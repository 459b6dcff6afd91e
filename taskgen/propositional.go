package taskgen

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/Gimmyalex/logicrl/core"
)

// expr is a propositional formula node.
type expr interface {
	eval(env map[string]bool) bool
	String() string
}

type atom struct{ name string }

func (a atom) eval(env map[string]bool) bool { return env[a.name] }
func (a atom) String() string                { return a.name }

type notExpr struct{ e expr }

func (n notExpr) eval(env map[string]bool) bool { return !n.e.eval(env) }
func (n notExpr) String() string                { return fmt.Sprintf("(not %s)", n.e) }

type andExpr struct{ l, r expr }

func (a andExpr) eval(env map[string]bool) bool { return a.l.eval(env) && a.r.eval(env) }
func (a andExpr) String() string                { return fmt.Sprintf("(%s and %s)", a.l, a.r) }

type orExpr struct{ l, r expr }

func (o orExpr) eval(env map[string]bool) bool { return o.l.eval(env) || o.r.eval(env) }
func (o orExpr) String() string                { return fmt.Sprintf("(%s or %s)", o.l, o.r) }

type impliesExpr struct{ l, r expr }

func (im impliesExpr) eval(env map[string]bool) bool { return !im.l.eval(env) || im.r.eval(env) }
func (im impliesExpr) String() string                { return fmt.Sprintf("(if %s then %s)", im.l, im.r) }

// buildExpr grows a formula to the exact nesting depth.
func buildExpr(rng *rand.Rand, depth int, atoms []string) expr {
	if depth == 0 {
		return atom{name: atoms[rng.Intn(len(atoms))]}
	}
	switch rng.Intn(4) {
	case 0:
		return notExpr{e: buildExpr(rng, depth-1, atoms)}
	case 1:
		return andExpr{l: buildExpr(rng, depth-1, atoms), r: buildExpr(rng, depth-1, atoms)}
	case 2:
		return orExpr{l: buildExpr(rng, depth-1, atoms), r: buildExpr(rng, depth-1, atoms)}
	default:
		return impliesExpr{l: buildExpr(rng, depth-1, atoms), r: buildExpr(rng, depth-1, atoms)}
	}
}

// propositionalInstance is the single construction path shared by task
// generation and step regeneration; both must consume the rng identically.
func propositionalInstance(rng *rand.Rand, difficulty int) (expr, map[string]bool, []string) {
	atoms := atomPool(difficulty)
	root := buildExpr(rng, difficulty, atoms)
	env := make(map[string]bool, len(atoms))
	for _, name := range atoms {
		env[name] = rng.Intn(2) == 1
	}
	return root, env, atoms
}

func genPropositional(rng *rand.Rand, difficulty int) (question, groundTruth string) {
	root, env, atoms := propositionalInstance(rng, difficulty)

	parts := make([]string, len(atoms))
	for i, name := range atoms {
		parts[i] = fmt.Sprintf("%s is %s", name, boolWord(env[name]))
	}
	question = fmt.Sprintf("Suppose %s. What is the value of %s? Answer true or false.",
		strings.Join(parts, ", "), root)
	groundTruth = boolWord(root.eval(env))
	return question, groundTruth
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Step is one intermediate truth value in a propositional evaluation trace.
type Step struct {
	Formula string
	Value   bool
}

// Steps regenerates the evaluation trace for a propositional task: every
// compound sub-formula with its truth value, innermost first, ending with
// the whole formula. The verifier's partial-credit rubric checks candidate
// reasoning against this trace.
func Steps(task core.Task) ([]Step, error) {
	if task.Domain != core.DomainPropositional {
		return nil, fmt.Errorf("no evaluation trace for domain %s", task.Domain)
	}
	rng := rand.New(rand.NewSource(taskSeed(task.Domain, task.Difficulty, task.Seed)))
	root, env, _ := propositionalInstance(rng, task.Difficulty)

	var steps []Step
	var walk func(e expr)
	walk = func(e expr) {
		switch n := e.(type) {
		case atom:
			return
		case notExpr:
			walk(n.e)
		case andExpr:
			walk(n.l)
			walk(n.r)
		case orExpr:
			walk(n.l)
			walk(n.r)
		case impliesExpr:
			walk(n.l)
			walk(n.r)
		}
		steps = append(steps, Step{Formula: e.String(), Value: e.eval(env)})
	}
	walk(root)
	return steps, nil
}
