package taskgen

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Premise is one quantified statement over two category terms.
// Quantifier is "all" (universal affirmative) or "no" (universal negative).
type Premise struct {
	Quantifier string
	Subject    string
	Predicate  string
}

// Sentence renders the premise as its surface string.
func (p Premise) Sentence() string {
	return fmt.Sprintf("%s %s are %s.", capitalize(p.Quantifier), p.Subject, p.Predicate)
}

// genSyllogism builds a premise chain of length difficulty+1 and derives
// the entailed conclusion symbolically. Valid moods are the generalized
// Barbara (all premises universal affirmative) and Celarent (the chain ends
// in a universal negative).
func genSyllogism(rng *rand.Rand, difficulty int) (question, groundTruth string) {
	n := difficulty + 1 // premise count
	terms := pickDistinct(rng, termPool(difficulty), n+1)

	premises := make([]Premise, n)
	for i := 0; i < n; i++ {
		premises[i] = Premise{Quantifier: "all", Subject: terms[i], Predicate: terms[i+1]}
	}
	if rng.Intn(2) == 1 {
		premises[n-1].Quantifier = "no"
	}

	groundTruth, err := Conclude(premises)
	if err != nil {
		// Unreachable for chains built above; the derivation is total on them.
		panic(err)
	}

	sentences := make([]string, n)
	for i, j := range rng.Perm(n) {
		sentences[i] = premises[j].Sentence()
	}
	question = strings.Join(sentences, " ") + " What follows?"
	return question, groundTruth
}

// Conclude derives the logically entailed conclusion from a premise set by
// transitive composition, not from a lookup table. The premises must form a
// single chain: each subject links to exactly one premise, one term is never
// a predicate (the chain start), and a negative premise may appear only as
// the final link.
func Conclude(premises []Premise) (string, error) {
	if len(premises) == 0 {
		return "", errors.New("no premises")
	}
	bySubject := make(map[string]Premise, len(premises))
	predicates := make(map[string]bool, len(premises))
	for _, p := range premises {
		if p.Quantifier != "all" && p.Quantifier != "no" {
			return "", fmt.Errorf("unsupported quantifier %q", p.Quantifier)
		}
		if _, dup := bySubject[p.Subject]; dup {
			return "", fmt.Errorf("term %q is the subject of two premises", p.Subject)
		}
		bySubject[p.Subject] = p
		predicates[p.Predicate] = true
	}

	start := ""
	for subj := range bySubject {
		if !predicates[subj] {
			if start != "" {
				return "", errors.New("premises do not form a single chain")
			}
			start = subj
		}
	}
	if start == "" {
		return "", errors.New("premises form a cycle")
	}

	quantifier := "all"
	cur := start
	consumed := 0
	for {
		p, ok := bySubject[cur]
		if !ok {
			break
		}
		consumed++
		cur = p.Predicate
		if p.Quantifier == "no" {
			quantifier = "no"
			break
		}
	}
	if consumed != len(premises) {
		return "", errors.New("premises do not form a single chain")
	}
	return fmt.Sprintf("%s %s are %s.", quantifier, start, cur), nil
}
