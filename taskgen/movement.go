package taskgen

import (
	"fmt"
	"math/rand"
	"strings"
)

// genMovement builds a wh-extraction task. The declarative embeds the
// transitive clause under difficulty-1 bridge verbs, so the filler-gap
// distance grows with difficulty; the correct question form is uniquely
// determined (do-support on the matrix verb only, embedded verbs keep
// their tense).
func genMovement(rng *rand.Rand, difficulty int) (question, groundTruth string) {
	people := pickDistinct(rng, personNouns, difficulty+1)
	subjects, object := people[:difficulty], people[difficulty]

	bridges := make([]pastBase, difficulty-1)
	for i := range bridges {
		bridges[i] = bridgeVerbs[rng.Intn(len(bridgeVerbs))]
	}
	trans := transitiveVerbs[rng.Intn(len(transitiveVerbs))]

	// Declarative: "the s1 said the s2 thought the s3 praised the obj."
	decl := make([]string, 0, 3*difficulty+2)
	for i, subj := range subjects {
		decl = append(decl, "the", subj)
		if i < len(bridges) {
			decl = append(decl, bridges[i].past)
		} else {
			decl = append(decl, trans.past)
		}
	}
	decl = append(decl, "the", object)
	declarative := capitalize(strings.Join(decl, " ")) + "."

	// Question: the object moves to the front, the matrix verb takes
	// do-support, everything embedded stays in place.
	q := []string{"who", "did", "the", subjects[0]}
	if difficulty == 1 {
		q = append(q, trans.base)
	} else {
		q = append(q, bridges[0].base)
		for i := 1; i < difficulty; i++ {
			q = append(q, "the", subjects[i])
			if i < len(bridges) {
				q = append(q, bridges[i].past)
			} else {
				q = append(q, trans.past)
			}
		}
	}
	groundTruth = strings.Join(q, " ") + "?"

	question = fmt.Sprintf("Form the question that asks about the object: %s", declarative)
	return question, groundTruth
}
