package taskgen

import (
	"fmt"
	"math/rand"
	"strings"
)

// genAgreement builds a subject-verb agreement completion. The subject is
// separated from the verb by difficulty-1 attractor nouns of the opposite
// number, so the licensed form can only be recovered by tracking the head
// noun across the interveners.
func genAgreement(rng *rand.Rand, difficulty int) (question, groundTruth string) {
	subjPlural := rng.Intn(2) == 1

	nouns := agreementNouns[rng.Perm(len(agreementNouns))[0]]
	subject := nouns.sg
	if subjPlural {
		subject = nouns.pl
	}

	np := []string{"the " + subject}
	used := map[string]bool{subject: true}
	for i := 0; i < difficulty-1; i++ {
		attr := agreementNouns[rng.Intn(len(agreementNouns))]
		form := attr.pl // attractors carry the opposite number
		if subjPlural {
			form = attr.sg
		}
		if used[form] {
			i--
			continue
		}
		used[form] = true
		np = append(np, "of the "+form)
	}

	verb := agreementVerbs[rng.Intn(len(agreementVerbs))]
	objPair := agreementNouns[rng.Intn(len(agreementNouns))]
	object := objPair.pl

	licensed := verb.sg3
	if subjPlural {
		licensed = verb.base
	}

	question = fmt.Sprintf("Complete the sentence with the verb form the grammar licenses: %s ___ (%s/%s) the %s.",
		capitalize(strings.Join(np, " ")), verb.base, verb.sg3, object)
	groundTruth = licensed
	return question, groundTruth
}
