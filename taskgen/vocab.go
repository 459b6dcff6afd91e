package taskgen

// Shared vocabulary pools. Pool size grows with difficulty where the
// grammar calls for it, but the difficulty-to-size mapping is fixed so two
// tasks of the same (domain, difficulty) draw from the same distribution.

// categoryTerms are plural category nouns for syllogistic premises.
var categoryTerms = []string{
	"students", "teachers", "books", "people", "objects", "things",
	"useful", "valuable", "mortal", "artists", "critics", "machines",
	"tools", "singers", "gardens", "rivers",
}

// termPool returns the syllogism vocabulary slice for a difficulty level.
func termPool(difficulty int) []string {
	n := 6 + 2*(difficulty-1)
	if n > len(categoryTerms) {
		n = len(categoryTerms)
	}
	return categoryTerms[:n]
}

// atomNames are propositional variables; the pool widens with difficulty.
var atomNames = []string{"P", "Q", "R", "S", "T"}

func atomPool(difficulty int) []string {
	n := 2 + difficulty
	if n > len(atomNames) {
		n = len(atomNames)
	}
	return atomNames[:n]
}

// nounPair holds singular and plural surface forms.
type nounPair struct{ sg, pl string }

var agreementNouns = []nounPair{
	{"teacher", "teachers"},
	{"student", "students"},
	{"critic", "critics"},
	{"pilot", "pilots"},
	{"gardener", "gardeners"},
	{"neighbor", "neighbors"},
	{"door", "doors"},
	{"book", "books"},
}

// verbPair holds the plural/base form and the third-person singular form.
type verbPair struct{ base, sg3 string }

var agreementVerbs = []verbPair{
	{"praise", "praises"},
	{"admire", "admires"},
	{"follow", "follows"},
	{"describe", "describes"},
}

// personNouns fill subject and object slots in movement tasks.
var personNouns = []string{
	"teacher", "student", "critic", "pilot", "gardener", "lawyer", "singer", "editor",
}

// pastBase holds a past-tense surface form and its bare form for do-support.
type pastBase struct{ past, base string }

// bridgeVerbs embed a clausal complement.
var bridgeVerbs = []pastBase{
	{"said", "say"},
	{"thought", "think"},
	{"claimed", "claim"},
	{"believed", "believe"},
}

// transitiveVerbs take the extracted object.
var transitiveVerbs = []pastBase{
	{"praised", "praise"},
	{"admired", "admire"},
	{"followed", "follow"},
	{"invited", "invite"},
}
