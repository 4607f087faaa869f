package lexicon

// fallbackWords is the safety vocabulary used when no artifact can be
// loaded. It keeps the ligature and diacritic helpers functional for the
// most common cases and is always merged into the loaded word set.
var fallbackWords = []string{
	"cœur",
	"cœurs",
	"coeur",
	"coeurs",
	"œuvre",
	"œuvres",
	"oeuvre",
	"oeuvres",
	"æquo",
	"aequo",
	"fœtus",
	"foetus",
	"œil",
	"oeil",
	"œufs",
	"oeufs",
	"œuf",
	"oeuf",
	"œsophage",
	"oesophage",
	"œdipe",
	"oedipe",
	"œdème",
	"oedeme",
	"étalement",
	"ėtalement",
	"evaluer",
	"évaluation",
	"evaluation",
	"évaluations",
	"evaluations",
	"élève",
	"élèves",
	"élevé",
	"élevée",
	"élevés",
	"élevées",
	"eleve",
	"eleves",
	"noël",
	"noels",
	"noel",
	"école",
	"ecole",
	"français",
	"francais",
}

// FallbackWords returns a copy of the safety word list.
func FallbackWords() []string {
	out := make([]string, len(fallbackWords))
	copy(out, fallbackWords)
	return out
}
