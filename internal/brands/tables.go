package brands

// The lookup tables below are data, not logic: they were harvested from real
// survey batches and grow as new misspellings show up in unmapped responses.
// All variants are kept in normalized form (lowercase, punctuation stripped)
// so they can be matched directly against a normalized answer.

type brandEntry struct {
	Name     string
	Variants []string
}

// brandVariants maps each canonical brand to its observed spelling variants.
// Iteration order is significant: the first brand whose variant appears in
// the answer wins, so broader patterns ("direct", "united") sit under the
// brand that should claim them.
var brandVariants = []brandEntry{
	{"State Farm", []string{
		"state farm", "statefarm", "state farms", "statefarms", "state farn",
		"state fram", "state fatm", "state farme", "state farmm", "state darm",
		"staye farm", "stte farm", "stat farm", "state form", "state far",
		"st farm", "st farms", "statefarm insurance",
	}},
	{"Geico", []string{
		"geico", "gieco", "gico", "gyco", "gecko", "geco", "gecio", "giego",
		"gieko", "geigo", "geicho", "geicko", "geicoo", "giceo", "gicko",
		"gigo", "gaico", "giecco", "geico insurance",
	}},
	{"Progressive", []string{
		"progressive", "progessive", "proggresive", "progresive",
		"proggressive", "pergressive", "progrssive", "progreessive",
		"prgressiv", "progressiv", "progress", "prlogressive", "pergresive",
		"prgressive",
	}},
	{"Allstate", []string{
		"allstate", "all state", "all states", "alstate", "alsate",
		"allstare", "allstaye", "alsrate", "alsstate", "allstarte",
		"allstated", "alllstate", "all stat", "allstars", "allstar",
	}},
	{"Liberty Mutual", []string{
		"liberty", "liberty mutual", "librety", "liberty mitchell",
		"liberdy", "lirbety", "liberty neutral", "liberity", "libery",
		"bibrety",
	}},
	{"Farmers", []string{
		"farmers", "farm bureau", "farmer", "farm burau", "farm bearu",
		"farm beaura", "farm beuro", "farm buro", "farm beura", "farm bearo",
		"farm bearue", "farm beaure",
	}},
	{"USAA", []string{"usaa", "ussa"}},
	{"Lemonade", []string{
		"lemonade", "lemona", "lemonde", "lemonaid", "lemonad", "lemonad3",
		"lemonadr", "lemonades", "lemonada", "lemonade pet insurance",
		"lemonade pet", "pet lemonade", "lemonade insurance",
	}},
	{"The General", []string{"general", "the general"}},
	{"Nationwide", []string{"nationwide", "nation wide"}},
	{"Travelers", []string{"travelers", "travellers"}},
	{"American Family", []string{"american family", "am fam", "amfam"}},
	{"Root", []string{"root", "root insurance"}},
	{"Metromile", []string{"metromile", "metro mile"}},
	{"Clearcover", []string{"clearcover", "clear cover"}},
	{"Blue Cross Blue Shield", []string{"blue cross", "bcbs", "blue cross blue shield"}},
	{"Humana", []string{"humana"}},
	{"Aetna", []string{"aetna"}},
	{"Cigna", []string{"cigna"}},
	{"UnitedHealth", []string{"united", "united health", "unitedhealthcare"}},
	{"Esurance", []string{"esurance", "e surance"}},
	{"Safe Auto", []string{"safe auto", "safeauto"}},
	{"Direct Auto", []string{"direct auto", "direct"}},
	{"Endurance", []string{"endurance"}},
	{"Aflac", []string{"aflac"}},
	{"Shelter", []string{"shelter", "shelter insurance"}},
	{"Erie", []string{"erie", "erie insurance"}},
	{"AARP", []string{"aarp"}},
	{"Hartford", []string{"hartford", "the hartford"}},
	{"Prudential", []string{"prudential"}},
	{"Auto-Owners", []string{"auto owners", "autoowners"}},
	{"Western & Southern", []string{"western and southern", "western southern"}},
	{"Mutual of Omaha", []string{"mutual of omaha", "mutual omaha"}},
	{"Gerber", []string{"gerber", "gerber life"}},
	{"Safeco", []string{"safeco", "safeco insurance"}},
	{"Grange", []string{"grange", "grange insurance", "grange mutual"}},
	{"Otto", []string{"otto", "otto insurance"}},
	{"NJM", []string{"njm", "new jersey manufacturers", "njm insurance"}},
	{"Anthem", []string{"anthem", "anthem insurance", "anthem blue cross", "anthem bcbs"}},
	{"Fred Loya", []string{"fred loya", "fredloya", "fred loya insurance"}},
	{"Pronto", []string{"pronto", "pronto insurance"}},
	{"Elephant", []string{"elephant", "elephant insurance"}},
	{"Zebra", []string{"zebra", "zebra insurance"}},
	{"Amica", []string{"amica", "amica insurance", "amica mutual"}},
}

// nonAnswers are matched exactly against the normalized answer, never as
// substrings, so a real answer that merely contains "no" is unaffected.
var nonAnswers = map[string]struct{}{}

var nonAnswerList = []string{
	// direct negatives
	"no", "none", "nothing", "na", "n a", "nada", "nope", "no e", "non",
	"0", "1",
	// don't-know variations, by far the biggest category
	"dont know", "don t know", "dont know any", "don t know any",
	"idk", "i dont know", "i don t know", "i dont know any",
	"i don t know any", "i don t", "i dont", "dont", "not sure", "no idea",
	"unknown", "unsure", "dunno", "no clue",
	// other non-responses seen in real batches
	"not interested", "no one", "not any", "cant think", "no brand",
	"dont care", "don t care", "dont use", "not much", "not now", "never",
	"ok", "yes", "hi", "car", "life", "scam",
}

// shortPrefixes resolves very short answers (5 chars or fewer) that are
// unambiguous brand stubs. Exact match only, to avoid mangling longer text.
var shortPrefixes = map[string]string{
	"farm":  "State Farm",
	"state": "State Farm",
	"pro":   "Progressive",
	"prog":  "Progressive",
	"gei":   "Geico",
	"all":   "Allstate",
	"lib":   "Liberty Mutual",
	"gen":   "The General",
}

// nonInsurance marks answers naming a well-known out-of-domain entity.
var nonInsurance = []string{
	"nike", "amazon", "apple", "google", "facebook", "microsoft",
	"walmart", "target", "mcdonalds", "starbucks", "coca cola",
	"pepsi", "ford", "toyota", "honda", "chevrolet", "bmw",
	"obamacare", "medicare", "medicaid", "social security",
	"zara", "iran", "lemon", "nine", "metropolitan", "the duck one",
	"i love", "bee",
}

func init() {
	for _, s := range nonAnswerList {
		nonAnswers[s] = struct{}{}
	}
}
