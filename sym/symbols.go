// Package sym defines the glyphs psam prints beside commands and system
// markers. They are stable across CLI output, logs and documentation.
package sym

// Learner glyphs.
const (
	NBayes = "ℙ" // naive Bayes: per-label feature likelihoods
	KNN    = "⊙" // k-nearest-neighbor: Hamming-distance vote
	ID3    = "⋔" // decision tree: information-gain splits
)

// Command and system glyphs.
const (
	AM      = "≡" // am: configuration and system settings
	Eval    = "⊢" // a finished fold or evaluation
	Plan    = "⋯" // batch experiment plans
	History = "⟲" // recorded evaluation runs
	DB      = "⊔" // database/storage layer
)

// Category groups glyphs for help output.
type Category int

const (
	CategoryLearner Category = iota + 1
	CategoryCommand
	CategorySystem
)

// entry binds a glyph to its command and description.
type entry struct {
	glyph       string
	command     string
	label       string
	description string
	category    Category
}

var registry = []entry{
	{NBayes, "nbayes", "Naive Bayes", "Classify by per-label feature likelihoods", CategoryLearner},
	{KNN, "knn", "Nearest neighbor", "Vote among the k closest training vectors", CategoryLearner},
	{ID3, "id3", "Decision tree", "Split on the most informative feature", CategoryLearner},
	{AM, "am", "Configuration", "Show and validate settings", CategoryCommand},
	{Plan, "plan", "Plan", "Run a batch of experiments from TOML", CategoryCommand},
	{History, "history", "History", "Inspect recorded evaluation runs", CategoryCommand},
	{Eval, "", "", "Evaluation result", CategorySystem},
	{DB, "", "", "Database/storage layer", CategorySystem},
}

// SymbolToCommand maps glyph strings to their command names.
var SymbolToCommand = map[string]string{}

// CommandToSymbol maps command names to their glyph strings.
var CommandToSymbol = map[string]string{}

// CommandDescriptions gives a one-line "Label: description" per command.
var CommandDescriptions = map[string]string{}

func init() {
	for _, e := range registry {
		if e.command == "" {
			continue
		}
		SymbolToCommand[e.glyph] = e.command
		CommandToSymbol[e.command] = e.glyph
		CommandDescriptions[e.command] = e.label + ": " + e.description
	}
}

// ForCommand returns the glyph for a command, or "" if it has none.
func ForCommand(command string) string {
	return CommandToSymbol[command]
}

// ByCategory lists glyphs of one category in registry order.
func ByCategory(c Category) []string {
	var out []string
	for _, e := range registry {
		if e.category == c {
			out = append(out, e.glyph)
		}
	}
	return out
}
