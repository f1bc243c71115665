package logger

// OutputCategory defines a category of output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Fold confusion lines, summaries
	OutputErrors                        // Errors with hints

	// Level 1 (-v) - Informational
	OutputProgress // Fold n/N progress
	OutputCorpus   // Corpus size, feature count, seed

	// Level 2 (-vv) - Detailed
	OutputTiming    // Train/classify durations
	OutputConfig    // Resolved learner parameters
	OutputModelInfo // Tree depth, stored neighbors

	// Level 3 (-vvv) - Trace
	OutputPredictions // Every test instance: name, actual, predicted
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputProgress: VerbosityInfo,
	OutputCorpus:   VerbosityInfo,

	OutputTiming:    VerbosityDebug,
	OutputConfig:    VerbosityDebug,
	OutputModelInfo: VerbosityDebug,

	OutputPredictions: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
