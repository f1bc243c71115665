package logger

import "go.uber.org/zap"

// Standard field names for consistent structured logging across psam.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID = "run_id"

	// Evaluation
	FieldAlgorithm = "algorithm"
	FieldFold      = "fold"
	FieldFolds     = "folds"
	FieldCrossVal  = "crossval"
	FieldSeed      = "seed"
	FieldAccuracy  = "accuracy"
	FieldTraining  = "training"
	FieldTest      = "test"

	// Corpus
	FieldInstances = "instances"
	FieldFeatures  = "features"
	FieldInstance  = "instance"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Files
	FieldFile = "file"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	store := history.NewStore(db, logger.ComponentLogger("history"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
