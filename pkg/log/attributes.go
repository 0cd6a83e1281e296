// This file contains the attribute keys used by the engine's structured
// log lines. Using these constants instead of ad hoc string literals
// keeps field names consistent between ebm, boosting, and interaction.

package log

// Engine and operation context.
const (
	// ComponentKey identifies which package emitted the log line.
	// Examples: "ebm", "boosting", "interaction".
	ComponentKey = "ebm.component"

	// OperationKey names the engine operation being performed.
	// Examples: "create_engine", "apply_training_update", "score_interaction".
	OperationKey = "ebm.operation"
)

// Data shape.
const (
	// SamplesKey is the number of rows in an attached DataSet.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features an Engine was configured for.
	FeaturesKey = "data.features"
)

// Error context.
const (
	// StacktraceKey holds the cockroachdb/errors stack detail attached by
	// ZerologLogger.Error when a logged field's error value carries one.
	StacktraceKey = "error.stacktrace"
)

// Configuration.
const (
	// RandomSeedKey records Config.Seed, for correlating a run's log
	// output with the seed that produced it.
	RandomSeedKey = "config.random_seed"
)
