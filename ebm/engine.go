package ebm

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/ebmcore/ebmcore/bitpack"
	"github.com/ebmcore/ebmcore/boosting"
	"github.com/ebmcore/ebmcore/dataset"
	"github.com/ebmcore/ebmcore/interaction"
	"github.com/ebmcore/ebmcore/pkg/errors"
	"github.com/ebmcore/ebmcore/pkg/log"
	"github.com/ebmcore/ebmcore/tensor"
)

var engineCounter atomic.Uint64

// logRateCounter is the "monotonic counter used for rate-limited log
// messages" of spec.md §5: process-wide, advisory, racy, and never
// consulted for a numerical result.
var logRateCounter atomic.Uint64

// logEvery bounds how often Engine logs a per-call lifecycle message
// (Info for create/close, Debug for attach), following the source's
// LOG_COUNTED_N idiom.
const logEvery = 64

// Engine is the stateful handle an outer collaborator drives through a
// boosting round: create, attach training/validation DataSets and
// candidate feature combinations, apply updates, score interactions,
// and eventually close it to release scratch buffers.
type Engine struct {
	id     uint64
	cfg    Config
	logger log.Logger

	training   *dataset.DataSet
	validation *dataset.DataSet

	applier *boosting.Applier
	scorer  *interaction.Scorer

	trainingCombosByFeatures map[string]int
	closed                   bool
}

// CreateEngine is the create_engine operation of spec.md §6. It cannot
// fail for reasons other than invalid configuration or allocation — the
// two-phase create + attach_dataset design of spec.md §9.
func CreateEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	provider := cfg.LoggerProvider
	if provider == nil {
		provider = log.NewZerologLoggerProvider(cfg.LogLevel)
	}
	logger := provider.GetLoggerWithName("ebm").With(
		log.OperationKey, "create_engine",
	)

	id := engineCounter.Add(1)
	eng := &Engine{
		id:                       id,
		cfg:                      cfg,
		logger:                   logger,
		applier:                  boosting.NewApplier(cfg.Boosting),
		scorer:                   interaction.NewScorer(cfg.Interaction),
		trainingCombosByFeatures: make(map[string]int),
	}

	if log.RateLimited(&logRateCounter, logEvery) {
		logger.Info("engine created",
			"engine.id", id,
			"ml.objective", cfg.Objective.String(),
			log.FeaturesKey, cfg.NumFeatures,
			log.RandomSeedKey, cfg.Seed,
		)
	}
	return eng, nil
}

// AttachDataset registers a DataSet for the given role. The Engine
// borrows it for the lifetime of subsequent Apply*/ScoreInteraction
// calls; ownership remains with the caller per spec.md §3.
func (e *Engine) AttachDataset(role Role, ds *dataset.DataSet) error {
	if e.closed {
		return errors.NewInvalidArgumentError("ebm.AttachDataset", "engine is closed")
	}
	if ds == nil {
		return errors.NewInvalidArgumentError("ebm.AttachDataset", "dataset must not be nil")
	}
	if ds.Objective() != e.cfg.Objective {
		return errors.NewInvalidArgumentError("ebm.AttachDataset", "dataset objective does not match engine configuration")
	}

	switch role {
	case dataset.Training:
		e.training = ds
	case dataset.Validation:
		e.validation = ds
	default:
		return errors.NewInvalidArgumentError("ebm.AttachDataset", "unknown role")
	}

	if log.RateLimited(&logRateCounter, logEvery) {
		e.logger.Debug("dataset attached",
			"engine.id", e.id,
			"ml.role", role.String(),
			log.SamplesKey, ds.N(),
		)
	}
	return nil
}

// AttachCombination registers the bit-packed column for a feature
// combination on the given role's DataSet, under combinationIndex — the
// index apply_training_update, apply_validation_update, and (via
// featureIndices) score_interaction later reference. This realizes
// attach_dataset's "binned_columns" argument of spec.md §6 as a
// separate call so a single combination can be shared between the
// training and validation roles without copying.
func (e *Engine) AttachCombination(role Role, combinationIndex int, featureIndices []int, comb *dataset.Combination, col *bitpack.Column) error {
	if e.closed {
		return errors.NewInvalidArgumentError("ebm.AttachCombination", "engine is closed")
	}
	ds := e.datasetFor(role)
	if ds == nil {
		return errors.NewInvalidArgumentError("ebm.AttachCombination", "no dataset attached for role")
	}
	if comb != nil && len(comb.Features) > e.cfg.MaxDims {
		return errors.NewCombinationTooLargeError("ebm.AttachCombination", len(comb.Features), e.cfg.MaxDims)
	}
	if err := ds.AttachColumn(combinationIndex, comb, col); err != nil {
		return err
	}
	if role == dataset.Training {
		e.trainingCombosByFeatures[featureKey(featureIndices)] = combinationIndex
	}
	return nil
}

func (e *Engine) datasetFor(role Role) *dataset.DataSet {
	switch role {
	case dataset.Training:
		return e.training
	case dataset.Validation:
		return e.validation
	default:
		return nil
	}
}

// ApplyTrainingUpdate is apply_training_update: applies update to the
// training DataSet's state in place.
func (e *Engine) ApplyTrainingUpdate(combinationIndex int, update *tensor.SegmentedTensor) (err error) {
	defer errors.Recover(&err, "ebm.ApplyTrainingUpdate")
	if e.closed {
		return errors.NewInvalidArgumentError("ebm.ApplyTrainingUpdate", "engine is closed")
	}
	if e.training == nil {
		return errors.NewInvalidArgumentError("ebm.ApplyTrainingUpdate", "no training dataset attached")
	}
	return e.applier.ApplyTrainingUpdate(e.training, combinationIndex, update)
}

// ApplyValidationUpdate is apply_validation_update: applies update to
// the validation DataSet's state and returns the round's metric.
func (e *Engine) ApplyValidationUpdate(combinationIndex int, update *tensor.SegmentedTensor) (metric float64, err error) {
	defer errors.Recover(&err, "ebm.ApplyValidationUpdate")
	if e.closed {
		return 0, errors.NewInvalidArgumentError("ebm.ApplyValidationUpdate", "engine is closed")
	}
	if e.validation == nil {
		return 0, errors.NewInvalidArgumentError("ebm.ApplyValidationUpdate", "no validation dataset attached")
	}
	return e.applier.ApplyValidationUpdate(e.validation, combinationIndex, update)
}

// ScoreInteraction is score_interaction: scores the combination
// previously registered under this exact feature-index tuple via
// AttachCombination(RoleTraining, ...), without mutating any state.
func (e *Engine) ScoreInteraction(featureIndices []int, minInstancesPerChild int) (score float64, err error) {
	defer errors.Recover(&err, "ebm.ScoreInteraction")
	if e.closed {
		return 0, errors.NewInvalidArgumentError("ebm.ScoreInteraction", "engine is closed")
	}
	if e.training == nil {
		return 0, errors.NewInvalidArgumentError("ebm.ScoreInteraction", "no training dataset attached")
	}
	idx, ok := e.trainingCombosByFeatures[featureKey(featureIndices)]
	if !ok {
		return 0, errors.NewInvalidArgumentError("ebm.ScoreInteraction", "no combination registered for this feature-index list")
	}
	comb, _ := e.training.Combination(idx)
	col, _ := e.training.Column(idx)
	return e.scorer.Score(e.training, comb, col, minInstancesPerChild)
}

// Close is destroy_engine: releases the Engine's references to its
// attached DataSets. Per spec.md §5, scratch buffers inside apply/score
// calls are already released on every return path; Close exists so the
// Engine itself stops holding borrowed pointers.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.training = nil
	e.validation = nil
	if log.RateLimited(&logRateCounter, logEvery) {
		e.logger.Info("engine closed", "engine.id", e.id)
	}
	return nil
}

func featureKey(featureIndices []int) string {
	sorted := append([]int(nil), featureIndices...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
