package boosting

import (
	"math"

	"github.com/ebmcore/ebmcore/bitpack"
	"github.com/ebmcore/ebmcore/dataset"
	"github.com/ebmcore/ebmcore/objective"
	"github.com/ebmcore/ebmcore/pkg/errors"
	"github.com/ebmcore/ebmcore/tensor"
)

// Applier is ModelUpdateApplier: given an update tensor, a DataSet, and a
// feature combination, it produces the new per-instance state in one
// pass and, on the validation role, reduces it to a scalar metric.
//
// Two concurrent calls against the SAME DataSet are undefined behavior
// per spec.md §5 — the outer collaborator serializes them; Applier holds
// no per-call mutable state of its own, so distinct DataSets may be
// driven by distinct goroutines each with their own Applier (or the
// same one, since Params is read-only after construction).
type Applier struct {
	params Params
}

// NewApplier constructs an Applier for a fixed configuration.
func NewApplier(params Params) *Applier {
	return &Applier{params: params}
}

// ApplyTrainingUpdate applies update to ds's training-role state and
// updates residuals/scores in place. It reports no metric, matching
// spec.md §4.3's training contract. Non-finite results are clipped to
// finite values before they are stored, so neither this call nor a later
// ds.CheckFinite signals that an update was non-finite.
func (a *Applier) ApplyTrainingUpdate(ds *dataset.DataSet, combinationIndex int, update *tensor.SegmentedTensor) error {
	_, err := a.apply(ds, combinationIndex, update, false)
	return err
}

// ApplyValidationUpdate applies update to ds's validation-role state and
// returns the mean metric (MSE for regression, mean log-loss for
// classification). A non-finite accumulator is reported as +Inf so the
// caller rejects the round; Applier does not roll back state.
func (a *Applier) ApplyValidationUpdate(ds *dataset.DataSet, combinationIndex int, update *tensor.SegmentedTensor) (float64, error) {
	return a.apply(ds, combinationIndex, update, true)
}

func (a *Applier) apply(ds *dataset.DataSet, combinationIndex int, update *tensor.SegmentedTensor, collectMetric bool) (float64, error) {
	if ds.N() == 0 {
		return 0, nil
	}

	comb, ok := ds.Combination(combinationIndex)
	if !ok {
		return 0, errors.NewInvalidArgumentError("boosting.apply", "unknown combination index")
	}
	zeroFeature := comb == nil || len(comb.Features) == 0

	var col *bitpack.Column
	if !zeroFeature {
		col, ok = ds.Column(combinationIndex)
		if !ok || col == nil {
			return 0, errors.NewInvalidArgumentError("boosting.apply", "missing bit-packed column for combination")
		}
	}

	handler, err := objective.Dispatch(ds.Objective(), ds.NumClasses(), a.params.StabilizeSoftmax)
	if err != nil {
		return 0, err
	}

	switch ds.Objective() {
	case objective.Regression:
		metric, err := a.applyRegression(ds, update, col, zeroFeature, collectMetric, handler)
		return a.finish(metric, err, collectMetric)
	case objective.BinaryClassification:
		if a.params.BinaryLogitEncoding != SingleLogit {
			return 0, errors.NewInvalidArgumentError("boosting.apply", "ExpandedLogits encoding is exposed but not yet wired into the numeric path")
		}
		metric, err := a.applyBinary(ds, update, col, zeroFeature, collectMetric, handler)
		return a.finish(metric, err, collectMetric)
	case objective.Multiclass:
		metric, err := a.applyMulticlass(ds, update, col, zeroFeature, collectMetric, handler)
		return a.finish(metric, err, collectMetric)
	default:
		return 0, errors.NewInvalidArgumentError("boosting.apply", "unknown objective kind")
	}
}

func (a *Applier) finish(metric float64, err error, collectMetric bool) (float64, error) {
	if err != nil {
		return 0, err
	}
	if collectMetric && metric < 0 {
		// Multiclass may accumulate a tiny negative mean from the Exp
		// approximation; clamp per spec.md §4.3 edge cases. Harmless
		// for regression/binary, whose true metrics are never negative.
		metric = 0
	}
	return metric, nil
}

// clipToFinite clamps a value to the nearest representable finite
// double, reporting whether the input was non-finite. The clamped
// value is what gets stored back into the DataSet's state buffer,
// preserving the "finite after round-end" invariant of spec.md §3 even
// though the caller is responsible for discarding the round based on
// the returned metric.
func clipToFinite(x float64) (float64, bool) {
	if math.IsNaN(x) {
		return 0, true
	}
	if math.IsInf(x, 1) {
		return math.MaxFloat64, true
	}
	if math.IsInf(x, -1) {
		return -math.MaxFloat64, true
	}
	return x, false
}

func (a *Applier) applyRegression(ds *dataset.DataSet, update *tensor.SegmentedTensor, col *bitpack.Column, zeroFeature, collectMetric bool, handler objective.Handler) (float64, error) {
	residuals := ds.Residuals()
	n := ds.N()
	nonFinite := false
	var sumSq float64
	var single [1]float64

	applyOne := func(i, bin int) {
		u := update.At(bin)[0]
		clipped, nf := clipToFinite(residuals[i] - u)
		residuals[i] = clipped
		if nf {
			nonFinite = true
		}
		if collectMetric {
			single[0] = clipped
			sumSq += handler.Loss(single[:], 0)
		}
	}

	if zeroFeature {
		for i := 0; i < n; i++ {
			applyOne(i, 0)
		}
	} else {
		col.Iterate(applyOne)
	}

	if !collectMetric {
		return 0, nil
	}
	if nonFinite {
		return math.Inf(1), nil
	}
	return sumSq / float64(n), nil
}

func (a *Applier) applyBinary(ds *dataset.DataSet, update *tensor.SegmentedTensor, col *bitpack.Column, zeroFeature, collectMetric bool, handler objective.Handler) (float64, error) {
	scores := ds.Scores()
	n := ds.N()
	nonFinite := false
	var sumLoss float64
	var single [1]float64

	applyOne := func(i, bin int) {
		u := update.At(bin)[0]
		clipped, nf := clipToFinite(scores[i] + u)
		scores[i] = clipped
		if nf {
			nonFinite = true
		}
		if collectMetric {
			single[0] = clipped
			sumLoss += handler.Loss(single[:], ds.TargetClass(i))
		}
	}

	if zeroFeature {
		for i := 0; i < n; i++ {
			applyOne(i, 0)
		}
	} else {
		col.Iterate(applyOne)
	}

	if !collectMetric {
		return 0, nil
	}
	if nonFinite {
		return math.Inf(1), nil
	}
	return sumLoss / float64(n), nil
}

func (a *Applier) applyMulticlass(ds *dataset.DataSet, update *tensor.SegmentedTensor, col *bitpack.Column, zeroFeature, collectMetric bool, handler objective.Handler) (float64, error) {
	scores := ds.Scores()
	n := ds.N()
	c := ds.NumClasses()
	nonFinite := false
	var sumLoss float64

	applyOne := func(i, bin int) {
		u := update.At(bin)
		row := scores[i*c : i*c+c]
		for v := 0; v < c; v++ {
			clipped, nf := clipToFinite(row[v] + u[v])
			row[v] = clipped
			if nf {
				nonFinite = true
			}
		}
		if collectMetric {
			sumLoss += handler.Loss(row, ds.TargetClass(i))
		}
	}

	if zeroFeature {
		for i := 0; i < n; i++ {
			applyOne(i, 0)
		}
	} else {
		col.Iterate(applyOne)
	}

	if !collectMetric {
		return 0, nil
	}
	if nonFinite {
		return math.Inf(1), nil
	}
	return sumLoss / float64(n), nil
}
