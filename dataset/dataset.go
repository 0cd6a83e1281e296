// Package dataset aggregates the per-instance buffers ModelUpdateApplier
// and InteractionScorer operate on: targets, predictor scores or
// residuals depending on objective, and the bit-packed columns for
// whichever feature combinations are currently in use.
//
// A DataSet is created once with immutable structural attributes (N,
// objective, class count) and its numeric buffers are mutated round by
// round by boosting.Applier. The outer collaborator owns the DataSet;
// this package and boosting/interaction borrow it for the duration of a
// call.
package dataset

import (
	"github.com/ebmcore/ebmcore/bitpack"
	"github.com/ebmcore/ebmcore/objective"
	"github.com/ebmcore/ebmcore/pkg/errors"
)

// Role distinguishes the training set (mutated every round, no metric
// reported) from the validation set (mutated every round, metric
// reported and used to accept or reject the round).
type Role int

const (
	Training Role = iota
	Validation
)

func (r Role) String() string {
	if r == Validation {
		return "validation"
	}
	return "training"
}

// Feature describes a single input column's bin cardinality.
type Feature struct {
	BinCount int
	Nominal  bool
}

// Degenerate reports whether this feature must short-circuit interaction
// scoring to 0, per spec.md §3: bin_count <= 1.
func (f Feature) Degenerate() bool { return f.BinCount <= 1 }

// Combination is an ordered list of features that jointly index a
// shape-function tensor, plus the bit-pack layout chosen for its
// linearized bin index.
type Combination struct {
	Features     []Feature
	ItemsPerWord int
	BitsPerItem  int
	Mask         uint64
}

// NewCombination derives the bit-pack layout for features per spec.md
// §3: each item takes ceil(log2(Π bin_count_i)) bits (at least 1), and
// items_per_word is as many such items as fit whole in a word. It fails
// with CombinationTooLargeError if the combination is wider than
// maxDims or InvalidArgumentError if any bin count is zero.
func NewCombination(features []Feature, maxDims int) (*Combination, error) {
	if len(features) > maxDims {
		return nil, errors.NewCombinationTooLargeError("dataset.NewCombination", len(features), maxDims)
	}
	total := uint64(1)
	for _, f := range features {
		if f.BinCount < 1 {
			return nil, errors.NewInvalidArgumentError("dataset.NewCombination", "bin count must be >= 1")
		}
		next := total * uint64(f.BinCount)
		if f.BinCount != 0 && next/uint64(f.BinCount) != total {
			return nil, errors.NewCapacityExceededError("dataset.NewCombination", "combination bin count product overflows")
		}
		total = next
	}
	itemsPerWord := bitpack.ItemsPerWordFor(total)
	bitsPerItem, mask, err := bitpack.Layout(itemsPerWord, total)
	if err != nil {
		return nil, err
	}
	return &Combination{
		Features:     append([]Feature(nil), features...),
		ItemsPerWord: itemsPerWord,
		BitsPerItem:  bitsPerItem,
		Mask:         mask,
	}, nil
}

// BinCounts returns the per-feature bin counts in combination order.
func (c *Combination) BinCounts() []int {
	out := make([]int, len(c.Features))
	for i, f := range c.Features {
		out[i] = f.BinCount
	}
	return out
}

// CellCount returns Π bin_count_i, the linearized tensor's cell count (1
// for a zero-feature combination).
func (c *Combination) CellCount() int {
	n := 1
	for _, f := range c.Features {
		n *= f.BinCount
	}
	return n
}

// Degenerate reports whether any feature in the combination has bin
// count <= 1, the short-circuit condition of spec.md §4.4 point 4.
func (c *Combination) Degenerate() bool {
	for _, f := range c.Features {
		if f.Degenerate() {
			return true
		}
	}
	return false
}

// DataSet aggregates input columns, targets, predictor scores, and
// residuals for either a training or a validation role.
type DataSet struct {
	role       Role
	objKind    objective.Kind
	numClasses int
	vecLen     int
	n          int

	targetsRegression []float64
	targetsClass      []int

	scores    []float64 // classification only, len n*vecLen
	residuals []float64 // regression only, len n

	columns map[int]*Combination
	words   map[int]*bitpack.Column
}

// NewRegression constructs a DataSet for squared-error regression:
// targets and residuals are both length n, vecLen is always 1.
func NewRegression(role Role, n int, targets, residuals []float64) (*DataSet, error) {
	if n < 0 {
		return nil, errors.NewInvalidArgumentError("dataset.NewRegression", "n must be nonnegative")
	}
	if len(targets) != n || len(residuals) != n {
		return nil, errors.NewInvalidArgumentError("dataset.NewRegression", "targets/residuals length must equal n")
	}
	return &DataSet{
		role:              role,
		objKind:           objective.Regression,
		numClasses:        0,
		vecLen:            1,
		n:                 n,
		targetsRegression: targets,
		residuals:         residuals,
		columns:           make(map[int]*Combination),
		words:             make(map[int]*bitpack.Column),
	}, nil
}

// NewBinaryClassification constructs a DataSet for two-class log-loss:
// targets are {0,1}, scores are logits of length n (V=1).
func NewBinaryClassification(role Role, n int, targets []int, scores []float64) (*DataSet, error) {
	if n < 0 {
		return nil, errors.NewInvalidArgumentError("dataset.NewBinaryClassification", "n must be nonnegative")
	}
	if len(targets) != n || len(scores) != n {
		return nil, errors.NewInvalidArgumentError("dataset.NewBinaryClassification", "targets/scores length must equal n")
	}
	for _, t := range targets {
		if t != 0 && t != 1 {
			return nil, errors.NewInvalidArgumentError("dataset.NewBinaryClassification", "targets must be 0 or 1")
		}
	}
	return &DataSet{
		role:         role,
		objKind:      objective.BinaryClassification,
		numClasses:   2,
		vecLen:       1,
		n:            n,
		targetsClass: targets,
		scores:       scores,
		columns:      make(map[int]*Combination),
		words:        make(map[int]*bitpack.Column),
	}, nil
}

// NewMulticlass constructs a DataSet for C-class log-loss, C >= 3:
// targets are in [0, numClasses), scores are length n*numClasses.
func NewMulticlass(role Role, n, numClasses int, targets []int, scores []float64) (*DataSet, error) {
	if n < 0 {
		return nil, errors.NewInvalidArgumentError("dataset.NewMulticlass", "n must be nonnegative")
	}
	if numClasses < objective.MinMulticlassClasses {
		return nil, errors.NewInvalidArgumentError("dataset.NewMulticlass", "multiclass requires numClasses >= 3")
	}
	if len(targets) != n || len(scores) != n*numClasses {
		return nil, errors.NewInvalidArgumentError("dataset.NewMulticlass", "targets/scores length mismatch")
	}
	for _, t := range targets {
		if t < 0 || t >= numClasses {
			return nil, errors.NewInvalidArgumentError("dataset.NewMulticlass", "target out of class range")
		}
	}
	return &DataSet{
		role:         role,
		objKind:      objective.Multiclass,
		numClasses:   numClasses,
		vecLen:       numClasses,
		n:            n,
		targetsClass: targets,
		scores:       scores,
		columns:      make(map[int]*Combination),
		words:        make(map[int]*bitpack.Column),
	}, nil
}

// Role reports whether this DataSet is the training or validation set.
func (d *DataSet) Role() Role { return d.role }

// Objective reports the objective this DataSet was built for.
func (d *DataSet) Objective() objective.Kind { return d.objKind }

// NumClasses reports the class count: C for Multiclass, 2 for
// BinaryClassification, 0 for Regression.
func (d *DataSet) NumClasses() int { return d.numClasses }

// VecLen reports V, the number of values stored per instance.
func (d *DataSet) VecLen() int { return d.vecLen }

// N reports the instance count.
func (d *DataSet) N() int { return d.n }

// TargetFloat returns the regression target for instance i.
func (d *DataSet) TargetFloat(i int) float64 { return d.targetsRegression[i] }

// TargetClass returns the classification target for instance i.
func (d *DataSet) TargetClass(i int) int { return d.targetsClass[i] }

// Residuals returns the regression residual buffer (mutated in place by
// boosting.Applier). It is nil for classification DataSets.
func (d *DataSet) Residuals() []float64 { return d.residuals }

// Scores returns the classification predictor-score buffer (mutated in
// place by boosting.Applier), length n*VecLen(). It is nil for
// regression DataSets.
func (d *DataSet) Scores() []float64 { return d.scores }

// InstanceScores returns the VecLen()-length score slice for instance i.
func (d *DataSet) InstanceScores(i int) []float64 {
	return d.scores[i*d.vecLen : (i+1)*d.vecLen]
}

// AttachColumn registers the bit-packed column for a feature combination
// so boosting and interaction can decode its linearized bin index per
// instance. words must decode exactly N instances.
func (d *DataSet) AttachColumn(combinationIndex int, comb *Combination, words *bitpack.Column) error {
	if words != nil && words.Len() != d.n {
		return errors.NewInvalidArgumentError("dataset.AttachColumn", "column instance count does not match dataset N")
	}
	d.columns[combinationIndex] = comb
	d.words[combinationIndex] = words
	return nil
}

// Combination returns the feature combination registered under index,
// and whether it was found.
func (d *DataSet) Combination(combinationIndex int) (*Combination, bool) {
	c, ok := d.columns[combinationIndex]
	return c, ok
}

// Column returns the decoder registered under index, and whether it was
// found. A nil, ok=true result means a zero-feature combination.
func (d *DataSet) Column(combinationIndex int) (*bitpack.Column, bool) {
	c, ok := d.words[combinationIndex]
	return c, ok
}

// CheckFinite verifies every value in the active state buffer (residuals
// for regression, scores for classification) is finite, per spec.md §3's
// invariant that residuals/scores must be finite after every committed
// round-end. boosting.Applier clips every value it stores to a finite
// one, so a non-finite value found here was not written by an applied
// round.
func (d *DataSet) CheckFinite(op string) error {
	buf := d.residuals
	if d.scores != nil {
		buf = d.scores
	}
	if err := errors.CheckNumericalStability(op, buf, 0); err != nil {
		return errors.NewNumericNonFiniteError(op, "dataset state")
	}
	return nil
}
