// Package tensor implements SegmentedTensor, the piecewise-constant
// shape function a boosting round's update (or the final model) assigns
// over a small tuple of feature bins.
package tensor

import (
	"github.com/ebmcore/ebmcore/pkg/errors"
)

// SegmentedTensor is a dense, row-major piecewise-constant function from
// a D-tuple of bins to an R^V vector. It is allocated once with a
// maximum dimension capacity and reshaped in place every round; reshape
// never initializes the new contents, matching the spec's lifecycle
// contract.
type SegmentedTensor struct {
	maxDims   int
	vecLen    int
	binCounts []int
	values    []float64
}

// Allocate returns an empty tensor with capacity for up to maxDims
// dimensions and vecLen values per cell.
func Allocate(maxDims, vecLen int) (*SegmentedTensor, error) {
	if maxDims < 0 {
		return nil, errors.NewInvalidArgumentError("tensor.Allocate", "maxDims must be nonnegative")
	}
	if vecLen < 1 {
		return nil, errors.NewInvalidArgumentError("tensor.Allocate", "vecLen must be >= 1")
	}
	return &SegmentedTensor{maxDims: maxDims, vecLen: vecLen}, nil
}

// Dims returns the tensor's current dimension count.
func (t *SegmentedTensor) Dims() int { return len(t.binCounts) }

// VecLen returns the number of values stored per cell.
func (t *SegmentedTensor) VecLen() int { return t.vecLen }

// BinCounts returns the current per-dimension bin counts.
// The returned slice is owned by the tensor and must not be mutated.
func (t *SegmentedTensor) BinCounts() []int { return t.binCounts }

// CellCount returns the product of the current bin counts (1 for a
// zero-dimensional tensor, i.e. a single cell).
func (t *SegmentedTensor) CellCount() int {
	n := 1
	for _, b := range t.binCounts {
		n *= b
	}
	return n
}

// Reshape resizes the value buffer to vecLen * product(binCounts) and
// does not initialize its contents. It fails with InvalidArgumentError
// if the dimension count exceeds the tensor's capacity or any bin count
// is < 1, and with CapacityExceededError if the cell-count product
// overflows a machine-representable size.
func (t *SegmentedTensor) Reshape(binCounts []int) error {
	if len(binCounts) > t.maxDims {
		return errors.NewInvalidArgumentError("tensor.Reshape", "dimension count exceeds capacity")
	}
	total := 1
	for _, b := range binCounts {
		if b < 1 {
			return errors.NewInvalidArgumentError("tensor.Reshape", "bin count must be >= 1")
		}
		next := total * b
		if b != 0 && next/b != total {
			return errors.NewCapacityExceededError("tensor.Reshape", "bin count product overflows")
		}
		total = next
	}
	size := total * t.vecLen
	if total != 0 && size/total != t.vecLen {
		return errors.NewCapacityExceededError("tensor.Reshape", "value buffer size overflows")
	}

	t.binCounts = append(t.binCounts[:0], binCounts...)
	if cap(t.values) >= size {
		t.values = t.values[:size]
	} else {
		t.values = make([]float64, size)
	}
	return nil
}

// At returns the mutable slice of VecLen() values for the given
// linearized bin index, i.e. Σ_i (bin_of_feature_i * Π_{j<i} bin_count_j).
func (t *SegmentedTensor) At(binLinearized int) []float64 {
	start := binLinearized * t.vecLen
	return t.values[start : start+t.vecLen]
}

// Zero clears every cell to 0, for zeroing an accumulator tensor before
// reuse (SamplingWithReplacement is the outer collaborator's concern).
func (t *SegmentedTensor) Zero() {
	for i := range t.values {
		t.values[i] = 0
	}
}

// Linearize computes the row-major linearized bin index for a tuple of
// per-feature bins, feature 0 varying fastest, matching the tensor
// layout the bit-packed columns already encode.
func Linearize(bins, binCounts []int) int {
	idx := 0
	stride := 1
	for i, b := range bins {
		idx += b * stride
		stride *= binCounts[i]
	}
	return idx
}
