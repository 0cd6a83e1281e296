package interaction

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/ebmcore/ebmcore/bitpack"
	"github.com/ebmcore/ebmcore/dataset"
	"github.com/ebmcore/ebmcore/objective"
	"github.com/ebmcore/ebmcore/pkg/errors"
	"github.com/ebmcore/ebmcore/pkg/parallel"
)

// parallelThreshold bounds how many instances a Score call must scan
// before it bothers splitting the histogram pass across goroutines — a
// candidate pair with a handful of instances isn't worth the spawn cost.
const parallelThreshold = 4096

// Scorer is InteractionScorer: a read-only pass that scores a candidate
// feature combination without mutating any DataSet state.
type Scorer struct {
	params Params
}

// NewScorer constructs a Scorer for a fixed regularization configuration.
func NewScorer(params Params) *Scorer {
	return &Scorer{params: params}
}

// Score implements spec.md §4.4's algorithm: build per-bin sums of
// gradient/hessian over the candidate combination, then reduce them to
// Σ_b gain(cell) - gain(parent). Cells whose instance count is below
// minInstancesPerChild do not contribute their own gain but still count
// toward the parent total.
func (s *Scorer) Score(ds *dataset.DataSet, comb *dataset.Combination, col *bitpack.Column, minInstancesPerChild int) (float64, error) {
	if comb == nil || len(comb.Features) == 0 {
		return 0, errors.NewInvalidArgumentError("interaction.Score", "combination must have at least one feature")
	}
	if comb.Degenerate() {
		return 0, nil
	}
	if ds.N() == 0 {
		return 0, nil
	}
	if col == nil {
		return 0, errors.NewInvalidArgumentError("interaction.Score", "missing bit-packed column for combination")
	}

	handler, err := objective.Dispatch(ds.Objective(), ds.NumClasses(), s.params.StabilizeSoftmax)
	if err != nil {
		return 0, err
	}

	vecLen := ds.VecLen()
	cellCount := comb.CellCount()
	size, err := checkedMul(cellCount, vecLen)
	if err != nil {
		return 0, err
	}

	sumGrad, err := safeMakeFloat64(size)
	if err != nil {
		return 0, err
	}
	sumHess, err := safeMakeFloat64(size)
	if err != nil {
		return 0, err
	}
	counts := make([]int, cellCount)

	obj := ds.Objective()
	var mergeMu sync.Mutex
	parallel.RangeWithThreshold(ds.N(), parallelThreshold, func(start, end int) {
		// Every worker accumulates into its own histogram and only
		// touches the shared one, under mergeMu, once at the end — the
		// per-instance gradient/hessian lookup never mutates ds, so
		// disjoint instance ranges are safe to process concurrently.
		localGrad := make([]float64, size)
		localHess := make([]float64, size)
		localCounts := make([]int, cellCount)
		grad := make([]float64, vecLen)
		hess := make([]float64, vecLen)

		col.IterateRange(start, end, func(i, bin int) {
			var state []float64
			target := 0
			switch obj {
			case objective.Regression:
				state = ds.Residuals()[i : i+1]
			case objective.BinaryClassification:
				state = ds.Scores()[i : i+1]
				target = ds.TargetClass(i)
			case objective.Multiclass:
				state = ds.InstanceScores(i)
				target = ds.TargetClass(i)
			}
			handler.GradHess(state, target, grad, hess)

			base := bin * vecLen
			for v := 0; v < vecLen; v++ {
				localGrad[base+v] += grad[v]
				localHess[base+v] += hess[v]
			}
			localCounts[bin]++
		})

		mergeMu.Lock()
		for k := range localGrad {
			sumGrad[k] += localGrad[k]
			sumHess[k] += localHess[k]
		}
		for b := range localCounts {
			counts[b] += localCounts[b]
		}
		mergeMu.Unlock()
	})

	parentGrad := make([]float64, vecLen)
	parentHess := make([]float64, vecLen)
	for b := 0; b < cellCount; b++ {
		base := b * vecLen
		floats.Add(parentGrad, sumGrad[base:base+vecLen])
		floats.Add(parentHess, sumHess[base:base+vecLen])
	}

	var total float64
	for b := 0; b < cellCount; b++ {
		if counts[b] < minInstancesPerChild {
			continue
		}
		base := b * vecLen
		total += s.gain(sumGrad[base:base+vecLen], sumHess[base:base+vecLen])
	}
	total -= s.gain(parentGrad, parentHess)

	if total < 0 {
		// Regularization and the min-count guard bound this, but
		// floating-point fuzz near zero can still dip slightly
		// negative; spec.md P6 requires nonnegativity.
		total = 0
	}
	return total, nil
}

func (s *Scorer) gain(grad, hess []float64) float64 {
	var sum float64
	for v := range grad {
		sum += grad[v] * grad[v] / (hess[v] + s.params.Lambda)
	}
	return sum
}

func checkedMul(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	p := a * b
	if p/b != a {
		return 0, errors.NewCapacityExceededError("interaction.Score", "histogram size overflows")
	}
	return p, nil
}

// safeMakeFloat64 allocates a float64 histogram buffer, converting the
// runtime panic a negative or absurd length triggers into a
// ResourceExhaustedError instead of crashing the process, per spec.md
// §7 ("allocation failure of the histogram returns ResourceExhausted").
func safeMakeFloat64(n int) (out []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewResourceExhaustedError("interaction.Score", fmt.Sprintf("%v", r))
		}
	}()
	out = make([]float64, n)
	return out, nil
}
