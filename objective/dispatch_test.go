package objective

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDispatch_MonomorphicAgreesWithDynamic exercises spec.md §8's P4:
// for a class count within the monomorphic chain, GradHess and Loss
// must agree, to float64 bit-for-bit precision, with what the dynamic
// (allocating) path computes for the same inputs. dynamicMulticlassHandler,
// called directly, builds the dynamic branch regardless of numClasses,
// giving a reference to compare against without duplicating
// multiclassGradHess.
func TestDispatch_MonomorphicAgreesWithDynamic(t *testing.T) {
	scores := []float64{0.4, -1.2, 2.1, 0.05, -0.6, 1.8, 0.9, -0.3}

	for c := MinMulticlassClasses; c <= MaxMonomorphicClasses; c++ {
		for target := 0; target < c; target++ {
			mono := monomorphicMulticlassHandler(c, false)
			dyn := dynamicMulticlassHandler(c, false)

			gradMono := make([]float64, c)
			hessMono := make([]float64, c)
			gradDyn := make([]float64, c)
			hessDyn := make([]float64, c)

			row := scores[:c]
			mono.GradHess(row, target, gradMono, hessMono)
			dyn.GradHess(row, target, gradDyn, hessDyn)

			assert.Equal(t, gradDyn, gradMono, "grad mismatch at C=%d target=%d", c, target)
			assert.Equal(t, hessDyn, hessMono, "hess mismatch at C=%d target=%d", c, target)
			assert.Equal(t, dyn.Loss(row, target), mono.Loss(row, target), "loss mismatch at C=%d target=%d", c, target)
		}
	}
}

// TestDispatch_ResolvesMonomorphicBelowThreshold checks Dispatch itself
// (not the two handler constructors directly) picks the monomorphic
// path for class counts at or below MaxMonomorphicClasses and the
// dynamic path above it, by checking VecLen matches the requested class
// count either way — the two constructors differ in allocation
// behavior, not in the values they produce.
func TestDispatch_ResolvesMonomorphicBelowThreshold(t *testing.T) {
	handler, err := Dispatch(Multiclass, MaxMonomorphicClasses, false)
	require.NoError(t, err)
	assert.Equal(t, MaxMonomorphicClasses, handler.VecLen)

	handler, err = Dispatch(Multiclass, MaxMonomorphicClasses+1, false)
	require.NoError(t, err)
	assert.Equal(t, MaxMonomorphicClasses+1, handler.VecLen)
}

// TestDispatch_RegressionAndBinaryLossRoundTrip exercises Handler.Loss
// for the two monomorphic (non-class-count-dispatched) objectives,
// confirming it matches the package-level loss function it wraps.
func TestDispatch_RegressionAndBinaryLossRoundTrip(t *testing.T) {
	reg, err := Dispatch(Regression, 0, false)
	require.NoError(t, err)
	assert.Equal(t, RegressionLoss(1.5), reg.Loss([]float64{1.5}, 0))

	bin, err := Dispatch(BinaryClassification, 2, false)
	require.NoError(t, err)
	assert.Equal(t, BinaryLoss(0.3, 1), bin.Loss([]float64{0.3}, 1))
	assert.False(t, math.IsNaN(bin.Loss([]float64{0.3}, 0)))
}
