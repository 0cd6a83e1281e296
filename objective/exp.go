package objective

import (
	"math"

	"github.com/ebmcore/ebmcore/pkg/errors"
)

// Exp is the engine's single entry point for exponentiation inside
// softmax/sigmoid/log-loss computations. It is monotone and never
// returns NaN or +/-Inf for a finite input: it delegates to
// pkg/errors.StabilizeExp, which clamps inputs above 700 to exp(700)
// instead of letting math.Exp overflow to +Inf, and returns 0 for
// inputs below -700.
func Exp(x float64) float64 {
	return errors.StabilizeExp(x)
}

// Sigmoid returns 1 / (1 + exp(-x)), computed from Exp so it inherits
// the same overflow guard.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + Exp(-x))
}

// Softplus returns log(1 + exp(x)), computed in the numerically stable
// form that avoids overflow for large positive x and avoids catastrophic
// cancellation for large negative x.
func Softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(Exp(-x))
	}
	return math.Log1p(Exp(x))
}

// LogSumExp computes log(sum(exp(values))), optionally subtracting the
// per-instance max before exponentiating. The max-subtraction step is
// the spec's Open Question on multiclass softmax stability: the source
// implementation does not subtract the max, so StabilizeSoftmax defaults
// to false to match it, but callers that observe overflow on extreme
// scores should enable it.
func LogSumExp(values []float64, stabilize bool) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	if !stabilize {
		sum := 0.0
		for _, v := range values {
			sum += Exp(v)
		}
		return math.Log(sum)
	}

	maxVal := values[0]
	for _, v := range values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if math.IsInf(maxVal, -1) {
		return math.Inf(-1)
	}
	sum := 0.0
	for _, v := range values {
		sum += Exp(v - maxVal)
	}
	return maxVal + math.Log(sum)
}
