// Package metrics provides standalone loss computations used to
// independently verify the round-level metrics ModelUpdateApplier
// produces as part of the same pass that updates residuals/scores.
package metrics

import (
	"math"

	"github.com/ebmcore/ebmcore/pkg/errors"
)

// MSE computes the mean squared error between a residual array (target
// minus prediction, already incorporating the round's update) and a
// zero baseline, i.e. the mean of the squared residuals themselves.
func MSE(residuals []float64) (float64, error) {
	n := len(residuals)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty residual vector")
	}

	var sum float64
	for _, r := range residuals {
		sum += r * r
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error of a residual array.
func RMSE(residuals []float64) (float64, error) {
	mse, err := MSE(residuals)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error of a residual array.
func MAE(residuals []float64) (float64, error) {
	n := len(residuals)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty residual vector")
	}

	var sum float64
	for _, r := range residuals {
		sum += math.Abs(r)
	}
	return sum / float64(n), nil
}

// BinaryLogLoss computes mean binary log-loss from post-update predictor
// scores (logits) and {0,1} targets, using the same softplus form
// ModelUpdateApplier uses internally — softplus(-score) for a positive
// target, softplus(score) for a negative one.
func BinaryLogLoss(scores []float64, targets []int) (float64, error) {
	n := len(scores)
	if n == 0 {
		return 0, errors.NewValueError("BinaryLogLoss", "empty score vector")
	}
	if len(targets) != n {
		return 0, errors.NewDimensionError("BinaryLogLoss", n, len(targets), 0)
	}

	var sum float64
	for i, s := range scores {
		if targets[i] == 1 {
			sum += softplus(-s)
		} else {
			sum += softplus(s)
		}
	}
	return sum / float64(n), nil
}

func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}
