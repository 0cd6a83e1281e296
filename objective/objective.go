// Package objective holds the per-objective gradient, hessian, and loss
// primitives that boosting and interaction both dispatch through.
//
// Regression and BinaryClassification are monomorphic branches; Multiclass
// dispatches by class count through the chain in dispatch.go, matching
// the template recursion CompilerRecursiveGetInteractionScore uses in the
// reference implementation to force monomorphization for small, common
// class counts and fall back to a dynamic path otherwise.
package objective

import (
	"github.com/ebmcore/ebmcore/pkg/errors"
)

// Kind tags which objective an engine instance was created for.
type Kind int

const (
	// Regression is squared-error regression. V=1, residuals only.
	Regression Kind = iota
	// BinaryClassification is two-class log-loss. V=1, predictor scores
	// only; the expanded-binary-logits convention (V=2) has no numeric path.
	BinaryClassification
	// Multiclass is C-class log-loss, C>=3. V=C, predictor scores only.
	Multiclass
)

func (k Kind) String() string {
	switch k {
	case Regression:
		return "regression"
	case BinaryClassification:
		return "binary_classification"
	case Multiclass:
		return "multiclass"
	default:
		return "unknown"
	}
}

// MaxMonomorphicClasses bounds the class counts objective.Dispatch
// monomorphizes directly; above this the dynamic-C path is used.
const MaxMonomorphicClasses = 8

// MinMulticlassClasses is the smallest C for which Multiclass is valid;
// two-class problems must use BinaryClassification instead.
const MinMulticlassClasses = 3

// VectorLength returns V, the number of values stored per instance (or
// per tensor cell), for an objective/class-count pair.
func VectorLength(k Kind, numClasses int) (int, error) {
	switch k {
	case Regression, BinaryClassification:
		return 1, nil
	case Multiclass:
		if numClasses < MinMulticlassClasses {
			return 0, errors.NewInvalidArgumentError("objective.VectorLength", "multiclass requires numClasses >= 3")
		}
		return numClasses, nil
	default:
		return 0, errors.NewInvalidArgumentError("objective.VectorLength", "unknown objective kind")
	}
}
