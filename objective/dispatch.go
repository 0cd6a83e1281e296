package objective

import "github.com/ebmcore/ebmcore/pkg/errors"

// Handler is the monomorphized-or-dynamic entry point boosting and
// interaction both dispatch through once an engine's objective and
// class count are known. GradHess and Loss never allocate for class
// counts covered by the monomorphic chain (2..MaxMonomorphicClasses);
// above that they fall back to a dynamic, allocating implementation.
type Handler struct {
	VecLen  int
	GradHess func(scores []float64, target int, grad, hess []float64)
	Loss    func(scores []float64, target int) float64
}

// Dispatch resolves a Handler for an objective and (for Multiclass) a
// runtime class count. It mirrors the reference implementation's
// CompilerRecursiveGetInteractionScore: a chain that checks the runtime
// class count against each compiler-known value in turn and recurses to
// the next, with the tail falling back to the dynamic-C implementation.
func Dispatch(kind Kind, numClasses int, stabilize bool) (Handler, error) {
	switch kind {
	case Regression:
		return Handler{
			VecLen: 1,
			GradHess: func(scores []float64, target int, grad, hess []float64) {
				g, h := RegressionGradient(scores[0])
				grad[0], hess[0] = g, h
			},
			Loss: func(scores []float64, _ int) float64 {
				return RegressionLoss(scores[0])
			},
		}, nil
	case BinaryClassification:
		return Handler{
			VecLen: 1,
			GradHess: func(scores []float64, target int, grad, hess []float64) {
				g, h := BinaryGradient(scores[0], target)
				grad[0], hess[0] = g, h
			},
			Loss: func(scores []float64, target int) float64 {
				return BinaryLoss(scores[0], target)
			},
		}, nil
	case Multiclass:
		if numClasses < MinMulticlassClasses {
			return Handler{}, errors.NewInvalidArgumentError("objective.Dispatch", "multiclass requires numClasses >= 3")
		}
		return dispatchMulticlass(2, numClasses, stabilize), nil
	default:
		return Handler{}, errors.NewInvalidArgumentError("objective.Dispatch", "unknown objective kind")
	}
}

// dispatchMulticlass is the compile-time-unrolled chain: at each step it
// either resolves the monomorphic path for compilerC (a fixed-size
// on-stack scratch buffer, no heap allocation) or recurses to
// compilerC+1. The tail beyond MaxMonomorphicClasses resolves the
// dynamic, allocating path.
func dispatchMulticlass(compilerC, numClasses int, stabilize bool) Handler {
	if compilerC > MaxMonomorphicClasses {
		return dynamicMulticlassHandler(numClasses, stabilize)
	}
	if compilerC == numClasses {
		return monomorphicMulticlassHandler(compilerC, stabilize)
	}
	return dispatchMulticlass(compilerC+1, numClasses, stabilize)
}

// monomorphicMulticlassHandler returns a Handler whose GradHess uses a
// fixed [MaxMonomorphicClasses]float64 scratch array sized exactly to
// compilerC, avoiding the heap allocation the dynamic path needs for an
// unknown-at-compile-time class count.
func monomorphicMulticlassHandler(compilerC int, stabilize bool) Handler {
	return Handler{
		VecLen: compilerC,
		GradHess: func(scores []float64, target int, grad, hess []float64) {
			var probsArr [MaxMonomorphicClasses]float64
			probs := probsArr[:compilerC]
			multiclassGradHess(scores, target, stabilize, probs, grad, hess)
		},
		Loss: func(scores []float64, target int) float64 {
			return MulticlassLoss(scores, target, stabilize)
		},
	}
}

func dynamicMulticlassHandler(numClasses int, stabilize bool) Handler {
	return Handler{
		VecLen: numClasses,
		GradHess: func(scores []float64, target int, grad, hess []float64) {
			probs := make([]float64, numClasses)
			multiclassGradHess(scores, target, stabilize, probs, grad, hess)
		},
		Loss: func(scores []float64, target int) float64 {
			return MulticlassLoss(scores, target, stabilize)
		},
	}
}

// multiclassGradHess is the shared inner loop both the monomorphic and
// dynamic paths call, parameterized only by the caller-provided probs
// scratch space so the monomorphic path can pass a stack array slice
// and the dynamic path can pass a heap slice.
func multiclassGradHess(scores []float64, target int, stabilize bool, probs, grad, hess []float64) {
	c := len(scores)
	maxVal := 0.0
	if stabilize {
		maxVal = scores[0]
		for _, s := range scores[1:] {
			if s > maxVal {
				maxVal = s
			}
		}
	}
	denom := 0.0
	for v, s := range scores {
		e := Exp(s - maxVal)
		probs[v] = e
		denom += e
	}
	for v := 0; v < c; v++ {
		p := probs[v] / denom
		label := 0.0
		if v == target {
			label = 1.0
		}
		grad[v] = label - p
		hess[v] = p * (1 - p)
	}
}
