package objective

// RegressionGradient returns the gradient and hessian for a single
// regression instance: gradient = residual (target - prediction),
// hessian = 1.
//
// This is the residual-as-gradient convention InteractionScorer uses
// (see §4.4 of the spec: "gradient = residual"), the opposite sign of the
// teacher's L2Objective prediction-minus-target convention — callers
// negate as needed.
func RegressionGradient(residual float64) (gradient, hessian float64) {
	return residual, 1.0
}

// BinaryGradient returns the gradient and hessian InteractionScorer
// accumulates for a binary-classification instance: gradient = target -
// p, hessian = p*(1-p), where p = sigmoid(score).
func BinaryGradient(score float64, target int) (gradient, hessian float64) {
	p := Sigmoid(score)
	g := float64(target) - p
	h := p * (1 - p)
	return g, h
}

// MulticlassGradient fills grad and hess (both length C) with the
// per-class gradient and hessian InteractionScorer accumulates for a
// multiclass instance: softmax probabilities p_v, gradient_v = (target
// == v ? 1 : 0) - p_v, hessian_v = p_v*(1-p_v).
func MulticlassGradient(scores []float64, target int, stabilize bool, grad, hess []float64) {
	c := len(scores)
	denom := 0.0
	maxVal := 0.0
	if stabilize {
		maxVal = scores[0]
		for _, s := range scores[1:] {
			if s > maxVal {
				maxVal = s
			}
		}
	}
	probs := make([]float64, c)
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

// BinaryLoss returns the per-instance log-loss for a binary-
// classification score and a {0,1} target: softplus(-score) for a
// positive target, softplus(score) otherwise.
func BinaryLoss(score float64, target int) float64 {
	if target == 1 {
		return Softplus(-score)
	}
	return Softplus(score)
}

// MulticlassLoss returns the per-instance log-loss for a multiclass
// score vector and an integer target: log(sum(exp(scores))) -
// scores[target].
func MulticlassLoss(scores []float64, target int, stabilize bool) float64 {
	return LogSumExp(scores, stabilize) - scores[target]
}

// RegressionLoss returns the per-instance squared error for a residual.
func RegressionLoss(residual float64) float64 {
	return residual * residual
}
