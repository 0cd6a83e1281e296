// Package interaction implements InteractionScorer: a read-only pass
// over a DataSet that scores how much better the data fits when
// partitioned by a candidate feature combination, without mutating any
// model state. The outer collaborator uses the score to rank candidate
// feature pairs for the next boosting round.
package interaction

// Params carries the regularization and guard-rail configuration the
// outer collaborator supplies, per spec.md §4.4 and the Open Question of
// §9 ("Regularization constant λ ... is not explicit in the source; the
// outer collaborator MUST supply it").
type Params struct {
	// Lambda is the L2-style regularization constant added to the
	// hessian sum in the gain formula g^2/(h+Lambda).
	Lambda float64 `json:"lambda"`
	// StabilizeSoftmax mirrors boosting.Params.StabilizeSoftmax for the
	// multiclass gradient/hessian computation the scorer shares with
	// objective.Dispatch.
	StabilizeSoftmax bool `json:"stabilize_softmax"`
}
