// Package boosting implements ModelUpdateApplier: the per-round pass that
// applies a boosting round's update tensor to a DataSet's residuals or
// predictor scores and, for the validation role, reduces the result to a
// scalar metric.
package boosting

// LogitEncoding selects the binary-classification score representation,
// the V=1-vs-V=2 Open Question of spec.md §9. The source picks this at
// build time via an EXPAND_BINARY_LOGITS macro; this engine exposes it
// as a runtime config flag instead so the outer collaborator can state
// its convention per engine instance. Applier accepts only SingleLogit.
type LogitEncoding int

const (
	// SingleLogit is the default, matching the source's #ifndef branch:
	// V=1, one logit per instance, probability = sigmoid(score).
	SingleLogit LogitEncoding = iota
	// ExpandedLogits names the EXPAND_BINARY_LOGITS branch (V=2, one
	// score per class, probability = softmax(scores)). Applier rejects it
	// with an InvalidArgumentError; no numeric path implements V=2.
	ExpandedLogits
)

func (e LogitEncoding) String() string {
	if e == ExpandedLogits {
		return "expanded_logits"
	}
	return "single_logit"
}

// Params carries the per-engine configuration ModelUpdateApplier needs
// beyond the objective tag itself, mirroring the teacher's TrainingParams
// json-tagged config struct.
type Params struct {
	// BinaryLogitEncoding picks the V=1 vs V=2 binary convention, the
	// Open Question of spec.md §9. Defaults to SingleLogit.
	BinaryLogitEncoding LogitEncoding `json:"binary_logit_encoding"`
	// StabilizeSoftmax subtracts the per-instance max score before
	// exponentiating in the multiclass path, the other Open Question of
	// spec.md §9. The source does not subtract the max; default false
	// matches it, but callers seeing overflow on extreme scores should
	// enable it.
	StabilizeSoftmax bool `json:"stabilize_softmax"`
}
