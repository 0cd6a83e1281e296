package ebm

import "gonum.org/v1/gonum/stat"

// MetricSummary is the mean/variance pair DescribeMetric returns over a
// sequence of round metrics.
type MetricSummary struct {
	Mean     float64
	Variance float64
}

// DescribeMetric is an ambient convenience the outer collaborator may
// call to summarize a sequence of round-level validation metrics for
// its own logging. It does not influence boosting or interaction
// scoring and is not a form of autotuning — spec.md's non-goal there is
// about hyperparameter search, not post-hoc descriptive statistics.
func DescribeMetric(metrics []float64) MetricSummary {
	if len(metrics) == 0 {
		return MetricSummary{}
	}
	mean, variance := stat.MeanVariance(metrics, nil)
	return MetricSummary{Mean: mean, Variance: variance}
}
