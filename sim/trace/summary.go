package trace

// Summary aggregates statistics from a CalibrationTrace.
type Summary struct {
	TotalEvaluations int
	BestLoss         float64
	BestParams       []float64
	MeanLoss         float64
}

// Summarize computes aggregate statistics from a CalibrationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *CalibrationTrace) *Summary {
	summary := &Summary{}
	if ct == nil || len(ct.Evaluations) == 0 {
		return summary
	}

	summary.TotalEvaluations = len(ct.Evaluations)
	totalLoss := 0.0
	best := ct.Evaluations[0]
	for _, e := range ct.Evaluations {
		totalLoss += e.Loss
		if e.Loss < best.Loss {
			best = e
		}
	}
	summary.BestLoss = best.Loss
	summary.BestParams = append([]float64(nil), best.Params...)
	summary.MeanLoss = totalLoss / float64(len(ct.Evaluations))

	return summary
}
