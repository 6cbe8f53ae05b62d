package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("none"))
	assert.True(t, IsValidLevel("evaluations"))
	assert.True(t, IsValidLevel(""))
	assert.False(t, IsValidLevel("everything"))
}

func TestRecordEvaluation_GatedByLevel(t *testing.T) {
	// GIVEN a trace at level none
	off := NewCalibrationTrace(Config{Level: LevelNone})

	// WHEN an evaluation is recorded
	off.RecordEvaluation(EvaluationRecord{Evaluation: 1, Loss: 0.5})

	// THEN nothing is captured
	assert.Empty(t, off.Evaluations)

	// GIVEN a trace at level evaluations
	on := NewCalibrationTrace(Config{Level: LevelEvaluations})

	// WHEN evaluations are recorded
	on.RecordEvaluation(EvaluationRecord{Evaluation: 1, Params: []float64{1, 2}, Loss: 0.5})
	on.RecordEvaluation(EvaluationRecord{Evaluation: 2, Params: []float64{1, 3}, Loss: 0.25})

	// THEN each record is captured in order
	assert.Len(t, on.Evaluations, 2)
	assert.Equal(t, 2, on.Evaluations[1].Evaluation)
}

func TestSummarize(t *testing.T) {
	ct := NewCalibrationTrace(Config{Level: LevelEvaluations})
	ct.RecordEvaluation(EvaluationRecord{Evaluation: 1, Params: []float64{5}, Loss: 0.9})
	ct.RecordEvaluation(EvaluationRecord{Evaluation: 2, Params: []float64{3}, Loss: 0.1})
	ct.RecordEvaluation(EvaluationRecord{Evaluation: 3, Params: []float64{4}, Loss: 0.5})

	s := Summarize(ct)
	assert.Equal(t, 3, s.TotalEvaluations)
	assert.Equal(t, 0.1, s.BestLoss)
	assert.Equal(t, []float64{3}, s.BestParams)
	assert.InDelta(t, 0.5, s.MeanLoss, 1e-12)
}

func TestSummarize_NilAndEmpty(t *testing.T) {
	assert.Equal(t, 0, Summarize(nil).TotalEvaluations)
	assert.Equal(t, 0, Summarize(NewCalibrationTrace(Config{})).TotalEvaluations)
}
