package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullJudgeScores(v float64) map[JudgeKey]float64 {
	scores := make(map[JudgeKey]float64, len(JudgeRubric))
	for _, jc := range JudgeRubric {
		scores[jc.Key] = v
	}
	return scores
}

func TestJudgeEvaluation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scores  map[JudgeKey]float64
		wantErr string
	}{
		{name: "all scored", scores: fullJudgeScores(3)},
		{name: "missing criterion", scores: map[JudgeKey]float64{JudgeTecnica: 3}, wantErr: "Falta puntaje para criterio: creatividad"},
		{name: "below one", scores: fullJudgeScores(0), wantErr: "Puntaje inválido para tecnica: debe estar entre 1 y 5"},
		{name: "above five", scores: fullJudgeScores(5.5), wantErr: "Puntaje inválido para tecnica: debe estar entre 1 y 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&JudgeEvaluation{Scores: tt.scores}).Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestJudgeEvaluation_WeightedTotal(t *testing.T) {
	j := &JudgeEvaluation{Scores: fullJudgeScores(4)}
	assert.InDelta(t, 4.0, j.WeightedTotal(), 1e-9)

	j.Scores[JudgeImpacto] = 1
	assert.InDelta(t, 3.7, j.WeightedTotal(), 1e-9)
}

func TestCustomCriterion_Validate(t *testing.T) {
	ok := CustomCriterion{Name: "Claridad", Description: "Ideas bien expresadas", Weight: 25}
	require.NoError(t, ok.Validate())

	blank := ok
	blank.Name = "  "
	assert.ErrorIs(t, blank.Validate(), ErrCriterionText)

	for _, w := range []float64{0, -1, 100.5} {
		bad := ok
		bad.Weight = w
		assert.ErrorIs(t, bad.Validate(), ErrCriterionWeight, "weight %v", w)
	}

	top := ok
	top.Weight = MaxCriterionWeight
	assert.NoError(t, top.Validate())
}

func TestCriterionPatch(t *testing.T) {
	weight := 150.0
	assert.ErrorIs(t, CriterionPatch{Weight: &weight}.Validate(), ErrCriterionWeight)

	empty := ""
	assert.ErrorIs(t, CriterionPatch{Name: &empty}.Validate(), ErrCriterionText)

	name, order, active := " Coherencia ", 3, false
	c := CustomCriterion{Name: "Claridad", Description: "d", Weight: 20, Active: true}
	p := CriterionPatch{Name: &name, Order: &order, Active: &active}
	require.NoError(t, p.Validate())
	p.Apply(&c)

	assert.Equal(t, CustomCriterion{Name: "Coherencia", Description: "d", Weight: 20, Order: 3}, c)
}
