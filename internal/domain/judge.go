package domain

import (
	"errors"
	"fmt"
)

// MinJudgeScore is the lowest score a judge may give; the top is MaxScore.
const MinJudgeScore = 1.0

// JudgeKey names a criterion in the judge's grading form.
type JudgeKey string

const (
	JudgeTecnica     JudgeKey = "tecnica"
	JudgeCreatividad JudgeKey = "creatividad"
	JudgeVinculacion JudgeKey = "vinculacion"
	JudgeBienestar   JudgeKey = "bienestar"
	JudgeUsoIA       JudgeKey = "uso_ia"
	JudgeImpacto     JudgeKey = "impacto"
)

// JudgeRubric maps the grading form keys onto the rubric, in display order.
var JudgeRubric = []struct {
	Key       JudgeKey
	Criterion CriterionKey
}{
	{JudgeTecnica, CalidadTecnica},
	{JudgeCreatividad, Creatividad},
	{JudgeVinculacion, VinculacionTematica},
	{JudgeBienestar, BienestarColectivo},
	{JudgeUsoIA, UsoResponsableIA},
	{JudgeImpacto, PotencialImpacto},
}

type JudgeStatus string

const (
	JudgeDraft     JudgeStatus = "borrador"
	JudgeCompleted JudgeStatus = "completada"
)

var ErrMissingEssayID = errors.New("ensayo_id es requerido")

// JudgeEvaluation is one judge's manual grading of an essay.
type JudgeEvaluation struct {
	ID             int64                `json:"id,omitempty"`
	EssayID        int64                `json:"ensayo_id,omitempty"`
	Scores         map[JudgeKey]float64 `json:"puntajes"`
	Comments       map[JudgeKey]string  `json:"comentarios,omitempty"`
	GeneralComment string               `json:"comentario_general,omitempty"`
	TotalScore     float64              `json:"puntuacion_total"`
	Status         JudgeStatus          `json:"estado,omitempty"`
	ModifiedAt     string               `json:"fecha_modificacion,omitempty"`
}

// Validate requires every criterion scored between MinJudgeScore and MaxScore.
func (j *JudgeEvaluation) Validate() error {
	for _, jc := range JudgeRubric {
		score, ok := j.Scores[jc.Key]
		if !ok {
			return fmt.Errorf("Falta puntaje para criterio: %s", jc.Key)
		}
		if score < MinJudgeScore || score > MaxScore {
			return fmt.Errorf("Puntaje inválido para %s: debe estar entre 1 y 5", jc.Key)
		}
	}
	return nil
}

// WeightedTotal applies the rubric weights to the judge's scores.
func (j *JudgeEvaluation) WeightedTotal() float64 {
	weights := make(map[CriterionKey]float64, len(Rubric))
	for _, info := range Rubric {
		weights[info.Key] = info.Weight
	}

	var total float64
	for _, jc := range JudgeRubric {
		total += j.Scores[jc.Key] * weights[jc.Criterion]
	}
	return total
}

// JudgeSaveResult is the backend's acknowledgement of a saved judge evaluation.
type JudgeSaveResult struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	EvaluationID int64       `json:"evaluacion_id"`
	EssayID      int64       `json:"ensayo_id"`
	Status       JudgeStatus `json:"estado"`
}
