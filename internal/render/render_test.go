package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvaluation() *domain.Evaluation {
	noAnnex := false
	return &domain.Evaluation{
		TotalScore:       4.2,
		OriginalFileName: "ana_gomez.pdf",
		EvaluatedAt:      "2025-03-01 10:00:00",
		HasAnnex:         &noAnnex,
		CalidadTecnica: &domain.Criterion{
			Score:   4,
			Comment: "Argumentación\nsólida",
			Fragments: []domain.Fragment{
				{Text: "la IA transforma", Reason: "tesis clara", Impact: domain.ImpactPositive},
				{Text: "sin fuentes", Reason: "falta evidencia", Impact: domain.ImpactNegative},
			},
		},
		Creatividad:    &domain.Criterion{Score: 4.5, Comment: "Original"},
		GeneralComment: "Buen ensayo",
	}
}

func TestEvaluation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Evaluation(&buf, sampleEvaluation()))
	out := buf.String()

	assert.Contains(t, out, "=== Ana Gomez ===")
	assert.Contains(t, out, "Puntuación total: 4.20/5.00")
	assert.Contains(t, out, "Sin anexo de uso de IA")
	assert.Contains(t, out, "Calidad Técnica")
	assert.Contains(t, out, "4/5")
	assert.Contains(t, out, "4.5/5")
	assert.Contains(t, out, "Argumentación sólida")
	assert.Contains(t, out, `✓ Aspecto Positivo: "la IA transforma"`)
	assert.Contains(t, out, `✗ Área de Mejora: "sin fuentes"`)
	assert.Contains(t, out, "Buen ensayo")
	assert.NotContains(t, out, "Potencial de Impacto")
}

func TestEvaluation_TotalFormatting(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Evaluation(&buf, &domain.Evaluation{TotalScore: 3.5}))
	assert.Contains(t, buf.String(), "3.50/5.00")
	assert.Contains(t, buf.String(), "=== Ensayo ===")
}

func TestEssayList(t *testing.T) {
	judge := 3.75
	var buf bytes.Buffer
	require.NoError(t, EssayList(&buf, []domain.EssaySummary{
		{ID: 7, FileName: "x.pdf", OriginalFileName: "luis_perez.pdf", TotalScore: 4.5, HasAnnex: true, JudgeScore: &judge},
		{ID: 3, FileName: "maria.pdf", TotalScore: 3},
	}))
	out := buf.String()

	assert.Contains(t, out, "Luis Perez")
	assert.Contains(t, out, "4.50/5.00")
	assert.Contains(t, out, "3.75")
	assert.Contains(t, out, "Maria")
	assert.Contains(t, out, "3.00/5.00")
}

func TestEssayList_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EssayList(&buf, nil))
	assert.Contains(t, buf.String(), "No hay ensayos evaluados")
}

func TestComparison_SortsByScore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Comparison(&buf, &domain.Comparison{
		Analysis: "Gana B",
		Essays: []domain.Evaluation{
			{FileName: "a.pdf", TotalScore: 3.1},
			{FileName: "b.pdf", TotalScore: 4.6},
		},
	}))
	out := buf.String()

	assert.Less(t, bytes.Index(buf.Bytes(), []byte("B ")), bytes.Index(buf.Bytes(), []byte("A ")))
	assert.Contains(t, out, "Gana B")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleEvaluation()))

	var back domain.Evaluation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 4.2, back.TotalScore)
	assert.Contains(t, buf.String(), "\n  \"puntuacion_total\"")
}

func TestCriteriaSideBySide(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CriteriaSideBySide(&buf, []domain.Evaluation{
		*sampleEvaluation(),
		{FileName: "luis.pdf", TotalScore: 3, Creatividad: &domain.Criterion{Score: 2}},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, len(domain.Rubric)+3)
	assert.Contains(t, lines[0], "Ana Gomez")
	assert.Contains(t, lines[0], "Luis")
	assert.Regexp(t, `^Calidad Técnica\s+4/5\s+—$`, lines[2])
	assert.Regexp(t, `^Creatividad\s+4\.5/5\s+2/5$`, lines[3])
	assert.Regexp(t, `^Total\s+4\.20\s+3\.00$`, lines[len(lines)-1])
}

func TestJudgeEvaluation(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JudgeEvaluation(&buf, nil))
	assert.Contains(t, buf.String(), "Sin evaluación del jurado")

	buf.Reset()
	require.NoError(t, JudgeEvaluation(&buf, &domain.JudgeEvaluation{
		EssayID:        4,
		Scores:         map[domain.JudgeKey]float64{domain.JudgeTecnica: 5, domain.JudgeUsoIA: 3},
		Comments:       map[domain.JudgeKey]string{domain.JudgeUsoIA: "Declara\nherramientas"},
		GeneralComment: "Sólido",
		TotalScore:     4.1,
		Status:         domain.JudgeCompleted,
	}))
	out := buf.String()

	assert.Contains(t, out, "ensayo 4, completada")
	assert.Contains(t, out, "4.10/5.00")
	assert.Regexp(t, `Calidad Técnica\s+5/5`, out)
	assert.Regexp(t, `Uso Responsable de IA\s+3/5\s+Declara herramientas`, out)
	assert.Regexp(t, `Potencial de Impacto\s+—`, out)
	assert.Contains(t, out, "Sólido")
}

func TestCriteriaList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CriteriaList(&buf, &domain.CriteriaList{}))
	assert.Contains(t, buf.String(), "No hay criterios personalizados")

	buf.Reset()
	require.NoError(t, CriteriaList(&buf, &domain.CriteriaList{Total: 1, Criteria: []domain.CustomCriterion{
		{ID: 8, Name: "Claridad", Description: "Ideas bien expresadas", Weight: 22.5, Icon: "📝", Order: 1, Active: true},
	}}))
	assert.Regexp(t, `1\s+8\s+📝\s+Claridad\s+22\.5%\s+Ideas bien expresadas`, buf.String())
}
