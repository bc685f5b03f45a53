package domain

// EssaySummary is one row of the evaluated-essays history.
type EssaySummary struct {
	ID               int64    `json:"id"`
	FileName         string   `json:"nombre_archivo"`
	OriginalFileName string   `json:"nombre_archivo_original,omitempty"`
	TotalScore       float64  `json:"puntuacion_total"`
	EvaluatedAt      string   `json:"fecha_evaluacion,omitempty"`
	HasAnnex         bool     `json:"tiene_anexo"`
	JudgeEvaluated   bool     `json:"evaluado_por_jurado"`
	JudgeScore       *float64 `json:"puntuacion_jurado,omitempty"`
}

func (s EssaySummary) DisplayTitle() string {
	if s.OriginalFileName != "" {
		return TitleFromFileName(s.OriginalFileName)
	}
	return TitleFromFileName(s.FileName)
}

type Comparison struct {
	Analysis string       `json:"comparacion"`
	Essays   []Evaluation `json:"ensayos"`
}
