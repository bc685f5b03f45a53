package domain

import (
	"fmt"
	"strings"
)

// MaxScore is the top of the 0-5 rubric scale.
const MaxScore = 5.0

type CriterionKey string

const (
	CalidadTecnica      CriterionKey = "calidad_tecnica"
	Creatividad         CriterionKey = "creatividad"
	VinculacionTematica CriterionKey = "vinculacion_tematica"
	BienestarColectivo  CriterionKey = "bienestar_colectivo"
	UsoResponsableIA    CriterionKey = "uso_responsable_ia"
	PotencialImpacto    CriterionKey = "potencial_impacto"
)

// CriterionInfo describes one weighted rubric dimension.
type CriterionInfo struct {
	Key    CriterionKey
	Label  string
	Weight float64
}

// Rubric lists the fixed criteria in display order. Weights sum to 1.
var Rubric = []CriterionInfo{
	{Key: CalidadTecnica, Label: "Calidad Técnica", Weight: 0.20},
	{Key: Creatividad, Label: "Creatividad", Weight: 0.20},
	{Key: VinculacionTematica, Label: "Vinculación Temática", Weight: 0.15},
	{Key: BienestarColectivo, Label: "Bienestar Colectivo", Weight: 0.20},
	{Key: UsoResponsableIA, Label: "Uso Responsable de IA", Weight: 0.15},
	{Key: PotencialImpacto, Label: "Potencial de Impacto", Weight: 0.10},
}

type Impact string

const (
	ImpactPositive Impact = "positivo"
	ImpactNegative Impact = "negativo"
)

type Fragment struct {
	Text   string `json:"texto"`
	Reason string `json:"razon"`
	Impact Impact `json:"impacto"`
}

type Criterion struct {
	Score     float64    `json:"calificacion"`
	Comment   string     `json:"comentario"`
	Fragments []Fragment `json:"fragmentos_destacados,omitempty"`
}

type Evaluation struct {
	ID                  int64      `json:"id,omitempty"`
	TotalScore          float64    `json:"puntuacion_total"`
	CalidadTecnica      *Criterion `json:"calidad_tecnica,omitempty"`
	Creatividad         *Criterion `json:"creatividad,omitempty"`
	VinculacionTematica *Criterion `json:"vinculacion_tematica,omitempty"`
	BienestarColectivo  *Criterion `json:"bienestar_colectivo,omitempty"`
	UsoResponsableIA    *Criterion `json:"uso_responsable_ia,omitempty"`
	PotencialImpacto    *Criterion `json:"potencial_impacto,omitempty"`

	GeneralComment   string `json:"comentario_general,omitempty"`
	FullText         string `json:"texto_completo,omitempty"`
	FileName         string `json:"nombre_archivo,omitempty"`
	OriginalFileName string `json:"nombre_archivo_original,omitempty"`
	EvaluatedAt      string `json:"fecha_evaluacion,omitempty"`
	HasAnnex         *bool  `json:"tiene_anexo,omitempty"`
}

// Criterion returns the scored criterion for key, or nil when the backend omitted it.
func (e *Evaluation) Criterion(key CriterionKey) *Criterion {
	switch key {
	case CalidadTecnica:
		return e.CalidadTecnica
	case Creatividad:
		return e.Creatividad
	case VinculacionTematica:
		return e.VinculacionTematica
	case BienestarColectivo:
		return e.BienestarColectivo
	case UsoResponsableIA:
		return e.UsoResponsableIA
	case PotencialImpacto:
		return e.PotencialImpacto
	default:
		return nil
	}
}

// SetCriterion stores c under key. Unknown keys are ignored.
func (e *Evaluation) SetCriterion(key CriterionKey, c *Criterion) {
	switch key {
	case CalidadTecnica:
		e.CalidadTecnica = c
	case Creatividad:
		e.Creatividad = c
	case VinculacionTematica:
		e.VinculacionTematica = c
	case BienestarColectivo:
		e.BienestarColectivo = c
	case UsoResponsableIA:
		e.UsoResponsableIA = c
	case PotencialImpacto:
		e.PotencialImpacto = c
	}
}

// WeightedTotal recomputes the total from the criteria present. Missing criteria count as zero.
func (e *Evaluation) WeightedTotal() float64 {
	var total float64
	for _, info := range Rubric {
		if c := e.Criterion(info.Key); c != nil {
			total += c.Score * info.Weight
		}
	}
	return total
}

func (e *Evaluation) Validate() error {
	if e.TotalScore < 0 || e.TotalScore > MaxScore {
		return fmt.Errorf("puntuacion_total %.2f out of range 0-%.0f", e.TotalScore, MaxScore)
	}
	for _, info := range Rubric {
		c := e.Criterion(info.Key)
		if c == nil {
			continue
		}
		if c.Score < 0 || c.Score > MaxScore {
			return fmt.Errorf("%s: calificacion %.2f out of range 0-%.0f", info.Key, c.Score, MaxScore)
		}
	}
	return nil
}

// FormatScore renders a score with two decimals, e.g. 4.2 -> "4.20".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// DisplayTitle derives a human title from the stored file name,
// preferring the original upload name.
func (e *Evaluation) DisplayTitle() string {
	name := e.OriginalFileName
	if name == "" {
		name = e.FileName
	}
	return TitleFromFileName(name)
}

func TitleFromFileName(name string) string {
	name = strings.Replace(name, "_procesado.txt", "", 1)
	name = strings.Replace(name, ".txt", "", 1)
	name = strings.Replace(name, ".pdf", "", 1)

	words := strings.Split(name, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(words, " ")
}
