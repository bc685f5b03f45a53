package stubapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/labstack/echo/v4"
)

// utf8BOM lets spreadsheet apps detect the encoding of the CSV export.
const utf8BOM = "\ufeff"

// listEssays flags the essays the signed-in judge has already graded.
func (a *API) listEssays(c echo.Context) error {
	user := currentUser(c)
	essays := a.essays.List()
	for i := range essays {
		if jev, ok := a.judges.Get(user, essays[i].ID); ok {
			score := jev.TotalScore
			essays[i].JudgeEvaluated = true
			essays[i].JudgeScore = &score
		}
	}
	return c.JSON(http.StatusOK, essays)
}

func (a *API) getEssay(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.NewValidationWrap("id de ensayo inválido", err)
	}
	ev, ok := a.essays.Get(id)
	if !ok {
		return &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "Ensayo no encontrado"}
	}
	return c.JSON(http.StatusOK, ev)
}

type compareRequest struct {
	EssayIDs []int64 `json:"essay_ids"`
}

func (a *API) compare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("cuerpo inválido", err)
	}
	if len(req.EssayIDs) < 2 {
		return apperr.NewValidation("Debe proporcionar al menos 2 ensayos para comparar")
	}

	essays := make([]domain.Evaluation, 0, len(req.EssayIDs))
	for _, id := range req.EssayIDs {
		ev, ok := a.essays.Get(id)
		if !ok {
			return &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "Algunos ensayos no fueron encontrados"}
		}
		essays = append(essays, *ev)
	}

	return c.JSON(http.StatusOK, domain.Comparison{
		Analysis: rankingSummary(essays),
		Essays:   essays,
	})
}

func rankingSummary(essays []domain.Evaluation) string {
	ranked := append([]domain.Evaluation(nil), essays...)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].TotalScore > ranked[j-1].TotalScore; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	var b strings.Builder
	b.WriteString("Ranking final:\n")
	for i, ev := range ranked {
		fmt.Fprintf(&b, "%d. %s (%s/5.00)\n", i+1, ev.DisplayTitle(), domain.FormatScore(ev.TotalScore))
	}
	fmt.Fprintf(&b, "Ganador: %s", ranked[0].DisplayTitle())
	return b.String()
}

func (a *API) exportCSV(c echo.Context) error {
	summaries := a.essays.List()
	if len(summaries) == 0 {
		return &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "No hay ensayos para exportar"}
	}

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)

	header := []string{"Ranking", "Puntuación Total", "Nombre de Archivo"}
	for _, info := range domain.Rubric {
		header = append(header, info.Label)
	}
	header = append(header, "Tiene Anexo", "Fecha Evaluación")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, s := range summaries {
		ev, ok := a.essays.Get(s.ID)
		if !ok {
			continue
		}
		name := ev.OriginalFileName
		if name == "" {
			name = ev.FileName
		}
		row := []string{strconv.Itoa(i + 1), domain.FormatScore(ev.TotalScore), name}
		for _, info := range domain.Rubric {
			score := "N/A"
			if cr := ev.Criterion(info.Key); cr != nil {
				score = strconv.FormatFloat(cr.Score, 'f', -1, 64)
			}
			row = append(row, score+"/5")
		}
		annex := "No"
		if s.HasAnnex {
			annex = "Sí"
		}
		row = append(row, annex, ev.EvaluatedAt)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	fileName := fmt.Sprintf("ensayos_evaluados_%s.csv", time.Now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
