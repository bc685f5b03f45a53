package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

// JudgeEvaluation writes a judge's scores next to the rubric labels. A nil
// evaluation means the essay has not been graded by this judge.
func JudgeEvaluation(w io.Writer, ev *domain.JudgeEvaluation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if ev == nil {
		fmt.Fprintln(tw, "Sin evaluación del jurado")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "Evaluación del jurado (ensayo %d, %s)\n", ev.EssayID, ev.Status)
	if ev.ModifiedAt != "" {
		fmt.Fprintf(tw, "Modificada: %s\n", ev.ModifiedAt)
	}
	fmt.Fprintf(tw, "Puntuación total: %s/%s\n\n", domain.FormatScore(ev.TotalScore), domain.FormatScore(domain.MaxScore))

	labels := make(map[domain.CriterionKey]string, len(domain.Rubric))
	for _, info := range domain.Rubric {
		labels[info.Key] = info.Label
	}

	header := []string{"Criterio", "Calificación", "Comentario"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))
	for _, jc := range domain.JudgeRubric {
		score, ok := ev.Scores[jc.Key]
		cell := "—"
		if ok {
			cell = trimScore(score) + "/5"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", labels[jc.Criterion], cell, oneLine(ev.Comments[jc.Key]))
	}

	if ev.GeneralComment != "" {
		fmt.Fprintf(tw, "\nComentario general:\n%s\n", ev.GeneralComment)
	}
	return tw.Flush()
}

func CriteriaList(w io.Writer, list *domain.CriteriaList) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if list == nil || len(list.Criteria) == 0 {
		fmt.Fprintln(tw, "No hay criterios personalizados")
		return tw.Flush()
	}

	header := []string{"Orden", "ID", "", "Nombre", "Peso", "Descripción"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))
	for _, cr := range list.Criteria {
		row := []string{
			fmt.Sprintf("%d", cr.Order),
			fmt.Sprintf("%d", cr.ID),
			cr.Icon,
			cr.Name,
			trimScore(cr.Weight) + "%",
			oneLine(cr.Description),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
