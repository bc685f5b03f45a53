package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

// EssayList writes the history table in the order given, ranked from 1.
func EssayList(w io.Writer, essays []domain.EssaySummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if len(essays) == 0 {
		fmt.Fprintln(tw, "No hay ensayos evaluados")
		return tw.Flush()
	}

	header := []string{"#", "ID", "Ensayo", "Puntuación", "Jurado", "Anexo", "Fecha"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for i, e := range essays {
		judge := "—"
		if e.JudgeScore != nil {
			judge = domain.FormatScore(*e.JudgeScore)
		}
		annex := "No"
		if e.HasAnnex {
			annex = "Sí"
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", e.ID),
			e.DisplayTitle(),
			domain.FormatScore(e.TotalScore) + "/5.00",
			judge,
			annex,
			e.EvaluatedAt,
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// Comparison writes the analysis followed by the compared essays, best first.
func Comparison(w io.Writer, cmp *domain.Comparison) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"Ensayo", "Puntuación"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))
	for _, ev := range SortedByScore(cmp.Essays) {
		fmt.Fprintf(tw, "%s\t%s\n", ev.DisplayTitle(), domain.FormatScore(ev.TotalScore))
	}
	fmt.Fprintln(tw)

	if cmp.Analysis != "" {
		fmt.Fprintln(tw, cmp.Analysis)
	}
	return tw.Flush()
}

// CriteriaSideBySide writes one row per rubric criterion with a score column
// for each essay, in the order given.
func CriteriaSideBySide(w io.Writer, evs []domain.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := []string{"Criterio"}
	for _, ev := range evs {
		header = append(header, ev.DisplayTitle())
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, info := range domain.Rubric {
		row := []string{info.Label}
		for i := range evs {
			cell := "—"
			if c := evs[i].Criterion(info.Key); c != nil {
				cell = trimScore(c.Score) + "/5"
			}
			row = append(row, cell)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	total := []string{"Total"}
	for _, ev := range evs {
		total = append(total, domain.FormatScore(ev.TotalScore))
	}
	fmt.Fprintln(tw, strings.Join(total, "\t"))

	return tw.Flush()
}
