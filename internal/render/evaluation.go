package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

// Evaluation writes the total score, the criteria table and the highlighted fragments.
func Evaluation(w io.Writer, ev *domain.Evaluation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	title := ev.DisplayTitle()
	if title == "" {
		title = "Ensayo"
	}
	fmt.Fprintf(tw, "\n=== %s ===\n", title)
	if ev.EvaluatedAt != "" {
		fmt.Fprintf(tw, "Evaluado: %s\n", ev.EvaluatedAt)
	}
	if ev.HasAnnex != nil && !*ev.HasAnnex {
		fmt.Fprintln(tw, "Sin anexo de uso de IA")
	}
	fmt.Fprintf(tw, "\nPuntuación total: %s/%s\n\n", domain.FormatScore(ev.TotalScore), domain.FormatScore(domain.MaxScore))

	writeCriteriaTable(tw, ev)
	writeFragments(tw, ev)

	if ev.GeneralComment != "" {
		fmt.Fprintf(tw, "Comentario general:\n%s\n", ev.GeneralComment)
	}

	return tw.Flush()
}

func writeCriteriaTable(tw *tabwriter.Writer, ev *domain.Evaluation) {
	header := []string{"Criterio", "Peso", "Calificación", "Comentario"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, separator(len(header)))

	for _, info := range domain.Rubric {
		c := ev.Criterion(info.Key)
		if c == nil {
			continue
		}
		row := []string{
			info.Label,
			fmt.Sprintf("%.0f%%", info.Weight*100),
			fmt.Sprintf("%s/5", trimScore(c.Score)),
			oneLine(c.Comment),
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintln(tw)
}

func writeFragments(tw *tabwriter.Writer, ev *domain.Evaluation) {
	for _, info := range domain.Rubric {
		c := ev.Criterion(info.Key)
		if c == nil || len(c.Fragments) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s:\n", info.Label)
		for _, f := range c.Fragments {
			mark, label := "✗", "Área de Mejora"
			if f.Impact == domain.ImpactPositive {
				mark, label = "✓", "Aspecto Positivo"
			}
			fmt.Fprintf(tw, "  %s %s: %q\n", mark, label, f.Text)
			if f.Reason != "" {
				fmt.Fprintf(tw, "    %s\n", f.Reason)
			}
		}
		fmt.Fprintln(tw)
	}
}

func separator(n int) string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return strings.Join(sep, "\t")
}

// trimScore prints whole scores without decimals, as the rubric shows "4/5".
func trimScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
