package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// SortedByScore returns a copy ordered by total score, highest first.
func SortedByScore(evs []domain.Evaluation) []domain.Evaluation {
	out := append([]domain.Evaluation(nil), evs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalScore > out[j].TotalScore
	})
	return out
}
