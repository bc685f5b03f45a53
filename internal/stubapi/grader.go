package stubapi

import (
	"context"
	"crypto/sha256"
	"strings"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/DjordjeVuckovic/essay-grader/pkg/utils"
)

// Grader turns essay text into an evaluation.
type Grader interface {
	Grade(ctx context.Context, text string) (*domain.Evaluation, error)
}

type GraderFunc func(ctx context.Context, text string) (*domain.Evaluation, error)

func (f GraderFunc) Grade(ctx context.Context, text string) (*domain.Evaluation, error) {
	return f(ctx, text)
}

// DigestGrader scores deterministically from the text digest: the same text
// always gets the same grades, which is all a development backend needs.
type DigestGrader struct{}

func (DigestGrader) Grade(ctx context.Context, text string) (*domain.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(text))
	ev := &domain.Evaluation{
		FullText:       text,
		GeneralComment: "Evaluación generada por el backend de desarrollo",
	}
	for i, info := range domain.Rubric {
		score := float64(1 + int(sum[i])%5)
		ev.SetCriterion(info.Key, &domain.Criterion{
			Score:     score,
			Comment:   info.Label + ": calificación " + strings.Repeat("★", int(score)),
			Fragments: fragmentFor(text, score),
		})
	}
	ev.TotalScore = utils.RoundDecimal(ev.WeightedTotal(), 2)
	return ev, nil
}

func fragmentFor(text string, score float64) []domain.Fragment {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	excerpt := strings.Join(words[:min(8, len(words))], " ")

	impact, reason := domain.ImpactNegative, "Puede desarrollarse con más profundidad"
	if score >= 3 {
		impact, reason = domain.ImpactPositive, "Idea bien planteada"
	}
	return []domain.Fragment{{Text: excerpt, Reason: reason, Impact: impact}}
}
