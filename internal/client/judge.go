package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

type judgeEnvelope struct {
	Evaluation *domain.JudgeEvaluation `json:"evaluacion"`
}

// SaveJudgeEvaluation stores the signed-in judge's grading of an essay. The
// backend keeps one evaluation per judge and essay, so saving again replaces it.
func (c *Client) SaveJudgeEvaluation(ctx context.Context, ev *domain.JudgeEvaluation) (*domain.JudgeSaveResult, error) {
	if ev.EssayID <= 0 {
		return nil, apperr.NewValidationWrap("invalid judge evaluation", domain.ErrMissingEssayID)
	}
	if err := ev.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid judge evaluation", err)
	}

	var res domain.JudgeSaveResult
	if err := c.do(ctx, "save judge evaluation", http.MethodPost, ev, &res, "api", "evaluaciones-jurado"); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetJudgeEvaluation returns nil without error when the judge has not graded
// the essay yet.
func (c *Client) GetJudgeEvaluation(ctx context.Context, essayID int64) (*domain.JudgeEvaluation, error) {
	var env judgeEnvelope
	if err := c.do(ctx, "get judge evaluation", http.MethodGet, nil, &env,
		"api", "evaluaciones-jurado", strconv.FormatInt(essayID, 10)); err != nil {
		return nil, err
	}
	if env.Evaluation != nil && env.Evaluation.EssayID == 0 {
		env.Evaluation.EssayID = essayID
	}
	return env.Evaluation, nil
}
