package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

type criterionEnvelope struct {
	Success   bool                   `json:"success"`
	Criterion domain.CustomCriterion `json:"criterio"`
}

type reorderRequest struct {
	Criteria []domain.CriterionOrder `json:"criterios"`
}

func (c *Client) ListCriteria(ctx context.Context) (*domain.CriteriaList, error) {
	var list domain.CriteriaList
	if err := c.do(ctx, "list criteria", http.MethodGet, nil, &list, "api", "criterios"); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateCriterion adds a custom criterion. A zero weight or empty icon takes
// the backend defaults.
func (c *Client) CreateCriterion(ctx context.Context, cr domain.CustomCriterion) (*domain.CustomCriterion, error) {
	if cr.Weight == 0 {
		cr.Weight = domain.DefaultCriterionWeight
	}
	if cr.Icon == "" {
		cr.Icon = domain.DefaultCriterionIcon
	}
	if err := cr.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid criterion", err)
	}

	var env criterionEnvelope
	if err := c.do(ctx, "create criterion", http.MethodPost, cr, &env, "api", "criterios"); err != nil {
		return nil, err
	}
	return &env.Criterion, nil
}

func (c *Client) UpdateCriterion(ctx context.Context, id int64, patch domain.CriterionPatch) (*domain.CustomCriterion, error) {
	if err := patch.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid criterion", err)
	}

	var env criterionEnvelope
	if err := c.do(ctx, "update criterion", http.MethodPut, patch, &env,
		"api", "criterios", strconv.FormatInt(id, 10)); err != nil {
		return nil, err
	}
	return &env.Criterion, nil
}

// DeleteCriterion deactivates a criterion; the backend keeps the record.
func (c *Client) DeleteCriterion(ctx context.Context, id int64) error {
	return c.do(ctx, "delete criterion", http.MethodDelete, nil, nil, "api", "criterios", strconv.FormatInt(id, 10))
}

func (c *Client) ReorderCriteria(ctx context.Context, order []domain.CriterionOrder) error {
	if len(order) == 0 {
		return apperr.NewValidation("no criteria to reorder")
	}
	return c.do(ctx, "reorder criteria", http.MethodPost, reorderRequest{Criteria: order}, nil,
		"api", "criterios", "reordenar")
}
