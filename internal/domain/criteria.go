package domain

import (
	"errors"
	"strings"
)

const (
	DefaultCriterionWeight = 20.0
	MaxCriterionWeight     = 100.0
	DefaultCriterionIcon   = "📝"
)

var (
	ErrCriterionText   = errors.New("Nombre y descripción son requeridos")
	ErrCriterionWeight = errors.New("El peso debe estar entre 0 y 100")
)

// CustomCriterion is a user-defined grading criterion.
type CustomCriterion struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Weight      float64 `json:"peso"`
	Icon        string  `json:"icono,omitempty"`
	Order       int     `json:"orden"`
	Active      bool    `json:"activo"`
}

// ValidateCriterionWeight accepts weights in (0, 100].
func ValidateCriterionWeight(w float64) error {
	if w <= 0 || w > MaxCriterionWeight {
		return ErrCriterionWeight
	}
	return nil
}

func (c *CustomCriterion) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Description) == "" {
		return ErrCriterionText
	}
	return ValidateCriterionWeight(c.Weight)
}

// CriterionPatch is a partial update; nil fields are left unchanged.
type CriterionPatch struct {
	Name        *string  `json:"nombre,omitempty"`
	Description *string  `json:"descripcion,omitempty"`
	Weight      *float64 `json:"peso,omitempty"`
	Icon        *string  `json:"icono,omitempty"`
	Order       *int     `json:"orden,omitempty"`
	Active      *bool    `json:"activo,omitempty"`
}

func (p CriterionPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrCriterionText
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return ErrCriterionText
	}
	if p.Weight != nil {
		return ValidateCriterionWeight(*p.Weight)
	}
	return nil
}

func (p CriterionPatch) Apply(c *CustomCriterion) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if p.Weight != nil {
		c.Weight = *p.Weight
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}

type CriterionOrder struct {
	ID    int64 `json:"id"`
	Order int   `json:"orden"`
}

type CriteriaList struct {
	Criteria []CustomCriterion `json:"criterios"`
	Total    int               `json:"total"`
}
