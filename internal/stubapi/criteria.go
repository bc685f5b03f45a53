package stubapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/labstack/echo/v4"
)

// CriteriaStore holds each user's custom criteria. Deleted criteria stay
// stored as inactive.
type CriteriaStore struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[string][]*domain.CustomCriterion
}

func NewCriteriaStore() *CriteriaStore {
	return &CriteriaStore{byUser: make(map[string][]*domain.CustomCriterion)}
}

// Active returns the user's active criteria ordered by position.
func (s *CriteriaStore) Active(user string) []domain.CustomCriterion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CustomCriterion, 0, len(s.byUser[user]))
	for _, cr := range s.byUser[user] {
		if cr.Active {
			out = append(out, *cr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Create appends cr after the user's last criterion.
func (s *CriteriaStore) Create(user string, cr domain.CustomCriterion) domain.CustomCriterion {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := 0
	for _, existing := range s.byUser[user] {
		last = max(last, existing.Order)
	}
	s.nextID++
	cr.ID = s.nextID
	cr.Order = last + 1
	cr.Active = true
	s.byUser[user] = append(s.byUser[user], &cr)
	return cr
}

// Update applies patch to a criterion the user owns.
func (s *CriteriaStore) Update(user string, id int64, patch domain.CriterionPatch) (domain.CustomCriterion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cr := s.find(user, id)
	if cr == nil {
		return domain.CustomCriterion{}, false
	}
	patch.Apply(cr)
	return *cr, true
}

func (s *CriteriaStore) Deactivate(user string, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cr := s.find(user, id)
	if cr == nil {
		return false
	}
	cr.Active = false
	return true
}

// Reorder sets positions; ids the user does not own are skipped.
func (s *CriteriaStore) Reorder(user string, order []domain.CriterionOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range order {
		if cr := s.find(user, o.ID); cr != nil {
			cr.Order = o.Order
		}
	}
}

func (s *CriteriaStore) find(user string, id int64) *domain.CustomCriterion {
	for _, cr := range s.byUser[user] {
		if cr.ID == id {
			return cr
		}
	}
	return nil
}

var errCriterionNotFound = &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "Criterio no encontrado"}

type createCriterionRequest struct {
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion"`
	Weight      *float64 `json:"peso"`
	Icon        string   `json:"icono"`
}

type reorderRequest struct {
	Criteria []domain.CriterionOrder `json:"criterios"`
}

func (a *API) listCriteria(c echo.Context) error {
	criteria := a.criteria.Active(currentUser(c))
	return c.JSON(http.StatusOK, domain.CriteriaList{Criteria: criteria, Total: len(criteria)})
}

func (a *API) createCriterion(c echo.Context) error {
	var req createCriterionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("cuerpo inválido", err)
	}

	cr := domain.CustomCriterion{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Weight:      domain.DefaultCriterionWeight,
		Icon:        req.Icon,
	}
	if req.Weight != nil {
		cr.Weight = *req.Weight
	}
	if cr.Icon == "" {
		cr.Icon = domain.DefaultCriterionIcon
	}
	if err := cr.Validate(); err != nil {
		return apperr.NewValidation(err.Error())
	}

	created := a.criteria.Create(currentUser(c), cr)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "criterio": created})
}

func (a *API) updateCriterion(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return errCriterionNotFound
	}

	var patch domain.CriterionPatch
	if err := c.Bind(&patch); err != nil {
		return apperr.NewValidationWrap("cuerpo inválido", err)
	}
	if err := patch.Validate(); err != nil {
		return apperr.NewValidation(err.Error())
	}

	updated, ok := a.criteria.Update(currentUser(c), id, patch)
	if !ok {
		return errCriterionNotFound
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "criterio": updated})
}

func (a *API) deleteCriterion(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !a.criteria.Deactivate(currentUser(c), id) {
		return errCriterionNotFound
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *API) reorderCriteria(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("cuerpo inválido", err)
	}
	a.criteria.Reorder(currentUser(c), req.Criteria)
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
