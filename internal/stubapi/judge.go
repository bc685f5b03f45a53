package stubapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/DjordjeVuckovic/essay-grader/pkg/utils"
	"github.com/labstack/echo/v4"
)

type judgeKey struct {
	essayID int64
	user    string
}

// JudgeStore keeps one manual evaluation per judge and essay.
type JudgeStore struct {
	mu     sync.RWMutex
	nextID int64
	evals  map[judgeKey]domain.JudgeEvaluation
	now    func() time.Time
}

func NewJudgeStore() *JudgeStore {
	return &JudgeStore{
		evals: make(map[judgeKey]domain.JudgeEvaluation),
		now:   time.Now,
	}
}

// Save inserts or replaces the judge's evaluation of ev.EssayID. An existing
// record keeps its id.
func (s *JudgeStore) Save(user string, ev domain.JudgeEvaluation) domain.JudgeEvaluation {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := judgeKey{essayID: ev.EssayID, user: user}
	if prev, ok := s.evals[key]; ok {
		ev.ID = prev.ID
	} else {
		s.nextID++
		ev.ID = s.nextID
	}
	if ev.Status == "" {
		ev.Status = domain.JudgeCompleted
	}
	if ev.TotalScore == 0 {
		ev.TotalScore = utils.RoundDecimal(ev.WeightedTotal(), 2)
	}
	ev.ModifiedAt = s.now().Format(domain.TimestampLayout)
	s.evals[key] = ev
	return ev
}

func (s *JudgeStore) Get(user string, essayID int64) (domain.JudgeEvaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.evals[judgeKey{essayID: essayID, user: user}]
	return ev, ok
}

func (a *API) saveJudgeEvaluation(c echo.Context) error {
	var ev domain.JudgeEvaluation
	if err := c.Bind(&ev); err != nil {
		return apperr.NewValidationWrap("cuerpo inválido", err)
	}
	if ev.EssayID <= 0 {
		return apperr.NewValidation(domain.ErrMissingEssayID.Error())
	}
	if _, ok := a.essays.Get(ev.EssayID); !ok {
		return &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "Ensayo no encontrado"}
	}
	if err := ev.Validate(); err != nil {
		return apperr.NewValidation(err.Error())
	}

	saved := a.judges.Save(currentUser(c), ev)
	return c.JSON(http.StatusOK, domain.JudgeSaveResult{
		Success:      true,
		Message:      "Evaluación guardada exitosamente",
		EvaluationID: saved.ID,
		EssayID:      saved.EssayID,
		Status:       saved.Status,
	})
}

func (a *API) getJudgeEvaluation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperr.NewValidationWrap("id de ensayo inválido", err)
	}

	ev, ok := a.judges.Get(currentUser(c), id)
	if !ok {
		return c.JSON(http.StatusOK, map[string]any{"evaluacion": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"evaluacion": ev})
}
