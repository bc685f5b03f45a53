package stubapi

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/labstack/echo/v4"
)

// API is the in-memory grading backend.
type API struct {
	cfg    Config
	grader Grader
	jobs     *JobStore
	essays   *EssayStore
	judges   *JudgeStore
	criteria *CriteriaStore

	mu       sync.RWMutex
	sessions map[string]string
	userIDs  map[string]int64

	// lifeMu orders wg.Add against cancel so Close never waits on a
	// worker started after shutdown began.
	lifeMu    sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func New(cfg Config, grader Grader) *API {
	if grader == nil {
		grader = DigestGrader{}
	}

	names := make([]string, 0, len(cfg.Users))
	for name := range cfg.Users {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make(map[string]int64, len(names))
	for i, name := range names {
		ids[name] = int64(i + 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &API{
		cfg:      cfg,
		grader:   grader,
		jobs:     NewJobStore(),
		essays:   NewEssayStore(),
		judges:   NewJudgeStore(),
		criteria: NewCriteriaStore(),
		sessions: make(map[string]string),
		userIDs:  ids,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (a *API) Bind(e *echo.Echo) {
	api := e.Group("/api")

	api.POST("/login", a.login)
	api.POST("/logout", a.logout)
	api.GET("/verify-token", a.verifyToken)
	api.POST("/cleanup-jobs", a.cleanupJobs)

	auth := api.Group("", a.requireAuth)
	auth.POST("/evaluate", a.evaluate)
	auth.GET("/job-status/:id", a.jobStatus)
	auth.GET("/jobs-stats", a.jobsStats)
	auth.GET("/essays", a.listEssays)
	auth.GET("/essays/export/csv", a.exportCSV)
	auth.GET("/essays/:id", a.getEssay)
	auth.POST("/compare", a.compare)

	auth.POST("/evaluaciones-jurado", a.saveJudgeEvaluation)
	auth.GET("/evaluaciones-jurado/:id", a.getJudgeEvaluation)

	auth.GET("/criterios", a.listCriteria)
	auth.POST("/criterios", a.createCriterion)
	auth.POST("/criterios/reordenar", a.reorderCriteria)
	auth.PUT("/criterios/:id", a.updateCriterion)
	auth.DELETE("/criterios/:id", a.deleteCriterion)
}

// Healthy reports whether the backend still accepts work.
func (a *API) Healthy(_ context.Context) bool {
	return a.ctx.Err() == nil
}

// goWork runs fn in the background unless Close has been called, and
// reports whether it was started.
func (a *API) goWork(fn func(ctx context.Context)) bool {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()

	if a.ctx.Err() != nil {
		return false
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.ctx)
	}()
	return true
}

// Close marks the backend unhealthy, refuses new jobs and waits for running
// workers to exit. It is safe to call more than once.
func (a *API) Close() {
	a.closeOnce.Do(func() {
		a.lifeMu.Lock()
		a.cancel()
		a.lifeMu.Unlock()

		a.wg.Wait()
		slog.Info("Stub backend workers stopped")
	})
}
