package stubapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 20 << 20

var allowedExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

type jobAccepted struct {
	JobID   string          `json:"job_id"`
	Status  domain.JobState `json:"status"`
	Message string          `json:"message"`
}

var errShuttingDown = &apperr.HTTPStatusError{Code: http.StatusServiceUnavailable, Message: "El servidor se está deteniendo"}

func (a *API) evaluate(c echo.Context) error {
	if !a.Healthy(c.Request().Context()) {
		return errShuttingDown
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.NewValidation("No se envió ningún archivo")
	}
	if fh.Filename == "" {
		return apperr.NewValidation("No se seleccionó ningún archivo")
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(fh.Filename))] {
		return apperr.NewValidation("El archivo debe ser un PDF o TXT")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	text := strings.TrimSpace(string(content))
	if len(text) < MinEssayBytes {
		return apperr.NewValidation("No se pudo extraer suficiente texto del archivo")
	}

	sum := sha256.Sum256([]byte(text))
	hash := hex.EncodeToString(sum[:])

	if ev, ok := a.essays.Lookup(hash); ok {
		slog.Info("Cache hit", "hash", hash[:16], "essay_id", ev.ID)
		return c.JSON(http.StatusOK, domain.SubmissionResult{
			CacheHit:     true,
			CacheMessage: fmt.Sprintf("Evaluación recuperada del caché (archivo original: %s)", ev.OriginalFileName),
			Evaluation:   ev,
		})
	}

	if removed := a.jobs.Cleanup(a.cfg.JobTTL); removed > 0 {
		slog.Debug("Removed expired jobs", "count", removed)
	}

	jobID := a.jobs.Create()
	if !a.goWork(func(ctx context.Context) { a.process(ctx, jobID, hash, fh.Filename, text) }) {
		a.jobs.Fail(jobID, errShuttingDown.Message)
		return errShuttingDown
	}

	slog.Info("Job queued", "job_id", jobID, "file", fh.Filename, "hash", hash[:16])
	return c.JSON(http.StatusAccepted, jobAccepted{
		JobID:   jobID,
		Status:  domain.JobQueued,
		Message: "Ensayo en proceso de evaluación",
	})
}

func (a *API) process(ctx context.Context, jobID, hash, fileName, text string) {
	a.jobs.Progress(jobID, domain.JobProcessing, 10)
	if err := sleep(ctx, a.cfg.ProcessingDelay); err != nil {
		a.jobs.Fail(jobID, "El servidor se detuvo antes de terminar la evaluación")
		return
	}

	a.jobs.Progress(jobID, domain.JobProcessing, 60)
	ev, err := a.grader.Grade(ctx, text)
	if err != nil {
		slog.Error("Grading failed", "job_id", jobID, "error", err)
		a.jobs.Fail(jobID, err.Error())
		return
	}

	noAnnex := false
	ev.FileName = hash[:12] + filepath.Ext(fileName)
	ev.OriginalFileName = fileName
	ev.EvaluatedAt = time.Now().Format(time.DateTime)
	ev.HasAnnex = &noAnnex

	a.jobs.Progress(jobID, domain.JobProcessing, 90)
	saved := a.essays.Save(hash, ev)
	a.jobs.Complete(jobID, saved)
	slog.Info("Job completed", "job_id", jobID, "essay_id", saved.ID, "score", saved.TotalScore)
}

func (a *API) jobStatus(c echo.Context) error {
	st, ok := a.jobs.Get(c.Param("id"))
	if !ok {
		return &apperr.HTTPStatusError{Code: http.StatusNotFound, Message: "Job no encontrado"}
	}
	return c.JSON(http.StatusOK, st)
}

func (a *API) jobsStats(c echo.Context) error {
	return c.JSON(http.StatusOK, a.jobs.Stats())
}

func (a *API) cleanupJobs(c echo.Context) error {
	removed := a.jobs.Cleanup(a.cfg.JobTTL)
	return c.JSON(http.StatusOK, map[string]any{
		"message":         fmt.Sprintf("Limpieza completada: %d jobs eliminados", removed),
		"jobs_eliminados": removed,
		"jobs_activos":    a.jobs.Len(),
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
