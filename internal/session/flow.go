package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/DjordjeVuckovic/essay-grader/internal/notify"
	"github.com/DjordjeVuckovic/essay-grader/internal/poller"
	"github.com/DjordjeVuckovic/essay-grader/internal/render"
)

// ErrSuperseded is returned when a reset or a newer submission replaced this one.
var ErrSuperseded = errors.New("evaluation superseded")

const (
	msgCacheHit  = "Evaluación recuperada del caché"
	msgJob       = "Procesando ensayo con IA..."
	msgCompleted = "Evaluación completada"
	msgExpired   = "Sesión expirada"
	msgCanceled  = "Evaluación cancelada"
)

type RenderFunc func(w io.Writer, ev *domain.Evaluation) error

// Flow runs one submission end to end: upload, poll, notify and render.
type Flow struct {
	api        poller.API
	cfg        poller.Config
	pollerOpts []poller.Option

	state    *State
	notifier notify.Notifier
	out      io.Writer
	render   RenderFunc
}

type FlowOption func(*Flow)

func WithPollerOptions(opts ...poller.Option) FlowOption {
	return func(f *Flow) {
		f.pollerOpts = append(f.pollerOpts, opts...)
	}
}

func WithRenderer(fn RenderFunc) FlowOption {
	return func(f *Flow) {
		f.render = fn
	}
}

func NewFlow(api poller.API, cfg poller.Config, state *State, n notify.Notifier, out io.Writer, opts ...FlowOption) (*Flow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid poller config", err)
	}

	f := &Flow{
		api:      api,
		cfg:      cfg,
		state:    state,
		notifier: n,
		out:      out,
		render:   render.Evaluation,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Flow) State() *State {
	return f.state
}

// Cancel aborts the in-flight submission, if any, and resets the session.
// Aborting a running submission shows the same warning as a cancelled
// context; the aborted Evaluate call then returns ErrSuperseded silently.
func (f *Flow) Cancel() {
	if f.state.Reset() {
		f.notifier.Notify(notify.LevelWarning, msgCanceled)
	}
}

func (f *Flow) EvaluateFile(ctx context.Context, path string) (*domain.Evaluation, error) {
	file, err := os.Open(path)
	if err != nil {
		err = apperr.NewValidationWrap("open essay file", err)
		f.notifier.Notify(notify.LevelError, "Error al enviar ensayo: "+err.Error())
		f.state.Reset()
		return nil, err
	}
	defer file.Close()

	return f.Evaluate(ctx, filepath.Base(path), file)
}

// Evaluate submits content and renders the resulting evaluation exactly once.
// On any failure the session is reset and the user is notified.
func (f *Flow) Evaluate(ctx context.Context, fileName string, content io.Reader) (*domain.Evaluation, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gen := f.state.Begin(fileName, cancel)

	opts := append([]poller.Option{}, f.pollerOpts...)
	opts = append(opts,
		poller.WithSubmitted(func(res *domain.SubmissionResult) {
			if res.IsCacheHit() || res.JobID == "" {
				return
			}
			if f.state.SetJob(gen, res.JobID) {
				f.notifier.Notify(notify.LevelInfo, msgJob)
			}
		}),
		poller.WithProgress(func(pr poller.Progress) {
			slog.Debug("Evaluation progress", "job_id", pr.JobID, "attempt", pr.Attempt, "status", pr.Status, "progress", pr.Percent)
		}),
	)

	p, err := poller.New(f.api, f.cfg, opts...)
	if err != nil {
		return nil, f.fail(gen, err)
	}

	task := p.Start(ctx, fileName, content)
	out, err := task.Wait()
	if err != nil {
		return nil, f.fail(gen, err)
	}

	if !f.state.Show(gen, out.Evaluation) {
		slog.Info("Discarding superseded evaluation", "file", fileName, "job_id", out.JobID)
		return nil, ErrSuperseded
	}

	if out.CacheHit {
		msg := out.CacheMessage
		if msg == "" {
			msg = msgCacheHit
		}
		f.notifier.Notify(notify.LevelSuccess, msg)
	} else {
		f.notifier.Notify(notify.LevelSuccess, msgCompleted)
	}

	if err := f.render(f.out, out.Evaluation); err != nil {
		return out.Evaluation, fmt.Errorf("render evaluation: %w", err)
	}
	return out.Evaluation, nil
}

func (f *Flow) fail(gen uint64, err error) error {
	snap := f.state.Snapshot()
	if !f.state.Fail(gen, err) {
		return fmt.Errorf("%w: %w", ErrSuperseded, err)
	}

	kind := apperr.Classify(err)
	slog.Warn("Evaluation failed", "file", snap.FileName, "job_id", snap.JobID, "kind", kind, "error", err)

	switch kind {
	case apperr.KindUnauthorized:
		f.notifier.Notify(notify.LevelError, msgExpired)
		f.notifier.Redirect(apperr.LoginPath)
	case apperr.KindCanceled:
		f.notifier.Notify(notify.LevelWarning, msgCanceled)
	default:
		prefix := "Error al enviar ensayo: "
		if snap.JobID != "" {
			prefix = "Error al procesar: "
		}
		f.notifier.Notify(notify.LevelError, prefix+userMessage(err))
	}
	return err
}

// userMessage picks the most specific message in the chain for a toast.
func userMessage(err error) string {
	var (
		je *apperr.JobError
		he *apperr.HTTPStatusError
		ve *apperr.ValidationError
	)
	switch {
	case errors.As(err, &je):
		if je.Message != "" {
			return je.Message
		}
		return apperr.DefaultJobErrorMessage
	case errors.As(err, &he) && he.Message != "":
		return he.Message
	case errors.As(err, &ve):
		return ve.Error()
	default:
		return err.Error()
	}
}
