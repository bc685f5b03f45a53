package poller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

// API is the slice of the grading backend the poller needs.
type API interface {
	Evaluate(ctx context.Context, fileName string, content io.Reader) (*domain.SubmissionResult, error)
	JobStatus(ctx context.Context, jobID string) (*domain.JobStatus, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

type Progress struct {
	JobID   string
	Attempt int
	Status  domain.JobState
	Percent int
}

// Outcome is the evaluation a submission resolved to.
type Outcome struct {
	Evaluation   *domain.Evaluation
	CacheHit     bool
	CacheMessage string
	JobID        string
	// Attempts counts status calls; always 0 for a cache hit.
	Attempts int
}

type Poller struct {
	api         API
	cfg         Config
	wait        WaitFunc
	onSubmitted func(*domain.SubmissionResult)
	onProgress  func(Progress)
}

type Option func(*Poller)

func WithWaitFunc(fn WaitFunc) Option {
	return func(p *Poller) {
		p.wait = fn
	}
}

// WithSubmitted registers a hook called once the backend accepted the upload.
func WithSubmitted(fn func(*domain.SubmissionResult)) Option {
	return func(p *Poller) {
		p.onSubmitted = fn
	}
}

func WithProgress(fn func(Progress)) Option {
	return func(p *Poller) {
		p.onProgress = fn
	}
}

func New(api API, cfg Config, opts ...Option) (*Poller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid poller config", err)
	}

	p := &Poller{
		api:  api,
		cfg:  cfg,
		wait: sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Submit uploads the essay and blocks until it resolves to an evaluation.
func (p *Poller) Submit(ctx context.Context, fileName string, content io.Reader) (*Outcome, error) {
	res, err := p.api.Evaluate(ctx, fileName, content)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", fileName, err)
	}
	if p.onSubmitted != nil {
		p.onSubmitted(res)
	}

	if res.IsCacheHit() {
		if err := res.Evaluation.Validate(); err != nil {
			return nil, fmt.Errorf("submit %s: cached evaluation is invalid: %w", fileName, err)
		}
		slog.Info("Evaluation served from cache", "file", fileName)
		return &Outcome{
			Evaluation:   res.Evaluation,
			CacheHit:     true,
			CacheMessage: res.CacheMessage,
		}, nil
	}
	if res.JobID == "" {
		return nil, fmt.Errorf("submit %s: %w", fileName, domain.ErrAmbiguousSubmission)
	}

	slog.Info("Evaluation job started", "file", fileName, "job_id", res.JobID, "interval", p.cfg.Interval)
	return p.Poll(ctx, res.JobID)
}

// Poll waits on an existing job until it completes or fails.
func (p *Poller) Poll(ctx context.Context, jobID string) (*Outcome, error) {
	pollCtx := ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		if p.cfg.MaxAttempts > 0 && attempt > p.cfg.MaxAttempts {
			return nil, &apperr.PollTimeoutError{JobID: jobID, Attempts: attempt - 1}
		}

		if err := p.wait(pollCtx, p.cfg.Interval); err != nil {
			return nil, p.stopped(ctx, pollCtx, jobID, attempt-1, err)
		}

		st, err := p.api.JobStatus(pollCtx, jobID)
		if err != nil {
			if pollCtx.Err() != nil {
				return nil, p.stopped(ctx, pollCtx, jobID, attempt, err)
			}
			return nil, fmt.Errorf("job %s status: %w", jobID, err)
		}

		slog.Debug("Job status", "job_id", jobID, "attempt", attempt, "status", st.Status, "progress", st.Progress)
		if p.onProgress != nil {
			p.onProgress(Progress{JobID: jobID, Attempt: attempt, Status: st.Status, Percent: st.Progress})
		}

		switch st.Status {
		case domain.JobCompleted:
			if st.Result == nil {
				return nil, fmt.Errorf("job %s completed without a result", jobID)
			}
			if err := st.Result.Validate(); err != nil {
				return nil, fmt.Errorf("job %s returned an invalid evaluation: %w", jobID, err)
			}
			return &Outcome{Evaluation: st.Result, JobID: jobID, Attempts: attempt}, nil
		case domain.JobError:
			return nil, &apperr.JobError{JobID: jobID, Message: st.Error}
		}
	}
}

// stopped explains why polling ended early: our own timeout, or the caller's context.
func (p *Poller) stopped(parent, pollCtx context.Context, jobID string, attempts int, cause error) error {
	if parent.Err() == nil && errors.Is(pollCtx.Err(), context.DeadlineExceeded) {
		return &apperr.PollTimeoutError{JobID: jobID, Attempts: attempts, Cause: pollCtx.Err()}
	}
	if err := parent.Err(); err != nil {
		return fmt.Errorf("job %s: polling stopped: %w", jobID, err)
	}
	return fmt.Errorf("job %s: %w", jobID, cause)
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
