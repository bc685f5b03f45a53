package poller

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Task is one submission running in the background. Cancelling it stops any
// further status calls.
type Task struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	once    sync.Once
	outcome *Outcome
	err     error
}

// Start runs Submit in its own goroutine. Each call is independent: two
// submissions of the same essay are not merged.
func (p *Poller) Start(ctx context.Context, fileName string, content io.Reader) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer cancel()
		t.outcome, t.err = p.Submit(ctx, fileName, content)
	}()

	return t
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Cancel() {
	t.once.Do(t.cancel)
}

// Wait blocks until the task ends and returns its result.
func (t *Task) Wait() (*Outcome, error) {
	<-t.done
	return t.outcome, t.err
}
