package session

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestState_Lifecycle(t *testing.T) {
	s := NewState()
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)

	canceled := false
	gen := s.Begin("ensayo.pdf", func() { canceled = true })
	assert.Equal(t, PhaseSubmitting, s.Snapshot().Phase)

	assert.True(t, s.SetJob(gen, "abc"))
	assert.Equal(t, PhasePolling, s.Snapshot().Phase)

	ev := &domain.Evaluation{TotalScore: 3, FullText: "texto"}
	assert.True(t, s.Show(gen, ev))
	assert.False(t, s.Show(gen, ev), "an evaluation is shown at most once")

	snap := s.Snapshot()
	assert.Equal(t, PhaseShowing, snap.Phase)
	assert.Equal(t, "ensayo.pdf", snap.FileName)
	assert.Equal(t, "abc", snap.JobID)
	assert.Equal(t, "texto", snap.EssayText)

	s.Reset()
	assert.False(t, canceled, "cancel is released once the evaluation is shown")
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)
	assert.Nil(t, s.Snapshot().Evaluation)
}

func TestState_BeginCancelsPrevious(t *testing.T) {
	s := NewState()
	first := 0
	oldGen := s.Begin("a.pdf", func() { first++ })
	newGen := s.Begin("b.pdf", func() {})

	assert.Equal(t, 1, first)
	assert.NotEqual(t, oldGen, newGen)
	assert.Equal(t, newGen, s.Snapshot().Generation)
	assert.False(t, s.SetJob(oldGen, "old"))
	assert.False(t, s.Show(oldGen, &domain.Evaluation{}))
	assert.False(t, s.Fail(oldGen, errors.New("late")))
	assert.Equal(t, "b.pdf", s.Snapshot().FileName)
}

func TestState_FailResetsAndKeepsError(t *testing.T) {
	s := NewState()
	canceled := false
	gen := s.Begin("a.pdf", func() { canceled = true })
	boom := errors.New("boom")

	assert.True(t, s.Fail(gen, boom))
	assert.True(t, canceled)

	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Empty(t, snap.FileName)
	assert.Equal(t, boom, snap.LastErr)
	assert.False(t, s.Show(gen, &domain.Evaluation{}))
}

func TestState_ResetAfterShowDoesNotCancel(t *testing.T) {
	s := NewState()
	s.Reset()
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)
}
