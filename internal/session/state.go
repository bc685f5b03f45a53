package session

import (
	"context"
	"sync"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseShowing    Phase = "showing"
)

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Phase      Phase
	Generation uint64
	FileName   string
	JobID      string
	Evaluation *domain.Evaluation
	EssayText  string
	LastErr    error
}

// State holds the single active evaluation. Every Begin or Reset starts a new
// generation; updates carrying an older generation are dropped, so a poll that
// outlives a reset can never overwrite what the user sees.
type State struct {
	mu         sync.Mutex
	generation uint64
	phase      Phase
	fileName   string
	jobID      string
	evaluation *domain.Evaluation
	essayText  string
	lastErr    error
	cancel     context.CancelFunc
}

func NewState() *State {
	return &State{phase: PhaseIdle}
}

// Begin cancels whatever is in flight and starts a submission for fileName.
func (s *State) Begin(fileName string, cancel context.CancelFunc) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	s.clearLocked()
	s.generation++
	s.phase = PhaseSubmitting
	s.fileName = fileName
	s.cancel = cancel
	return s.generation
}

// SetJob records the job id of the current submission.
func (s *State) SetJob(gen uint64, jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || s.phase != PhaseSubmitting {
		return false
	}
	s.phase = PhasePolling
	s.jobID = jobID
	return true
}

// Show stores the evaluation. It succeeds at most once per generation.
func (s *State) Show(gen uint64, ev *domain.Evaluation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation || (s.phase != PhaseSubmitting && s.phase != PhasePolling) {
		return false
	}
	s.phase = PhaseShowing
	s.evaluation = ev
	s.essayText = ev.FullText
	s.cancel = nil
	return true
}

// Fail returns the session to idle and remembers err.
func (s *State) Fail(gen uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}
	s.cancelLocked()
	s.clearLocked()
	s.generation++
	s.lastErr = err
	return true
}

// Reset cancels any in-flight submission and returns to idle. It reports
// whether a submission was still running.
func (s *State) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.phase == PhaseSubmitting || s.phase == PhasePolling
	s.cancelLocked()
	s.clearLocked()
	s.generation++
	s.lastErr = nil
	return active
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Phase:      s.phase,
		Generation: s.generation,
		FileName:   s.fileName,
		JobID:      s.jobID,
		Evaluation: s.evaluation,
		EssayText:  s.essayText,
		LastErr:    s.lastErr,
	}
}

func (s *State) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *State) clearLocked() {
	s.phase = PhaseIdle
	s.fileName = ""
	s.jobID = ""
	s.evaluation = nil
	s.essayText = ""
}
