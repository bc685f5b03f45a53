package stubapi

import (
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/google/uuid"
)

type job struct {
	status      domain.JobState
	progress    int
	result      *domain.Evaluation
	err         string
	createdAt   time.Time
	completedAt time.Time
}

// JobStore tracks asynchronous evaluation jobs.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*job
	now  func() time.Time
}

func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*job),
		now:  time.Now,
	}
}

func (s *JobStore) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.jobs[id] = &job{status: domain.JobQueued, createdAt: s.now()}
	return id
}

func (s *JobStore) Progress(id string, status domain.JobState, progress int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if j, ok := s.jobs[id]; ok && !j.status.Terminal() {
		j.status = status
		j.progress = progress
	}
}

// Complete and Fail are the only transitions into a terminal state and
// apply once; later calls are ignored.
func (s *JobStore) Complete(id string, ev *domain.Evaluation) {
	s.finish(id, func(j *job) {
		j.status = domain.JobCompleted
		j.progress = 100
		j.result = ev
	})
}

func (s *JobStore) Fail(id string, msg string) {
	s.finish(id, func(j *job) {
		j.status = domain.JobError
		j.err = msg
	})
}

func (s *JobStore) finish(id string, apply func(*job)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok || j.status.Terminal() {
		return
	}
	apply(j)
	j.completedAt = s.now()
}

func (s *JobStore) Get(id string) (domain.JobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return domain.JobStatus{}, false
	}

	st := domain.JobStatus{
		Status:    j.status,
		Progress:  j.progress,
		CreatedAt: j.createdAt.Format(domain.TimestampLayout),
	}
	switch j.status {
	case domain.JobCompleted:
		st.Result = j.result
	case domain.JobError:
		st.Error = j.err
	}
	if !j.completedAt.IsZero() {
		st.CompletedAt = j.completedAt.Format(domain.TimestampLayout)
	}
	return st, true
}

// Cleanup drops finished jobs older than ttl and returns how many were removed.
func (s *JobStore) Cleanup(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, j := range s.jobs {
		if j.status.Terminal() && now.Sub(j.completedAt) > ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (s *JobStore) Stats() domain.JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.JobStats{Total: len(s.jobs)}
	for _, j := range s.jobs {
		switch j.status {
		case domain.JobQueued:
			stats.Queued++
		case domain.JobProcessing:
			stats.Processing++
		case domain.JobCompleted:
			stats.Completed++
		case domain.JobError:
			stats.Error++
		}
	}
	return stats
}

func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// EssayStore holds graded essays keyed by content hash.
type EssayStore struct {
	mu     sync.RWMutex
	nextID int64
	byHash map[string]*domain.Evaluation
	byID   map[int64]*domain.Evaluation
}

func NewEssayStore() *EssayStore {
	return &EssayStore{
		byHash: make(map[string]*domain.Evaluation),
		byID:   make(map[int64]*domain.Evaluation),
	}
}

func (s *EssayStore) Lookup(hash string) (*domain.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byHash[hash]
	return ev, ok
}

// Save assigns an id and stores ev. A hash already present keeps its first evaluation.
func (s *EssayStore) Save(hash string, ev *domain.Evaluation) *domain.Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byHash[hash]; ok {
		return existing
	}
	s.nextID++
	ev.ID = s.nextID
	s.byHash[hash] = ev
	s.byID[ev.ID] = ev
	return ev
}

func (s *EssayStore) Get(id int64) (*domain.Evaluation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.byID[id]
	return ev, ok
}

// List returns summaries ordered by total score, highest first.
func (s *EssayStore) List() []domain.EssaySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EssaySummary, 0, len(s.byID))
	for _, ev := range s.byID {
		sum := domain.EssaySummary{
			ID:               ev.ID,
			FileName:         ev.FileName,
			OriginalFileName: ev.OriginalFileName,
			TotalScore:       ev.TotalScore,
			EvaluatedAt:      ev.EvaluatedAt,
		}
		if ev.HasAnnex != nil {
			sum.HasAnnex = *ev.HasAnnex
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}
