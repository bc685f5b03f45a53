package stubapi

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStoreTerminalOnce(t *testing.T) {
	s := NewJobStore()
	id := s.Create()

	s.Progress(id, domain.JobProcessing, 40)
	st, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, domain.JobProcessing, st.Status)
	assert.Equal(t, 40, st.Progress)
	assert.Empty(t, st.CompletedAt)

	s.Complete(id, &domain.Evaluation{TotalScore: 3.5})
	s.Fail(id, "too late")
	s.Progress(id, domain.JobProcessing, 10)

	st, _ = s.Get(id)
	assert.Equal(t, domain.JobCompleted, st.Status)
	assert.Equal(t, 100, st.Progress)
	require.NotNil(t, st.Result)
	assert.InDelta(t, 3.5, st.Result.TotalScore, 1e-9)
	assert.Empty(t, st.Error)
}

func TestJobStoreCleanup(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewJobStore()
	s.now = func() time.Time { return now }

	done := s.Create()
	s.Fail(done, "boom")
	running := s.Create()

	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, s.Cleanup(5*time.Minute))

	_, ok := s.Get(done)
	assert.False(t, ok)
	_, ok = s.Get(running)
	assert.True(t, ok)

	stats := s.Stats()
	assert.Equal(t, domain.JobStats{Total: 1, Queued: 1}, stats)
}

func TestEssayStore(t *testing.T) {
	s := NewEssayStore()

	low := s.Save("h1", &domain.Evaluation{TotalScore: 2})
	high := s.Save("h2", &domain.Evaluation{TotalScore: 4.5})
	again := s.Save("h1", &domain.Evaluation{TotalScore: 5})

	assert.Equal(t, int64(1), low.ID)
	assert.Equal(t, int64(2), high.ID)
	assert.Same(t, low, again)

	got, ok := s.Lookup("h2")
	require.True(t, ok)
	assert.Same(t, high, got)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), list[1].ID)
}

func TestDigestGraderIsDeterministic(t *testing.T) {
	a, err := DigestGrader{}.Grade(t.Context(), essayText)
	require.NoError(t, err)
	b, err := DigestGrader{}.Grade(t.Context(), essayText)
	require.NoError(t, err)

	require.NoError(t, a.Validate())
	assert.Equal(t, a.TotalScore, b.TotalScore)
	for _, info := range domain.Rubric {
		cr := a.Criterion(info.Key)
		require.NotNil(t, cr, info.Key)
		assert.GreaterOrEqual(t, cr.Score, 1.0)
		assert.LessOrEqual(t, cr.Score, 5.0)
		assert.Len(t, cr.Fragments, 1)
	}
}

func TestParseUsers(t *testing.T) {
	users, err := parseUsers("ana:uno, luis:dos,")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ana": "uno", "luis": "dos"}, users)

	_, err = parseUsers("ana")
	assert.Error(t, err)
}
