package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api")

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestEvaluateSendsMultipartFile(t *testing.T) {
	var gotName, gotContent string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/evaluate", r.URL.Path)

		f, fh, err := r.FormFile(FileField)
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotContent = fh.Filename, string(data)

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"job_id":"abc","status":"queued","message":"en proceso"}`))
	}))

	res, err := c.Evaluate(t.Context(), "dir/mi_ensayo.txt", strings.NewReader("contenido"))
	require.NoError(t, err)

	assert.Equal(t, "mi_ensayo.txt", gotName)
	assert.Equal(t, "contenido", gotContent)
	assert.False(t, res.IsCacheHit())
	assert.Equal(t, "abc", res.JobID)
	assert.Equal(t, domain.JobQueued, res.Status)
}

func TestEvaluateCacheHit(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cache_hit":true,"puntuacion_total":4.2,"mensaje_cache":"desde caché"}`))
	}))

	res, err := c.Evaluate(t.Context(), "e.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, res.IsCacheHit())
	assert.Equal(t, "4.20", domain.FormatScore(res.Evaluation.TotalScore))
	assert.Equal(t, "desde caché", res.CacheMessage)
}

func TestEvaluateAmbiguousResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))

	_, err := c.Evaluate(t.Context(), "e.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrAmbiguousSubmission)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMsg      string
		unauthorized bool
	}{
		{name: "json error field", status: http.StatusBadRequest, body: `{"error":"El archivo debe ser un PDF"}`, wantMsg: "El archivo debe ser un PDF"},
		{name: "plain text body", status: http.StatusBadGateway, body: "upstream down\n", wantMsg: "upstream down"},
		{name: "json without error", status: http.StatusInternalServerError, body: `{"detail":"x"}`, wantMsg: ""},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"Token expirado"}`, wantMsg: "Token expirado", unauthorized: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := c.JobStatus(t.Context(), "abc")

			var se *apperr.HTTPStatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.Code)
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.unauthorized, errors.Is(err, apperr.ErrUnauthorized))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.JobStatus(t.Context(), "abc")

	var te *apperr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, apperr.KindTransport, apperr.Classify(err))
}

func TestJobStatusEscapesID(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"status":"pending","progress":30}`))
	}))

	st, err := c.JobStatus(t.Context(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/job-status/a%20b", gotPath)
	assert.Equal(t, domain.JobPending, st.Status)
	assert.Equal(t, 30, st.Progress)

	_, err = c.JobStatus(t.Context(), "")
	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestJobStatusDecodesZonelessTimestamps(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"processing","progress":50,"created_at":"2025-10-18T12:34:56.789012"}`))
	}))

	st, err := c.JobStatus(t.Context(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.JobProcessing, st.Status)
	assert.Equal(t, 50, st.Progress)
	assert.Equal(t, "2025-10-18T12:34:56.789012", st.CreatedAt)
	assert.Empty(t, st.CompletedAt)

	created, err := time.Parse(domain.TimestampLayout, st.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, 789012000, created.Nanosecond())
}

func TestDecodeErrorNamesOperation(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{`))
	}))

	_, err := c.JobStatus(t.Context(), "abc")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "job status: unmarshal response"), err.Error())
	assert.NotContains(t, err.Error(), "abc:")

	_, err = c.GetEssay(t.Context(), 42)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "get essay: "), err.Error())
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secreto" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Credenciales inválidas"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "t-1", Path: "/", HttpOnly: true})
		_, _ = w.Write([]byte(`{"message":"Login exitoso","user":{"id":7,"username":"ana"}}`))
	})
	mux.HandleFunc("GET /api/verify-token", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("token"); err != nil || ck.Value != "t-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"valid":true}`))
	})
	c := newTestClient(t, mux)

	ok, err := c.VerifySession(t.Context())
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Login(t.Context(), "ana", "mal")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	user, err := c.Login(t.Context(), "ana", "secreto")
	require.NoError(t, err)
	assert.Equal(t, User{ID: 7, Username: "ana"}, *user)

	ok, err = c.VerifySession(t.Context())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompareValidatesClientSide(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req compareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int64{1, 2}, req.EssayIDs)
		_, _ = w.Write([]byte(`{"comparacion":"Ganador: A","ensayos":[{"id":1,"puntuacion_total":4},{"id":2,"puntuacion_total":3}]}`))
	}))

	_, err := c.Compare(t.Context(), []int64{1})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, calls.Load())

	cmp, err := c.Compare(t.Context(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "Ganador: A", cmp.Analysis)
	assert.Len(t, cmp.Essays, 2)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetEssaysPreservesOrder(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/essays/")
		if id == "1" {
			time.Sleep(20 * time.Millisecond)
		}
		_, _ = w.Write([]byte(`{"id":` + id + `,"puntuacion_total":3}`))
	}))

	evs, err := c.GetEssays(t.Context(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, evs, 3)
	for i, ev := range evs {
		assert.Equal(t, int64(i+1), ev.ID)
	}
}

func TestGetEssaysFailsOnMissing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/2") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Ensayo no encontrado"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"puntuacion_total":3}`))
	}))

	_, err := c.GetEssays(t.Context(), []int64{1, 2})

	var se *apperr.HTTPStatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, err.Error(), "essay 2")
}

func TestExportCSV(t *testing.T) {
	tests := []struct {
		name        string
		disposition string
		want        string
	}{
		{name: "from header", disposition: `attachment; filename="ensayos_evaluados_20250301.csv"`, want: "ensayos_evaluados_20250301.csv"},
		{name: "missing header", disposition: "", want: defaultExportName},
		{name: "malformed header", disposition: "attachment; filename", want: defaultExportName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/essays/export/csv", r.URL.Path)
				if tt.disposition != "" {
					w.Header().Set("Content-Disposition", tt.disposition)
				}
				w.Header().Set("Content-Type", "text/csv; charset=utf-8")
				_, _ = w.Write([]byte("Ranking,Puntuación Total\n1,4.20\n"))
			}))

			exp, err := c.ExportCSV(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tt.want, exp.FileName)
			assert.Equal(t, "text/csv; charset=utf-8", exp.ContentType)
			assert.Contains(t, string(exp.Data), "1,4.20")
		})
	}
}
