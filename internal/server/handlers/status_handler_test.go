package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

func newQueryRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/process-content", h.HandleList)
	r.Get("/api/v1/process-content/{jobID}", h.HandleStatus)
	r.Get("/healthz", h.Health)
	return r
}

func doGet(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleStatusReturnsJob(t *testing.T) {
	h, jobs, _ := newTestHandler(t)
	router := newQueryRouter(h)

	job := domain.NewProcessingJob("job-a", "malmo-gdpr-101", "malmo", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, jobs.Create(context.Background(), job))

	rec := doGet(router, "/api/v1/process-content/job-a")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ProcessingJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "job-a", got.JobID)
	assert.Equal(t, domain.StatusReceived, got.Status)
	assert.Equal(t, "malmo-gdpr-101", got.GameID)
}

func TestHandleStatusUnknownJob(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := newQueryRouter(h)

	rec := doGet(router, "/api/v1/process-content/no-such-job")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "job not found")
}

func TestHandleListPagesNewestFirst(t *testing.T) {
	h, jobs, _ := newTestHandler(t)
	router := newQueryRouter(h)

	for i := 1; i <= 5; i++ {
		job := domain.NewProcessingJob(fmt.Sprintf("job-%d", i), "game", "malmo", time.Now())
		require.NoError(t, jobs.Create(context.Background(), job))
	}

	t.Run("default page", func(t *testing.T) {
		rec := doGet(router, "/api/v1/process-content")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Jobs, 5)
		assert.Equal(t, "job-5", resp.Jobs[0].JobID)
		assert.Equal(t, "job-1", resp.Jobs[4].JobID)
		assert.Equal(t, store.DefaultListLimit, resp.Limit)
	})

	t.Run("limit and offset", func(t *testing.T) {
		rec := doGet(router, "/api/v1/process-content?limit=2&offset=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp listResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Jobs, 2)
		assert.Equal(t, "job-4", resp.Jobs[0].JobID)
		assert.Equal(t, "job-3", resp.Jobs[1].JobID)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 1, resp.Offset)
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := doGet(router, "/api/v1/process-content?limit=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := newQueryRouter(h)

	rec := doGet(router, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
