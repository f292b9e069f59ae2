package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

func newTestJob(id string) domain.ProcessingJob {
	return domain.NewProcessingJob(id, "game-"+id, "malmo", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	job := newTestJob("job-1")
	require.NoError(t, s.Create(ctx, job))

	got, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, domain.StatusReceived, got.Status)
	assert.Equal(t, 0, got.Progress)

	err = s.Create(ctx, job)
	assert.ErrorIs(t, err, ErrDuplicateJob)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUpdateAdvancesCheckpoints(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestJob("job-1")))

	steps := []struct {
		next     domain.JobStatus
		progress int
	}{
		{domain.StatusValidating, 10},
		{domain.StatusProcessing, 30},
		{domain.StatusBranding, 50},
		{domain.StatusPackaging, 70},
		{domain.StatusDeploying, 90},
	}
	for _, step := range steps {
		got, err := s.Update(ctx, "job-1", Mutation{Next: step.next, Message: string(step.next)})
		require.NoError(t, err)
		assert.Equal(t, step.next, got.Status)
		assert.Equal(t, step.progress, got.Progress)
		assert.Nil(t, got.EndTime)
	}

	urls := map[domain.DeploymentFormat]string{domain.FormatWeb: "https://cdn.example/web/index.html"}
	got, err := s.Update(ctx, "job-1", Mutation{Next: domain.StatusCompleted, Message: "done", URLs: urls})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, urls, got.DeploymentURLs)
	require.NotNil(t, got.EndTime)
}

func TestMemoryUpdateRejectsBackwardTransition(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestJob("job-1")))

	_, err := s.Update(ctx, "job-1", Mutation{Next: domain.StatusBranding, Message: "branding"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "job-1", Mutation{Next: domain.StatusValidating, Message: "rewind"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBranding, got.Status)
	assert.Equal(t, 50, got.Progress)
}

func TestMemoryUpdateTerminalIsImmutable(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestJob("job-1")))

	failed, err := s.Update(ctx, "job-1", Mutation{
		Next:    domain.StatusFailed,
		Message: "validation failed",
		Errors:  []string{"manifest/gameId: missing property", "scene s1: no questions"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, failed.Status)
	assert.Equal(t, 0, failed.Progress)
	assert.Len(t, failed.Errors, 2)
	require.NotNil(t, failed.EndTime)

	_, err = s.Update(ctx, "job-1", Mutation{Next: domain.StatusValidating, Message: "retry"})
	assert.ErrorIs(t, err, ErrTerminalJob)

	_, err = s.Update(ctx, "job-1", Mutation{Next: domain.StatusFailed, Message: "again"})
	assert.ErrorIs(t, err, ErrTerminalJob)
}

func TestMemoryFailFreezesProgress(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestJob("job-1")))

	_, err := s.Update(ctx, "job-1", Mutation{Next: domain.StatusPackaging, Message: "packaging"})
	require.NoError(t, err)

	got, err := s.Update(ctx, "job-1", Mutation{Next: domain.StatusFailed, Message: "packaging failed", Errors: []string{"pwa: title required"}})
	require.NoError(t, err)
	assert.Equal(t, 70, got.Progress)
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(ctx, newTestJob(fmt.Sprintf("job-%d", i))))
	}

	jobs, err := s.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 5)
	assert.Equal(t, "job-4", jobs[0].JobID)
	assert.Equal(t, "job-0", jobs[4].JobID)

	page, err := s.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "job-3", page[0].JobID)
	assert.Equal(t, "job-2", page[1].JobID)

	tail, err := s.List(ctx, 10, 4)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, "job-0", tail[0].JobID)

	empty, err := s.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryReturnsClones(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Create(ctx, newTestJob("job-1")))

	got, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	got.Message = "tampered"
	got.Errors = append(got.Errors, "tampered")

	fresh, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "submission accepted", fresh.Message)
	assert.Empty(t, fresh.Errors)
}

func TestClampListRange(t *testing.T) {
	limit, offset := ClampListRange(0, -3)
	assert.Equal(t, DefaultListLimit, limit)
	assert.Equal(t, 0, offset)

	limit, _ = ClampListRange(1000, 0)
	assert.Equal(t, MaxListLimit, limit)

	limit, offset = ClampListRange(25, 50)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}
