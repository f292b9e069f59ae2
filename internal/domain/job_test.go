package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatus_CanTransition(t *testing.T) {
	t.Run("pipeline order moves forward", func(t *testing.T) {
		order := []JobStatus{
			StatusReceived, StatusValidating, StatusProcessing,
			StatusBranding, StatusPackaging, StatusDeploying, StatusCompleted,
		}
		for i := 0; i < len(order)-1; i++ {
			assert.True(t, order[i].CanTransition(order[i+1]),
				"%s -> %s should be allowed", order[i], order[i+1])
		}
	})

	t.Run("backward moves are rejected", func(t *testing.T) {
		assert.False(t, StatusPackaging.CanTransition(StatusValidating))
		assert.False(t, StatusDeploying.CanTransition(StatusReceived))
		assert.False(t, StatusValidating.CanTransition(StatusValidating))
	})

	t.Run("failed is reachable from any non-terminal state", func(t *testing.T) {
		for _, s := range []JobStatus{
			StatusReceived, StatusValidating, StatusProcessing,
			StatusBranding, StatusPackaging, StatusDeploying,
		} {
			assert.True(t, s.CanTransition(StatusFailed), "%s -> failed", s)
		}
	})

	t.Run("terminal states admit nothing", func(t *testing.T) {
		for _, s := range []JobStatus{StatusCompleted, StatusFailed} {
			assert.False(t, s.CanTransition(StatusFailed))
			assert.False(t, s.CanTransition(StatusCompleted))
			assert.False(t, s.CanTransition(StatusValidating))
		}
	})
}

func TestJobStatus_Checkpoint(t *testing.T) {
	expected := map[JobStatus]int{
		StatusReceived:   0,
		StatusValidating: 10,
		StatusProcessing: 30,
		StatusBranding:   50,
		StatusPackaging:  70,
		StatusDeploying:  90,
		StatusCompleted:  100,
	}
	for status, progress := range expected {
		assert.Equal(t, progress, status.Checkpoint(), "checkpoint for %s", status)
	}
}

func TestNewProcessingJob(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	job := NewProcessingJob("job-1", "demo-1", "malmo", now)

	assert.Equal(t, StatusReceived, job.Status)
	assert.Equal(t, 0, job.Progress)
	assert.Equal(t, now, job.StartTime)
	assert.Nil(t, job.EndTime)
	assert.Empty(t, job.DeploymentURLs)
	assert.Empty(t, job.Errors)
}

func TestProcessingJob_Clone(t *testing.T) {
	end := time.Now()
	job := ProcessingJob{
		JobID:          "job-1",
		Status:         StatusCompleted,
		Progress:       100,
		EndTime:        &end,
		DeploymentURLs: map[DeploymentFormat]string{FormatWeb: "https://cdn.example/web"},
		Errors:         []string{"left over"},
	}

	clone := job.Clone()
	require.Equal(t, job, clone)

	// Mutating the clone must not leak into the original.
	clone.DeploymentURLs[FormatSCORM] = "https://cdn.example/scorm"
	clone.Errors[0] = "changed"
	*clone.EndTime = end.Add(time.Hour)

	assert.NotContains(t, job.DeploymentURLs, FormatSCORM)
	assert.Equal(t, "left over", job.Errors[0])
	assert.Equal(t, end, *job.EndTime)
}
