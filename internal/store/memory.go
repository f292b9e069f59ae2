package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// Memory はプロセス内のジョブストア実装です。
// 再起動で内容は失われるため、単一インスタンス運用か開発用途に使います。
type Memory struct {
	mu    sync.RWMutex
	jobs  map[string]domain.ProcessingJob
	order []string
	now   func() time.Time
}

// NewMemory は空のメモリストアを返します。
func NewMemory() *Memory {
	return &Memory{
		jobs: make(map[string]domain.ProcessingJob),
		now:  time.Now,
	}
}

// Create は初期レコードを保存します。同じ ID が存在する場合はエラーです。
func (s *Memory) Create(ctx context.Context, job domain.ProcessingJob) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if job.JobID == "" {
		return fmt.Errorf("job id is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.JobID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, job.JobID)
	}
	s.jobs[job.JobID] = job.Clone()
	s.order = append(s.order, job.JobID)
	return nil
}

// Get はレコードの複製を返します。
func (s *Memory) Get(ctx context.Context, jobID string) (domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessingJob{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	return job.Clone(), nil
}

// List は登録の新しい順にレコードを返します。
func (s *Memory) List(ctx context.Context, limit, offset int) ([]domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit, offset = ClampListRange(limit, offset)

	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]domain.ProcessingJob, 0, limit)
	for i := len(s.order) - 1 - offset; i >= 0 && len(jobs) < limit; i-- {
		jobs = append(jobs, s.jobs[s.order[i]].Clone())
	}
	return jobs, nil
}

// Update は前進則の下でレコードを更新し、更新後の複製を返します。
func (s *Memory) Update(ctx context.Context, jobID string, m Mutation) (domain.ProcessingJob, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessingJob{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[jobID]
	if !ok {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	updated, err := Apply(current, m, s.now())
	if err != nil {
		return domain.ProcessingJob{}, err
	}
	s.jobs[jobID] = updated
	return updated.Clone(), nil
}
