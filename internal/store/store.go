package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// 一覧取得のページング既定値です。
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	// ErrNotFound は指定されたジョブが存在しないことを表します。
	ErrNotFound = errors.New("job not found")
	// ErrDuplicateJob は同じ ID のレコードが既に存在することを表します。
	ErrDuplicateJob = errors.New("job already exists")
	// ErrTerminalJob は終端状態のレコードへの更新を表します。終端レコードは不変です。
	ErrTerminalJob = errors.New("job is in a terminal state")
	// ErrInvalidTransition は前進則に反する状態遷移を表します。
	ErrInvalidTransition = errors.New("invalid status transition")
)

// JobStore はジョブレコードの永続化の抽象です。
// 1レコードの読み取り・変更・書き込みは実装側で直列化されます。
type JobStore interface {
	// Create は received 状態の初期レコードを保存します。
	Create(ctx context.Context, job domain.ProcessingJob) error
	// Get はレコードの複製を返します。
	Get(ctx context.Context, jobID string) (domain.ProcessingJob, error)
	// List は新しい順のページを返します。limit が 0 以下なら既定値を使います。
	List(ctx context.Context, limit, offset int) ([]domain.ProcessingJob, error)
	// Update は前進則と終端不変条件の下でレコードを更新し、更新後の複製を返します。
	Update(ctx context.Context, jobID string, m Mutation) (domain.ProcessingJob, error)
}

// Mutation は1回の状態更新の内容です。
type Mutation struct {
	// Next は遷移先の状態です。
	Next domain.JobStatus
	// Message は利用者向けの現況説明です。
	Message string
	// URLs は completed への遷移でのみ設定される形式別配備先です。
	URLs map[domain.DeploymentFormat]string
	// Errors は failed への遷移でのみ設定されるメッセージ一覧です。
	Errors []string
}

// Apply は前進則、単調進捗、終端不変条件を検査し、更新後のレコードを返します。
// 実装間 (メモリ, sqlite) で更新規則を共有するための純粋関数です。
func Apply(current domain.ProcessingJob, m Mutation, now time.Time) (domain.ProcessingJob, error) {
	if current.Status.Terminal() {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s", ErrTerminalJob, current.JobID)
	}
	if !current.Status.CanTransition(m.Next) {
		return domain.ProcessingJob{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, m.Next)
	}

	updated := current.Clone()
	updated.Status = m.Next
	updated.Message = m.Message

	switch m.Next {
	case domain.StatusCompleted:
		updated.Progress = domain.StatusCompleted.Checkpoint()
		if len(m.URLs) > 0 {
			urls := make(map[domain.DeploymentFormat]string, len(m.URLs))
			for k, v := range m.URLs {
				urls[k] = v
			}
			updated.DeploymentURLs = urls
		}
		end := now.UTC()
		updated.EndTime = &end
	case domain.StatusFailed:
		// 進捗は失敗時点の値で凍結します。
		updated.Errors = append([]string(nil), m.Errors...)
		end := now.UTC()
		updated.EndTime = &end
	default:
		if cp := m.Next.Checkpoint(); cp > updated.Progress {
			updated.Progress = cp
		}
	}

	return updated, nil
}

// ClampListRange はページング引数を有効範囲へ丸めます。
func ClampListRange(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
