package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// PoolDispatcher は容量固定のキューと常駐ワーカーでタスクを処理します。
// キューが満杯のときはブロックせず ErrQueueFull を返します。
type PoolDispatcher struct {
	executor TaskExecutor
	queue    chan domain.ProcessTaskPayload

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPoolDispatcher はワーカーを起動し、受付可能なディスパッチャーを返します。
func NewPoolDispatcher(executor TaskExecutor, capacity, workers int) *PoolDispatcher {
	d := &PoolDispatcher{
		executor: executor,
		queue:    make(chan domain.ProcessTaskPayload, capacity),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	return d
}

func (d *PoolDispatcher) work(id int) {
	defer d.wg.Done()
	for payload := range d.queue {
		// リクエストのキャンセルに実行を巻き込まれないよう、独立したコンテキストで処理します。
		// 実行時間の上限はパイプライン側の打ち切り機構が管理します。
		if err := d.executor.Execute(context.Background(), payload); err != nil {
			slog.Error("task execution failed",
				"worker_id", id,
				"job_id", payload.JobID,
				"error", err,
			)
		}
	}
}

// Dispatch はペイロードをキューへ積みます。満杯なら ErrQueueFull を返します。
func (d *PoolDispatcher) Dispatch(ctx context.Context, payload domain.ProcessTaskPayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return fmt.Errorf("dispatcher is closed")
	}

	select {
	case d.queue <- payload:
		return nil
	default:
		return fmt.Errorf("%w: capacity %d", ErrQueueFull, cap(d.queue))
	}
}

// Close は受付を止め、キュー済みのタスクを処理し切ってから戻ります。
func (d *PoolDispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
	return nil
}

var _ TaskDispatcher = (*PoolDispatcher)(nil)
