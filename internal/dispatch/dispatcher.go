package dispatch

import (
	"context"
	"errors"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// ErrQueueFull は処理キューが満杯で受理できないことを表します。
// 受付側はこのエラーを 503 (Retry-After 付き) に写像します。
var ErrQueueFull = errors.New("task queue is full")

// TaskDispatcher は受理済みの投入をパイプライン実行系へ引き渡す抽象です。
// 引き渡しは非同期で、受付ハンドラは実行完了を待ちません。
type TaskDispatcher interface {
	Dispatch(ctx context.Context, payload domain.ProcessTaskPayload) error
	Close() error
}

// TaskExecutor は1件のタスクを実行する抽象です。
// プール内ワーカーと Cloud Tasks ワーカーエンドポイントの両方がこの実装を共有します。
type TaskExecutor interface {
	Execute(ctx context.Context, payload domain.ProcessTaskPayload) error
}
