package dispatch

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shouni/gcp-kit/tasks"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// CloudTasksDispatcher は Cloud Tasks キュー経由でワーカーエンドポイントへ引き渡します。
// 水平スケールする本番構成向けで、再試行とレート制御はキュー側の設定に従います。
type CloudTasksDispatcher struct {
	enqueuer *tasks.Enqueuer[domain.ProcessTaskPayload]
}

// NewCloudTasksDispatcher は、Cloud Tasks エンキューアを初期化します。
func NewCloudTasksDispatcher(ctx context.Context, cfg *config.Config) (*CloudTasksDispatcher, error) {
	workerURL, err := url.JoinPath(cfg.ServiceURL, "/tasks/process-content")
	if err != nil {
		return nil, fmt.Errorf("failed to build worker URL: %w", err)
	}

	taskCfg := tasks.Config{
		ProjectID:           cfg.ProjectID,
		LocationID:          cfg.LocationID,
		QueueID:             cfg.QueueID,
		WorkerURL:           workerURL,
		ServiceAccountEmail: cfg.ServiceAccountEmail,
		Audience:            cfg.TaskAudienceURL,
	}
	enqueuer, err := tasks.NewEnqueuer[domain.ProcessTaskPayload](ctx, taskCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create task enqueuer: %w", err)
	}
	return &CloudTasksDispatcher{enqueuer: enqueuer}, nil
}

// Dispatch はペイロードをキューへエンキューします。
func (d *CloudTasksDispatcher) Dispatch(ctx context.Context, payload domain.ProcessTaskPayload) error {
	if err := d.enqueuer.Enqueue(ctx, payload); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}
	return nil
}

// Close はエンキューアの接続を閉じます。
func (d *CloudTasksDispatcher) Close() error {
	if d == nil || d.enqueuer == nil {
		return nil
	}
	return d.enqueuer.Close()
}

var _ TaskDispatcher = (*CloudTasksDispatcher)(nil)
