package builder

import (
	"context"
	"fmt"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/dispatch"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/pipeline"
)

// buildDispatcher は受付からパイプラインへの引き渡し方式を構成します。
// pool はプロセス内ワーカーで直接実行し、cloudtasks は Cloud Tasks 経由で
// ワーカーエンドポイントへ再配送します。
func buildDispatcher(ctx context.Context, cfg *config.Config, p *pipeline.ContentPipeline) (dispatch.TaskDispatcher, error) {
	switch cfg.DispatchMode {
	case config.DispatchModePool:
		return dispatch.NewPoolDispatcher(p, cfg.QueueCapacity, cfg.WorkerCount), nil
	case config.DispatchModeCloudTasks:
		return dispatch.NewCloudTasksDispatcher(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown dispatch mode %q", cfg.DispatchMode)
	}
}
