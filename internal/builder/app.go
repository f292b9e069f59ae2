package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/adapters"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/app"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/pipeline"
)

// BuildContainer は外部サービスとの接続を確立し、依存関係を組み立てます。
func BuildContainer(ctx context.Context, cfg *config.Config) (*app.Container, error) {
	// 1. 基盤クライアントの初期化
	httpClient := httpkit.New(config.DefaultHTTPTimeout)

	// 2. I/O インフラ (GCS等) の初期化
	rio, err := buildRemoteIO(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 3. ジョブストアの初期化
	jobStore, storeCloser, err := buildJobStore(cfg)
	if err != nil {
		return nil, err
	}

	// 4. 参照データと配備先の初期化
	brandingResolver, brandingCloser, err := buildBrandingResolver(ctx, cfg, rio)
	if err != nil {
		return nil, err
	}
	uploader, err := buildUploader(ctx, cfg, rio)
	if err != nil {
		return nil, err
	}

	// 5. アダプターの初期化
	slack, err := adapters.NewSlackAdapter(httpClient, cfg.SlackWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}
	webhook := adapters.NewWebhookAdapter(cfg.WebhookTimeout)
	publisher := buildEventPublisher(cfg)

	// 6. パイプラインとディスパッチャの組み立て
	contentPipeline, err := pipeline.New(cfg, jobStore, brandingResolver, uploader, slack, webhook, publisher)
	if err != nil {
		return nil, err
	}
	dispatcher, err := buildDispatcher(ctx, cfg, contentPipeline)
	if err != nil {
		return nil, err
	}

	return &app.Container{
		Config:         cfg,
		RemoteIO:       rio,
		Store:          jobStore,
		StoreCloser:    storeCloser,
		Pipeline:       contentPipeline,
		Dispatcher:     dispatcher,
		HTTPClient:     httpClient,
		Slack:          slack,
		Webhook:        webhook,
		Publisher:      publisher,
		BrandingCloser: brandingCloser,
	}, nil
}
