package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/adapters"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/branding"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/deploy"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/events"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/packaging"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/transform"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/validation"
)

// ContentPipeline は投入されたマニフェストを検証から配備まで進める実行器です。
// プール内ワーカーと Cloud Tasks ワーカーエンドポイントの両方から共有されます。
type ContentPipeline struct {
	cfg         *config.Config
	store       store.JobStore
	validator   *validation.Validator
	branding    *branding.Resolver
	transformer *transform.Transformer
	packager    *packaging.Builder
	locator     *deploy.Resolver
	uploader    deploy.Uploader
	slack       adapters.SlackNotifier
	webhook     adapters.WebhookNotifier
	publisher   events.Publisher
	now         func() time.Time
}

// New は ContentPipeline を初期化します。
// 純粋な変換部品は内部で構築し、外部接続を持つ部品は引数で受け取ります。
func New(
	cfg *config.Config,
	jobStore store.JobStore,
	brandingResolver *branding.Resolver,
	uploader deploy.Uploader,
	slack adapters.SlackNotifier,
	webhook adapters.WebhookNotifier,
	publisher events.Publisher,
) (*ContentPipeline, error) {
	validator, err := validation.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest validator: %w", err)
	}

	return &ContentPipeline{
		cfg:         cfg,
		store:       jobStore,
		validator:   validator,
		branding:    brandingResolver,
		transformer: transform.New(),
		packager:    packaging.New(cfg),
		locator:     deploy.NewResolver(cfg),
		uploader:    uploader,
		slack:       slack,
		webhook:     webhook,
		publisher:   publisher,
		now:         time.Now,
	}, nil
}

// Execute は1件の投入をジョブ実行として処理します。
// ジョブ内の失敗は failed レコードとして記録したうえで nil を返します。
// エラーを返すのは終了状態を記録できなかった場合だけで、その際は再配送に委ねます。
func (p *ContentPipeline) Execute(ctx context.Context, payload domain.ProcessTaskPayload) error {
	e := &jobExecution{pipeline: p, payload: payload}
	return e.run(ctx)
}

// --- 内部ステージ群 ---

// runValidation はスキーマ検証と意味検証を実行します。
func (p *ContentPipeline) runValidation(ctx context.Context, e *jobExecution) error {
	if err := e.advance(ctx, domain.StatusValidating, "validating game manifest"); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Step: Manifest validation", "job_id", e.payload.JobID)

	report := p.validator.Validate(ctx, e.payload.Manifest)
	if !report.IsValid {
		return domain.NewPipelineError(domain.ErrKindValidation, domain.StatusValidating, report.Errors...)
	}
	if len(report.Warnings) > 0 {
		slog.WarnContext(ctx, "validation passed with warnings",
			"job_id", e.payload.JobID,
			"warnings", report.Warnings,
		)
	}
	slog.InfoContext(ctx, "manifest validated",
		"job_id", e.payload.JobID,
		"content_size", report.Performance.ContentSizeBytes,
		"estimated_load_ms", report.Performance.EstimatedLoadTimeMS,
	)
	return nil
}

// runProcessing はシーン内容を確定し、自治体プロファイルを解決します。
func (p *ContentPipeline) runProcessing(ctx context.Context, e *jobExecution) (domain.MunicipalBrandingProfile, error) {
	if err := e.advance(ctx, domain.StatusProcessing, "processing scenes and resolving municipal profile"); err != nil {
		return domain.MunicipalBrandingProfile{}, err
	}
	slog.InfoContext(ctx, "Step: Content processing", "job_id", e.payload.JobID)

	estimate := validation.EstimateSessionDuration(e.payload.Manifest)
	profile := p.branding.Resolve(ctx, e.payload.Options.MunicipalityID)

	slog.InfoContext(ctx, "municipal profile resolved",
		"job_id", e.payload.JobID,
		"municipality", profile.Municipality,
		"display_name", profile.DisplayName,
		"cultural_context", string(profile.CulturalContext),
		"estimated_session", estimate.String(),
	)
	return profile, nil
}

// runBranding は解決済みプロファイルをテーマとしてマニフェストへ適用します。
func (p *ContentPipeline) runBranding(ctx context.Context, e *jobExecution, profile domain.MunicipalBrandingProfile) (domain.BrandedManifest, error) {
	if err := e.advance(ctx, domain.StatusBranding, "applying municipal branding"); err != nil {
		return domain.BrandedManifest{}, err
	}

	level := e.payload.Options.EffectiveBrandingLevel()
	slog.InfoContext(ctx, "Step: Municipal branding",
		"job_id", e.payload.JobID,
		"branding_level", string(level),
	)

	branded, err := p.transformer.Apply(e.payload.Manifest, profile, level)
	if err != nil {
		return domain.BrandedManifest{}, domain.WrapPipelineError(domain.ErrKindTransformation, domain.StatusBranding, err)
	}
	return branded, nil
}

// runPackaging は要求された全形式の配備記述を構築します。
// 1形式でも失敗した場合は、部分成功を配らずにジョブ全体を失敗させます。
func (p *ContentPipeline) runPackaging(ctx context.Context, e *jobExecution, branded domain.BrandedManifest) (map[domain.DeploymentFormat]domain.PackageDescriptor, error) {
	if err := e.advance(ctx, domain.StatusPackaging, "building deployment packages"); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Step: Packaging",
		"job_id", e.payload.JobID,
		"formats", e.payload.Options.Formats,
	)

	res := p.packager.Build(branded, e.payload.Options.Formats)
	if len(res.Failures) > 0 {
		details := make([]string, 0, len(res.Failures))
		for _, name := range res.FailedFormats() {
			details = append(details, fmt.Sprintf("%s: %v", name, res.Failures[domain.DeploymentFormat(name)]))
		}
		return nil, domain.NewPipelineError(domain.ErrKindPackaging, domain.StatusPackaging, details...)
	}

	slog.InfoContext(ctx, "packages built", "job_id", e.payload.JobID, "count", len(res.Descriptors))
	return res.Descriptors, nil
}

// runDeployment は記述を保存し、形式ごとの配備URLを確定します。
func (p *ContentPipeline) runDeployment(ctx context.Context, e *jobExecution, descriptors map[domain.DeploymentFormat]domain.PackageDescriptor) (map[domain.DeploymentFormat]string, error) {
	if err := e.advance(ctx, domain.StatusDeploying, "resolving deployment targets"); err != nil {
		return nil, err
	}

	region := p.locator.ResolveRegion(e.payload.Options.Markets)
	slog.InfoContext(ctx, "Step: Deployment",
		"job_id", e.payload.JobID,
		"region", region,
	)

	urls := make(map[domain.DeploymentFormat]string, len(descriptors))
	for format, descriptor := range descriptors {
		target := p.cfg.GetDescriptorPath(e.payload.JobID, format)
		if err := p.uploader.Upload(ctx, target, descriptor); err != nil {
			return nil, domain.WrapPipelineError(domain.ErrKindDeployment, domain.StatusDeploying,
				fmt.Errorf("upload %s descriptor: %w", format, err))
		}

		url, err := p.locator.ResolveURL(descriptor, e.payload.Options)
		if err != nil {
			return nil, domain.WrapPipelineError(domain.ErrKindDeployment, domain.StatusDeploying, err)
		}
		urls[format] = url
	}
	return urls, nil
}

// publishEvent は状態遷移イベントを配信します。配信失敗はジョブに影響させません。
func (p *ContentPipeline) publishEvent(ctx context.Context, job domain.ProcessingJob) {
	event := domain.JobEvent{
		JobID:          job.JobID,
		GameID:         job.GameID,
		MunicipalityID: job.MunicipalityID,
		Status:         job.Status,
		Progress:       job.Progress,
		Message:        job.Message,
		OccurredAt:     p.now().UTC(),
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "job event publish failed",
			"job_id", job.JobID,
			"status", string(job.Status),
			"error", err,
		)
	}
}
