package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// notifyGrace は終了通知 (webhook, Slack) に与える猶予です。
// 実行期限を使い切ったジョブでも通知は届けます。
const notifyGrace = 30 * time.Second

// stageFailureKinds は、分類されていない失敗を段階から分類へ写像します。
var stageFailureKinds = map[domain.JobStatus]domain.ErrorKind{
	domain.StatusReceived:   domain.ErrKindValidation,
	domain.StatusValidating: domain.ErrKindValidation,
	domain.StatusProcessing: domain.ErrKindTransformation,
	domain.StatusBranding:   domain.ErrKindTransformation,
	domain.StatusPackaging:  domain.ErrKindPackaging,
	domain.StatusDeploying:  domain.ErrKindDeployment,
}

// jobExecution は一回のジョブ実行に関する状態（ジョブレコードや現在の段階）を保持します。
type jobExecution struct {
	pipeline *ContentPipeline
	payload  domain.ProcessTaskPayload
	job      domain.ProcessingJob
	stage    domain.JobStatus
}

// run は各ステージを順番に実行し、終了状態の記録と通知までを担います。
func (e *jobExecution) run(ctx context.Context) error {
	p := e.pipeline

	job, err := e.bootstrap(ctx)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		// 再配送されたタスクです。終端レコードには触れません。
		slog.InfoContext(ctx, "job already finished, skipping redelivery",
			"job_id", job.JobID,
			"status", string(job.Status),
		)
		return nil
	}
	e.job = job
	e.stage = job.Status

	// 期限超過は ctx の打ち切りと監視タイマーの両方で止めます。
	// ステージが ctx を無視して滞留しても、タイマー側がレコードを強制失敗させます。
	ctx, cancel := context.WithTimeout(ctx, p.cfg.JobDeadline)
	defer cancel()
	watchdog := time.AfterFunc(p.cfg.JobDeadline, e.forceTimeout)
	defer watchdog.Stop()

	slog.InfoContext(ctx, "Pipeline execution started",
		"job_id", e.payload.JobID,
		"game_id", e.payload.Manifest.GameID,
		"municipality", e.payload.Options.MunicipalityID,
		"formats", e.payload.Options.Formats,
	)

	if err := p.runValidation(ctx, e); err != nil {
		return e.finishFailure(ctx, err)
	}

	profile, err := p.runProcessing(ctx, e)
	if err != nil {
		return e.finishFailure(ctx, err)
	}

	branded, err := p.runBranding(ctx, e, profile)
	if err != nil {
		return e.finishFailure(ctx, err)
	}

	descriptors, err := p.runPackaging(ctx, e, branded)
	if err != nil {
		return e.finishFailure(ctx, err)
	}

	urls, err := p.runDeployment(ctx, e, descriptors)
	if err != nil {
		return e.finishFailure(ctx, err)
	}

	return e.finishSuccess(ctx, urls)
}

// bootstrap は実行対象のジョブレコードを取得します。
// 受付とは別インスタンスへ配送された場合に備え、無ければ受付相当のレコードを作ります。
func (e *jobExecution) bootstrap(ctx context.Context) (domain.ProcessingJob, error) {
	p := e.pipeline

	job, err := p.store.Get(ctx, e.payload.JobID)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.ProcessingJob{}, fmt.Errorf("load job record: %w", err)
	}

	job = domain.NewProcessingJob(e.payload.JobID, e.payload.Manifest.GameID, e.payload.Options.MunicipalityID, p.now())
	if err := p.store.Create(ctx, job); err != nil {
		if errors.Is(err, store.ErrDuplicateJob) {
			return p.store.Get(ctx, e.payload.JobID)
		}
		return domain.ProcessingJob{}, fmt.Errorf("create job record: %w", err)
	}
	p.publishEvent(ctx, job)
	return job, nil
}

// advance はジョブを次の状態へ進め、遷移イベントを配信します。
func (e *jobExecution) advance(ctx context.Context, next domain.JobStatus, message string) error {
	job, err := e.pipeline.store.Update(ctx, e.payload.JobID, store.Mutation{Next: next, Message: message})
	if err != nil {
		return fmt.Errorf("advance job to %s: %w", next, err)
	}
	e.job = job
	e.stage = next
	e.pipeline.publishEvent(ctx, job)
	return nil
}

// finishSuccess は completed を記録し、終了通知を送ります。
func (e *jobExecution) finishSuccess(ctx context.Context, urls map[domain.DeploymentFormat]string) error {
	p := e.pipeline

	done, err := p.store.Update(ctx, e.payload.JobID, store.Mutation{
		Next:    domain.StatusCompleted,
		Message: "deployment complete",
		URLs:    urls,
	})
	if err != nil {
		if errors.Is(err, store.ErrTerminalJob) {
			// 監視タイマーが直前に期限超過を記録した場合だけここへ来ます。
			return nil
		}
		return fmt.Errorf("record job completion: %w", err)
	}

	slog.InfoContext(ctx, "Pipeline execution completed",
		"job_id", done.JobID,
		"game_id", done.GameID,
		"formats", len(urls),
		"elapsed", elapsedOf(done).String(),
	)
	p.publishEvent(ctx, done)
	e.notifyTerminal(ctx, done)
	return nil
}

// finishFailure は failed を記録し、終了通知を送ります。
// 記録できた失敗は nil を返し、タスク基盤の再配送を招かないようにします。
func (e *jobExecution) finishFailure(ctx context.Context, cause error) error {
	p := e.pipeline
	// 期限切れの ctx でも終了の記録と通知は行います。
	ctx = context.WithoutCancel(ctx)

	perr := e.classify(cause)
	failed, err := p.store.Update(ctx, e.payload.JobID, store.Mutation{
		Next:    domain.StatusFailed,
		Message: fmt.Sprintf("%s during %s", perr.Kind, perr.Stage),
		Errors:  perr.Messages(),
	})
	if err != nil {
		if errors.Is(err, store.ErrTerminalJob) {
			return nil
		}
		return fmt.Errorf("record job failure: %w", err)
	}

	slog.ErrorContext(ctx, "Pipeline execution failed",
		"job_id", e.payload.JobID,
		"kind", string(perr.Kind),
		"stage", string(perr.Stage),
		"error", cause,
	)
	p.publishEvent(ctx, failed)
	e.notifyTerminal(ctx, failed)
	return nil
}

// classify は任意のエラーを PipelineError へ正規化します。
func (e *jobExecution) classify(cause error) *domain.PipelineError {
	var perr *domain.PipelineError
	if errors.As(cause, &perr) {
		return perr
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		return domain.WrapPipelineError(domain.ErrKindTimeout, e.stage, cause)
	}
	kind, ok := stageFailureKinds[e.stage]
	if !ok {
		kind = domain.ErrKindTransformation
	}
	return domain.WrapPipelineError(kind, e.stage, cause)
}

// forceTimeout は実行期限を超えたジョブを失敗として記録します。
// タイマーのゴルーチンで動くため、実行側の状態には触れません。
func (e *jobExecution) forceTimeout() {
	p := e.pipeline
	ctx, cancel := context.WithTimeout(context.Background(), notifyGrace)
	defer cancel()

	failed, err := p.store.Update(ctx, e.payload.JobID, store.Mutation{
		Next:    domain.StatusFailed,
		Message: fmt.Sprintf("%s: execution deadline exceeded", domain.ErrKindTimeout),
		Errors:  []string{fmt.Sprintf("job exceeded the %s execution deadline", p.cfg.JobDeadline)},
	})
	if err != nil {
		if !errors.Is(err, store.ErrTerminalJob) {
			slog.Error("watchdog could not record job timeout", "job_id", e.payload.JobID, "error", err)
		}
		return
	}

	slog.Error("job force-failed by watchdog",
		"job_id", e.payload.JobID,
		"deadline", p.cfg.JobDeadline.String(),
	)
	p.publishEvent(ctx, failed)
	e.notifyTerminal(ctx, failed)
}

// notifyTerminal は終端状態に達したジョブの通知をまとめて送ります。
// 通知処理自体の失敗は、パイプライン全体の成否には影響させません。
func (e *jobExecution) notifyTerminal(parent context.Context, job domain.ProcessingJob) {
	p := e.pipeline
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), notifyGrace)
	defer cancel()

	req := buildNotification(job)

	var slackErr error
	if job.Status == domain.StatusCompleted {
		slackErr = p.slack.NotifyCompleted(ctx, req)
	} else {
		slackErr = p.slack.NotifyFailed(ctx, req)
	}
	if slackErr != nil {
		slog.ErrorContext(ctx, "slack notification failed", "job_id", job.JobID, "error", slackErr)
	}

	if err := p.webhook.NotifyResult(ctx, e.payload.WebhookURL, job); err != nil {
		slog.ErrorContext(ctx, "webhook notification failed", "job_id", job.JobID, "error", err)
	}
}

// --- 通知ビルダ ---

func buildNotification(job domain.ProcessingJob) domain.NotificationRequest {
	municipality := job.MunicipalityID
	if municipality == "" {
		municipality = domain.MunicipalityNotAvailable
	}
	return domain.NotificationRequest{
		JobID:          job.JobID,
		GameID:         job.GameID,
		Municipality:   municipality,
		Status:         job.Status,
		DeploymentURLs: job.DeploymentURLs,
		Errors:         job.Errors,
		Elapsed:        elapsedOf(job),
	}
}

func elapsedOf(job domain.ProcessingJob) time.Duration {
	if job.EndTime == nil {
		return 0
	}
	return job.EndTime.Sub(job.StartTime)
}
