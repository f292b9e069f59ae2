package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/dispatch"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// maxEnvelopeBytes はマニフェスト予算に加えて許容するボディの余白です。
// (deploymentOptions や processingOptions の分)
const maxEnvelopeBytes = 64 << 10

// retryAfterSeconds はキュー満杯時に再試行を促す秒数です。
const retryAfterSeconds = "5"

// submitRequest は受付エンドポイントのリクエストボディです。
type submitRequest struct {
	GameManifest      *domain.GameManifest      `json:"gameManifest"`
	DeploymentOptions *domain.DeploymentOptions `json:"deploymentOptions"`
	ProcessingOptions *domain.ProcessingOptions `json:"processingOptions"`
}

// submitAccepted は受付成功 (202) のレスポンスボディです。
type submitAccepted struct {
	JobID     string           `json:"jobId"`
	Status    domain.JobStatus `json:"status"`
	Progress  int              `json:"progress"`
	StartTime time.Time        `json:"startTime"`
}

// HandleSubmit はコンテンツ投入を受け付け、処理タスクを投入します。
// 同期的な検査はここで弾き、マニフェスト本体の検証は非同期のジョブに委ねます。
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.cfg.MaxContentBytes)+maxEnvelopeBytes)

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds the content size budget")
			return
		}
		slog.WarnContext(r.Context(), "受付リクエストの解析に失敗しました", "error", err)
		writeError(w, http.StatusBadRequest, "request body is not valid JSON")
		return
	}
	if req.GameManifest == nil {
		writeError(w, http.StatusBadRequest, "gameManifest is required")
		return
	}
	if req.DeploymentOptions == nil {
		writeError(w, http.StatusBadRequest, "deploymentOptions is required")
		return
	}

	opts := *req.DeploymentOptions
	opts.MunicipalityID = strings.TrimSpace(opts.MunicipalityID)
	if problems := vetDeploymentOptions(opts); len(problems) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "deployment options are invalid", problems...)
		return
	}

	var webhookURL string
	if req.ProcessingOptions != nil {
		webhookURL = strings.TrimSpace(req.ProcessingOptions.WebhookURL)
	}
	if webhookURL != "" && !config.IsSecureURL(webhookURL) {
		writeError(w, http.StatusUnprocessableEntity, "processingOptions.webhookUrl must be a secure URL")
		return
	}

	job := domain.NewProcessingJob(h.newID(), req.GameManifest.GameID, opts.MunicipalityID, h.now())
	payload := domain.ProcessTaskPayload{
		JobID:      job.JobID,
		Manifest:   *req.GameManifest,
		Options:    opts,
		WebhookURL: webhookURL,
	}

	// 満杯による拒否でレコードを残さないため、タスクの投入を先に行います。
	if err := h.dispatcher.Dispatch(r.Context(), payload); err != nil {
		if errors.Is(err, dispatch.ErrQueueFull) {
			slog.WarnContext(r.Context(), "処理キューが満杯のため受付を拒否しました",
				"job_id", job.JobID, "game_id", job.GameID)
			w.Header().Set("Retry-After", retryAfterSeconds)
			writeError(w, http.StatusServiceUnavailable, "processing queue is full, retry later")
			return
		}
		slog.ErrorContext(r.Context(), "タスクの投入に失敗しました", "job_id", job.JobID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to schedule the processing task")
		return
	}

	// ワーカー側が先に初期レコードを作成した場合の重複は受付成功として扱います。
	if err := h.store.Create(r.Context(), job); err != nil && !errors.Is(err, store.ErrDuplicateJob) {
		slog.ErrorContext(r.Context(), "ジョブレコードの保存に失敗しました", "job_id", job.JobID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to persist the job record")
		return
	}

	slog.InfoContext(r.Context(), "コンテンツ投入を受け付けました",
		"job_id", job.JobID,
		"game_id", job.GameID,
		"municipality", job.MunicipalityID,
		"formats", opts.Formats,
	)
	writeJSON(w, http.StatusAccepted, submitAccepted{
		JobID:     job.JobID,
		Status:    job.Status,
		Progress:  job.Progress,
		StartTime: job.StartTime,
	})
}

// vetDeploymentOptions は受付時点で確定できる設定の問題を全件収集します。
func vetDeploymentOptions(opts domain.DeploymentOptions) []string {
	var problems []string
	if len(opts.Formats) == 0 {
		problems = append(problems, "deploymentOptions.formats requires at least one format")
	}
	for _, f := range opts.Formats {
		if !domain.KnownFormat(f) {
			problems = append(problems, fmt.Sprintf("deploymentOptions.formats: unsupported format %q", f))
		}
	}
	if opts.MunicipalityID == "" {
		problems = append(problems, "deploymentOptions.municipalityId is required")
	}
	if opts.BrandingLevel != "" && !domain.KnownBrandingLevel(opts.BrandingLevel) {
		problems = append(problems, fmt.Sprintf("deploymentOptions.brandingLevel: unknown level %q", opts.BrandingLevel))
	}
	return problems
}
