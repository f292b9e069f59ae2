package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// --- インターフェース定義 ---

type WebhookNotifier interface {
	NotifyResult(ctx context.Context, webhookURL string, job domain.ProcessingJob) error
}

// --- 具象アダプター ---

const (
	webhookMaxAttempts = 2
	webhookRetryDelay  = 500 * time.Millisecond
)

// WebhookAdapter は、投入時に指定されたコールバック先へ最終ジョブ状態を送信します。
// 配信は終端状態 (completed, failed) に達したときに1回だけ行われます。
type WebhookAdapter struct {
	client *http.Client
}

func NewWebhookAdapter(timeout time.Duration) *WebhookAdapter {
	return &WebhookAdapter{
		client: &http.Client{Timeout: timeout},
	}
}

// NotifyResult は最終ジョブレコードを JSON で POST します。
// URL の検証は受付時に済んでいる前提です。失敗時は1回だけ再送します。
func (a *WebhookAdapter) NotifyResult(ctx context.Context, webhookURL string, job domain.ProcessingJob) error {
	if webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("ジョブ結果のエンコードに失敗しました: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= webhookMaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(webhookRetryDelay):
			}
		}

		lastErr = a.post(ctx, webhookURL, body)
		if lastErr == nil {
			slog.Info("Webhook に結果を送信しました。",
				"job_id", job.JobID,
				"status", job.Status,
				"attempt", attempt,
			)
			return nil
		}
		slog.Warn("Webhook への送信に失敗しました。",
			"job_id", job.JobID,
			"attempt", attempt,
			"error", lastErr,
		)
	}
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", webhookMaxAttempts, lastErr)
}

func (a *WebhookAdapter) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	// コネクション再利用のためレスポンス本文は読み捨てます。
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

var _ WebhookNotifier = (*WebhookAdapter)(nil)
