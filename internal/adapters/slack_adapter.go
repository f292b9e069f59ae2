package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	NotifyCompleted(ctx context.Context, req domain.NotificationRequest) error
	NotifyFailed(ctx context.Context, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	httpClient  httpkit.ClientInterface
	webhookURL  string
	slackClient *slack.Client
}

func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{webhookURL: webhookURL}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗しました: %w", err)
	}

	return &SlackAdapter{
		httpClient:  httpClient,
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// NotifyCompleted 配備URL一覧を含む、ジョブ完了時のSlack通知送信。
func (a *SlackAdapter) NotifyCompleted(ctx context.Context, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、完了通知をスキップします。", "job_id", req.JobID)
		return nil
	}

	title := "✅ 教材コンテンツの配備が完了しました"
	content := a.buildCompletedContent(req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.Info("Slack に完了通知を送信しました。", "job_id", req.JobID)
	return nil
}

// NotifyFailed エラー詳細と実行メタデータを含むSlackエラー通知の送信。
func (a *SlackAdapter) NotifyFailed(ctx context.Context, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.Info("Slackクライアントが初期化されていないため、エラー通知をスキップします。", "job_id", req.JobID, "errors", req.Errors)
		return nil
	}

	// Slackのmrkdwn形式では、アスタリスク(*)でテキストを囲むと太字として解釈されます。
	title := "❌ コンテンツ処理が失敗しました"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*ゲームID:* `%s`\n", req.GameID))
	sb.WriteString(fmt.Sprintf("*ジョブID:* `%s`\n", req.JobID))
	if req.Municipality != "" && req.Municipality != domain.MunicipalityNotAvailable {
		sb.WriteString(fmt.Sprintf("*自治体:* `%s`\n", req.Municipality))
	}
	sb.WriteString(fmt.Sprintf("*所要時間:* `%s`\n\n", req.Elapsed.Round(time.Millisecond)))

	// エラー詳細をコードブロックで囲むことで、複数件のメッセージの可読性を向上させます。
	sb.WriteString("*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%s\n```\n", strings.Join(req.Errors, "\n")))

	if err := a.slackClient.SendTextWithHeader(ctx, title, sb.String()); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.Info("Slack にエラー通知を送信しました。", "job_id", req.JobID)
	return nil
}

// buildCompletedContent 通知リクエストに基づき、完了メッセージの内容を生成します。
func (a *SlackAdapter) buildCompletedContent(req domain.NotificationRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*ゲームID:* `%s`\n", req.GameID))
	if req.Municipality != "" && req.Municipality != domain.MunicipalityNotAvailable {
		sb.WriteString(fmt.Sprintf("*自治体:* `%s`\n", req.Municipality))
	}
	sb.WriteString(fmt.Sprintf("*ジョブID:* `%s`\n", req.JobID))
	sb.WriteString(fmt.Sprintf("*所要時間:* `%s`\n\n", req.Elapsed.Round(time.Millisecond)))

	// 形式名で整列して、通知ごとに並び順が揺れないようにします。
	formats := make([]string, 0, len(req.DeploymentURLs))
	for format := range req.DeploymentURLs {
		formats = append(formats, string(format))
	}
	sort.Strings(formats)

	for _, format := range formats {
		url := req.DeploymentURLs[domain.DeploymentFormat(format)]
		sb.WriteString(fmt.Sprintf("🌐 *%s:* <%s|配備先を開く>\n", format, url))
	}

	return sb.String()
}
