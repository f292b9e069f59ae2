package domain

import "time"

const MunicipalityNotAvailable = "N/A"

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// ジョブの終了要約を通知先に伝えるために使用します。
type NotificationRequest struct {
	// JobID は対象ジョブの識別子です。
	JobID string `json:"job_id"`

	// GameID は処理したマニフェストの識別子です。
	GameID string `json:"game_id"`

	// Municipality は配信対象の自治体です。
	Municipality string `json:"municipality"`

	// Status は終了時の状態です。(completed または failed)
	Status JobStatus `json:"status"`

	// DeploymentURLs は completed 時の形式別配備先です。
	DeploymentURLs map[DeploymentFormat]string `json:"deployment_urls,omitempty"`

	// Errors は failed 時のエラーメッセージ一覧です。
	Errors []string `json:"errors,omitempty"`

	// Elapsed は受付から終了までの所要時間です。
	Elapsed time.Duration `json:"elapsed"`
}

// JobEvent は、状態遷移ごとに発行されるジョブのライフサイクルイベントです。
// 下流の監査・分析コンシューマ向けで、発行失敗はジョブの状態に影響しません。
type JobEvent struct {
	JobID          string    `json:"job_id"`
	GameID         string    `json:"game_id"`
	MunicipalityID string    `json:"municipality_id,omitempty"`
	Status         JobStatus `json:"status"`
	Progress       int       `json:"progress"`
	Message        string    `json:"message,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
