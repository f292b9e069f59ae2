package domain

// ProcessTaskPayload は、キュー経由でワーカーに渡される処理指示を表します。
// ワーカーがストアを引かずに実行へ入れるよう、投入内容を丸ごと運びます。
type ProcessTaskPayload struct {
	// JobID は受付時に採番されたジョブIDです。
	JobID string `json:"job_id"`
	// Manifest は投入されたゲームマニフェスト本体です。
	Manifest GameManifest `json:"manifest"`
	// Options は配信形式や対象自治体などの配信設定です。
	Options DeploymentOptions `json:"options"`
	// WebhookURL は終了通知の送信先です。(任意)
	WebhookURL string `json:"webhook_url,omitempty"`
}
