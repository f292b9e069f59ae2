package config

import (
	"fmt"
	"path"
	"strings"

	"github.com/shouni/netarmor/securenet"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// GetJobDir は特定のジョブに対する一意の成果物ディレクトリを返します。
// 例: "artifacts/9f3a2c10-..."
func (c Config) GetJobDir(jobID string) string {
	return path.Join(c.BaseOutputDir, jobID)
}

// GetDescriptorPath は、形式別の成果物記述を保存するパスを返します。
func (c Config) GetDescriptorPath(jobID string, format domain.DeploymentFormat) string {
	return path.Join(c.GetJobDir(jobID), fmt.Sprintf("%s-descriptor.json", format))
}

// GetObjectURL は、指定されたパスから完全なGCSオブジェクトURL ("gs://...") を組み立てます。
// pathが既に "gs://" プレフィックスを持つ場合は、そのままpathを返します。
// c.GCSBucketが空文字列の場合、この関数は引数で与えられたpathをそのまま返します。
// これはローカルファイルシステムでの実行など、GCSを使用しないシナリオを想定しています。
func (c Config) GetObjectURL(p string) string {
	if strings.HasPrefix(p, "gs://") {
		return p
	}
	if c.GCSBucket != "" {
		return fmt.Sprintf("gs://%s/%s", c.GCSBucket, p)
	}

	return p
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	switch cfg.DispatchMode {
	case DispatchModePool:
		if cfg.QueueCapacity <= 0 || cfg.WorkerCount <= 0 {
			return fmt.Errorf("configuration error: QUEUE_CAPACITY and WORKER_COUNT must be positive in pool mode")
		}
	case DispatchModeCloudTasks:
		if cfg.ProjectID == "" || cfg.ServiceAccountEmail == "" {
			return fmt.Errorf("configuration error: Cloud Tasks settings are missing")
		}
		if cfg.TaskAuthToken == "" {
			return fmt.Errorf("TASK_AUTH_TOKEN が設定されていません。ワーカーエンドポイントの保護に必須です")
		}
	default:
		return fmt.Errorf("configuration error: unknown DISPATCH_MODE %q", cfg.DispatchMode)
	}

	switch cfg.JobStoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if cfg.SQLitePath == "" {
			return fmt.Errorf("configuration error: SQLITE_PATH is not set")
		}
	default:
		return fmt.Errorf("configuration error: unknown JOB_STORE %q", cfg.JobStoreDriver)
	}

	switch cfg.UploadDriver {
	case UploadNone:
	case UploadGCS:
		if cfg.GCSBucket == "" {
			return fmt.Errorf("configuration error: GCS_CONTENT_BUCKET is not set")
		}
	case UploadMinIO:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			return fmt.Errorf("configuration error: MinIO settings are missing")
		}
	default:
		return fmt.Errorf("configuration error: unknown UPLOAD_DRIVER %q", cfg.UploadDriver)
	}

	if cfg.MaxContentBytes <= 0 {
		return fmt.Errorf("configuration error: MAX_CONTENT_BYTES must be positive")
	}
	if cfg.SessionBudget <= 0 || cfg.JobDeadline <= 0 {
		return fmt.Errorf("configuration error: SESSION_BUDGET and JOB_DEADLINE must be positive")
	}

	if cfg.SlackWebhookURL != "" && !IsSecureURL(cfg.SlackWebhookURL) {
		return fmt.Errorf("security error: SLACK_WEBHOOK_URL must be HTTPS")
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
