package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// SignedURLExpiration 配備直後の検収作業を考慮した署名付きURLの有効期限
	SignedURLExpiration = 15 * time.Minute
	// DefaultHTTPTimeout Slack やWebhook先の応答を考慮したタイムアウト
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultSCORMMasteryScore は評価シーンが閾値を持たない場合の合格点です。
	DefaultSCORMMasteryScore = 80
	// DefaultLighthouseTarget は web バンドルの性能予算の目標スコアです。
	DefaultLighthouseTarget = 95
	// DefaultCacheStrategy は PWA のオフライン戦略です。
	DefaultCacheStrategy = "offline-first"
	// DefaultInstallPromptDelaySeconds はインストール誘導までの遅延秒数です。
	DefaultInstallPromptDelaySeconds = 30
)

// ディスパッチ方式の識別子です。
const (
	DispatchModePool       = "pool"
	DispatchModeCloudTasks = "cloudtasks"
)

// ジョブストアの識別子です。
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// 成果物アップロード先の識別子です。
const (
	UploadNone  = "none"
	UploadGCS   = "gcs"
	UploadMinIO = "minio"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL      string        `env:"SERVICE_URL" envDefault:"http://localhost:8080"`
	Port            string        `env:"PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// DispatchMode はジョブ実行の方式です。(pool: プロセス内ワーカープール, cloudtasks: Cloud Tasks 経由)
	DispatchMode  string `env:"DISPATCH_MODE" envDefault:"pool"`
	QueueCapacity int    `env:"QUEUE_CAPACITY" envDefault:"64"`
	WorkerCount   int    `env:"WORKER_COUNT" envDefault:"4"`
	// TaskAuthToken はワーカーエンドポイントを守る共有トークンです。(cloudtasks モードで必須)
	TaskAuthToken string `env:"TASK_AUTH_TOKEN"`

	// Cloud Tasks Settings
	ProjectID           string `env:"GCP_PROJECT_ID"`
	LocationID          string `env:"GCP_LOCATION_ID" envDefault:"europe-north1"`
	QueueID             string `env:"CLOUD_TASKS_QUEUE_ID" envDefault:"content-pipeline-queue"`
	TaskAudienceURL     string `env:"TASK_AUDIENCE_URL"` // 空の場合は ServiceURL を使用
	ServiceAccountEmail string `env:"SERVICE_ACCOUNT_EMAIL"`

	// Job Settings
	JobStoreDriver string `env:"JOB_STORE" envDefault:"memory"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"data/jobs.db"`
	// JobDeadline は1ジョブの実行期限です。超過したジョブは監視タイマーが強制失敗させます。
	JobDeadline time.Duration `env:"JOB_DEADLINE" envDefault:"30m"`

	// Validation Budgets
	MaxContentBytes int `env:"MAX_CONTENT_BYTES" envDefault:"512000"`
	// SessionBudget は全シーンの推定所要時間の上限です。
	SessionBudget time.Duration `env:"SESSION_BUDGET" envDefault:"450s"`
	// ValidationBudget は検証処理自体の性能契約です。(超過は記録のみで中断しません)
	ValidationBudget time.Duration `env:"VALIDATION_BUDGET" envDefault:"5s"`

	// Deployment Settings
	CDNBaseURL    string `env:"CDN_BASE_URL" envDefault:"https://content.diginative.eu"`
	DefaultRegion string `env:"DEFAULT_REGION" envDefault:"eu-central"`
	UploadDriver  string `env:"UPLOAD_DRIVER" envDefault:"none"`
	GCSBucket     string `env:"GCS_CONTENT_BUCKET"` // 成果物記述を保存するバケット
	BaseOutputDir string `env:"BASE_OUTPUT_DIR" envDefault:"artifacts"`

	// MinIO Settings (UPLOAD_DRIVER=minio)
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"diginative-artifacts"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// Branding Sources
	// BrandingProfilePath は自治体プロファイル表の JSON です。(ローカルパスまたは gs://、任意)
	BrandingProfilePath string `env:"BRANDING_PROFILES_PATH"`
	// BrandingRedisAddr を設定すると Redis 上のプロファイル登録簿を優先して参照します。
	BrandingRedisAddr      string `env:"BRANDING_REDIS_ADDR"`
	BrandingRedisPassword  string `env:"BRANDING_REDIS_PASSWORD"`
	BrandingRedisDB        int    `env:"BRANDING_REDIS_DB" envDefault:"0"`
	BrandingRedisNamespace string `env:"BRANDING_REDIS_NAMESPACE" envDefault:"branding"`

	// Notification Settings
	SlackWebhookURL string        `env:"SLACK_WEBHOOK_URL"`
	WebhookTimeout  time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"10s"`

	// Event Stream Settings (任意)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"content-pipeline.jobs"`
}

// Load は環境変数から設定を読み込み、Config 構造体を生成します。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.TaskAudienceURL == "" {
		cfg.TaskAudienceURL = cfg.ServiceURL
	}

	return cfg, nil
}
