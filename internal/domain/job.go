package domain

import "time"

// JobStatus は処理ジョブの状態です。failed を除いて前進のみが許されます。
type JobStatus string

const (
	StatusReceived   JobStatus = "received"
	StatusValidating JobStatus = "validating"
	StatusProcessing JobStatus = "processing"
	StatusBranding   JobStatus = "branding"
	StatusPackaging  JobStatus = "packaging"
	StatusDeploying  JobStatus = "deploying"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// statusOrder は前進判定に使う状態の序列です。failed は序列外の終端です。
var statusOrder = map[JobStatus]int{
	StatusReceived:   0,
	StatusValidating: 1,
	StatusProcessing: 2,
	StatusBranding:   3,
	StatusPackaging:  4,
	StatusDeploying:  5,
	StatusCompleted:  6,
}

// statusProgress は各状態の進捗チェックポイントです。
var statusProgress = map[JobStatus]int{
	StatusReceived:   0,
	StatusValidating: 10,
	StatusProcessing: 30,
	StatusBranding:   50,
	StatusPackaging:  70,
	StatusDeploying:  90,
	StatusCompleted:  100,
}

// Known は、s が定義済みの状態かどうかを判定します。
func (s JobStatus) Known() bool {
	if s == StatusFailed {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// Terminal は、s が終端状態かどうかを判定します。終端レコードは以後不変です。
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Checkpoint は、状態に対応する進捗率を返します。failed は進捗を動かしません。
func (s JobStatus) Checkpoint() int {
	if p, ok := statusProgress[s]; ok {
		return p
	}
	return 0
}

// CanTransition は、s から next への遷移が前進則を満たすかどうかを判定します。
// 終端からの遷移は一切許されず、failed へは任意の非終端状態から遷移できます。
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	from, okFrom := statusOrder[s]
	to, okTo := statusOrder[next]
	return okFrom && okTo && to > from
}

// ProcessingJob は、1件の投入から配備までの実行記録です。
// レコードの作成と更新はオーケストレータのみが行い、他のコンポーネントと
// 外部の呼び出し元からは読み取り専用です。
type ProcessingJob struct {
	// JobID は受付時に採番される一意な識別子です。
	JobID string `json:"jobId"`
	// GameID は投入されたマニフェストの識別子です。
	GameID string `json:"gameId"`
	// MunicipalityID は配信対象の自治体です。
	MunicipalityID string `json:"municipalityId,omitempty"`
	// Status は現在の処理段階です。
	Status JobStatus `json:"status"`
	// Progress は 0〜100 の進捗率です。終端に達するまで単調非減少です。
	Progress int `json:"progress"`
	// Message は利用者向けの現況説明です。
	Message string `json:"message,omitempty"`
	// StartTime は受付時刻です。
	StartTime time.Time `json:"startTime"`
	// EndTime は終端状態に達した時刻です。
	EndTime *time.Time `json:"endTime,omitempty"`
	// DeploymentURLs は completed 時のみ設定される形式別の配備先です。
	DeploymentURLs map[DeploymentFormat]string `json:"deploymentUrls,omitempty"`
	// Errors は failed 時のみ設定されるエラーメッセージの一覧です。
	Errors []string `json:"errors,omitempty"`
}

// NewProcessingJob は received 状態の初期レコードを作成します。
func NewProcessingJob(jobID string, gameID string, municipalityID string, now time.Time) ProcessingJob {
	return ProcessingJob{
		JobID:          jobID,
		GameID:         gameID,
		MunicipalityID: municipalityID,
		Status:         StatusReceived,
		Progress:       StatusReceived.Checkpoint(),
		Message:        "submission accepted",
		StartTime:      now.UTC(),
	}
}

// Clone はレコードの独立した複製を返します。
// ストア外へ渡す際に内部のスライスとマップを共有しないために使います。
func (j ProcessingJob) Clone() ProcessingJob {
	out := j
	if j.DeploymentURLs != nil {
		out.DeploymentURLs = make(map[DeploymentFormat]string, len(j.DeploymentURLs))
		for k, v := range j.DeploymentURLs {
			out.DeploymentURLs[k] = v
		}
	}
	if j.Errors != nil {
		out.Errors = append([]string(nil), j.Errors...)
	}
	if j.EndTime != nil {
		t := *j.EndTime
		out.EndTime = &t
	}
	return out
}
