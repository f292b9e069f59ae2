package domain

import (
	"fmt"
	"strings"
)

// ErrorKind は、パイプライン失敗の分類です。
type ErrorKind string

const (
	ErrKindValidation     ErrorKind = "ValidationError"
	ErrKindTransformation ErrorKind = "TransformationError"
	ErrKindPackaging      ErrorKind = "PackagingError"
	ErrKindDeployment     ErrorKind = "DeploymentError"
	// ErrKindNotification はログにのみ残し、ジョブの状態には影響させません。
	ErrKindNotification ErrorKind = "NotificationError"
	// ErrKindTimeout はジョブの実行期限超過です。
	ErrKindTimeout ErrorKind = "TimeoutError"
)

// PipelineError は、失敗した段階と分類を保持するジョブ実行エラーです。
// Details は failed レコードの errors 欄へそのまま転記されます。
type PipelineError struct {
	Kind    ErrorKind
	Stage   JobStatus
	Details []string
	Err     error
}

// NewPipelineError は details を利用者向けメッセージとするエラーを作成します。
func NewPipelineError(kind ErrorKind, stage JobStatus, details ...string) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Details: details}
}

// WrapPipelineError は原因 err を包んだエラーを作成します。
func WrapPipelineError(kind ErrorKind, stage JobStatus, err error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Err: err}
}

func (e *PipelineError) Error() string {
	switch {
	case len(e.Details) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Details, "; "))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Messages は failed レコードに記録するメッセージ一覧を返します。
func (e *PipelineError) Messages() []string {
	if len(e.Details) > 0 {
		return e.Details
	}
	return []string{e.Error()}
}
