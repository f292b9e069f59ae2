package events

import (
	"context"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// Publisher はジョブ状態の変化を外部ストリームへ配信する抽象です。
// 配信はベストエフォートで、失敗してもジョブ本体の進行には影響させません。
type Publisher interface {
	Publish(ctx context.Context, event domain.JobEvent) error
	Close() error
}

// NoopPublisher はイベント基盤を持たない構成で使う無効実装です。
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event domain.JobEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
