package builder

import (
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/events"
)

// buildEventPublisher はジョブイベントの配信先を構成します。
// ブローカー未設定の場合は何もしない実装を返します。
func buildEventPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NoopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
