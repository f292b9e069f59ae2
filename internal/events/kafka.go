package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// KafkaPublisher はジョブイベントを Kafka トピックへ書き込みます。
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher はジョブイベント用の Kafka パブリッシャーを作成します。
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:  kafka.TCP(brokers...),
			Topic: topic,
			// job_id をキーにして同一ジョブのイベント順序を保ちます。
			Balancer:     &kafka.Hash{},
			BatchSize:    1,
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// Publish はイベントを JSON で配信します。
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode job event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.JobID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("publish job event: %w", err)
	}
	return nil
}

// Close はライターを解放します。
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

var _ Publisher = (*KafkaPublisher)(nil)
var _ Publisher = NoopPublisher{}
