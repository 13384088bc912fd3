package repository

import (
	"context"
	"time"

	drepo "ListingPulse/internal/domain/repository"
	"ListingPulse/pkg/kafka"
)

// refreshEvent is the payload published after a successful recompute.
type refreshEvent struct {
	Report      string    `json:"report"`
	GeneratedAt time.Time `json:"generatedAt"`
	Items       int       `json:"items"`
}

// KafkaNotifier publishes refresh events to a Kafka topic. Publishing is best
// effort; failures are logged by the caller and never fail the run.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(producer *kafka.Producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

// NotifyRefreshed implements repository.Notifier.
func (n *KafkaNotifier) NotifyRefreshed(ctx context.Context, report string, generatedAt time.Time, items int) error {
	return n.producer.Publish(ctx, n.topic, []byte(report), refreshEvent{
		Report:      report,
		GeneratedAt: generatedAt,
		Items:       items,
	})
}

// Close implements repository.Notifier.
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// NoopNotifier is used when Kafka is not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyRefreshed(context.Context, string, time.Time, int) error { return nil }
func (NoopNotifier) Close() error                                                  { return nil }

var (
	_ drepo.Notifier = (*KafkaNotifier)(nil)
	_ drepo.Notifier = NoopNotifier{}
)
