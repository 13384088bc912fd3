package repository

import (
	"context"

	"ListingPulse/pkg/kafka"
	applogger "ListingPulse/pkg/logger"
)

// LogPublisher adapts the Kafka producer to the log collector's publisher
// interface. Aggregated error logs ship without a partition key.
type LogPublisher struct {
	producer *kafka.Producer
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(producer *kafka.Producer) *LogPublisher {
	return &LogPublisher{producer: producer}
}

// PublishMessage implements logger.Publisher.
func (p *LogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

var _ applogger.Publisher = (*LogPublisher)(nil)
