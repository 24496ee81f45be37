package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"paygate/internal/config"
	"paygate/internal/constants"
	"paygate/internal/logger"
	"paygate/pkg/metrics"
	"paygate/pkg/retry"
)

type KafkaProducer struct {
	writer      *kafka.Writer
	logger      logger.Logger
	retryPolicy retry.Policy
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: constants.KafkaBatchTimeout,
		WriteTimeout: constants.KafkaWriteTimeout,
		Async:        false,
	}

	policy := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
		Multiplier:      cfg.Retry.Multiplier,
		MaxElapsedTime:  cfg.Retry.MaxElapsedTime,
	}
	if policy.MaxAttempts <= 0 {
		policy = retry.DefaultPolicy()
	}

	return &KafkaProducer{writer: w, logger: log, retryPolicy: policy}
}

func (p *KafkaProducer) Publish(ctx context.Context, topic string, event PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	start := time.Now()
	err = retry.RetryWithCallback(ctx, p.retryPolicy, func() error {
		return p.writer.WriteMessages(ctx,
			kafka.Message{
				Topic: topic,
				Key:   []byte(event.ID),
				Value: body,
				Time:  time.Now(),
			},
		)
	}, func(attempt int, retryErr error, nextDelay time.Duration) {
		p.logger.Warnw("retrying payment event publish",
			"topic", topic,
			"attempt", attempt,
			"next_delay", nextDelay,
			"error", retryErr,
		)
	})

	if err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.IncKafkaMessagesWritten(topic)
	metrics.ObserveKafkaWriteDuration(topic, time.Since(start))

	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// NewProducer returns a Kafka producer when brokers are configured
// and nil otherwise. Callers treat a nil producer as publishing
// disabled.
func NewProducer(cfg config.BrokerConfig, log logger.Logger) Producer {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}
	return NewKafkaProducer(cfg.Kafka, log)
}
