package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/folio-hub/portfolio-service/internal/config"
	"github.com/folio-hub/portfolio-service/internal/metrics"
)

// Bus publishes lifecycle events to Kafka when brokers are configured and to
// an in-process channel otherwise.
type Bus struct {
	publisher message.Publisher
	// set only for the in-process backend
	channel *gochannel.GoChannel
	prefix  string
	logger  *slog.Logger

	wg sync.WaitGroup
}

func NewBus(cfg config.EventsConfig, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	b := &Bus{prefix: cfg.TopicPrefix, logger: logger}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		b.publisher = pub
		logger.Info("Event bus using kafka", "brokers", cfg.KafkaBrokers)
		return b, nil
	}

	b.channel = gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
	b.publisher = b.channel
	return b, nil
}

// Topic returns the prefixed topic name for t.
func (b *Bus) Topic(t Type) string {
	return b.prefix + string(t)
}

func (b *Bus) Publish(ctx context.Context, evt Event) error {
	msg, err := toMessage(ctx, evt)
	if err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(evt.Type), metrics.ResultError).Inc()
		return err
	}

	if err := b.publisher.Publish(b.Topic(evt.Type), msg); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(string(evt.Type), metrics.ResultError).Inc()
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}

	metrics.EventsPublishedTotal.WithLabelValues(string(evt.Type), metrics.ResultSuccess).Inc()
	return nil
}

// Subscribe returns the in-process stream of t. Only the in-process backend
// can be subscribed to.
func (b *Bus) Subscribe(ctx context.Context, t Type) (<-chan *message.Message, error) {
	if b.channel == nil {
		return nil, errors.New("subscribing is only supported by the in-process bus")
	}
	return b.channel.Subscribe(ctx, b.Topic(t))
}

// StartAudit logs every event until ctx is done. It is a no-op on Kafka,
// where consumers live outside this service.
func (b *Bus) StartAudit(ctx context.Context) error {
	if b.channel == nil {
		return nil
	}

	for _, t := range AllTypes {
		ch, err := b.Subscribe(ctx, t)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", t, err)
		}

		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for msg := range ch {
				evt, err := Decode(msg)
				if err != nil {
					b.logger.Warn("Dropping malformed event", "error", err)
					msg.Ack()
					continue
				}
				b.logger.Info("Lifecycle event",
					"event_id", evt.EventID,
					"type", evt.Type,
					"user_id", evt.UserID,
					"username", evt.Username,
					"is_completed", evt.IsCompleted)
				msg.Ack()
			}
		}()
	}

	return nil
}

// Close stops the publisher and waits for audit subscribers to drain.
func (b *Bus) Close() error {
	err := b.publisher.Close()
	b.wg.Wait()
	return err
}
