package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher emits the site's activity feed. Handlers publish on a
// best-effort basis after the gateway call succeeds; a failed publish is
// logged and never blocks the user-facing response.
type EventPublisher interface {
	PublishActivityEvent(ctx context.Context, event *ActivityEvent) error
	Close() error
}

// KafkaEventPublisher ships activity events to a Kafka topic through
// Watermill.
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig carries the broker and topic settings for Kafka.
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// NewKafkaEventPublisher connects to the configured brokers. When no
// broker is reachable the caller falls back to the in-memory publisher,
// so login and quiz flows keep working without Kafka.
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// PublishActivityEvent serializes the event and hands it to the topic.
// The type, source and timestamp also travel as message metadata so
// consumers can filter the feed without decoding the body.
func (p *KafkaEventPublisher) PublishActivityEvent(ctx context.Context, event *ActivityEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)

	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("timestamp", event.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish activity event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish activity event: %w", err)
	}

	p.logger.Info("Published activity event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// MockEventPublisher collects events in memory. It stands in for Kafka
// in tests and when the deployment runs without a broker.
type MockEventPublisher struct {
	Events []ActivityEvent
	Logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]ActivityEvent, 0),
		Logger: logger,
	}
}

func (m *MockEventPublisher) PublishActivityEvent(ctx context.Context, event *ActivityEvent) error {
	m.Events = append(m.Events, *event)
	m.Logger.Info("Mock: Published activity event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns everything published so far, in order.
func (m *MockEventPublisher) GetPublishedEvents() []ActivityEvent {
	return m.Events
}

// ClearEvents drops the collected events between test cases.
func (m *MockEventPublisher) ClearEvents() {
	m.Events = make([]ActivityEvent, 0)
}
