package config

import (
	"log/slog"
	"strings"

	"github.com/quizhub/quiz-web/internal/events"
)

// EventConfig holds configuration for activity event publishing
type EventConfig struct {
	Enabled       bool
	Publisher     string // kafka or mock
	KafkaBrokers  string
	ActivityTopic string
}

func loadEventConfig() EventConfig {
	return EventConfig{
		Enabled:       getEnv("EVENTS_ENABLED", "true") == "true",
		Publisher:     getEnv("EVENTS_PUBLISHER", "kafka"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		ActivityTopic: getEnv("ACTIVITY_TOPIC", "quiz-activity"),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.ActivityTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.ActivityTopic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}
