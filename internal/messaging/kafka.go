package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/config"
	"github.com/aniruddh-code-002/moodmart/pkg/models"
)

// InteractionEvent is the wire form of a tracked user interaction, emitted
// for downstream analytics consumers.
type InteractionEvent struct {
	EventID     uuid.UUID              `json:"event_id"`
	Interaction models.UserInteraction `json:"interaction"`
	Timestamp   time.Time              `json:"timestamp"`
}

// MessageBus publishes interaction events to Kafka. Publishing is always
// best-effort from the caller's perspective; a broker outage must never fail
// the interaction request that triggered the event.
type MessageBus struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	logger  *logrus.Logger
}

func NewMessageBus(cfg *config.KafkaConfig, logger *logrus.Logger) *MessageBus {
	bus := &MessageBus{
		topic:   cfg.Topics.InteractionEvents,
		enabled: cfg.Enabled,
		logger:  logger,
	}

	if !cfg.Enabled {
		logger.Info("Kafka publishing disabled")
		return bus
	}

	bus.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topics.InteractionEvents,
		Balancer:     &kafka.Hash{}, // key by user for per-user ordering
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return bus
}

// PublishInteraction emits an interaction event. Returns an error for
// logging purposes only; callers are expected to ignore it.
func (mb *MessageBus) PublishInteraction(ctx context.Context, interaction *models.UserInteraction) error {
	if !mb.enabled || mb.writer == nil {
		return nil
	}

	event := InteractionEvent{
		EventID:     uuid.New(),
		Interaction: *interaction,
		Timestamp:   time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(interaction.UserID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID.String())},
			{Key: "action", Value: []byte(interaction.Action)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mb.writer.WriteMessages(writeCtx, message); err != nil {
		mb.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": interaction.UserID,
			"topic":   mb.topic,
		}).Warn("Failed to publish interaction event")
		return fmt.Errorf("failed to write interaction event: %w", err)
	}

	mb.logger.WithFields(logrus.Fields{
		"event_id": event.EventID,
		"action":   interaction.Action,
		"topic":    mb.topic,
	}).Debug("Interaction event published")

	return nil
}

func (mb *MessageBus) Close() error {
	if mb.writer == nil {
		return nil
	}
	return mb.writer.Close()
}
