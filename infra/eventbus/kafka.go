package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain/events"
	"github.com/amirasaad/cinema/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

const defaultTopicPrefix = "cinema.events"

// messageWriter is the part of *kafka.Writer the bus uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventBus publishes every event as a JSON envelope to
// <prefix>.<event type> and then runs the handlers registered in-process.
type KafkaEventBus struct {
	writer      messageWriter
	topicPrefix string
	handlers    map[events.EventType][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex
	logger      *slog.Logger
}

// NewWithKafka creates a Kafka-backed event bus.
// cfg.Brokers is a comma-separated list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(cfg *config.Kafka, logger *slog.Logger) (*KafkaEventBus, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
	}
	logger.Info("Kafka event bus initialized", "brokers", brokers, "topic_prefix", cfg.TopicPrefix)
	return newKafkaEventBus(writer, cfg.TopicPrefix, logger), nil
}

func newKafkaEventBus(writer messageWriter, topicPrefix string, logger *slog.Logger) *KafkaEventBus {
	if strings.TrimSpace(topicPrefix) == "" {
		topicPrefix = defaultTopicPrefix
	}
	return &KafkaEventBus{
		writer:      writer,
		topicPrefix: topicPrefix,
		handlers:    make(map[events.EventType][]eventbus.HandlerFunc),
		logger:      logger.With("bus", "kafka"),
	}
}

// Register registers an in-process handler for a specific event type.
func (b *KafkaEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	defer b.handlersMtx.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to Kafka, then dispatches it locally.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: marshal payload: %w", err)
	}
	now := time.Now().UTC()
	envBytes, err := json.Marshal(envelope{Type: event.Type(), OccurredAt: now, Payload: payload})
	if err != nil {
		return fmt.Errorf("kafka event bus: marshal envelope: %w", err)
	}

	eventType := events.EventType(event.Type())
	msg := kafka.Message{
		Topic: TopicName(b.topicPrefix, eventType),
		Key:   []byte(event.Type()),
		Value: envBytes,
		Time:  now,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}

	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.handlersMtx.RUnlock()
	dispatch(ctx, b.logger, event, handlers)
	return nil
}

// Close flushes and closes the writer.
func (b *KafkaEventBus) Close() error {
	return b.writer.Close()
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TopicName is the topic events of eventType are published to.
func TopicName(prefix string, eventType events.EventType) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	return fmt.Sprintf("%s.%s", prefix, strings.ToLower(string(eventType)))
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
