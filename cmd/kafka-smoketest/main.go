// Command kafka-smoketest publishes one event through the Kafka event bus
// and reads it back to verify a local cluster.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/cinema/infra/eventbus"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// RunSmokeTest emits a FilmDeleted event and consumes it from its topic.
func RunSmokeTest(ctx context.Context, cfg *config.Kafka, logger *slog.Logger) error {
	if cfg.Brokers == "" {
		cfg.Brokers = "localhost:9093,localhost:9092"
	}
	bus, err := infra_eventbus.NewWithKafka(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	event := events.FilmDeleted{
		FilmID:     uuid.New(),
		Title:      "smoke test",
		DeletedBy:  uuid.New(),
		OccurredAt: time.Now().UTC(),
	}
	if err := bus.Emit(ctx, event); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	topic := infra_eventbus.TopicName(cfg.TopicPrefix, events.EventTypeFilmDeleted)
	logger.Info("produced", "topic", topic, "filmID", event.FilmID)

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     strings.Split(cfg.Brokers, ","),
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = r.Close() }()

	readCtx, cancelRead := context.WithTimeout(ctx, 10*time.Second)
	defer cancelRead()
	for {
		msg, err := r.ReadMessage(readCtx)
		if err != nil {
			logger.Error("fetch failed", "topic", topic, "error", err)
			return err
		}
		var env struct {
			Type    string             `json:"type"`
			Payload events.FilmDeleted `json:"payload"`
		}
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}
		if env.Payload.FilmID != event.FilmID {
			continue
		}
		if env.Type != event.Type() {
			return errors.New("envelope type mismatch: " + env.Type)
		}
		logger.Info("consumed", "topic", topic, "offset", msg.Offset)
		return nil
	}
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := &config.Kafka{
		Brokers:     strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		TopicPrefix: strings.TrimSpace(os.Getenv("KAFKA_TOPIC_PREFIX")),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := RunSmokeTest(ctx, cfg, logger); err != nil {
		cancel()
		os.Exit(1) //nolint:gocritic
	}
	logger.Info("kafka smoke test passed")
}
