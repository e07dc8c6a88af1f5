package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_DispatchesByType(t *testing.T) {
	bus := NewWithMemory(slog.Default())
	var got []string
	bus.Register(events.EventTypeTransactionStatusChanged, func(ctx context.Context, e events.Event) error {
		got = append(got, e.(events.TransactionStatusChanged).To)
		return nil
	})
	bus.Register(events.EventTypeTransactionStatusChanged, func(ctx context.Context, e events.Event) error {
		return errors.New("audit sink down")
	})

	require.NoError(t, bus.Emit(context.Background(), events.TransactionStatusChanged{To: "Approved"}))
	require.NoError(t, bus.Emit(context.Background(), events.TransactionSubmitted{}))

	assert.Equal(t, []string{"Approved"}, got)
	assert.Len(t, bus.Published(), 2)
}

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaEventBus_PublishesEnvelope(t *testing.T) {
	w := &recordingWriter{}
	bus := newKafkaEventBus(w, "", slog.Default())
	handled := 0
	bus.Register(events.EventTypeTransactionSubmitted, func(ctx context.Context, e events.Event) error {
		handled++
		return nil
	})

	txID := uuid.New()
	require.NoError(t, bus.Emit(context.Background(), events.TransactionSubmitted{TransactionID: txID}))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "cinema.events.transaction.submitted", w.msgs[0].Topic)
	assert.Equal(t, "Transaction.Submitted", string(w.msgs[0].Key))

	var env envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, "Transaction.Submitted", env.Type)
	var payload events.TransactionSubmitted
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, txID, payload.TransactionID)
	assert.Equal(t, 1, handled)
}

func TestKafkaEventBus_WriteFailureSkipsHandlers(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	bus := newKafkaEventBus(w, "custom", slog.Default())
	handled := false
	bus.Register(events.EventTypeFilmDeleted, func(ctx context.Context, e events.Event) error {
		handled = true
		return nil
	})

	err := bus.Emit(context.Background(), events.FilmDeleted{})
	assert.ErrorContains(t, err, "broker unavailable")
	assert.False(t, handled)
}

func TestNewWithKafka_RequiresBrokers(t *testing.T) {
	_, err := NewWithKafka(&config.Kafka{Brokers: " , "}, slog.Default())
	assert.Error(t, err)
}

func TestParseBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokers(" a:9092, ,b:9092 "))
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "cinema.events.film.deleted", TopicName("", events.EventTypeFilmDeleted))
	assert.Equal(t, "staging.transaction.statuschanged", TopicName("staging", events.EventTypeTransactionStatusChanged))
}
