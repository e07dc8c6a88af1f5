package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeTransactionSubmitted     EventType = "Transaction.Submitted"
	EventTypeTransactionStatusChanged EventType = "Transaction.StatusChanged"
	EventTypeFilmDeleted              EventType = "Film.Deleted"
)

// Event is implemented by everything published on the event bus.
type Event interface {
	Type() string
}
