// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventsQueueName is the durable queue carrying reservation lifecycle events.
const EventsQueueName = "reservation.events"

// Event types emitted as a reservation moves through its lifecycle.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationSeated    = "reservation.seated"
	EventReservationFinished  = "reservation.finished"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation changes state.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.  TableID is set only for seat and
// finish events.
type ReservationEvent struct {
	EventID       string  `json:"event_id"`
	Type          string  `json:"type"`
	ReservationID uint64  `json:"reservation_id"`
	TableID       *uint64 `json:"table_id,omitempty"`
	Status        string  `json:"status"`
	People        int     `json:"people"`
	OccurredAt    string  `json:"occurred_at"`
}

// NewReservationEvent builds an event with a fresh id and the current UTC
// timestamp.
func NewReservationEvent(eventType string, reservationID uint64, tableID *uint64, status string, people int) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		ReservationID: reservationID,
		TableID:       tableID,
		Status:        status,
		People:        people,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}
