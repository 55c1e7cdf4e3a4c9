package handler

import (
	"context"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
)

// ReservationStore is the persistence surface the reservation handlers
// need.  *repository.ReservationRepo satisfies it.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByDate(ctx context.Context, date string) ([]model.Reservation, error)
	SearchByPhone(ctx context.Context, fragment string) ([]model.Reservation, error)
	Update(ctx context.Context, res *model.Reservation) error
	UpdateStatus(ctx context.Context, id uint64, status string) (*model.Reservation, error)
}

// TableStore is the persistence surface the table handlers need.  Assign
// and Release are the atomic two-entity operations; *repository.TableRepo
// satisfies it.
type TableStore interface {
	Create(ctx context.Context, tbl *model.Table) error
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	Assign(ctx context.Context, tableID, reservationID uint64) (*model.Table, error)
	Release(ctx context.Context, tableID uint64) (*model.Table, error)
}

// EventPublisher pushes lifecycle events to the broker.  Handlers treat
// publish failures as non-fatal.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ReservationEvent) error
}
