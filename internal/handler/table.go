package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
	"github.com/kalaniocean/restaurant-reservation/internal/repository"
	"github.com/kalaniocean/restaurant-reservation/internal/validation"
)

// TableHandler serves the /tables routes, including the seat and finish
// operations that bind a reservation to a table and release it again.
type TableHandler struct {
	Tables       TableStore
	Reservations ReservationStore
	Events       EventPublisher
	Logger       *zap.Logger
}

// NewTableHandler constructs a TableHandler.  Both stores must be non-nil;
// Events may be nil to disable event publishing.
func NewTableHandler(tables TableStore, reservations ReservationStore, events EventPublisher, logger *zap.Logger) *TableHandler {
	if tables == nil || reservations == nil {
		panic("nil store passed to NewTableHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableHandler{Tables: tables, Reservations: reservations, Events: events, Logger: logger}
}

// List handles GET /tables, ordered by table name.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, "could not list tables")
	}
	return dataResponse(c, http.StatusOK, tables)
}

// Create handles POST /tables.  A table may be created already linked to a
// reservation, in which case it starts occupied.
func (h *TableHandler) Create(c echo.Context) error {
	payload, verr := decodeData(c)
	if verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	if verr := validation.TablePayload(strField(payload, "table_name"), payload["capacity"]); verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}

	capacity, _ := intField(payload, "capacity")
	tbl := &model.Table{
		TableName: strField(payload, "table_name"),
		Capacity:  capacity,
	}
	if resID, ok := uintField(payload, "reservation_id"); ok && resID > 0 {
		tbl.ReservationID = &resID
		tbl.Occupied = true
	}
	if err := h.Tables.Create(c.Request().Context(), tbl); err != nil {
		h.Logger.Error("create table failed", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "could not create table")
	}
	return dataResponse(c, http.StatusCreated, tbl)
}

// Get handles GET /tables/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid table id")
	}
	tbl, err := h.Tables.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundTable(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read table")
	}
	return dataResponse(c, http.StatusOK, tbl)
}

// Seat handles PUT /tables/:id/seat.  The request body names the
// reservation to seat.  After the rule pipeline passes, the store applies
// both mutations in one transaction; a lost race against a concurrent seat
// surfaces as the table being occupied.
func (h *TableHandler) Seat(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid table id")
	}
	payload, verr := decodeData(c)
	if verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	resID, ok := uintField(payload, "reservation_id")
	if !ok || resID == 0 {
		return errorResponse(c, http.StatusBadRequest, "missing reservation_id")
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("%d does not exist", resID))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read reservation")
	}
	tbl, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundTable(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read table")
	}

	if verr := validation.Run(
		func() *validation.Error {
			if res.Status == model.StatusSeated {
				return validation.New(400, "party already seated")
			}
			return nil
		},
		func() *validation.Error {
			if tbl.Capacity < res.People {
				return validation.New(400, "the max capacity for %s is %d", tbl.TableName, tbl.Capacity)
			}
			return nil
		},
		func() *validation.Error {
			if tbl.Occupied {
				return validation.New(400, "%s is already occupied", tbl.TableName)
			}
			return nil
		},
	); verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}

	updated, err := h.Tables.Assign(ctx, id, resID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTableOccupied):
			return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("%s is already occupied", tbl.TableName))
		case errors.Is(err, repository.ErrTableNotFound):
			return errorResponse(c, http.StatusNotFound, notFoundTable(id))
		default:
			h.Logger.Error("seat assignment failed, transaction rolled back",
				zap.Uint64("table_id", id), zap.Uint64("reservation_id", resID), zap.Error(err))
			return errorResponse(c, http.StatusInternalServerError, "could not seat reservation")
		}
	}
	h.publish(c, queue.NewReservationEvent(queue.EventReservationSeated, resID, &id, model.StatusSeated, res.People))
	return dataResponse(c, http.StatusOK, updated)
}

// Finish handles DELETE /tables/:id/seat.  Clearing the table finishes the
// reservation that was seated at it, in one transaction.
func (h *TableHandler) Finish(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid table id")
	}
	ctx := c.Request().Context()
	tbl, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundTable(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read table")
	}
	if !tbl.Occupied {
		return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("%s is not occupied", tbl.TableName))
	}

	freed, err := h.Tables.Release(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrTableNotOccupied):
			return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("%s is not occupied", tbl.TableName))
		case errors.Is(err, repository.ErrTableNotFound):
			return errorResponse(c, http.StatusNotFound, notFoundTable(id))
		default:
			h.Logger.Error("table release failed, transaction rolled back",
				zap.Uint64("table_id", id), zap.Error(err))
			return errorResponse(c, http.StatusInternalServerError, "could not finish table")
		}
	}
	if tbl.ReservationID != nil {
		h.publish(c, queue.NewReservationEvent(queue.EventReservationFinished, *tbl.ReservationID, &id, model.StatusFinished, 0))
	}
	return dataResponse(c, http.StatusOK, freed)
}

func (h *TableHandler) publish(c echo.Context, ev queue.ReservationEvent) {
	if h.Events == nil {
		return
	}
	_ = h.Events.Publish(c.Request().Context(), ev)
}

func notFoundTable(id uint64) string {
	return fmt.Sprintf("Table %d cannot be found", id)
}
