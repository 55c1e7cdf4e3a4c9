package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
	"github.com/kalaniocean/restaurant-reservation/internal/repository"
	"github.com/kalaniocean/restaurant-reservation/internal/validation"
)

// requiredReservationFields are checked in order on create and edit; none
// may be absent, null, or empty.
var requiredReservationFields = []string{
	"first_name",
	"last_name",
	"mobile_number",
	"reservation_date",
	"reservation_time",
	"people",
}

// ReservationHandler serves the /reservations routes.
type ReservationHandler struct {
	Reservations ReservationStore
	Events       EventPublisher
	Logger       *zap.Logger
}

// NewReservationHandler constructs a ReservationHandler.  The store must be
// non-nil; Events may be nil to disable event publishing.
func NewReservationHandler(store ReservationStore, events EventPublisher, logger *zap.Logger) *ReservationHandler {
	if store == nil {
		panic("nil store passed to NewReservationHandler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationHandler{Reservations: store, Events: events, Logger: logger}
}

// List handles GET /reservations.  With ?date= it returns that day's
// dashboard (unfinished reservations ordered by time); with ?mobile_number=
// it searches by phone fragment, newest first.
func (h *ReservationHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	date := c.QueryParam("date")
	mobile := c.QueryParam("mobile_number")

	switch {
	case date != "":
		reservations, err := h.Reservations.ListByDate(ctx, date)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, "could not list reservations")
		}
		return dataResponse(c, http.StatusOK, reservations)
	case mobile != "":
		reservations, err := h.Reservations.SearchByPhone(ctx, mobile)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, "could not search reservations")
		}
		return dataResponse(c, http.StatusOK, reservations)
	default:
		return errorResponse(c, http.StatusBadRequest, "date or mobile_number is required")
	}
}

// Create handles POST /reservations.  The payload runs the full validation
// pipeline; a new reservation always starts booked unless the client
// explicitly sent booked or cancelled.
func (h *ReservationHandler) Create(c echo.Context) error {
	payload, verr := decodeData(c)
	if verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	if verr := validation.Run(
		func() *validation.Error { return validation.RequiredFields(payload, requiredReservationFields...) },
		func() *validation.Error { return validation.PeopleCount(payload["people"]) },
		func() *validation.Error {
			return validation.ReservationDateTime(
				strField(payload, "reservation_date"),
				strField(payload, "reservation_time"),
				time.Now(),
			)
		},
		func() *validation.Error { return validation.InitialStatus(strField(payload, "status")) },
	); verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}

	res := reservationFromPayload(payload)
	if res.Status == "" {
		res.Status = model.StatusBooked
	}
	ctx := c.Request().Context()
	if err := h.Reservations.Create(ctx, res); err != nil {
		h.Logger.Error("create reservation failed", zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "could not create reservation")
	}
	h.publish(c, queue.NewReservationEvent(queue.EventReservationCreated, res.ID, nil, res.Status, res.People))
	return dataResponse(c, http.StatusCreated, res)
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid reservation id")
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundReservation(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read reservation")
	}
	return dataResponse(c, http.StatusOK, res)
}

// UpdateStatus handles PUT /reservations/:id/status.  The state machine
// decides whether the transition is legal; the store applies it.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid reservation id")
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundReservation(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read reservation")
	}
	payload, verr := decodeData(c)
	if verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	requested := strField(payload, "status")
	if verr := validation.StatusTransition(res.Status, requested); verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	updated, err := h.Reservations.UpdateStatus(ctx, id, requested)
	if err != nil {
		h.Logger.Error("update reservation status failed",
			zap.Uint64("reservation_id", id), zap.String("status", requested), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "could not update reservation status")
	}
	if eventType, ok := statusEventType(requested); ok {
		h.publish(c, queue.NewReservationEvent(eventType, updated.ID, nil, updated.Status, updated.People))
	}
	return dataResponse(c, http.StatusOK, updated)
}

// Update handles PUT /reservations/:id/edit.  The full payload is
// re-validated the same way creation validates it; status is left alone.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errorResponse(c, http.StatusBadRequest, "invalid reservation id")
	}
	ctx := c.Request().Context()
	if _, err := h.Reservations.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundReservation(id))
		}
		return errorResponse(c, http.StatusInternalServerError, "could not read reservation")
	}
	payload, verr := decodeData(c)
	if verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}
	if verr := validation.Run(
		func() *validation.Error { return validation.RequiredFields(payload, requiredReservationFields...) },
		func() *validation.Error { return validation.PeopleCount(payload["people"]) },
		func() *validation.Error {
			return validation.ReservationDateTime(
				strField(payload, "reservation_date"),
				strField(payload, "reservation_time"),
				time.Now(),
			)
		},
	); verr != nil {
		return errorResponse(c, verr.Status, verr.Message)
	}

	res := reservationFromPayload(payload)
	res.ID = id
	if err := h.Reservations.Update(ctx, res); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return errorResponse(c, http.StatusNotFound, notFoundReservation(id))
		}
		h.Logger.Error("update reservation failed", zap.Uint64("reservation_id", id), zap.Error(err))
		return errorResponse(c, http.StatusInternalServerError, "could not update reservation")
	}
	return dataResponse(c, http.StatusOK, res)
}

// reservationFromPayload builds a model from an already-validated payload.
func reservationFromPayload(payload map[string]any) *model.Reservation {
	people, _ := intField(payload, "people")
	return &model.Reservation{
		FirstName:       strField(payload, "first_name"),
		LastName:        strField(payload, "last_name"),
		MobileNumber:    strField(payload, "mobile_number"),
		ReservationDate: strField(payload, "reservation_date"),
		ReservationTime: strField(payload, "reservation_time"),
		People:          people,
		Status:          strField(payload, "status"),
	}
}

func (h *ReservationHandler) publish(c echo.Context, ev queue.ReservationEvent) {
	if h.Events == nil {
		return
	}
	// Broker trouble never fails the request; the publisher logs it.
	_ = h.Events.Publish(c.Request().Context(), ev)
}

func notFoundReservation(id uint64) string {
	return fmt.Sprintf("Reservation %d cannot be found", id)
}
