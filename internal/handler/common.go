// Package handler implements the HTTP surface.  Handlers depend on small
// store interfaces rather than concrete repositories so they can be
// exercised without a database; lookup results flow through local variables
// and explicit validation pipelines instead of ambient request state.
package handler

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
	"github.com/kalaniocean/restaurant-reservation/internal/queue"
	"github.com/kalaniocean/restaurant-reservation/internal/validation"
)

// dataResponse wraps a successful payload in the data envelope the client
// expects.
func dataResponse(c echo.Context, status int, v any) error {
	return c.JSON(status, echo.Map{"data": v})
}

// errorResponse renders a failure in the error envelope.
func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}

// decodeData unwraps the {"data": {...}} request envelope into a generic
// map.  Working on the raw map lets the validation layer distinguish an
// absent field from a zero value and report type mismatches (a string
// people count) with the domain's own messages instead of a bind error.
func decodeData(c echo.Context) (map[string]any, *validation.Error) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.Bind(&env); err != nil || len(env.Data) == 0 {
		return nil, validation.New(400, "data is missing")
	}
	var payload map[string]any
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload == nil {
		return nil, validation.New(400, "data is missing")
	}
	return payload, nil
}

// strField reads a string field from the payload, empty when absent or not
// a string.
func strField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}

// intField reads a whole-number field from the payload.
func intField(payload map[string]any, key string) (int, bool) {
	switch n := payload[key].(type) {
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case int:
		return n, true
	}
	return 0, false
}

// uintField is intField for identifier fields.
func uintField(payload map[string]any, key string) (uint64, bool) {
	n, ok := intField(payload, key)
	if !ok || n < 0 {
		return 0, false
	}
	return uint64(n), true
}

// parseID reads the numeric :id path parameter.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// statusEventType maps a reservation status onto the lifecycle event type
// published for it.  booked has no event of its own.
func statusEventType(status string) (string, bool) {
	switch status {
	case model.StatusSeated:
		return queue.EventReservationSeated, true
	case model.StatusFinished:
		return queue.EventReservationFinished, true
	case model.StatusCancelled:
		return queue.EventReservationCancelled, true
	}
	return "", false
}
