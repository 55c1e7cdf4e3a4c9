// Package router defines how HTTP routes are registered for the API and
// how uncaught errors are rendered.
package router

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kalaniocean/restaurant-reservation/internal/handler"
)

// Register wires the reservation and table routes onto the provided Echo
// instance.  cacheGET is applied to the list endpoints only; mutations must
// never be served from cache.
func Register(e *echo.Echo, rh *handler.ReservationHandler, th *handler.TableHandler, cacheGET echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	r := e.Group("/reservations")
	r.GET("", rh.List, cacheGET)
	r.POST("", rh.Create)
	r.GET("/:id", rh.Get)
	r.PUT("/:id/status", rh.UpdateStatus)
	r.PUT("/:id/edit", rh.Update)

	t := e.Group("/tables")
	t.GET("", th.List, cacheGET)
	t.POST("", th.Create)
	t.GET("/:id", th.Get)
	t.PUT("/:id/seat", th.Seat)
	t.DELETE("/:id/seat", th.Finish)
}

// ErrorHandler renders every error Echo sees in the {"error": ...} envelope
// the client expects: unknown routes as a plain 404, everything uncaught as
// a 500 carrying the error message.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			logger.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}
		if !c.Response().Committed {
			_ = c.JSON(code, echo.Map{"error": message})
		}
	}
}
