// Package validation implements the business rules a reservation or table
// payload must satisfy before any write happens.  Every check is a pure
// function returning a structured *Error carrying the HTTP status the
// handler should respond with.  Checks compose into an ordered pipeline via
// Run, which stops at the first failure.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
)

// Error is a caller-facing rule violation.  Status is an HTTP status code
// and Message is safe to return to the client verbatim.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New builds an Error from a status code and a format string.
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Check is a single validation step.  A nil result means the check passed.
type Check func() *Error

// Run executes checks in order and returns the first failure, or nil when
// every check passes.
func Run(checks ...Check) *Error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Business-hours window as integer HHMM values, boundaries inclusive.
// The restaurant does not open on Tuesdays.
const (
	openHHMM      = 1030
	closeHHMM     = 2130
	closedWeekday = time.Tuesday
)

// RequiredFields verifies that every named field is present in the payload
// and is neither null nor an empty string.  Fields are checked in the order
// given so the reported field is deterministic.
func RequiredFields(payload map[string]any, names ...string) *Error {
	for _, name := range names {
		v, ok := payload[name]
		if !ok || v == nil {
			return New(400, "%s is missing", name)
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return New(400, "%s is missing", name)
		}
	}
	return nil
}

// PeopleCount verifies that the raw people value is a number and at least 1.
// JSON numbers decode as float64, so a fractional party size is rejected
// along with strings and booleans.
func PeopleCount(v any) *Error {
	n, ok := asNumber(v)
	if !ok || n != math.Trunc(n) || n < 1 {
		return New(400, "number of people is invalid")
	}
	return nil
}

// ReservationDateTime verifies the date and time-of-day strings of a
// candidate reservation against now: both must match their patterns, the
// combined moment must be strictly in the future, the weekday must not be
// the closed day, and the time must fall inside business hours.
func ReservationDateTime(date, timeOfDay string, now time.Time) *Error {
	if !datePattern.MatchString(date) {
		return New(400, "reservation_date is invalid")
	}
	if !timePattern.MatchString(timeOfDay) {
		return New(400, "reservation_time is invalid")
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, now.Location())
	if err != nil {
		return New(400, "reservation_date is invalid")
	}
	if !at.After(now) {
		return New(400, "reservation must be in the future")
	}
	if at.Weekday() == closedWeekday {
		return New(400, "restaurant is closed on Tuesdays")
	}
	if hhmm := at.Hour()*100 + at.Minute(); hhmm < openHHMM || hhmm > closeHHMM {
		return New(400, "restaurant is closed at the requested time")
	}
	return nil
}

// InitialStatus rejects new reservations that claim to already be seated or
// finished.  An empty status is fine; creation defaults it to booked.
func InitialStatus(status string) *Error {
	if status == model.StatusSeated || status == model.StatusFinished {
		return New(400, "status cannot be %s", status)
	}
	return nil
}

// TablePayload verifies a candidate table: the name needs at least two
// characters and the capacity must be a whole number of at least 1.
func TablePayload(name string, capacity any) *Error {
	if len(name) < 2 {
		return New(400, "invalid table_name")
	}
	n, ok := asNumber(capacity)
	if !ok || n != math.Trunc(n) || n < 1 {
		return New(400, "invalid capacity")
	}
	return nil
}

// asNumber normalizes the numeric types a payload value may arrive as.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
