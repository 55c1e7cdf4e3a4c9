package validation

import "github.com/kalaniocean/restaurant-reservation/internal/model"

// StatusTransition decides whether a reservation may move from current to
// requested.  Rules, applied in order: cancelling is always allowed as long
// as the reservation is not finished; a finished reservation admits no
// further transition; an unknown requested status is rejected; anything
// else is allowed.  The check is pure — applying the transition is the
// caller's job.
func StatusTransition(current, requested string) *Error {
	if requested == model.StatusCancelled && current != model.StatusFinished {
		return nil
	}
	if current == model.StatusFinished {
		return New(400, "a finished reservation cannot be updated")
	}
	if !model.KnownStatus(requested) {
		return New(400, "unknown status")
	}
	return nil
}
