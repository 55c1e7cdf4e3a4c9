// Package repository implements data access for reservations and tables on
// top of database/sql.  The sentinel errors below let handlers map failure
// scenarios onto HTTP statuses without inspecting SQL errors directly.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation id does not exist.
// Handlers translate this into a 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when a table id does not exist.  Handlers
// translate this into a 404 response.
var ErrTableNotFound = errors.New("table not found")

// ErrTableOccupied is returned by Assign when the table already holds a
// party.  The occupancy re-check happens inside the transaction, so this is
// also what a lost race against a concurrent seat attempt looks like.
var ErrTableOccupied = errors.New("table is occupied")

// ErrTableNotOccupied is returned by Release when the table has no party to
// clear.
var ErrTableNotOccupied = errors.New("table is not occupied")
