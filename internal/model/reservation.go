package model

import "time"

// Reservation statuses.  A reservation starts out booked, becomes seated
// when the party is assigned a table, finished when the table is cleared,
// and cancelled when the party calls it off.  finished and cancelled are
// terminal.
const (
	StatusBooked    = "booked"
	StatusSeated    = "seated"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
)

// KnownStatus reports whether s is one of the four reservation statuses.
func KnownStatus(s string) bool {
	switch s {
	case StatusBooked, StatusSeated, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Reservation records a party's booking for a specific date and time.
//
// Fields:
//  ID              – primary key identifier.
//  FirstName       – contact first name.
//  LastName        – contact last name.
//  MobileNumber    – contact phone number, formatting preserved as entered.
//  ReservationDate – calendar date in YYYY-MM-DD form.
//  ReservationTime – time of day in HH:MM form.
//  People          – party size, at least 1.
//  Status          – lifecycle status (booked, seated, finished, cancelled).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `json:"reservation_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	MobileNumber    string    `json:"mobile_number"`
	ReservationDate string    `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"`
	People          int       `json:"people"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
