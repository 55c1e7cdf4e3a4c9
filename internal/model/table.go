package model

import "time"

// Table describes a physical table on the floor.  A table is either free or
// occupied by exactly one seated reservation; ReservationID is set only
// while Occupied is true.
//
// Fields:
//  ID            – primary key identifier.
//  TableName     – display name, at least two characters.
//  Capacity      – maximum party size, at least 1.
//  Occupied      – whether a party is currently seated here.
//  ReservationID – reservation occupying the table (nil when free).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Table struct {
	ID            uint64    `json:"table_id"`
	TableName     string    `json:"table_name"`
	Capacity      int       `json:"capacity"`
	Occupied      bool      `json:"occupied"`
	ReservationID *uint64   `json:"reservation_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
