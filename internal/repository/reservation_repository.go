package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD and search operations for reservations.
// Dates and times are stored in native DATE and TIME columns and exposed to
// callers as the YYYY-MM-DD and HH:MM strings the API speaks.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, first_name, last_name, mobile_number,
	reservation_date, reservation_time, people, status, created_at, updated_at`

// Create inserts a new reservation and populates the generated id plus the
// database-assigned timestamps on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
		(first_name, last_name, mobile_number, reservation_date, reservation_time, people, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	// Query back the full row to populate timestamps and defaults.
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*res = *created
	return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ListByDate returns every reservation on the given date that has not
// finished, ordered by time of day ascending.  This is the dashboard view:
// finished parties drop off, cancelled ones stay visible so staff can see
// them.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE reservation_date = ? AND status <> ?
		ORDER BY reservation_time ASC`
	rows, err := r.db.QueryContext(ctx, q, date, model.StatusFinished)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// SearchByPhone returns every reservation whose mobile number contains the
// fragment, ignoring formatting characters on both sides, newest first.
// Matching works on digits only: "(555) 010" and "555-010" find the same
// rows.
func (r *ReservationRepo) SearchByPhone(ctx context.Context, fragment string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '(', ''), ')', ''), '-', ''), ' ', '')
			LIKE CONCAT('%', ?, '%')
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, digitsOnly(fragment))
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

// Update rewrites the editable fields of an existing reservation.  Status
// is not touched here; transitions go through UpdateStatus.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
		SET first_name = ?, last_name = ?, mobile_number = ?,
			reservation_date = ?, reservation_time = ?, people = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q,
		res.FirstName, res.LastName, res.MobileNumber,
		res.ReservationDate, res.ReservationTime, res.People, res.ID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update, so
		// confirm existence before reporting not found.
		if _, getErr := r.GetByID(ctx, res.ID); getErr != nil {
			return getErr
		}
	}
	updated, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *updated
	return nil
}

// UpdateStatus sets the status of a reservation and returns the updated
// record, or ErrReservationNotFound.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) (*model.Reservation, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, status, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// rowScanner is the common surface of *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanReservation reads one reservation row.  The DATE column arrives as a
// time.Time (parseTime is on) and the TIME column as an HH:MM:SS string;
// both are normalized to the API's string forms.
func scanReservation(row rowScanner) (*model.Reservation, error) {
	var (
		res     model.Reservation
		resDate time.Time
		resTime string
	)
	if err := row.Scan(
		&res.ID, &res.FirstName, &res.LastName, &res.MobileNumber,
		&resDate, &resTime, &res.People, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	res.ReservationDate = resDate.Format("2006-01-02")
	if len(resTime) > 5 {
		resTime = resTime[:5]
	}
	res.ReservationTime = resTime
	return &res, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reservations, nil
}

// digitsOnly strips everything but digits from a phone-number fragment.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
