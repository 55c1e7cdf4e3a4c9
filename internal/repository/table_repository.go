package repository

import (
	"context"
	"database/sql"

	"github.com/kalaniocean/restaurant-reservation/internal/model"
)

// TableRepo provides persistence for floor tables and owns the two-entity
// assignment operations.  Seating and clearing a table each touch both the
// tables and reservations rows, so both writes run inside one transaction:
// either the table and its reservation change together or neither does.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, table_name, capacity, occupied, reservation_id, created_at, updated_at`

// Create inserts a new table and populates the generated id and timestamps
// on the provided record.  A table may be created already linked to a
// reservation (the seed path), in which case Occupied and ReservationID are
// stored as given.
func (t *TableRepo) Create(ctx context.Context, tbl *model.Table) error {
	const q = `INSERT INTO tables (table_name, capacity, occupied, reservation_id) VALUES (?, ?, ?, ?)`
	var resID any
	if tbl.ReservationID != nil {
		resID = *tbl.ReservationID
	}
	result, err := t.db.ExecContext(ctx, q, tbl.TableName, tbl.Capacity, tbl.Occupied, resID)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	created, err := t.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*tbl = *created
	return nil
}

// GetByID returns a single table or ErrTableNotFound.
func (t *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables WHERE id = ?`
	return scanTable(t.db.QueryRowContext(ctx, q, id))
}

// List returns every table ordered by name ascending.
func (t *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM tables ORDER BY table_name ASC`
	rows, err := t.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		tbl, err := scanTableRow(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *tbl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Assign seats a reservation at a table.  The table is marked occupied and
// linked, and the reservation moves to seated, in a single transaction.
// The occupancy guard is part of the UPDATE itself, so a concurrent seat
// attempt on the same table loses with ErrTableOccupied instead of
// double-booking.
func (t *TableRepo) Assign(ctx context.Context, tableID, reservationID uint64) (*model.Table, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const seatQ = `UPDATE tables SET occupied = 1, reservation_id = ? WHERE id = ? AND occupied = 0`
	result, err := tx.ExecContext(ctx, seatQ, reservationID, tableID)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Either the table vanished or someone else grabbed it first.
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)`, tableID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrTableNotFound
		}
		return nil, ErrTableOccupied
	}

	const statusQ = `UPDATE reservations SET status = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, statusQ, model.StatusSeated, reservationID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return t.GetByID(ctx, tableID)
}

// Release clears a table and finishes the reservation that was seated at
// it, in a single transaction.  ErrTableNotOccupied is returned when the
// table has no party; ErrTableNotFound when the id does not exist.
func (t *TableRepo) Release(ctx context.Context, tableID uint64) (*model.Table, error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the row so the linked reservation id cannot change underneath us.
	var (
		occupied bool
		resID    sql.NullInt64
	)
	const lockQ = `SELECT occupied, reservation_id FROM tables WHERE id = ? FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lockQ, tableID).Scan(&occupied, &resID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	if !occupied {
		return nil, ErrTableNotOccupied
	}

	const clearQ = `UPDATE tables SET occupied = 0, reservation_id = NULL WHERE id = ?`
	if _, err := tx.ExecContext(ctx, clearQ, tableID); err != nil {
		return nil, err
	}
	if resID.Valid {
		const finishQ = `UPDATE reservations SET status = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, finishQ, model.StatusFinished, resID.Int64); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return t.GetByID(ctx, tableID)
}

// scanTable reads one table row from a QueryRow result.
func scanTable(row *sql.Row) (*model.Table, error) {
	tbl, err := scanTableRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrTableNotFound
	}
	return tbl, err
}

func scanTableRow(row rowScanner) (*model.Table, error) {
	var (
		tbl   model.Table
		resID sql.NullInt64
	)
	if err := row.Scan(
		&tbl.ID, &tbl.TableName, &tbl.Capacity, &tbl.Occupied,
		&resID, &tbl.CreatedAt, &tbl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if resID.Valid {
		id := uint64(resID.Int64)
		tbl.ReservationID = &id
	}
	return &tbl, nil
}
