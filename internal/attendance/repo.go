package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"attendhub/internal/model"
)

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertStation ensures a kiosk station record exists.
func (r *Repository) UpsertStation(ctx context.Context, stationID string) error {
	if stationID == "" {
		return errors.New("station id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stations (station_id)
		VALUES ($1)
		ON CONFLICT (station_id) DO NOTHING
	`, stationID)
	return err
}

const recordColumns = `id, name, date, check_in_time, check_out_time, checked_in_at, checked_out_at,
	is_late, status, working_hours, auth_method, face_confidence, verification, hash, signature`

// InsertRecord writes a new attendance record.
func (r *Repository) InsertRecord(ctx context.Context, rec model.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (`+recordColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, rec.ID, rec.Name, rec.Date, rec.CheckInTime, rec.CheckOutTime, rec.Timestamp, rec.CheckOutTimestamp,
		rec.IsLate, rec.Status, rec.WorkingHours, rec.AuthMethod, rec.FaceConfidence, rec.Verification,
		rec.Hash, rec.Signature)
	return err
}

// UpdateRecord replaces the whole record identified by id.
func (r *Repository) UpdateRecord(ctx context.Context, rec model.AttendanceRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance_records
		SET name = $2, date = $3, check_in_time = $4, check_out_time = $5, checked_in_at = $6,
			checked_out_at = $7, is_late = $8, status = $9, working_hours = $10, auth_method = $11,
			face_confidence = $12, verification = $13, hash = $14, signature = $15
		WHERE id = $1
	`, rec.ID, rec.Name, rec.Date, rec.CheckInTime, rec.CheckOutTime, rec.Timestamp, rec.CheckOutTimestamp,
		rec.IsLate, rec.Status, rec.WorkingHours, rec.AuthMethod, rec.FaceConfidence, rec.Verification,
		rec.Hash, rec.Signature)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("record %s not found", rec.ID)
	}
	return nil
}

// OpenRecord returns the newest open (non-checked-out) record for a subject
// on a date, or nil when none exists. Names match case-insensitively.
func (r *Repository) OpenRecord(ctx context.Context, name, date string) (*model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE LOWER(name) = LOWER($1) AND date = $2 AND status <> $3
		ORDER BY checked_in_at DESC
		LIMIT 1
	`, name, date, model.StatusCheckedOut)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// GetRecord returns a single record by id.
func (r *Repository) GetRecord(ctx context.Context, id string) (model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+` FROM attendance_records WHERE id = $1
	`, id)
	return scanRecord(row)
}

// ListRecords returns records newest first with optional name and date-prefix filters.
func (r *Repository) ListRecords(ctx context.Context, name, datePrefix string, limit, offset int) ([]model.AttendanceRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + recordColumns + ` FROM attendance_records`
	args := []any{}
	clauses := []string{}
	if name != "" {
		clauses = append(clauses, "LOWER(name) = LOWER($"+strconv.Itoa(len(args)+1)+")")
		args = append(args, name)
	}
	if datePrefix != "" {
		clauses = append(clauses, "date LIKE $"+strconv.Itoa(len(args)+1)+" || '%'")
		args = append(args, datePrefix)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY checked_in_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// ReplaceAll swaps the full record set inside one transaction. Used by
// backup import only.
func (r *Repository) ReplaceAll(ctx context.Context, recs []model.AttendanceRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records`); err != nil {
		return err
	}
	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance_records (`+recordColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		`, rec.ID, rec.Name, rec.Date, rec.CheckInTime, rec.CheckOutTime, rec.Timestamp, rec.CheckOutTimestamp,
			rec.IsLate, rec.Status, rec.WorkingHours, rec.AuthMethod, rec.FaceConfidence, rec.Verification,
			rec.Hash, rec.Signature); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime, &rec.Timestamp,
		&rec.CheckOutTimestamp, &rec.IsLate, &rec.Status, &rec.WorkingHours, &rec.AuthMethod,
		&rec.FaceConfidence, &rec.Verification, &rec.Hash, &rec.Signature)
	if err != nil {
		return rec, err
	}
	// The driver returns TIMESTAMPTZ in the session time zone; seals were
	// computed over UTC, so normalize before any verification happens.
	rec.Timestamp = rec.Timestamp.UTC()
	if rec.CheckOutTimestamp != nil {
		utc := rec.CheckOutTimestamp.UTC()
		rec.CheckOutTimestamp = &utc
	}
	return rec, nil
}
