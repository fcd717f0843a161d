package hr

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"attendhub/internal/model"
)

// Repository persists leave, OD, incident, and calendar data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const leaveColumns = `id, employee_id, employee_name, requested_to_teacher_id, requested_to_teacher_name,
	leave_type, start_date, end_date, total_days, reason, status, applied_date, reviewed_by,
	reviewed_date, review_comments`

// InsertLeave writes a new leave application.
func (r *Repository) InsertLeave(ctx context.Context, app model.LeaveApplication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leave_applications (`+leaveColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, app.ID, app.EmployeeID, app.EmployeeName, app.RequestedToTeacherID, app.RequestedToTeacherName,
		app.LeaveType, app.StartDate, app.EndDate, app.TotalDays, app.Reason, app.Status,
		app.AppliedDate, app.ReviewedBy, app.ReviewedDate, app.ReviewComments)
	return err
}

// GetLeave returns a leave application by id, nil when unknown.
func (r *Repository) GetLeave(ctx context.Context, id string) (*model.LeaveApplication, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+leaveColumns+` FROM leave_applications WHERE id = $1
	`, id)
	var app model.LeaveApplication
	err := row.Scan(&app.ID, &app.EmployeeID, &app.EmployeeName, &app.RequestedToTeacherID,
		&app.RequestedToTeacherName, &app.LeaveType, &app.StartDate, &app.EndDate, &app.TotalDays,
		&app.Reason, &app.Status, &app.AppliedDate, &app.ReviewedBy, &app.ReviewedDate, &app.ReviewComments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// ListLeaves returns leave applications newest first, optionally for one employee.
func (r *Repository) ListLeaves(ctx context.Context, employeeID string) ([]model.LeaveApplication, error) {
	query := `SELECT ` + leaveColumns + ` FROM leave_applications`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY applied_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.LeaveApplication
	for rows.Next() {
		var app model.LeaveApplication
		if err := rows.Scan(&app.ID, &app.EmployeeID, &app.EmployeeName, &app.RequestedToTeacherID,
			&app.RequestedToTeacherName, &app.LeaveType, &app.StartDate, &app.EndDate, &app.TotalDays,
			&app.Reason, &app.Status, &app.AppliedDate, &app.ReviewedBy, &app.ReviewedDate, &app.ReviewComments); err != nil {
			return nil, err
		}
		res = append(res, app)
	}
	return res, rows.Err()
}

// UpdateLeaveReview stamps the review outcome on a leave application.
func (r *Repository) UpdateLeaveReview(ctx context.Context, app model.LeaveApplication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leave_applications
		SET status = $2, reviewed_by = $3, reviewed_date = $4, review_comments = $5
		WHERE id = $1
	`, app.ID, app.Status, app.ReviewedBy, app.ReviewedDate, app.ReviewComments)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("leave application not found")
	}
	return nil
}

const odColumns = `id, employee_id, employee_name, requested_to_teacher_id, requested_to_teacher_name,
	date, start_time, end_time, purpose, location, status, applied_date, reviewed_by, reviewed_date,
	rejection_reason, approval_comments`

// InsertOD writes a new on-duty application.
func (r *Repository) InsertOD(ctx context.Context, app model.ODApplication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO od_applications (`+odColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, app.ID, app.EmployeeID, app.EmployeeName, app.RequestedToTeacherID, app.RequestedToTeacherName,
		app.Date, app.StartTime, app.EndTime, app.Purpose, app.Location, app.Status, app.AppliedDate,
		app.ReviewedBy, app.ReviewedDate, app.RejectionReason, app.ApprovalComments)
	return err
}

// GetOD returns an OD application by id, nil when unknown.
func (r *Repository) GetOD(ctx context.Context, id string) (*model.ODApplication, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+odColumns+` FROM od_applications WHERE id = $1
	`, id)
	var app model.ODApplication
	err := row.Scan(&app.ID, &app.EmployeeID, &app.EmployeeName, &app.RequestedToTeacherID,
		&app.RequestedToTeacherName, &app.Date, &app.StartTime, &app.EndTime, &app.Purpose,
		&app.Location, &app.Status, &app.AppliedDate, &app.ReviewedBy, &app.ReviewedDate,
		&app.RejectionReason, &app.ApprovalComments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &app, nil
}

// ListODs returns OD applications newest first, optionally for one employee.
func (r *Repository) ListODs(ctx context.Context, employeeID string) ([]model.ODApplication, error) {
	query := `SELECT ` + odColumns + ` FROM od_applications`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY applied_date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.ODApplication
	for rows.Next() {
		var app model.ODApplication
		if err := rows.Scan(&app.ID, &app.EmployeeID, &app.EmployeeName, &app.RequestedToTeacherID,
			&app.RequestedToTeacherName, &app.Date, &app.StartTime, &app.EndTime, &app.Purpose,
			&app.Location, &app.Status, &app.AppliedDate, &app.ReviewedBy, &app.ReviewedDate,
			&app.RejectionReason, &app.ApprovalComments); err != nil {
			return nil, err
		}
		res = append(res, app)
	}
	return res, rows.Err()
}

// UpdateODReview stamps the review outcome on an OD application.
func (r *Repository) UpdateODReview(ctx context.Context, app model.ODApplication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE od_applications
		SET status = $2, reviewed_by = $3, reviewed_date = $4, rejection_reason = $5, approval_comments = $6
		WHERE id = $1
	`, app.ID, app.Status, app.ReviewedBy, app.ReviewedDate, app.RejectionReason, app.ApprovalComments)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("od application not found")
	}
	return nil
}

const incidentColumns = `id, employee_id, employee_name, incident_type, severity, title, description,
	date, reported_by, status, action_taken, follow_up_required, follow_up_date`

// InsertIncident writes a new incident.
func (r *Repository) InsertIncident(ctx context.Context, inc model.Incident) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO incidents (`+incidentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, inc.ID, inc.EmployeeID, inc.EmployeeName, inc.IncidentType, inc.Severity, inc.Title,
		inc.Description, inc.Date, inc.ReportedBy, inc.Status, inc.ActionTaken,
		inc.FollowUpRequired, inc.FollowUpDate)
	return err
}

// GetIncident returns an incident by id, nil when unknown.
func (r *Repository) GetIncident(ctx context.Context, id string) (*model.Incident, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+incidentColumns+` FROM incidents WHERE id = $1
	`, id)
	var inc model.Incident
	err := row.Scan(&inc.ID, &inc.EmployeeID, &inc.EmployeeName, &inc.IncidentType, &inc.Severity,
		&inc.Title, &inc.Description, &inc.Date, &inc.ReportedBy, &inc.Status, &inc.ActionTaken,
		&inc.FollowUpRequired, &inc.FollowUpDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inc, nil
}

// ListIncidents returns incidents, optionally for one employee.
func (r *Repository) ListIncidents(ctx context.Context, employeeID string) ([]model.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents`
	args := []any{}
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.Incident
	for rows.Next() {
		var inc model.Incident
		if err := rows.Scan(&inc.ID, &inc.EmployeeID, &inc.EmployeeName, &inc.IncidentType, &inc.Severity,
			&inc.Title, &inc.Description, &inc.Date, &inc.ReportedBy, &inc.Status, &inc.ActionTaken,
			&inc.FollowUpRequired, &inc.FollowUpDate); err != nil {
			return nil, err
		}
		res = append(res, inc)
	}
	return res, rows.Err()
}

// UpdateIncident replaces the whole incident identified by id.
func (r *Repository) UpdateIncident(ctx context.Context, inc model.Incident) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE incidents
		SET employee_id = $2, employee_name = $3, incident_type = $4, severity = $5, title = $6,
			description = $7, date = $8, reported_by = $9, status = $10, action_taken = $11,
			follow_up_required = $12, follow_up_date = $13
		WHERE id = $1
	`, inc.ID, inc.EmployeeID, inc.EmployeeName, inc.IncidentType, inc.Severity, inc.Title,
		inc.Description, inc.Date, inc.ReportedBy, inc.Status, inc.ActionTaken,
		inc.FollowUpRequired, inc.FollowUpDate)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("incident not found")
	}
	return nil
}

// ListEvents returns calendar events filtered by employee and month prefix.
func (r *Repository) ListEvents(ctx context.Context, employeeID, monthPrefix string) ([]model.CalendarEvent, error) {
	query := `SELECT id, employee_id, date, type, title, description, status FROM calendar_events`
	args := []any{}
	clauses := []string{}
	if employeeID != "" {
		clauses = append(clauses, "employee_id = $1")
		args = append(args, employeeID)
	}
	if monthPrefix != "" {
		clauses = append(clauses, "date LIKE $"+strconv.Itoa(len(args)+1)+" || '%'")
		args = append(args, monthPrefix)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.CalendarEvent
	for rows.Next() {
		var ev model.CalendarEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Date, &ev.Type, &ev.Title, &ev.Description, &ev.Status); err != nil {
			return nil, err
		}
		res = append(res, ev)
	}
	return res, rows.Err()
}

// ReplaceEvent swaps any event for the same employee and date with ev.
func (r *Repository) ReplaceEvent(ctx context.Context, ev model.CalendarEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM calendar_events WHERE employee_id = $1 AND date = $2
	`, ev.EmployeeID, ev.Date); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO calendar_events (id, employee_id, date, type, title, description, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, ev.ID, ev.EmployeeID, ev.Date, ev.Type, ev.Title, ev.Description, ev.Status); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteEventsByPrefix removes events whose id starts with prefix. Used to
// prune a leave's materialized days before regeneration. starts_with does a
// literal prefix match; LIKE would treat the underscores in the prefix as
// wildcards.
func (r *Repository) DeleteEventsByPrefix(ctx context.Context, prefix string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM calendar_events WHERE starts_with(id, $1)
	`, prefix)
	return err
}
