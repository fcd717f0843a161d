package store

import "database/sql"

// Migrate creates the schema if missing. Idempotent.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT UNIQUE NOT NULL,
		email         TEXT NOT NULL DEFAULT '',
		full_name     TEXT NOT NULL,
		role          TEXT NOT NULL,
		department    TEXT NOT NULL DEFAULT '',
		position      TEXT NOT NULL DEFAULT '',
		join_date     TEXT NOT NULL DEFAULT '',
		employee_id   TEXT UNIQUE NOT NULL,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS stations (
		station_id    TEXT PRIMARY KEY,
		registered_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		date            TEXT NOT NULL,
		check_in_time   TEXT NOT NULL,
		check_out_time  TEXT,
		checked_in_at   TIMESTAMPTZ NOT NULL,
		checked_out_at  TIMESTAMPTZ,
		is_late         BOOLEAN NOT NULL,
		status          TEXT NOT NULL,
		working_hours   DOUBLE PRECISION,
		auth_method     TEXT NOT NULL DEFAULT 'face',
		face_confidence DOUBLE PRECISION,
		verification    TEXT NOT NULL DEFAULT 'pending',
		hash            TEXT NOT NULL,
		signature       TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_name_date ON attendance_records (LOWER(name), date);
	CREATE INDEX IF NOT EXISTS idx_attendance_date      ON attendance_records (date);

	CREATE TABLE IF NOT EXISTS leave_applications (
		id                        TEXT PRIMARY KEY,
		employee_id               TEXT NOT NULL,
		employee_name             TEXT NOT NULL,
		requested_to_teacher_id   TEXT NOT NULL DEFAULT '',
		requested_to_teacher_name TEXT NOT NULL DEFAULT '',
		leave_type                TEXT NOT NULL,
		start_date                TEXT NOT NULL,
		end_date                  TEXT NOT NULL,
		total_days                INTEGER NOT NULL,
		reason                    TEXT NOT NULL DEFAULT '',
		status                    TEXT NOT NULL DEFAULT 'pending',
		applied_date              TEXT NOT NULL,
		reviewed_by               TEXT NOT NULL DEFAULT '',
		reviewed_date             TEXT NOT NULL DEFAULT '',
		review_comments           TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_leave_employee ON leave_applications (employee_id);

	CREATE TABLE IF NOT EXISTS od_applications (
		id                        TEXT PRIMARY KEY,
		employee_id               TEXT NOT NULL,
		employee_name             TEXT NOT NULL,
		requested_to_teacher_id   TEXT NOT NULL DEFAULT '',
		requested_to_teacher_name TEXT NOT NULL DEFAULT '',
		date                      TEXT NOT NULL,
		start_time                TEXT NOT NULL,
		end_time                  TEXT NOT NULL,
		purpose                   TEXT NOT NULL DEFAULT '',
		location                  TEXT NOT NULL DEFAULT '',
		status                    TEXT NOT NULL DEFAULT 'pending',
		applied_date              TEXT NOT NULL,
		reviewed_by               TEXT NOT NULL DEFAULT '',
		reviewed_date             TEXT NOT NULL DEFAULT '',
		rejection_reason          TEXT NOT NULL DEFAULT '',
		approval_comments         TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_od_employee ON od_applications (employee_id);

	CREATE TABLE IF NOT EXISTS incidents (
		id                 TEXT PRIMARY KEY,
		employee_id        TEXT NOT NULL,
		employee_name      TEXT NOT NULL,
		incident_type      TEXT NOT NULL,
		severity           TEXT NOT NULL,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		date               TEXT NOT NULL,
		reported_by        TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT 'open',
		action_taken       TEXT NOT NULL DEFAULT '',
		follow_up_required BOOLEAN NOT NULL DEFAULT FALSE,
		follow_up_date     TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_incidents_employee ON incidents (employee_id);

	CREATE TABLE IF NOT EXISTS calendar_events (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date        TEXT NOT NULL,
		type        TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_calendar_employee_date ON calendar_events (employee_id, date);

	CREATE TABLE IF NOT EXISTS audit_logs (
		id          TEXT PRIMARY KEY,
		action      TEXT NOT NULL,
		actor_id    TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		details     JSONB,
		ip_address  TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_occurred ON audit_logs (occurred_at DESC);
	`
	_, err := db.Exec(schema)
	return err
}
