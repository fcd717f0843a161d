package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"attendhub/internal/model"
)

// retention is the number of most recent entries kept.
const retention = 1000

// Log is an append-only audit trail stored in Postgres. Append failures are
// logged and swallowed: auditing never blocks the action being audited.
type Log struct {
	db  *sql.DB
	now func() time.Time
}

// NewLog creates an audit log over a database handle.
func NewLog(db *sql.DB) *Log {
	return &Log{db: db, now: time.Now}
}

// Append records an action, then trims entries beyond the retention cap.
func (l *Log) Append(ctx context.Context, action, actorID string, details map[string]any) {
	var detailsJSON []byte
	if details != nil {
		var err error
		if detailsJSON, err = json.Marshal(details); err != nil {
			log.Printf("audit: marshal details for %s: %v", action, err)
			detailsJSON = nil
		}
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, action, actor_id, occurred_at, details)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), action, actorID, l.now(), detailsJSON)
	if err != nil {
		log.Printf("audit: append %s failed: %v", action, err)
		return
	}
	if _, err := l.db.ExecContext(ctx, `
		DELETE FROM audit_logs
		WHERE id NOT IN (
			SELECT id FROM audit_logs ORDER BY occurred_at DESC LIMIT $1
		)
	`, retention); err != nil {
		log.Printf("audit: trim failed: %v", err)
	}
}

// List returns the newest entries first.
func (l *Log) List(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > retention {
		limit = retention
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, action, actor_id, occurred_at, details, ip_address, user_agent
		FROM audit_logs
		ORDER BY occurred_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorID, &e.Timestamp, &details, &e.IPAddress, &e.UserAgent); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				log.Printf("audit: decode details for %s: %v", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
