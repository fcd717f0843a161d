package users

import (
	"context"
	"database/sql"
	"errors"

	"attendhub/internal/model"
)

// Repository persists the user directory in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, username, email, full_name, role, department, position, join_date, employee_id, is_active`

// GetByUsername returns a user and password hash, nil when unknown.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*model.User, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash FROM users WHERE username = $1
	`, username)
	var u model.User
	var hash string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.Department,
		&u.Position, &u.JoinDate, &u.EmployeeID, &u.IsActive, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, hash, nil
}

// GetByID returns a user by id, nil when unknown.
func (r *Repository) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id)
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.Department,
		&u.Position, &u.JoinDate, &u.EmployeeID, &u.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListActive returns active users, optionally restricted to one role.
func (r *Repository) ListActive(ctx context.Context, role string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active`
	args := []any{}
	if role != "" {
		query += ` AND role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.Role, &u.Department,
			&u.Position, &u.JoinDate, &u.EmployeeID, &u.IsActive); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// Update replaces the mutable profile fields of a user.
func (r *Repository) Update(ctx context.Context, u model.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $2, full_name = $3, role = $4, department = $5, position = $6, is_active = $7
		WHERE id = $1
	`, u.ID, u.Email, u.FullName, u.Role, u.Department, u.Position, u.IsActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("user not found")
	}
	return nil
}

// Insert adds a user with a password hash, ignoring duplicates by username.
func (r *Repository) Insert(ctx context.Context, u model.User, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (username) DO NOTHING
	`, u.ID, u.Username, u.Email, u.FullName, u.Role, u.Department, u.Position,
		u.JoinDate, u.EmployeeID, u.IsActive, passwordHash)
	return err
}
