package users

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"attendhub/internal/model"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// callers can't probe for valid accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Directory is the persistence surface the service needs.
type Directory interface {
	GetByUsername(ctx context.Context, username string) (*model.User, string, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	ListActive(ctx context.Context, role string) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
	Insert(ctx context.Context, u model.User, passwordHash string) error
}

// Auditor appends entries to the audit trail.
type Auditor interface {
	Append(ctx context.Context, action, actorID string, details map[string]any)
}

// Service authenticates users and serves the directory.
type Service struct {
	dir   Directory
	audit Auditor
}

// NewService creates a service over a user directory.
func NewService(dir Directory, audit Auditor) *Service {
	return &Service{dir: dir, audit: audit}
}

// Authenticate verifies a username/password pair against the directory.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, hash, err := s.dir.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		s.audit.Append(ctx, "LOGIN_FAILED", username, map[string]any{"reason": "unknown or inactive user"})
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		s.audit.Append(ctx, "LOGIN_FAILED", username, map[string]any{"reason": "bad password"})
		return nil, ErrInvalidCredentials
	}
	s.audit.Append(ctx, "LOGIN", username, nil)
	return user, nil
}

// GetByID returns a user by id, nil when unknown.
func (s *Service) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.dir.GetByID(ctx, id)
}

// ListActive returns active users, optionally restricted to one role.
func (s *Service) ListActive(ctx context.Context, role string) ([]model.User, error) {
	return s.dir.ListActive(ctx, role)
}

// Teachers returns active teachers, the reviewer pool for student requests.
func (s *Service) Teachers(ctx context.Context) ([]model.User, error) {
	return s.dir.ListActive(ctx, model.RoleTeacher)
}

// Update replaces a user's profile fields.
func (s *Service) Update(ctx context.Context, u model.User, actorID string) error {
	if err := s.dir.Update(ctx, u); err != nil {
		return err
	}
	s.audit.Append(ctx, "USER_UPDATED", actorID, map[string]any{"userId": u.ID})
	return nil
}
