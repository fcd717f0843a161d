package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"attendhub/internal/model"
)

type fakeDirectory struct {
	users  map[string]model.User
	hashes map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]model.User{}, hashes: map[string]string{}}
}

func (f *fakeDirectory) add(t *testing.T, u model.User, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.users[u.Username] = u
	f.hashes[u.Username] = string(hash)
}

func (f *fakeDirectory) GetByUsername(_ context.Context, username string) (*model.User, string, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, "", nil
	}
	return &u, f.hashes[username], nil
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) ListActive(_ context.Context, role string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.IsActive && (role == "" || u.Role == role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDirectory) Update(_ context.Context, u model.User) error {
	f.users[u.Username] = u
	return nil
}

func (f *fakeDirectory) Insert(_ context.Context, u model.User, passwordHash string) error {
	f.users[u.Username] = u
	f.hashes[u.Username] = passwordHash
	return nil
}

type fakeAudit struct {
	actions []string
}

func (f *fakeAudit) Append(_ context.Context, action, _ string, _ map[string]any) {
	f.actions = append(f.actions, action)
}

func TestAuthenticateSuccess(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(t, model.User{ID: "u-1", Username: "sangavi", FullName: "Sangavi", Role: model.RoleStudent, IsActive: true}, "password123")
	audit := &fakeAudit{}
	svc := NewService(dir, audit)

	user, err := svc.Authenticate(context.Background(), "sangavi", "password123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Contains(t, audit.actions, "LOGIN")
}

func TestAuthenticateWrongPassword(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(t, model.User{ID: "u-1", Username: "sangavi", IsActive: true}, "password123")
	audit := &fakeAudit{}
	svc := NewService(dir, audit)

	_, err := svc.Authenticate(context.Background(), "sangavi", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, audit.actions, "LOGIN_FAILED")
}

// Unknown usernames and wrong passwords return the same error.
func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(newFakeDirectory(), &fakeAudit{})

	_, err := svc.Authenticate(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateInactiveUser(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(t, model.User{ID: "u-1", Username: "sangavi", IsActive: false}, "password123")
	svc := NewService(dir, &fakeAudit{})

	_, err := svc.Authenticate(context.Background(), "sangavi", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTeachersFiltersByRole(t *testing.T) {
	dir := newFakeDirectory()
	dir.add(t, model.User{ID: "t-1", Username: "dr.sharma", Role: model.RoleTeacher, IsActive: true}, "x")
	dir.add(t, model.User{ID: "t-2", Username: "prof.patel", Role: model.RoleTeacher, IsActive: false}, "x")
	dir.add(t, model.User{ID: "u-1", Username: "sangavi", Role: model.RoleStudent, IsActive: true}, "x")
	svc := NewService(dir, &fakeAudit{})

	teachers, err := svc.Teachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "t-1", teachers[0].ID)
}

func TestSeedPopulatesRoster(t *testing.T) {
	dir := newFakeDirectory()
	require.NoError(t, Seed(context.Background(), dir))

	admin, hash, err := dir.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")))

	students, err := dir.ListActive(context.Background(), model.RoleStudent)
	require.NoError(t, err)
	assert.NotEmpty(t, students)
}
