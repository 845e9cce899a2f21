package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/repository"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type memUserRepo struct {
	users     map[int64]*models.User
	nextID    int64
	createErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (m *memUserRepo) List(dbc dbctx.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		if filter.Role == nil || u.Role == *filter.Role {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (m *memUserRepo) ListByRole(dbc dbctx.Context, role models.UserRole) ([]models.User, error) {
	users, _, err := m.List(dbc, models.UserFilter{Role: &role})
	return users, err
}

func (m *memUserRepo) FindByID(dbc dbctx.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ExistsByUsername(dbc dbctx.Context, username string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ExistsByEmail(dbc dbctx.Context, email string, excludeID int64) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) Create(dbc dbctx.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memUserRepo) Update(dbc dbctx.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func newUserServiceFixture() (*UserService, *memUserRepo, *txStub) {
	repo := newMemUserRepo()
	tx := &txStub{}
	svc := NewUserService(repo, tx, validator.New(), zap.NewNop(), "")
	svc.hashCost = bcrypt.MinCost
	return svc, repo, tx
}

func TestUserServiceCreateAssignsDefaultPassword(t *testing.T) {
	svc, repo, tx := newUserServiceFixture()

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "Teacher1@School.test", FullName: "Teacher One", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, "teacher1@school.test", user.Email)
	assert.Equal(t, "defaultpassword", svc.DefaultPassword())
	stored := repo.users[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("defaultpassword")))
}

func TestUserServiceCreateDuplicateUsernameLeavesFirstUntouched(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()
	first, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "one@school.test", FullName: "Teacher One", Role: models.RoleTeacher,
	})
	require.NoError(t, err)
	before := *repo.users[first.ID]

	_, err = svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "two@school.test", FullName: "Imposter", Role: models.RoleAdmin,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, `A user with the username "teacher1" already exists.`, appErr.Message)
	assert.Len(t, repo.users, 1)
	assert.Equal(t, before, *repo.users[first.ID])
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "one@school.test", FullName: "Teacher One", Role: models.RoleTeacher,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher2", Email: "one@school.test", FullName: "Teacher Two", Role: models.RoleTeacher,
	})
	assert.Equal(t, `A user with the email "one@school.test" already exists.`, appErrors.FromError(err).Message)
}

func TestUserServiceCreateRaceSurfacesConflict(t *testing.T) {
	svc, repo, _ := newUserServiceFixture()
	repo.createErr = fmt.Errorf("create user: %w", repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "one@school.test", FullName: "Teacher One", Role: models.RoleTeacher,
	})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc, _, tx := newUserServiceFixture()

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username: "teacher1", Email: "one@school.test", FullName: "Teacher One", Role: models.UserRole("student"),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Zero(t, tx.calls)
}

func TestUserServiceUpdateChecksOnlyChangedFields(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	one, err := svc.Create(context.Background(), CreateUserRequest{Username: "one", Email: "one@school.test", FullName: "One", Role: models.RoleTeacher})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateUserRequest{Username: "two", Email: "two@school.test", FullName: "Two", Role: models.RoleTeacher})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), one.ID, UpdateUserRequest{Username: "one", Email: "one@school.test", FullName: "One Renamed", Role: models.RolePrincipal})
	require.NoError(t, err)
	assert.Equal(t, "One Renamed", updated.FullName)
	assert.Equal(t, models.RolePrincipal, updated.Role)

	_, err = svc.Update(context.Background(), one.ID, UpdateUserRequest{Username: "two", Email: "one@school.test", FullName: "One", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Update(context.Background(), 99, UpdateUserRequest{Username: "ghost", Email: "ghost@school.test", FullName: "Ghost", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceListRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	role := models.UserRole("student")

	_, _, err := svc.List(context.Background(), models.UserFilter{Role: &role})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
