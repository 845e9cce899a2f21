package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

func TestUserRepositoryCreateAndDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)
	dbc := dbctx.New(context.Background())

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("teacher1", "teacher1@school.test", "hash", "Teacher One", models.RoleTeacher, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	user := &models.User{Username: "teacher1", Email: "teacher1@school.test", PasswordHash: "hash", FullName: "Teacher One", Role: models.RoleTeacher}
	require.NoError(t, repo.Create(dbc, user))
	assert.Equal(t, int64(5), user.ID)

	err := repo.Create(dbc, &models.User{Username: "teacher1", Email: "other@school.test", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryExistsExcludesSelf(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE username = $1 AND id <> $2 LIMIT 1")).
		WithArgs("teacher1", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = $1 AND id <> $2 LIMIT 1")).
		WithArgs("teacher1@school.test", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByUsername(dbctx.New(context.Background()), "teacher1", 5)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByEmail(dbctx.New(context.Background()), "teacher1@school.test", 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListFiltersByRole(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)
	role := models.RoleTeacher

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE (role = $1)")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE (role = $1) ORDER BY full_name ASC, id ASC LIMIT 50 OFFSET 0")).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "full_name", "role", "created_at", "updated_at"}).
			AddRow(5, "teacher1", "teacher1@school.test", "hash", "Teacher One", "teacher", time.Now(), time.Now()))

	users, total, err := repo.List(dbctx.New(context.Background()), models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleTeacher, users[0].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
