package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
)

const userColumns = "id, username, email, password_hash, full_name, role, created_at, updated_at"

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sqlx.DB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db, sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

// List returns users filtered by role and search keyword, newest first.
func (r *UserRepository) List(dbc dbctx.Context, filter models.UserFilter) ([]models.User, int, error) {
	where := squirrel.And{}
	if filter.Role != nil {
		where = append(where, squirrel.Eq{"role": *filter.Role})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		where = append(where, squirrel.Or{
			squirrel.Like{"LOWER(username)": like},
			squirrel.Like{"LOWER(full_name)": like},
			squirrel.Like{"LOWER(email)": like},
		})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count users: %w", err)
	}
	var total int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	page, size := normalisePage(filter.Page, filter.PageSize)
	query, args, err := r.sb.Select(userColumns).From("users").Where(where).
		OrderBy("full_name ASC", "id ASC").
		Limit(uint64(size)).Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}
	var users []models.User
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// ListByRole returns every user holding role ordered by full name.
func (r *UserRepository) ListByRole(dbc dbctx.Context, role models.UserRole) ([]models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE role = $1 ORDER BY full_name ASC", userColumns)
	var users []models.User
	if err := dbc.Executor(r.db).SelectContext(dbc.Context(), &users, query, role); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// FindByID fetches a user by ID.
func (r *UserRepository) FindByID(dbc dbctx.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	var user models.User
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername fetches a user by username.
func (r *UserRepository) FindByUsername(dbc dbctx.Context, username string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE username = $1", userColumns)
	var user models.User
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether another user already holds username.
func (r *UserRepository) ExistsByUsername(dbc dbctx.Context, username string, excludeID int64) (bool, error) {
	return r.exists(dbc, "username", username, excludeID)
}

// ExistsByEmail reports whether another user already holds email.
func (r *UserRepository) ExistsByEmail(dbc dbctx.Context, email string, excludeID int64) (bool, error) {
	return r.exists(dbc, "email", email, excludeID)
}

func (r *UserRepository) exists(dbc dbctx.Context, column, value string, excludeID int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM users WHERE %s = $1 AND id <> $2 LIMIT 1", column)
	var one int
	if err := dbc.Executor(r.db).GetContext(dbc.Context(), &one, query, value, excludeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new user and populates its ID.
func (r *UserRepository) Create(dbc dbctx.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO users (username, email, password_hash, full_name, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := dbc.Executor(r.db).QueryRowxContext(dbc.Context(), query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Role, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return wrapWrite("create user", err)
	}
	return nil
}

// Update modifies profile fields of an existing user.
func (r *UserRepository) Update(dbc dbctx.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET username = :username, email = :email, full_name = :full_name, role = :role, updated_at = :updated_at WHERE id = :id`
	result, err := dbc.Executor(r.db).NamedExecContext(dbc.Context(), query, user)
	if err != nil {
		return wrapWrite("update user", err)
	}
	return expectAffected(result, "update user")
}

func normalisePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	return page, size
}

func expectAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
