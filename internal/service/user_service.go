package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type userRepository interface {
	List(dbc dbctx.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(dbc dbctx.Context, id int64) (*models.User, error)
	ExistsByUsername(dbc dbctx.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(dbc dbctx.Context, email string, excludeID int64) (bool, error)
	Create(dbc dbctx.Context, user *models.User) error
	Update(dbc dbctx.Context, user *models.User) error
}

// CreateUserRequest represents payload for creating users.
type CreateUserRequest struct {
	Username string          `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email    string          `json:"email" form:"email" validate:"required,email,max=120"`
	FullName string          `json:"full_name" form:"full_name" validate:"required,max=120"`
	Role     models.UserRole `json:"role" form:"role" validate:"required,oneof=admin teacher principal"`
}

// UpdateUserRequest payload for updating users.
type UpdateUserRequest struct {
	Username string          `json:"username" form:"username" validate:"required,min=3,max=64"`
	Email    string          `json:"email" form:"email" validate:"required,email,max=120"`
	FullName string          `json:"full_name" form:"full_name" validate:"required,max=120"`
	Role     models.UserRole `json:"role" form:"role" validate:"required,oneof=admin teacher principal"`
}

// UserService handles user management workflows.
type UserService struct {
	repo            userRepository
	tx              txRunner
	validator       *validator.Validate
	logger          *zap.Logger
	defaultPassword string
	hashCost        int
}

// NewUserService creates an instance of UserService. New accounts receive
// defaultPassword until the user changes it.
func NewUserService(repo userRepository, tx txRunner, validate *validator.Validate, logger *zap.Logger, defaultPassword string) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if defaultPassword == "" {
		defaultPassword = "defaultpassword"
	}
	return &UserService{
		repo:            repo,
		tx:              tx,
		validator:       validate,
		logger:          logger,
		defaultPassword: defaultPassword,
		hashCost:        bcrypt.DefaultCost,
	}
}

// DefaultPassword returns the password assigned to newly created users.
func (s *UserService) DefaultPassword() string {
	return s.defaultPassword
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	if filter.Role != nil && !filter.Role.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role filter")
	}
	users, total, err := s.repo.List(read(ctx), filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(read(ctx), id)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	return user, nil
}

// Create adds a new user holding the default password.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid create user payload")
	}

	if err := s.ensureUnique(ctx, req.Username, req.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), s.hashCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.Create(dbc, user)
	}); err != nil {
		return nil, saveError(err, "A user with that username or email already exists.", "could not save user")
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update modifies the user attributes. Username and email are only
// re-checked for uniqueness when they change.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid update user payload")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	username, email := "", ""
	if req.Username != current.Username {
		username = req.Username
	}
	if req.Email != current.Email {
		email = req.Email
	}
	if err := s.ensureUnique(ctx, username, email, id); err != nil {
		return nil, err
	}

	updated := *current
	updated.Username = req.Username
	updated.Email = req.Email
	updated.FullName = req.FullName
	updated.Role = req.Role
	if err := s.tx.WithinTx(ctx, func(dbc dbctx.Context) error {
		return s.repo.Update(dbc, &updated)
	}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, saveError(err, "A user with that username or email already exists.", "could not save user")
	}
	return &updated, nil
}

// ensureUnique pre-checks the non-empty username and email. The unique
// constraints still decide races.
func (s *UserService) ensureUnique(ctx context.Context, username, email string, excludeID int64) error {
	if username != "" {
		taken, err := s.repo.ExistsByUsername(read(ctx), username, excludeID)
		if err != nil {
			return appErrors.Internal(err, "failed to check username uniqueness")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("A user with the username %q already exists.", username))
		}
	}
	if email != "" {
		taken, err := s.repo.ExistsByEmail(read(ctx), email, excludeID)
		if err != nil {
			return appErrors.Internal(err, "failed to check email uniqueness")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("A user with the email %q already exists.", email))
		}
	}
	return nil
}
