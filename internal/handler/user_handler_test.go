package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type fakeUserSrv struct {
	filter  models.UserFilter
	created service.CreateUserRequest
}

func (f *fakeUserSrv) List(_ context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.filter = filter
	return []models.User{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakeUserSrv) Get(_ context.Context, id int64) (*models.User, error) {
	if id != 1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	return &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}, nil
}

func (f *fakeUserSrv) Create(_ context.Context, req service.CreateUserRequest) (*models.User, error) {
	f.created = req
	if req.Username == "taken" {
		return nil, appErrors.Clone(appErrors.ErrConflict, `A user with the username "taken" already exists.`)
	}
	return &models.User{ID: 2, Username: req.Username, Role: req.Role}, nil
}

func (f *fakeUserSrv) Update(_ context.Context, id int64, req service.UpdateUserRequest) (*models.User, error) {
	return &models.User{ID: id, Username: req.Username}, nil
}

func (f *fakeUserSrv) DefaultPassword() string { return "defaultpassword" }

func TestUserHandlerCreateReportsDefaultPassword(t *testing.T) {
	srv := &fakeUserSrv{}
	c, rec := newTestContext(http.MethodPost, "/admin/user/create", `{"username":"teacher2","email":"t2@school.test","full_name":"Teacher Two","role":"teacher"}`)

	NewUserHandler(srv).Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "User teacher2 created with default password: defaultpassword", envelope.Meta["message"])
	assert.Equal(t, models.RoleTeacher, srv.created.Role)
}

func TestUserHandlerCreateConflict(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/admin/user/create", `{"username":"taken","email":"t@school.test","full_name":"T","role":"teacher"}`)

	NewUserHandler(&fakeUserSrv{}).Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUserHandlerListRoleFilter(t *testing.T) {
	srv := &fakeUserSrv{}
	c, rec := newTestContext(http.MethodGet, "/admin/users?role=principal&page=2", "")

	NewUserHandler(srv).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.filter.Role)
	assert.Equal(t, models.RolePrincipal, *srv.filter.Role)
	assert.Equal(t, 2, srv.filter.Page)
}

func TestUserHandlerEditFormNotFound(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/admin/user/9/edit", "")
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	NewUserHandler(&fakeUserSrv{}).EditForm(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
