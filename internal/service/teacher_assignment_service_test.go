package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/pkg/dbctx"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type memAssignmentRepo struct {
	rows   []models.TeacherAssignment
	nextID int64
}

func sameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memAssignmentRepo) List(dbc dbctx.Context) ([]models.TeacherAssignmentDetail, error) {
	out := make([]models.TeacherAssignmentDetail, len(m.rows))
	for i, row := range m.rows {
		out[i] = models.TeacherAssignmentDetail{TeacherAssignment: row}
	}
	return out, nil
}

func (m *memAssignmentRepo) ListByTeacher(dbc dbctx.Context, teacherID int64) ([]models.TeacherAssignmentDetail, error) {
	var out []models.TeacherAssignmentDetail
	for _, row := range m.rows {
		if row.TeacherID == teacherID {
			out = append(out, models.TeacherAssignmentDetail{TeacherAssignment: row})
		}
	}
	return out, nil
}

func (m *memAssignmentRepo) IsAuthorized(dbc dbctx.Context, teacherID, classID, subjectID int64) (bool, error) {
	for _, row := range m.rows {
		if row.TeacherID == teacherID && row.ClassID == classID && row.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAssignmentRepo) Exists(dbc dbctx.Context, a *models.TeacherAssignment) (bool, error) {
	for _, row := range m.rows {
		if row.TeacherID == a.TeacherID && row.ClassID == a.ClassID && row.SubjectID == a.SubjectID &&
			sameRef(row.SectionID, a.SectionID) && sameRef(row.GroupID, a.GroupID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAssignmentRepo) Create(dbc dbctx.Context, a *models.TeacherAssignment) error {
	m.nextID++
	a.ID = m.nextID
	m.rows = append(m.rows, *a)
	return nil
}

func (m *memAssignmentRepo) Delete(dbc dbctx.Context, id int64) error {
	for i, row := range m.rows {
		if row.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type divisionStub struct {
	sections map[int64]*models.Section
	groups   map[int64]*models.Group
}

func (d divisionStub) FindSection(dbc dbctx.Context, id int64) (*models.Section, error) {
	if s, ok := d.sections[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (d divisionStub) FindGroup(dbc dbctx.Context, id int64) (*models.Group, error) {
	if g, ok := d.groups[id]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func newAssignmentFixture() (*TeacherAssignmentService, *memAssignmentRepo) {
	users := newMemUserRepo()
	users.users[2] = &models.User{ID: 2, Username: "teacher1", FullName: "Teacher One", Role: models.RoleTeacher}
	users.users[3] = &models.User{ID: 3, Username: "principal", FullName: "Principal", Role: models.RolePrincipal}
	subjects := subjectFinderStub{4: {ID: 4, Name: "English", ClassID: 1}}
	divisions := divisionStub{
		sections: map[int64]*models.Section{5: {ID: 5, Name: "A", ClassID: 1}, 6: {ID: 6, Name: "A", ClassID: 2}},
		groups:   map[int64]*models.Group{},
	}
	repo := &memAssignmentRepo{}
	return NewTeacherAssignmentService(repo, users, subjects, divisions, &txStub{}, nil, nil), repo
}

func TestTeacherAssignmentServiceRejectsDuplicateTuple(t *testing.T) {
	svc, repo := newAssignmentFixture()
	req := CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, SectionID: int64Ptr(5)}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "This assignment already exists.", appErr.Message)
	assert.Len(t, repo.rows, 1)
}

func TestTeacherAssignmentServiceNullSectionIsDistinct(t *testing.T) {
	svc, repo := newAssignmentFixture()

	_, err := svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, SectionID: int64Ptr(5)})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Len(t, repo.rows, 2)
}

func TestTeacherAssignmentServiceValidatesReferences(t *testing.T) {
	svc, repo := newAssignmentFixture()
	cases := []struct {
		name string
		req  CreateTeacherAssignmentRequest
		want *appErrors.Error
	}{
		{"not a teacher", CreateTeacherAssignmentRequest{TeacherID: 3, ClassID: 1, SubjectID: 4}, appErrors.ErrValidation},
		{"unknown teacher", CreateTeacherAssignmentRequest{TeacherID: 9, ClassID: 1, SubjectID: 4}, appErrors.ErrNotFound},
		{"subject in other class", CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 2, SubjectID: 4}, appErrors.ErrValidation},
		{"section in other class", CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, SectionID: int64Ptr(6)}, appErrors.ErrValidation},
		{"unknown group", CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, GroupID: int64Ptr(7)}, appErrors.ErrNotFound},
		{"missing subject", CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1}, appErrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, repo.rows)
}

func TestTeacherAssignmentServiceDeleteRemovesExactlyOne(t *testing.T) {
	svc, repo := newAssignmentFixture()
	first, err := svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, SectionID: int64Ptr(5)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), first.ID))
	require.Len(t, repo.rows, 1)
	assert.Equal(t, second.ID, repo.rows[0].ID)

	assert.ErrorIs(t, svc.Delete(context.Background(), first.ID), appErrors.ErrNotFound)
}

func TestTeacherAssignmentServiceIsAuthorizedIgnoresSection(t *testing.T) {
	svc, _ := newAssignmentFixture()
	_, err := svc.Create(context.Background(), CreateTeacherAssignmentRequest{TeacherID: 2, ClassID: 1, SubjectID: 4, SectionID: int64Ptr(5)})
	require.NoError(t, err)

	ok, err := svc.IsAuthorized(context.Background(), 2, 1, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAuthorized(context.Background(), 2, 2, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTeacherAssignmentServiceTeacherOptions(t *testing.T) {
	svc, _ := newAssignmentFixture()

	options, err := svc.TeacherOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Option{{ID: 2, Name: "Teacher One"}}, options)
}
