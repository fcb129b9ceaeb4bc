package services_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/models/dto"
	"github.com/yigit/courseapi/internal/app/repositories"
	"github.com/yigit/courseapi/internal/app/repositories/mocks"
	"github.com/yigit/courseapi/internal/app/services"
	"github.com/yigit/courseapi/internal/pkg/apperrors"
)

func TestCourseService_Create_DuplicateName(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.On("GetByName", ctx, "Math").Return(&models.Course{ID: 1, Name: "Math"}, nil).Once()

	_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "Math"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseService_Create_WithStudents(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	stored := &models.Course{
		ID:       4,
		Name:     "Physics",
		Students: []models.StudentRef{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Bob"}},
	}

	repo.On("GetByName", ctx, "Physics").Return(nil, repositories.ErrNotFound).Once()
	repo.On("Create", ctx, "Physics", []int64{2, 1, 42}).Return(int64(4), nil).Once()
	repo.On("GetByID", ctx, int64(4)).Return(stored, nil).Once()

	course, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "  Physics ", StudentIDs: []int64{2, 1, 42}})

	require.NoError(t, err)
	assert.Equal(t, stored, course)
	repo.AssertExpectations(t)
}

func TestCourseService_Create_BlankName(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())

	_, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Name: "   "})

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCourseService_GetUpdateGet(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	before := &models.Course{ID: 1, Name: "Math", Students: []models.StudentRef{}}
	after := &models.Course{ID: 1, Name: "Algebra", Students: []models.StudentRef{{ID: 3, Name: "Cy"}}}
	newName := "Algebra"
	ids := []int64{3}

	repo.On("GetByID", ctx, int64(1)).Return(before, nil).Twice()
	repo.On("GetByName", ctx, "Algebra").Return(nil, repositories.ErrNotFound).Once()
	repo.On("Update", ctx, int64(1), &newName, &ids).Return(nil).Once()
	repo.On("GetByID", ctx, int64(1)).Return(after, nil)

	got, err := svc.GetCourseByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Math", got.Name)

	updated, err := svc.UpdateCourse(ctx, 1, &dto.UpdateCourseRequest{Name: &newName, StudentIDs: &ids})
	require.NoError(t, err)
	assert.Equal(t, after, updated)

	got, err = svc.GetCourseByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", got.Name)
	repo.AssertExpectations(t)
}

func TestCourseService_Update_NameTakenByOtherCourse(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()
	name := "Physics"

	repo.On("GetByID", ctx, int64(1)).Return(&models.Course{ID: 1, Name: "Math"}, nil).Once()
	repo.On("GetByName", ctx, "Physics").Return(&models.Course{ID: 2, Name: "Physics"}, nil).Once()

	_, err := svc.UpdateCourse(ctx, 1, &dto.UpdateCourseRequest{Name: &name})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCourseService_Update_KeepingOwnName(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()
	name := "Math"
	course := &models.Course{ID: 1, Name: "Math", Students: []models.StudentRef{}}

	repo.On("GetByID", ctx, int64(1)).Return(course, nil)
	repo.On("GetByName", ctx, "Math").Return(course, nil).Once()
	repo.On("Update", ctx, int64(1), &name, (*[]int64)(nil)).Return(nil).Once()

	_, err := svc.UpdateCourse(ctx, 1, &dto.UpdateCourseRequest{Name: &name})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCourseService_Update_UnknownID(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(9)).Return(nil, repositories.ErrNotFound).Once()

	_, err := svc.UpdateCourse(ctx, 9, &dto.UpdateCourseRequest{})

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, "Course with ID 9 not found", err.Error())
}

func TestCourseService_Delete_UnknownID(t *testing.T) {
	repo := new(mocks.CourseRepository)
	svc := services.NewCourseService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.On("Delete", ctx, int64(9)).Return(repositories.ErrNotFound).Once()

	err := svc.DeleteCourse(ctx, 9)

	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	repo.AssertExpectations(t)
}
