package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/repositories"
)

// CourseRepository is a testify mock of repositories.ICourseRepository
type CourseRepository struct {
	mock.Mock
}

var _ repositories.ICourseRepository = (*CourseRepository)(nil)

func (m *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.([]*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) GetByName(ctx context.Context, name string) (*models.Course, error) {
	args := m.Called(ctx, name)
	if c := args.Get(0); c != nil {
		return c.(*models.Course), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CourseRepository) Create(ctx context.Context, name string, studentIDs []int64) (int64, error) {
	args := m.Called(ctx, name, studentIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CourseRepository) Update(ctx context.Context, id int64, name *string, studentIDs *[]int64) error {
	args := m.Called(ctx, id, name, studentIDs)
	return args.Error(0)
}

func (m *CourseRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
