package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/repositories"
)

// StudentRepository is a testify mock of repositories.IStudentRepository
type StudentRepository struct {
	mock.Mock
}

var _ repositories.IStudentRepository = (*StudentRepository)(nil)

func (m *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]*models.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*models.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) GetByName(ctx context.Context, name string) (*models.Student, error) {
	args := m.Called(ctx, name)
	if s := args.Get(0); s != nil {
		return s.(*models.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StudentRepository) Create(ctx context.Context, name string, courseIDs []int64) (int64, error) {
	args := m.Called(ctx, name, courseIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *StudentRepository) Update(ctx context.Context, id int64, name *string, courseIDs *[]int64) error {
	args := m.Called(ctx, id, name, courseIDs)
	return args.Error(0)
}

func (m *StudentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
