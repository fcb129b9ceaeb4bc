package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/yigit/courseapi/internal/app/models"
	"github.com/yigit/courseapi/internal/app/repositories"
)

// UserRepository is a testify mock of repositories.IUserRepository
type UserRepository struct {
	mock.Mock
}

var _ repositories.IUserRepository = (*UserRepository)(nil)

func (m *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) UpdateToken(ctx context.Context, userID int64, token *string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}
