package services_test

import (
	"context"

	"scholarsync/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockStudentRepository is a mock implementation of repositories.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) List(ctx context.Context, q models.StudentQuery) ([]models.Student, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Student), args.Get(1).(int64), args.Error(2)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func (m *MockStudentRepository) ExistsByStudentID(ctx context.Context, studentID, excludeID string) (bool, error) {
	args := m.Called(ctx, studentID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStudentRepository) Create(ctx context.Context, student *models.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudentRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) Stats(ctx context.Context) (*models.StudentStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentStats), args.Error(1)
}

// MockPublisher records published student events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishStudentEvent(event string, payload interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}
