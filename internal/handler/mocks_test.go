package handler_test

import (
	"context"
	"time"

	"taskmanager/internal/model"
	"taskmanager/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]repository.UserDirectoryEntry, error) {
	args := m.Called(ctx)
	entries := args.Get(0)
	if entries == nil {
		return nil, args.Error(1)
	}
	return entries.([]repository.UserDirectoryEntry), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) List(ctx context.Context, limit, offset int) ([]model.Group, int64, error) {
	args := m.Called(ctx, limit, offset)
	groups := args.Get(0)
	if groups == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return groups.([]model.Group), args.Get(1).(int64), args.Error(2)
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	args := m.Called(ctx, id)
	group := args.Get(0)
	if group == nil {
		return nil, args.Error(1)
	}
	return group.(*model.Group), args.Error(1)
}

func (m *MockGroupRepository) Update(ctx context.Context, group *model.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGroupRepository) Members(ctx context.Context, groupID uuid.UUID, limit, offset int) ([]model.User, int64, error) {
	args := m.Called(ctx, groupID, limit, offset)
	users := args.Get(0)
	if users == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return users.([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockGroupRepository) AddMembers(ctx context.Context, groupID uuid.UUID, userIDs []uuid.UUID) error {
	args := m.Called(ctx, groupID, userIDs)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) GroupIDsOf(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	ids := args.Get(0)
	if ids == nil {
		return nil, args.Error(1)
	}
	return ids.([]uuid.UUID), args.Error(1)
}

func (m *MockGroupRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID, includeTrashed bool) (*model.Task, error) {
	args := m.Called(ctx, id, includeTrashed)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, limit, offset int) ([]model.Task, int64, error) {
	args := m.Called(ctx, limit, offset)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return tasks.([]model.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) ListTrashed(ctx context.Context, limit, offset int) ([]model.Task, int64, error) {
	args := m.Called(ctx, limit, offset)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return tasks.([]model.Task), args.Get(1).(int64), args.Error(2)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) ForceDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, taskID, assignmentID uuid.UUID) (*model.Assignment, error) {
	args := m.Called(ctx, taskID, assignmentID)
	assignment := args.Get(0)
	if assignment == nil {
		return nil, args.Error(1)
	}
	return assignment.(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, assignmentID uuid.UUID) (*model.Assignment, error) {
	args := m.Called(ctx, assignmentID)
	assignment := args.Get(0)
	if assignment == nil {
		return nil, args.Error(1)
	}
	return assignment.(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, assignmentID uuid.UUID) error {
	args := m.Called(ctx, assignmentID)
	return args.Error(0)
}

func (m *MockAssignmentRepository) UpdateStatus(ctx context.Context, assignmentID uuid.UUID, status string) (*model.Assignment, error) {
	args := m.Called(ctx, assignmentID, status)
	assignment := args.Get(0)
	if assignment == nil {
		return nil, args.Error(1)
	}
	return assignment.(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByTask(ctx context.Context, taskID uuid.UUID, limit, offset int) ([]model.Assignment, int64, error) {
	args := m.Called(ctx, taskID, limit, offset)
	assignments := args.Get(0)
	if assignments == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return assignments.([]model.Assignment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssignmentRepository) ResolveAssignee(ctx context.Context, assigneeType string, assigneeID uuid.UUID) (string, bool, error) {
	args := m.Called(ctx, assigneeType, assigneeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAssignmentRepository) AssignedUsers(ctx context.Context, taskID uuid.UUID) ([]model.UserSummary, error) {
	args := m.Called(ctx, taskID)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.UserSummary), args.Error(1)
}

func (m *MockAssignmentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) CountForAssignee(ctx context.Context, userID uuid.UUID, groupIDs []uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, userID, groupIDs, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Upsert(ctx context.Context, email, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, email, otp, expiresAt)
	return args.Error(0)
}

func (m *MockOTPRepository) Find(ctx context.Context, email, otp string) (*model.PasswordResetOTP, error) {
	args := m.Called(ctx, email, otp)
	record := args.Get(0)
	if record == nil {
		return nil, args.Error(1)
	}
	return record.(*model.PasswordResetOTP), args.Error(1)
}

func (m *MockOTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
